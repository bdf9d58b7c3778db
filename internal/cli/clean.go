// clean.go implements the "tomo clean" command for data directory cleanup.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomo-dev/tomo/internal/export"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove old exports, optionally the session history",
	Long: `Removes CSV exports beyond the configured keep count (override with
--exports). With --journal the whole session history is truncated after
a confirmation. Use --dry-run to preview what would be removed.`,
	RunE: runClean,
}

var (
	cleanExportsFlag int
	cleanJournalFlag bool
	cleanDryRunFlag  bool
)

func init() {
	cleanCmd.Flags().IntVar(&cleanExportsFlag, "exports", 0, "Keep only the last N exports (0 = configured keep count)")
	cleanCmd.Flags().BoolVar(&cleanJournalFlag, "journal", false, "Truncate the session journal")
	cleanCmd.Flags().BoolVar(&cleanDryRunFlag, "dry-run", false, "Preview what would be removed without deleting")
}

func runClean(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	keep := cleanExportsFlag
	if keep <= 0 {
		keep = app.cfg.Exports.Keep
	}

	pruned, err := export.PruneKeepRecent(app.dir, keep, cleanDryRunFlag)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	verb := "Removed"
	if cleanDryRunFlag {
		verb = "Would remove"
	}

	if len(pruned) == 0 {
		fmt.Println("No exports to clean up.")
	} else {
		for _, name := range pruned {
			fmt.Printf("  %s %s\n", verb, name)
		}
		fmt.Printf("%s %d export(s).\n", verb, len(pruned))
	}

	if !cleanJournalFlag {
		return nil
	}
	if cleanDryRunFlag {
		fmt.Printf("Would truncate %s\n", app.journal.Path())
		return nil
	}

	fmt.Println("This deletes the whole session history.")
	fmt.Print("Truncate the journal? [y/N]: ")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(answer)) != "y" {
		fmt.Println("Keeping the journal.")
		return nil
	}

	if err := app.journal.Clear(); err != nil {
		return fmt.Errorf("truncating journal: %w", err)
	}
	fmt.Println("Journal truncated.")
	return nil
}
