// export.go implements the "tomo export" command: session history to CSV.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomo-dev/tomo/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session history to CSV",
	Long: `Writes every journaled session as one CSV row. Without --out the
file lands in the exports/ directory under the data dir with a
timestamped name, and old exports beyond the configured keep count are
pruned.`,
	RunE: runExport,
}

var exportOutFlag string

func init() {
	exportCmd.Flags().StringVar(&exportOutFlag, "out", "", "Write to this path instead of the exports directory")
}

func runExport(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	records, err := app.loadRecords()
	if err != nil {
		return err
	}
	titles := app.taskTitles()

	if exportOutFlag != "" {
		if err := export.WriteTo(exportOutFlag, records, titles); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		fmt.Printf("Exported %d session(s) to %s\n", len(records), exportOutFlag)
		return nil
	}

	path, err := export.WriteFile(app.dir, records, titles)
	if err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	fmt.Printf("Exported %d session(s) to %s\n", len(records), path)

	// Housekeeping is best-effort; the export itself already succeeded.
	removed, err := export.PruneKeepRecent(app.dir, app.cfg.Exports.Keep, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to prune old exports: %v\n", err)
		return nil
	}
	if len(removed) > 0 {
		fmt.Fprintf(os.Stderr, "Cleaned up %d old export(s)\n", len(removed))
	}
	return nil
}
