// init.go implements the "tomo init" command which creates the data
// directory with a default configuration.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomo-dev/tomo/internal/config"
	"github.com/tomo-dev/tomo/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the tomo data directory and default config",
	Long: `Create the data directory (~/.tomo, or $TOMO_HOME) with a default
config.yaml and an empty task store. The session journal is created on
first use. Re-running init offers to rewrite the config; journal and
tasks are never touched.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := config.DataDir()
	if err != nil {
		return err
	}

	// Check for an existing configuration.
	if _, statErr := os.Stat(filepath.Join(dir, "config.yaml")); statErr == nil {
		fmt.Printf("Warning: %s is already initialized.\n", dir)
		fmt.Print("Rewrite config.yaml with defaults? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := config.WriteConfig(dir, config.DefaultConfig()); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Opening the store creates tomo.db with its schema.
	st, err := store.Open(dir)
	if err != nil {
		return fmt.Errorf("creating task store: %w", err)
	}
	if err := st.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
	}

	fmt.Printf("Initialized %s\n", dir)
	fmt.Println("  config.yaml    durations, cycle length, planner policy")
	fmt.Println("  tomo.db        tasks and alarms")
	fmt.Println("  journal.jsonl  session history (created on first session)")
	fmt.Println()
	fmt.Println("Start a focus session with: tomo start")
	return nil
}
