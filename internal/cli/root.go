// Package cli defines Cobra command definitions for the tomo CLI.
// This file contains the root command, version flag, and help output.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomo-dev/tomo/internal/tui"
	"github.com/tomo-dev/tomo/internal/ui"
)

var version = "dev" // set via ldflags at build time

var rootCmd = &cobra.Command{
	Use:   "tomo",
	Short: "Adaptive pomodoro timer for the terminal",
	Long: `Tomo is a pomodoro timer that adapts to how you actually work.
It keeps focus and break sessions in an append-only journal, tunes the
next duration to your recent consistency, and tracks streaks, tasks,
day notes and wall-clock alarms in one place.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// When no subcommand is provided, launch the dashboard if TTY,
		// show help otherwise.
		if !ui.IsTTY() {
			return cmd.Help()
		}

		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		machine, err := app.newMachine()
		if err != nil {
			return err
		}
		defer machine.Close()
		machine.Run()

		mon, err := app.startAlarmMonitor()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: alarms unavailable: %v\n", err)
		} else {
			defer mon.Stop()
		}

		return tui.Run(tui.Deps{
			Config:  app.cfg,
			DataDir: app.dir,
			Journal: app.journal,
			Store:   app.store,
			Bus:     app.bus,
			Machine: machine,
			Monitor: mon,
			OnAlarm: app.handleAlarmFired,
		})
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(alarmCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(cleanCmd)
}
