// alarm.go implements the "tomo alarm" command group: add, list, rm,
// enable, disable.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var alarmCmd = &cobra.Command{
	Use:   "alarm",
	Short: "Manage wall-clock alarms",
	Long: `Alarms fire at a time of day while a tomo session or the dashboard
is running. HH:MM alarms fire once within their minute; HH:MM:SS alarms
match to the second. One-shot alarms disable themselves after firing.`,
}

var alarmAddCmd = &cobra.Command{
	Use:   "add [HH:MM | HH:MM:SS]",
	Short: "Add an alarm",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlarmAdd,
}

var alarmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alarms",
	RunE:  runAlarmList,
}

var alarmRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete an alarm",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlarmRm,
}

var alarmEnableCmd = &cobra.Command{
	Use:   "enable [id]",
	Short: "Enable an alarm",
	Args:  cobra.ExactArgs(1),
	RunE:  makeAlarmToggle(true),
}

var alarmDisableCmd = &cobra.Command{
	Use:   "disable [id]",
	Short: "Disable an alarm without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE:  makeAlarmToggle(false),
}

var (
	alarmLabelFlag string
	alarmSoundFlag string
	alarmOnceFlag  bool
)

func init() {
	alarmAddCmd.Flags().StringVar(&alarmLabelFlag, "label", "", "Label announced when the alarm fires")
	alarmAddCmd.Flags().StringVar(&alarmSoundFlag, "sound", "", "Sound reference (defaults to the configured sound)")
	alarmAddCmd.Flags().BoolVar(&alarmOnceFlag, "once", false, "Fire once, then disable")

	alarmCmd.AddCommand(alarmAddCmd)
	alarmCmd.AddCommand(alarmListCmd)
	alarmCmd.AddCommand(alarmRmCmd)
	alarmCmd.AddCommand(alarmEnableCmd)
	alarmCmd.AddCommand(alarmDisableCmd)
}

func runAlarmAdd(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	sound := alarmSoundFlag
	if sound == "" {
		sound = app.cfg.Sound
	}

	a, err := app.store.CreateAlarm(args[0], alarmLabelFlag, sound, !alarmOnceFlag)
	if err != nil {
		return fmt.Errorf("creating alarm: %w", err)
	}

	kind := "daily"
	if !a.Repeat {
		kind = "one-shot"
	}
	fmt.Printf("Added %s alarm %s at %s\n", kind, shortID(a.ID), a.TimeOfDay)
	return nil
}

func runAlarmList(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	alarms, err := app.store.ListAlarms()
	if err != nil {
		return fmt.Errorf("listing alarms: %w", err)
	}
	if len(alarms) == 0 {
		fmt.Println("No alarms. Add one with: tomo alarm add 07:30")
		return nil
	}

	for _, a := range alarms {
		marker := " "
		if a.Enabled {
			marker = "x"
		}
		kind := "daily"
		if !a.Repeat {
			kind = "once"
		}
		label := a.Label
		if label == "" {
			label = "-"
		}
		fmt.Printf("  [%s] %s  %-8s  %-5s  %s\n", marker, shortID(a.ID), a.TimeOfDay, kind, label)
	}
	return nil
}

func runAlarmRm(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	a, err := app.store.ResolveAlarm(args[0])
	if err != nil {
		return err
	}
	if err := app.store.DeleteAlarm(a.ID); err != nil {
		return fmt.Errorf("deleting alarm: %w", err)
	}

	fmt.Printf("Removed alarm at %s\n", a.TimeOfDay)
	return nil
}

// makeAlarmToggle builds the enable/disable RunE sharing one body.
func makeAlarmToggle(enabled bool) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		a, err := app.store.ResolveAlarm(args[0])
		if err != nil {
			return err
		}
		if err := app.store.SetAlarmEnabled(a.ID, enabled); err != nil {
			return fmt.Errorf("updating alarm: %w", err)
		}

		verb := "Enabled"
		if !enabled {
			verb = "Disabled"
		}
		fmt.Printf("%s alarm at %s\n", verb, a.TimeOfDay)
		return nil
	}
}
