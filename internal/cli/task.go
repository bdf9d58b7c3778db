// task.go implements the "tomo task" command group: add, list, done, rm.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomo-dev/tomo/internal/stats"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks that sessions can be attributed to",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks with completed pomodoro counts",
	RunE:  runTaskList,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [id]",
	Short: "Mark a task done",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

var taskRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a task (its recorded sessions stay)",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskRm,
}

func init() {
	taskAddCmd.Flags().Int("estimate", 1, "Estimated pomodoros to finish the task")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskRmCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	estimate, _ := cmd.Flags().GetInt("estimate")
	task, err := app.store.CreateTask(args[0], estimate)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}

	fmt.Printf("Added task %s: %s\n", shortID(task.ID), task.Title)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	tasks, err := app.store.ListTasks()
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks. Add one with: tomo task add \"title\"")
		return nil
	}

	records, err := app.loadRecords()
	if err != nil {
		return err
	}
	completed := stats.CompletedByTask(records)

	for _, t := range tasks {
		marker := " "
		if t.Done {
			marker = "x"
		}
		fmt.Printf("  [%s] %s  %-40s  %d/%d\n", marker, shortID(t.ID), t.Title, completed[t.ID], t.EstimatedPomodoros)
	}
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	task, err := app.store.ResolveTask(args[0])
	if err != nil {
		return err
	}
	if err := app.store.SetTaskDone(task.ID, true); err != nil {
		return fmt.Errorf("marking task done: %w", err)
	}

	fmt.Printf("Done: %s\n", task.Title)
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	task, err := app.store.ResolveTask(args[0])
	if err != nil {
		return err
	}
	if err := app.store.DeleteTask(task.ID); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	fmt.Printf("Removed: %s\n", task.Title)
	return nil
}

// shortID truncates a uuid for display; resolution accepts any unique
// prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
