// note.go implements the "tomo note" command for per-day journal notes.
package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note [text...]",
	Short: "Attach a note to a day, or list recent notes",
	Long: `With arguments, records the text as the note for today (or the day
given via --date). Without arguments, lists the most recent notes.
Noting a day again replaces its previous note.`,
	Args: cobra.ArbitraryArgs,
	RunE: runNote,
}

var noteDateFlag string

// recentNotes caps how many days the listing shows.
const recentNotes = 7

func init() {
	noteCmd.Flags().StringVar(&noteDateFlag, "date", "", "Day the note belongs to (YYYY-MM-DD, default today)")
}

func runNote(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if len(args) == 0 {
		return listNotes(app)
	}

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("note text is empty")
	}
	if err := app.journal.AppendNote(noteDateFlag, text); err != nil {
		return fmt.Errorf("writing note: %w", err)
	}

	day := noteDateFlag
	if day == "" {
		day = "today"
	}
	fmt.Printf("Noted %s: %s\n", day, text)
	return nil
}

func listNotes(app *app) error {
	notes, skipped, err := app.journal.LoadNotes()
	if err != nil {
		return fmt.Errorf("reading notes: %w", err)
	}
	if skipped > 0 {
		fmt.Fprintf(os.Stderr, "Warning: skipped %d corrupt note line(s)\n", skipped)
	}
	if len(notes) == 0 {
		fmt.Println("No notes yet. Write one with: tomo note \"shipped the importer\"")
		return nil
	}

	dates := make([]string, 0, len(notes))
	for d := range notes {
		dates = append(dates, d)
	}
	// Newest first; day strings sort lexicographically.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > recentNotes {
		dates = dates[:recentNotes]
	}

	for _, d := range dates {
		fmt.Printf("  %s  %s\n", d, notes[d])
	}
	return nil
}
