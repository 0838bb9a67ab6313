package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhollis/evlog/internal/clock"
)

var (
	missingFrom  string
	missingTo    string
	missingDate  string
	missingNotes string
)

var missingCmd = &cobra.Command{
	Use:   "missing <event>",
	Short: "Retroactively log an event that was not tracked in real time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, tracker, err := loadTracker()
		if err != nil {
			return err
		}

		day := clock.System{}.Now()
		if missingDate != "" {
			day, err = time.ParseInLocation("2006-01-02", missingDate, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --date (want YYYY-MM-DD): %w", err)
			}
		}

		start, err := parseClockOn(day, missingFrom)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		end, err := parseClockOn(day, missingTo)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}

		if err := tracker.RecordMissing(args[0], start, end, missingNotes); err != nil {
			return err
		}

		// The active-event slot is untouched, but the save keeps the
		// state file's snapshot current either way.
		if err := store.Save(tracker.Session()); err != nil {
			return err
		}

		cmd.Printf("Missing event %q logged (%s – %s).\n",
			args[0], start.Format("15:04:05"), end.Format("15:04:05"))
		return nil
	},
}

// parseClockOn combines a HH:MM or HH:MM:SS clock reading with the given day.
func parseClockOn(day time.Time, value string) (time.Time, error) {
	var t time.Time
	var err error
	for _, layout := range []string{"15:04:05", "15:04"} {
		t, err = time.Parse(layout, value)
		if err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, day.Location()), nil
		}
	}
	return time.Time{}, err
}

func init() {
	missingCmd.Flags().StringVar(&missingFrom, "from", "", "Start time, HH:MM or HH:MM:SS (required)")
	missingCmd.Flags().StringVar(&missingTo, "to", "", "End time, HH:MM or HH:MM:SS (required)")
	missingCmd.Flags().StringVar(&missingDate, "date", "", "Date of the event, YYYY-MM-DD (default today)")
	missingCmd.Flags().StringVarP(&missingNotes, "message", "m", "", "Notes appended after the Missing event flag")
	missingCmd.MarkFlagRequired("from")
	missingCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(missingCmd)
}
