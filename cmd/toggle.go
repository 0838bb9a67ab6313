package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mhollis/evlog/internal/eventlog"
	"github.com/mhollis/evlog/internal/session"
)

var toggleNotes string

var toggleCmd = &cobra.Command{
	Use:   "toggle <event>",
	Short: "Start the named event, or end it if it is the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, tracker, err := loadTracker()
		if err != nil {
			return err
		}

		res, err := tracker.Toggle(args[0], toggleNotes)
		if err != nil {
			return err
		}

		if err := store.Save(tracker.Session()); err != nil {
			return err
		}

		switch res.Status {
		case session.StatusStarted:
			cmd.Printf("%s has started.\n", res.Name)
		case session.StatusEnded:
			cmd.Printf("%s ended (%s).\n", res.Name, eventlog.FormatDuration(res.End.Sub(res.Start)))
		}
		return nil
	},
}

func init() {
	toggleCmd.Flags().StringVarP(&toggleNotes, "message", "m", "", "Notes to attach when the toggle ends the event")
	rootCmd.AddCommand(toggleCmd)
}
