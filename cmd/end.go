package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var endAbortActive bool
var endNotes string

var endCmd = &cobra.Command{
	Use:   "end",
	Short: "Close the session with a SESSION END marker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, tracker, err := loadTracker()
		if err != nil {
			return err
		}

		if tracker.HasActiveEvent() {
			if !endAbortActive {
				return fmt.Errorf("event %q is still active — end it, or rerun with --abort-active",
					tracker.ActiveEventName())
			}
			name, err := tracker.Abort(endNotes)
			if err != nil {
				return err
			}
			// Persist the cleared slot so a failed End cannot re-abort
			// and write a duplicate row on retry.
			if err := store.Save(tracker.Session()); err != nil {
				return err
			}
			cmd.Printf("%s aborted.\n", name)
		}

		res, err := tracker.End()
		if err != nil {
			return err
		}

		if err := store.Delete(); err != nil {
			return err
		}

		cmd.Printf("Session ended. Duration: %s\n", res.Duration)
		cmd.Printf("Log ready for post-processing: %s\n", res.LogPath)
		return nil
	},
}

func init() {
	endCmd.Flags().BoolVar(&endAbortActive, "abort-active", false, "Abort the active event before ending the session")
	endCmd.Flags().StringVarP(&endNotes, "message", "m", "", "Notes for the abort row when --abort-active is used")
	rootCmd.AddCommand(endCmd)
}
