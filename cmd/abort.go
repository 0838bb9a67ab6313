package cmd

import (
	"github.com/spf13/cobra"
)

var abortNotes string

var abortCmd = &cobra.Command{
	Use:   "abort",
	Short: "Abort the active event without an end time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, tracker, err := loadTracker()
		if err != nil {
			return err
		}

		name, err := tracker.Abort(abortNotes)
		if err != nil {
			return err
		}

		if err := store.Save(tracker.Session()); err != nil {
			return err
		}

		cmd.Printf("%s aborted.\n", name)
		return nil
	},
}

func init() {
	abortCmd.Flags().StringVarP(&abortNotes, "message", "m", "", "Notes appended after the ABORTED flag")
	rootCmd.AddCommand(abortCmd)
}
