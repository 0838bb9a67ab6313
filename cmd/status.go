package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhollis/evlog/internal/eventlog"
	"github.com/mhollis/evlog/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore()
		if err != nil {
			return err
		}

		s, err := store.Load()
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				cmd.Println("no active session")
				return nil
			}
			return err
		}

		if s.SubjectID != "" {
			cmd.Printf("Subject: %s (%s)\n", s.SubjectID, s.StudyID)
		}
		cmd.Printf("Log: %s\n", s.LogPath)
		if s.StartTime != nil {
			cmd.Printf("Started: %s\n", s.StartTime.Format(time.DateTime))
			cmd.Printf("Elapsed: %s\n", eventlog.FormatDuration(time.Since(*s.StartTime)))
		} else {
			cmd.Println("Started: N/A (session start was skipped)")
		}
		if s.Active != nil {
			cmd.Printf("Active event: %s (since %s, %s)\n",
				s.Active.Name,
				s.Active.Start.Format("15:04:05"),
				eventlog.FormatDuration(time.Since(s.Active.Start)))
		} else {
			cmd.Println("Active event: none")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
