package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mhollis/evlog/internal/clock"
	"github.com/mhollis/evlog/internal/files"
	"github.com/mhollis/evlog/internal/session"
)

var startSkipMarker bool
var startRecordMarker bool

var startCmd = &cobra.Command{
	Use:   "start [subject-id]",
	Short: "Open a new session and create its log file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore()
		if err != nil {
			return err
		}

		existing, err := store.Load()
		if err != nil && !errors.Is(err, session.ErrNoSession) {
			return err
		}
		if existing != nil {
			return fmt.Errorf("session already in progress (log: %s)", existing.LogPath)
		}

		conf := GetConfig()

		subjectID := ""
		if len(args) == 1 {
			subjectID = args[0]
		}

		manager, err := files.NewManager(conf.RootDir)
		if err != nil {
			return err
		}

		sysClock := clock.System{}
		now := sysClock.Now()
		path, err := manager.EnsureLogFile(subjectID, now)
		if err != nil {
			return err
		}

		newSession := &session.Session{
			ID:        uuid.New().String(),
			SubjectID: subjectID,
			LogPath:   path,
			Catalog:   conf.EventNames(),
		}
		if subjectID != "" {
			newSession.StudyID = conf.StudyID(subjectID)
		}

		record := conf.RecordStart()
		if startSkipMarker {
			record = false
		}
		if startRecordMarker {
			record = true
		}

		tracker := session.NewTracker(newSession, sysClock)
		startedAt, err := tracker.StartSession(record)
		if err != nil {
			return err
		}

		if err := store.Save(newSession); err != nil {
			return err
		}

		cmd.Printf("Session started. Log: %s\n", path)
		if record {
			cmd.Printf("Session start recorded at %s\n", startedAt.Format(time.DateTime))
		} else {
			cmd.Println("Session start marker skipped; closing duration will be N/A.")
		}
		return nil
	},
}

func init() {
	startCmd.Flags().BoolVar(&startSkipMarker, "skip-start-marker", false, "Do not record the SESSION START marker")
	startCmd.Flags().BoolVar(&startRecordMarker, "start-marker", false, "Record the SESSION START marker even if the config disables it")
	rootCmd.AddCommand(startCmd)
}
