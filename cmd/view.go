package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhollis/evlog/internal/eventlog"
	"github.com/mhollis/evlog/internal/tui"
)

var plainOutput bool
var followLog bool

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "View a session log file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}

		if plainOutput {
			records, err := eventlog.ReadFile(path)
			if err != nil {
				return err
			}
			printRecords(cmd, records)
			return nil
		}
		return tui.RunViewer(path, followLog)
	},
}

// printRecords writes a plain-text listing to stdout.
func printRecords(cmd *cobra.Command, records []eventlog.Record) {
	for _, r := range records {
		start := "N/A"
		if !r.Start.IsZero() {
			start = r.Start.Format("2006-01-02 15:04:05")
		}
		end := "N/A"
		if !r.End.IsZero() {
			end = r.End.Format("2006-01-02 15:04:05")
		}
		cmd.Printf("%-28s  %-19s  %-19s  %s\n", r.Event, start, end, r.Notes)
	}
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "Print a plain-text listing instead of the TUI")
	viewCmd.Flags().BoolVar(&followLog, "follow", false, "Reload the TUI whenever the file is appended to")
	rootCmd.AddCommand(viewCmd)
}
