package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhollis/evlog/internal/eventlog"
	"github.com/mhollis/evlog/internal/report"
)

var reportFormat string
var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Render a session summary from a log file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := eventlog.ReadFile(args[0])
		if err != nil {
			return err
		}

		operator := ""
		if p := GetProfile(); p != nil {
			operator = p.Name
		}
		summary := report.Build(args[0], operator, records)

		var renderer report.Renderer
		switch reportFormat {
		case "", "markdown":
			renderer = &report.MarkdownRenderer{}
		case "json":
			renderer = &report.JSONRenderer{}
		default:
			return fmt.Errorf("unknown format %q (want markdown or json)", reportFormat)
		}

		data, err := renderer.Render(&summary)
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}

		if reportOutput == "" {
			cmd.Print(string(data))
			return nil
		}
		if err := os.WriteFile(reportOutput, data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		cmd.Printf("Report written: %s\n", reportOutput)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "", "Output format: markdown or json (default markdown)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Write the report to a file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}
