package cmd

import (
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the configured event catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, e := range GetConfig().Events {
			if e.Label != "" && e.Label != e.Name {
				cmd.Printf("%-28s %s\n", e.Name, e.Label)
			} else {
				cmd.Println(e.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
