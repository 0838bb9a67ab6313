package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mhollis/evlog/internal/config"
	"github.com/mhollis/evlog/internal/tui"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Drive the session interactively from a full-screen board",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, s, err := loadSession()
		if err != nil {
			return err
		}

		// The board shows the catalog the session was opened with,
		// borrowing display labels from the current config when present.
		labels := make(map[string]string, len(GetConfig().Events))
		for _, e := range GetConfig().Events {
			labels[e.Name] = e.Label
		}
		events := make([]config.Event, len(s.Catalog))
		for i, name := range s.Catalog {
			label := labels[name]
			if label == "" {
				label = name
			}
			events[i] = config.Event{Label: label, Name: name}
		}

		return tui.RunBoard(store, s, events)
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
