package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"hybridtest/internal/storage"
	"hybridtest/internal/tui/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past orchestration runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.Open()
		if err != nil {
			return err
		}
		defer store.Close()

		m := history.New(store)
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Printf("Error running history view: %v\n", err)
			os.Exit(1)
		}
		return nil
	},
}
