package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hybridtest/internal/storage"
	"hybridtest/internal/tui/styles"
)

// Model is the interactive browser over past orchestration runs.
type Model struct {
	store *storage.Store
	table table.Model

	width  int
	height int
}

func New(store *storage.Store) Model {
	columns := []table.Column{
		{Title: "Time", Width: 20},
		{Title: "Mode", Width: 12},
		{Title: "Headless", Width: 9},
		{Title: "Load Reqs", Width: 10},
		{Title: "UI Tests", Width: 9},
		{Title: "Artifacts", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.ColorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.ColorPrimary)
	s.Selected = s.Selected.
		Foreground(styles.ColorBg).
		Background(styles.ColorPrimary).
		Bold(true)
	t.SetStyles(s)

	m := Model{store: store, table: t}
	m.refresh()
	return m
}

func (m *Model) refresh() {
	items := m.store.List()
	rows := make([]table.Row, len(items))
	for i, rec := range items {
		present := 0
		for _, ok := range rec.Artifacts {
			if ok {
				present++
			}
		}
		rows[i] = table.Row{
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			string(rec.Mode),
			fmt.Sprintf("%t", rec.Headless),
			fmt.Sprintf("%d", rec.LoadRequests),
			fmt.Sprintf("%d", rec.UITests),
			fmt.Sprintf("%d/%d", present, len(rec.Artifacts)),
		}
	}
	m.table.SetRows(rows)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width - 4)
		m.table.SetHeight(msg.Height - 6)
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.refresh()
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	s := strings.Builder{}
	s.WriteString(styles.Title.Render("📜 Past Runs"))
	s.WriteString("\n\n")

	if len(m.table.Rows()) == 0 {
		s.WriteString(styles.Subtle.Render("No history found.\nRun the orchestrator to generate data."))
	} else {
		s.WriteString(styles.Box.Render(m.table.View()))
	}
	s.WriteString("\n\n")
	s.WriteString(styles.Subtle.Render("[r] Refresh  [q] Quit"))
	return s.String()
}
