package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// --- Color Palette ---
var (
	ColorPrimary = lipgloss.Color("#7D56F4") // Indigo/Purple
	ColorSuccess = lipgloss.Color("#04B575") // Green
	ColorError   = lipgloss.Color("#FF5F87") // Pink/Red
	ColorWarning = lipgloss.Color("#FFAF00") // Gold
	ColorText    = lipgloss.Color("#FAFAFA") // White-ish
	ColorSubtle  = lipgloss.Color("#767676") // Gray
	ColorBorder  = lipgloss.Color("#3C3C3C") // Dark Gray border
	ColorBg      = lipgloss.Color("#1A1A1A")
	ColorBanner  = ColorPrimary
)

// --- Base Styles ---
var (
	Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(ColorSubtle)

	Text   = lipgloss.NewStyle().Foreground(ColorText)
	Subtle = lipgloss.NewStyle().Foreground(ColorSubtle)

	Error   = lipgloss.NewStyle().Foreground(ColorError)
	Warn    = lipgloss.NewStyle().Foreground(ColorWarning)
	Success = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)

	Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1).
		Margin(0, 1)
)
