package banner

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hybridtest/internal/tui/styles"
)

func GetString() string {
	renderer := lipgloss.DefaultRenderer()

	style := renderer.NewStyle().
		Foreground(styles.ColorBanner).
		Bold(true)

	lines := []string{
		` _           _          _     _ _            _   `,
		`| |__  _   _| |__  _ __(_) __| | |_ ___  ___| |_ `,
		"| '_ \\| | | | '_ \\| '__| |/ _` | __/ _ \\/ __| __|",
		`| | | | |_| | |_) | |  | | (_| | ||  __/\__ \ |_ `,
		`|_| |_|\__, |_.__/|_|  |_|\__,_|\__\___||___/\__|`,
		`       |___/                                     `,
	}
	ascii := strings.Join(lines, "\n")

	return "\n" + style.Render(ascii) + "\n"
}
