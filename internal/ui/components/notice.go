package components

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/aquacheck/internal/ui/theme"
)

// Notice is a modal message box. It is dismissed by any key; the owner
// screen decides when to show and hide it.
type Notice struct {
	Title   string
	Message string
	Accent  color.Color
}

// View renders the notice centered in a width x height area.
func (n Notice) View(width, height int) string {
	accent := n.Accent
	if accent == nil {
		accent = theme.Primary
	}

	title := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Render(n.Title)

	body := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(n.Message)

	hint := theme.Hint.Render("press any key to continue")

	box := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(accent).
		Padding(1, 3).
		Align(lipgloss.Center).
		Render(strings.Join([]string{title, "", body, "", hint}, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
