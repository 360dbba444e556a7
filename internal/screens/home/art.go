package home

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/aquacheck/internal/ui/theme"
)

const titleFull = ` ▄▀█ █▀█ █ █ ▄▀█ █▀▀ █ █ █▀▀ █▀▀ █▄▀
 █▀█ ▀▀█ █▄█ █▀█ █▄▄ █▀█ ██▄ █▄▄ █ █`

const titleCompact = "A Q U A C H E C K"

const droplet = `    ▄
   ███
  █████
 ███████
 ███████
  ▀███▀`

// renderTitle returns the block title or the compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// renderDroplet returns the droplet art tinted by the last verdict.
func renderDroplet(cw int, tint Tint) string {
	fg := theme.Primary
	switch tint {
	case TintSafe:
		fg = theme.Success
	case TintUnsafe:
		fg = theme.Error
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(fg).Render(droplet))
}

// renderStatus renders the model and speech summary in a bordered bar.
func renderStatus(parts []string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(strings.Join(parts, "  ·  "))
}
