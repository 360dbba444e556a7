package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/aquacheck/internal/ui/theme"
)

const bannerArt = `
  █████╗  ██████╗ ██╗   ██╗ █████╗  ██████╗██╗  ██╗███████╗ ██████╗██╗  ██╗
 ██╔══██╗██╔═══██╗██║   ██║██╔══██╗██╔════╝██║  ██║██╔════╝██╔════╝██║ ██╔╝
 ███████║██║   ██║██║   ██║███████║██║     ███████║█████╗  ██║     █████╔╝
 ██╔══██║██║▄▄ ██║██║   ██║██╔══██║██║     ██╔══██║██╔══╝  ██║     ██╔═██╗
 ██║  ██║╚██████╔╝╚██████╔╝██║  ██║╚██████╗██║  ██║███████╗╚██████╗██║  ██╗
 ╚═╝  ╚═╝ ╚══▀▀═╝  ╚═════╝ ╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝╚══════╝ ╚═════╝╚═╝  ╚═╝`

const bannerCompact = "A Q U A C H E C K"

// bannerMinWidth is the narrowest terminal that fits the block banner.
const bannerMinWidth = 78

// RenderBanner returns the AQUACHECK banner styled in the primary color,
// falling back to spaced letters on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
