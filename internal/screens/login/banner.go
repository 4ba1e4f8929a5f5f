package login

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnlink/internal/ui/theme"
)

const bannerArt = `
 ██╗     ███████╗ █████╗ ██████╗ ███╗   ██╗██╗     ██╗███╗   ██╗██╗  ██╗
 ██║     ██╔════╝██╔══██╗██╔══██╗████╗  ██║██║     ██║████╗  ██║██║ ██╔╝
 ██║     █████╗  ███████║██████╔╝██╔██╗ ██║██║     ██║██╔██╗ ██║█████╔╝
 ██║     ██╔══╝  ██╔══██║██╔══██╗██║╚██╗██║██║     ██║██║╚██╗██║██╔═██╗
 ███████╗███████╗██║  ██║██║  ██║██║ ╚████║███████╗██║██║ ╚████║██║  ██╗
 ╚══════╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═══╝╚══════╝╚═╝╚═╝  ╚═══╝╚═╝  ╚═╝`

const bannerCompact = "L E A R N L I N K"

// bannerMinWidth is the narrowest terminal that fits bannerArt.
const bannerMinWidth = 76

// RenderBanner returns the LearnLink banner styled in the primary color.
// Uses a compact fallback for terminals narrower than bannerMinWidth.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
