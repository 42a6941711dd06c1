package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	bannerTitle    = "team select"
	bannerSubtitle = "People Finder • Choose a team for each field"
)

// RenderBanner returns the title block shown above the form.
func RenderBanner() string {
	title := BannerStyle.Render(strings.ToUpper(bannerTitle))
	subtitleWidth := lipgloss.Width(bannerSubtitle)

	blockWidth := lipgloss.Width(title)
	if blockWidth < subtitleWidth {
		blockWidth = subtitleWidth
	}

	center := lipgloss.NewStyle().Width(blockWidth).Align(lipgloss.Center)
	subtitle := center.Foreground(ColorMuted).Render(bannerSubtitle)
	underline := center.Foreground(ColorBorder).Render(strings.Repeat("─", subtitleWidth))

	return "\n" + center.Render(title) + "\n" + subtitle + "\n" + underline + "\n"
}
