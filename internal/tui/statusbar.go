package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(resultCount, favoriteCount int, hints string, width int) string {
	left := fmt.Sprintf(" %d results · %d favorites", resultCount, favoriteCount)
	right := " " + hints + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
