package tui

import (
	"strings"

	"github.com/muderick/searchfav/internal/items"
)

const (
	labelAdd     = "Add to Favorites"
	labelAdded   = "Added to Favorites"
	labelRemove  = "Remove from Favorites!"
	emptyResults = "No results to display. Try searching for something."
	emptyFavs    = "No favorites added yet."
	loadingText  = "Loading results..."
)

// renderEntry draws one item as title, body and action lines.
func renderEntry(it items.Item, selected bool, action string, width int) string {
	if width < 10 {
		width = 30
	}

	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(oneLine(it.Title), width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(oneLine(it.Title), width-4))
	}
	body := "  " + itemBodyStyle.Render(truncateStr(oneLine(it.Body), width-4))

	return title + "\n" + body + "\n  " + action
}

// oneLine collapses all whitespace runs, newlines included, to single spaces
// so an entry keeps its fixed height.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func resultAction(added bool) string {
	if added {
		return actionDisabledStyle.Render("[" + labelAdded + "]")
	}
	return actionStyle.Render("[" + labelAdd + "]")
}

func favoriteAction() string {
	return removeStyle.Render("[" + labelRemove + "]")
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// renderList draws entries around cursor, scrolled to keep it visible.
func renderList(list []items.Item, cursor int, focused bool, height, width int, action func(items.Item) string) string {
	// Each entry is 3 lines + 1 blank line
	itemHeight := 4
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(list) {
		end = len(list)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderEntry(list[i], focused && i == cursor, action(list[i]), width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
