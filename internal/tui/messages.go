package tui

import "github.com/muderick/searchfav/internal/search"

// querySettledMsg carries a term the debouncer let through.
type querySettledMsg struct {
	term string
}

type resultsMsg struct {
	res search.Result
}
