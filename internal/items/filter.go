package items

import "strings"

// Matches reports whether term occurs, case-insensitively, in the item's
// title, body or category. Empty fields never match.
func Matches(it Item, term string) bool {
	if term == "" {
		return false
	}
	t := strings.ToLower(term)
	for _, field := range [...]string{it.Title, it.Body, it.Category} {
		if field != "" && strings.Contains(strings.ToLower(field), t) {
			return true
		}
	}
	return false
}

// Filter returns the items matching term, keeping their order.
func Filter(all []Item, term string) []Item {
	var out []Item
	for _, it := range all {
		if Matches(it, term) {
			out = append(out, it)
		}
	}
	return out
}
