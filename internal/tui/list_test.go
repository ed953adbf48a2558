package tui

import (
	"strings"
	"testing"

	"github.com/muderick/searchfav/internal/items"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
	}
	for _, tt := range tests {
		got := truncateStr(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateStrUTF8(t *testing.T) {
	got := truncateStr("日本語テスト", 5)
	want := "日本..."
	if got != want {
		t.Errorf("truncateStr(Japanese, 5) = %q, want %q", got, want)
	}
}

func TestClampCursor(t *testing.T) {
	tests := []struct{ cursor, n, want int }{
		{0, 0, 0},
		{5, 3, 2},
		{1, 3, 1},
		{-1, 3, 0},
	}
	for _, tt := range tests {
		if got := clampCursor(tt.cursor, tt.n); got != tt.want {
			t.Errorf("clampCursor(%d, %d) = %d, want %d", tt.cursor, tt.n, got, tt.want)
		}
	}
}

func TestRenderListScrollsToCursor(t *testing.T) {
	var list []items.Item
	for i := 0; i < 10; i++ {
		list = append(list, items.Item{ID: int64(i), Title: "item-" + string(rune('a'+i))})
	}
	none := func(items.Item) string { return "" }

	// Height 8 fits two entries
	out := renderList(list, 9, true, 8, 40, none)
	if !strings.Contains(out, "item-j") {
		t.Errorf("expected cursor entry to be visible:\n%s", out)
	}
	if strings.Contains(out, "item-a") {
		t.Errorf("expected first entry scrolled away:\n%s", out)
	}
}

func TestResultActionLabels(t *testing.T) {
	if !strings.Contains(resultAction(false), labelAdd) {
		t.Errorf("expected %q label", labelAdd)
	}
	if !strings.Contains(resultAction(true), labelAdded) {
		t.Errorf("expected %q label", labelAdded)
	}
}

func TestRenderEntryFlattensNewlines(t *testing.T) {
	it := items.Item{ID: 1, Title: "Multi\nline title", Body: "first line\n\nsecond line\tend"}
	got := renderEntry(it, false, resultAction(false), 60)
	if n := strings.Count(got, "\n"); n != 2 {
		t.Fatalf("expected 3 lines, got %d: %q", n+1, got)
	}
	if !strings.Contains(got, "first line second line end") {
		t.Errorf("expected collapsed body, got %q", got)
	}
	if !strings.Contains(got, "Multi line title") {
		t.Errorf("expected collapsed title, got %q", got)
	}
}
