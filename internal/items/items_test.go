package items

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func sampleItems() []Item {
	return []Item{
		{ID: 1, Title: "Laptop", Body: "fast", Category: "tech"},
		{ID: 2, Title: "Phone", Body: "slim laptop case", Category: "tech"},
		{ID: 3, Title: "Desk", Body: "wood", Category: "furniture"},
	}
}

func ids(in []Item) []int64 {
	out := make([]int64, 0, len(in))
	for _, it := range in {
		out = append(out, it.ID)
	}
	return out
}

func TestFilterLap(t *testing.T) {
	got := Filter(sampleItems(), "lap")
	assert.Equal(t, []int64{1, 2}, ids(got))
}

func TestFilterKeepsItemsIntact(t *testing.T) {
	all := sampleItems()
	want := []Item{all[0], all[1]}
	if diff := cmp.Diff(want, Filter(all, "lap")); diff != "" {
		t.Errorf("Filter mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(sampleItems(), all); diff != "" {
		t.Errorf("Filter modified its input (-want +got):\n%s", diff)
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	assert.Equal(t, []int64{1, 2}, ids(Filter(sampleItems(), "LAPTOP")))
	assert.Equal(t, []int64{3}, ids(Filter(sampleItems(), "Furn")))
}

func TestFilterMatchesAnyField(t *testing.T) {
	tests := []struct {
		term string
		want []int64
	}{
		{"desk", []int64{3}},    // title
		{"wood", []int64{3}},    // body
		{"tech", []int64{1, 2}}, // category
		{"nothing", []int64{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ids(Filter(sampleItems(), tt.term)), "term %q", tt.term)
	}
}

func TestMatchesEmptyFieldsNeverMatch(t *testing.T) {
	it := Item{ID: 9, Title: "Chair"}
	assert.False(t, Matches(it, "tech"))
	assert.True(t, Matches(it, "hai"))
	assert.False(t, Matches(it, ""))
}

func TestDecodeValidates(t *testing.T) {
	data := []byte(`[
		{"id": 1, "title": "Laptop", "body": "fast", "category": "tech"},
		{"title": "no id"},
		{"id": 0, "title": "zero is a real id"},
		{"id": 1, "title": "duplicate"},
		{"id": 4, "title": "Lamp"}
	]`)
	got, err := Decode(data, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 0, 4}, ids(got))
	assert.Equal(t, "Laptop", got[0].Title)
	assert.Equal(t, "", got[2].Category)
}

func TestDecodeSkipsMalformedRecords(t *testing.T) {
	data := []byte(`[
		{"id": 1, "title": "Laptop", "body": "fast", "category": "tech"},
		{"id": "2", "title": "string id"},
		{"id": 3, "title": "Desk", "category": ["furniture"]},
		{"id": 4, "title": "Lamp", "category": "home"}
	]`)
	core, logs := observer.New(zap.WarnLevel)
	got, err := Decode(data, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, ids(got))
	assert.Equal(t, 2, logs.FilterMessage("skipping malformed item").Len())
}

func TestDecodeRejectsNonArray(t *testing.T) {
	_, err := Decode([]byte(`{"id": 1}`), zap.NewNop())
	assert.Error(t, err)
}

func TestHTTPFetcherSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery, "filtering is local; no query params")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":1,"title":"Laptop","body":"fast","category":"tech"}]`)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/items", time.Second, zap.NewNop())
	got, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Item{{ID: 1, Title: "Laptop", Body: "fast", Category: "tech"}}, got)
}

func TestHTTPFetcherStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/items", time.Second, zap.NewNop())
	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetch)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
}

func TestHTTPFetcherTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f := NewHTTPFetcher(srv.URL, 50*time.Millisecond, zap.NewNop())
	_, err := f.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrFetch)
}

func TestHTTPFetcherTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := NewHTTPFetcher(url, time.Second, zap.NewNop())
	_, err := f.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrFetch)
}

const sampleRSS = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Shop</title>
<item><title>Laptop</title><link>https://shop.example/1</link><description>&lt;p&gt;fast &lt;b&gt;machine&lt;/b&gt;&lt;/p&gt;</description><category>tech</category></item>
<item><title>Desk</title><link>https://shop.example/3</link><description>wood</description></item>
<item><title>Desk again</title><link>https://shop.example/3</link></item>
</channel></rss>`

func TestFeedFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, sampleRSS)
	}))
	defer srv.Close()

	f := NewFeedFetcher(srv.URL, time.Second, zap.NewNop())
	got, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Laptop", got[0].Title)
	assert.Equal(t, "fast machine", got[0].Body)
	assert.Equal(t, "tech", got[0].Category)
	assert.Equal(t, itemID("https://shop.example/1"), got[0].ID)
	assert.Equal(t, "", got[1].Category)
}

func TestFeedFetcherStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewFeedFetcher(srv.URL, time.Second, zap.NewNop())
	_, err := f.Fetch(context.Background())
	require.ErrorIs(t, err, ErrFetch)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Code)
}

func TestItemIDStable(t *testing.T) {
	a := itemID("https://example.com/post-1")
	b := itemID("https://example.com/post-2")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, itemID("https://example.com/post-1"))
	assert.GreaterOrEqual(t, a, int64(0))
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"No tags here", "No tags here"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripHTML(tt.input), "stripHTML(%q)", tt.input)
	}
}
