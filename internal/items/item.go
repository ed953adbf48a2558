package items

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Item is a single searchable record. Identity is ID.
type Item struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

// rawItem keeps id optional so records without one can be told apart from id 0.
type rawItem struct {
	ID       *int64 `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

// Decode parses a JSON array of items. Records that fail to decode or have no
// id are dropped, later duplicates of an id are ignored, and absent text
// fields decode as "". Only a body that is not an array is an error.
func Decode(data []byte, log *zap.Logger) ([]Item, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("decoding items: %w", err)
	}

	seen := make(map[int64]bool, len(elems))
	out := make([]Item, 0, len(elems))
	for i, elem := range elems {
		var r rawItem
		if err := json.Unmarshal(elem, &r); err != nil {
			log.Warn("skipping malformed item", zap.Int("index", i), zap.Error(err))
			continue
		}
		if r.ID == nil {
			log.Warn("skipping item without id", zap.Int("index", i), zap.String("title", r.Title))
			continue
		}
		if seen[*r.ID] {
			log.Warn("skipping duplicate item id", zap.Int64("id", *r.ID))
			continue
		}
		seen[*r.ID] = true
		out = append(out, Item{ID: *r.ID, Title: r.Title, Body: r.Body, Category: r.Category})
	}
	return out, nil
}
