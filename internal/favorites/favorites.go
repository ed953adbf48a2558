// Package favorites holds the user's order-preserving, duplicate-free set of
// favorite items and keeps it persisted in a single store slot.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/muderick/searchfav/internal/items"
	"github.com/muderick/searchfav/internal/store"
	"go.uber.org/zap"
)

// Key is the store slot the set is serialized under.
const Key = "favorites"

type Set struct {
	kv    store.KV
	log   *zap.Logger
	items []items.Item
}

// Open restores the set from kv. A missing, unreadable or corrupt slot yields
// an empty set; the failure is logged, never returned.
func Open(ctx context.Context, kv store.KV, log *zap.Logger) *Set {
	s := &Set{kv: kv, log: log}

	raw, err := kv.Get(ctx, Key)
	if errors.Is(err, store.ErrNotFound) {
		return s
	}
	if err != nil {
		log.Warn("reading favorites, starting empty", zap.Error(err))
		return s
	}

	var stored []items.Item
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Warn("parsing favorites, starting empty", zap.Error(err))
		return s
	}
	for _, it := range stored {
		if s.index(it.ID) >= 0 {
			log.Warn("dropping duplicate favorite", zap.Int64("id", it.ID))
			continue
		}
		s.items = append(s.items, it)
	}
	log.Debug("favorites restored", zap.Int("count", len(s.items)))
	return s
}

// Add appends it unless an item with the same ID is present. It reports
// whether the set changed.
func (s *Set) Add(ctx context.Context, it items.Item) (bool, error) {
	return s.mutate(ctx, func() bool {
		if s.index(it.ID) >= 0 {
			return false
		}
		s.items = append(s.items, it)
		return true
	})
}

// Remove deletes the item with the given ID, if present.
func (s *Set) Remove(ctx context.Context, id int64) (bool, error) {
	return s.mutate(ctx, func() bool {
		i := s.index(id)
		if i < 0 {
			return false
		}
		s.items = append(s.items[:i:i], s.items[i+1:]...)
		return true
	})
}

// Clear empties the set.
func (s *Set) Clear(ctx context.Context) (bool, error) {
	return s.mutate(ctx, func() bool {
		if len(s.items) == 0 {
			return false
		}
		s.items = nil
		return true
	})
}

func (s *Set) Contains(id int64) bool {
	return s.index(id) >= 0
}

// Items returns a copy in display (insertion) order.
func (s *Set) Items() []items.Item {
	out := make([]items.Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Set) Len() int {
	return len(s.items)
}

// mutate runs fn and, when it changed the set, writes the full set back on
// the way out regardless of how fn returned.
func (s *Set) mutate(ctx context.Context, fn func() bool) (changed bool, err error) {
	defer func() {
		if !changed {
			return
		}
		if serr := s.save(ctx); serr != nil {
			s.log.Error("persisting favorites", zap.Error(serr))
			err = errors.Join(err, serr)
		}
	}()
	changed = fn()
	return changed, nil
}

func (s *Set) save(ctx context.Context) error {
	list := s.items
	if list == nil {
		list = []items.Item{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding favorites: %w", err)
	}
	return s.kv.Set(ctx, Key, string(data))
}

func (s *Set) index(id int64) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
