// Package store provides the string-keyed durable slots the app persists
// state into.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/muderick/searchfav/internal/config"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("store: key not found")

// KV is a flat string-keyed store. Set overwrites.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the backend selected in cfg.
func Open(ctx context.Context, cfg *config.Config) (KV, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		r, err := OpenRedis(ctx, cfg.Storage.RedisAddr, cfg.Storage.RedisPrefix)
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.BackendSQLite, "":
		s, err := OpenSQLite(cfg.StoragePath())
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
