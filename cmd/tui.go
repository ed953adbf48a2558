package cmd

import (
	"context"
	"fmt"

	"github.com/muderick/searchfav/internal/config"
	"github.com/muderick/searchfav/internal/favorites"
	"github.com/muderick/searchfav/internal/items"
	"github.com/muderick/searchfav/internal/logging"
	"github.com/muderick/searchfav/internal/search"
	"github.com/muderick/searchfav/internal/store"
	"github.com/muderick/searchfav/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogPath(), cfg.Log.Level, flagVerbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	favs, closeStore, err := openFavorites(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	log.Info("starting",
		zap.String("version", version),
		zap.String("items_url", cfg.ItemsURL()),
		zap.String("format", cfg.Endpoint.Format),
		zap.String("backend", cfg.Storage.Backend))

	ctrl := search.NewController(items.NewFetcher(cfg, log), cfg.TimeoutDuration(), log)
	return tui.Run(tui.RunOpts{
		Controller: ctrl,
		Favorites:  favs,
		Debounce:   cfg.DebounceDuration(),
		Logger:     log,
	})
}

// openFavorites opens the configured store and loads the favorites set from it.
// The returned func closes the store.
func openFavorites(ctx context.Context, cfg *config.Config, log *zap.Logger) (*favorites.Set, func(), error) {
	kv, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s store: %w", cfg.Storage.Backend, err)
	}
	closeFn := func() {
		if err := kv.Close(); err != nil {
			log.Warn("closing store", zap.Error(err))
		}
	}
	return favorites.Open(ctx, kv, log), closeFn, nil
}
