package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/muderick/searchfav/internal/itemserver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	flagItemsFile string
	flagAddr      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an item collection from a JSON file",
	Long:  "serve exposes GET /items and GET /items/:id from a JSON file, for local development against the search client.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagItemsFile, "items", "db.json", "JSON file holding the item collection")
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":3001", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(flagItemsFile); err != nil {
		return fmt.Errorf("items file: %w", err)
	}

	var log *zap.Logger
	var err error
	if flagVerbose {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              flagAddr,
		Handler:           itemserver.NewRouter(flagItemsFile, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("serving items", zap.String("addr", flagAddr), zap.String("file", flagItemsFile))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
