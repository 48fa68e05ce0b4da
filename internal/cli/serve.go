package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/standardmorph/standardmorph/internal/api"
	"github.com/standardmorph/standardmorph/pkg/buildinfo"
	"github.com/standardmorph/standardmorph/pkg/cache"
	"github.com/standardmorph/standardmorph/pkg/pipeline"
	"github.com/standardmorph/standardmorph/pkg/store"
)

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	cfg := c.Config.Serve

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation pipeline over HTTP",
		Long: `Serve the validation pipeline over HTTP.

Uploads to POST /validate are validated and their reports stored; stored
reports are listed and fetched under /reports. With --redis-url the result
cache is shared across instances; with --mongo-uri reports persist in
MongoDB instead of process memory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	cmd.Flags().StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "redis URL for the shared result cache")
	cmd.Flags().StringVar(&cfg.MongoURI, "mongo-uri", cfg.MongoURI, "mongodb URI for durable report storage")
	cmd.Flags().StringVar(&cfg.MongoDatabase, "mongo-db", cfg.MongoDatabase, "mongodb database name")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg ServeConfig) error {
	resultCache, err := c.serveCache(ctx, cfg)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(resultCache, nil, c.Logger)
	defer runner.Close()

	reports, err := c.serveStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer reports.Close(context.Background())

	server := api.NewServer(runner, reports, c.Logger, buildinfo.Version)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

// serveCache selects the shared Redis cache when configured, the local file
// cache otherwise.
func (c *CLI) serveCache(ctx context.Context, cfg ServeConfig) (cache.Cache, error) {
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCacheFromURL(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		c.Logger.Info("using redis result cache")
		return rc, nil
	}
	return c.newCache(false)
}

// serveStore selects the Mongo store when configured, process memory
// otherwise.
func (c *CLI) serveStore(ctx context.Context, cfg ServeConfig) (store.Store, error) {
	if cfg.MongoURI != "" {
		ms, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect report store: %w", err)
		}
		c.Logger.Info("using mongodb report store", "database", cfg.MongoDatabase)
		return ms, nil
	}
	c.Logger.Info("using in-memory report store")
	return store.NewMemoryStore(), nil
}
