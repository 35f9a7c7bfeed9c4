package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/catalog-import/internal/storage"
	"github.com/JonMunkholm/catalog-import/internal/web"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP import API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	var gatherer prometheus.Gatherer
	if a.registry != nil {
		gatherer = a.registry
	}

	server := web.NewServer(web.Options{
		Importer: a.importer,
		DB:       a.db,
		History:  a.history,
		Gatherer: gatherer,
		Server:   a.cfg.Server,
		Import:   a.cfg.Import,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		storage.StartPruneScheduler(gctx, a.history, storage.PruneConfig{
			Retention:     a.cfg.History.Retention,
			CheckInterval: a.cfg.History.PruneInterval,
		})
		return nil
	})
	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		if active := a.importer.Limiter().Active(); active > 0 {
			slog.Info("waiting for imports to complete", "active", active)
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
			return err
		}
		slog.Info("server stopped")
		return nil
	})

	return g.Wait()
}
