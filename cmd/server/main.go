package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/napolitain/seldon-idle/internal/clock"
	"github.com/napolitain/seldon-idle/internal/config"
	"github.com/napolitain/seldon-idle/internal/economy"
	"github.com/napolitain/seldon-idle/internal/game"
	"github.com/napolitain/seldon-idle/internal/loader"
	"github.com/napolitain/seldon-idle/internal/logger"
	"github.com/napolitain/seldon-idle/internal/store"
)

var (
	configPath = flag.String("config", "", "Path to a TOML config file (defaults are used when empty)")
	dataDir    = flag.String("data", "", "Path to data directory (overrides data_dir)")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log, os.Stdout)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	return &cfg, nil
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	catalog, err := loader.LoadCatalog(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	log.Info("Catalog loaded",
		"buildings", len(catalog.Buildings),
		"upgrades", len(catalog.Upgrades),
		"achievements", len(catalog.Achievements),
		"items", len(catalog.Items),
		"events", len(catalog.Events),
		"eras", len(catalog.Eras))

	st, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	if cfg.Server.CacheSize > 0 {
		cached, err := store.NewCached(st, cfg.Server.CacheSize)
		if err != nil {
			st.Close()
			return fmt.Errorf("failed to create state cache: %w", err)
		}
		st = cached
	}
	defer st.Close()
	log.Info("Store ready", "driver", cfg.DB.Driver, "cache_size", cfg.Server.CacheSize)

	svc := game.NewService(economy.New(catalog, cfg.Engine), st, clock.RealClock{}, log)
	srv, err := newServer(svc, cfg.Server, log)
	if err != nil {
		return err
	}
	app := srv.app()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting server", "addr", cfg.Server.Addr)
		if err := app.Listen(cfg.Server.Addr); err != nil {
			return fmt.Errorf("failed to listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	err = g.Wait()
	log.Info("Server shutdown complete", "uptime", time.Since(srv.started).Round(time.Second))
	return err
}
