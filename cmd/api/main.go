package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IlyasAtabaev731/ecofinds/internal/api"
	"github.com/IlyasAtabaev731/ecofinds/internal/config"
	"github.com/IlyasAtabaev731/ecofinds/internal/notify"
	"github.com/IlyasAtabaev731/ecofinds/internal/seed"
	"github.com/IlyasAtabaev731/ecofinds/internal/service"
	"github.com/IlyasAtabaev731/ecofinds/internal/storage"
	"github.com/IlyasAtabaev731/ecofinds/internal/storage/memory"
	"github.com/IlyasAtabaev731/ecofinds/internal/storage/postgres"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting application",
		slog.String("env", cfg.Env),
		slog.String("host", cfg.ApiHost),
		slog.Int("port", cfg.ApiPort),
		slog.String("storage", cfg.Storage),
	)

	store, err := openStorage(cfg)
	if err != nil {
		log.Error("Failed to open storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if !cfg.SkipSeed {
		users, items, err := seed.Load(context.Background(), store)
		if err != nil {
			log.Error("Failed to load demo data", "error", err)
			os.Exit(1)
		}
		log.Info("Demo data loaded", slog.Int("users", users), slog.Int("items", items))
	}

	registry := notify.NewRegistry(log)
	market := service.New(store, registry, log)

	apiServer := api.New(cfg, log, market, registry)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		apiServer.MustStart()
	}()

	<-sigChan
	log.Info("Got signal to shutdown server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Stop(ctx); err != nil {
		log.Error("Stopping server error", "error", err)
	}
}

func openStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StoragePostgres:
		return postgres.New(cfg.Postgres.URL())
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
	return log
}
