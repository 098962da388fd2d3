package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"voteinfo/internal/config"
	"voteinfo/internal/dataset"
	"voteinfo/internal/fetch"
	"voteinfo/internal/handlers"
	"voteinfo/internal/logging"
	"voteinfo/internal/models"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Init(cfg.SlogLevel(), cfg.LogFormat)
	logger := logging.New("server")

	fetcher, err := fetch.New(
		fetch.WithTimeout(cfg.FetchTimeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithLogger(logging.New("fetch")),
	)
	if err != nil {
		logger.Error("failed to initialize fetcher", "error", err)
		os.Exit(1)
	}

	client, err := dataset.New(fetcher,
		dataset.WithCatalogURL(models.KindNational, cfg.NationalCatalogURL),
		dataset.WithCatalogURL(models.KindCantonal, cfg.CantonalCatalogURL),
		dataset.WithLogger(logging.New("dataset")),
	)
	if err != nil {
		logger.Error("failed to initialize dataset client", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	handlers.NewVoteHandler(client, logging.New("handlers"),
		handlers.WithAllowedHosts(cfg.AllowedHosts...),
	).Register(mux)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handlers.WithRequestLogging(logger, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
