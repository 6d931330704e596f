package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/scramble/internal/config"
	"github.com/robalobadob/scramble/internal/httpserver"
	"github.com/robalobadob/scramble/internal/store"
	"github.com/robalobadob/scramble/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A failed load leaves the catalog empty: the server still runs and every
	// round start reports empty_catalog until an admin reload succeeds.
	catalog, err := words.Load(ctx, words.Source{File: cfg.WordsFile, DB: cfg.WordsDB})
	if err != nil {
		log.Error().Err(err).Msg("failed to load word list")
	}
	log.Info().Int("words", len(catalog)).Msg("catalog loaded")

	sessions, err := store.NewLRUStore(cfg.MaxSessions)
	if err != nil {
		log.Fatal().Err(err).Msg("session store")
	}

	srv := httpserver.New(httpserver.Options{
		Store:             sessions,
		Catalog:           catalog,
		RoundSeconds:      cfg.RoundSeconds,
		TickInterval:      cfg.TickInterval,
		JWTSecret:         cfg.JWTSecret,
		TokenTTL:          cfg.TokenTTL,
		SecureCookies:     cfg.Env == "prod",
		AdminPasswordHash: cfg.AdminPasswordHash,
		ClientOrigin:      cfg.ClientOrigin,
		DailySalt:         cfg.DailySalt,
	})
	if err := srv.Run(ctx, cfg.Addr(), cfg.ShutdownTimeout); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
