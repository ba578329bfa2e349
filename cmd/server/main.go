// Package main is the entry point for the madbus server.
package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/oterogarcia/madbus/internal/api"
	"github.com/oterogarcia/madbus/internal/config"
	"github.com/oterogarcia/madbus/internal/emt"
	"github.com/oterogarcia/madbus/internal/transit"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	godotenv.Load()

	if os.Getenv("LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	if os.Getenv("DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Configuration error")
	}

	client := emt.New(cfg.EMTBaseURL, cfg.HTTPTimeout)
	stops := transit.NewStopService(client, cfg.EMTEmail, cfg.EMTPassword, cfg.CacheTTL)

	if err := stops.Authenticate(); err != nil {
		log.Fatal().Err(err).Msg("EMT login failed")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(stops),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("madbus server starting")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
