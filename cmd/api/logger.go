package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/services-booking/internal/config"
)

// newLogger writes JSON in production and a console format elsewhere.
func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.IsProduction() {
		return zerolog.New(os.Stdout).With().Timestamp().Str("service", "services-booking").Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}
