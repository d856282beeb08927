/*
Package main
File: settings.go
Description: Process settings read from the environment, and loading of the
game tuning file they point at.
*/

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/everforgeworks/mediterranean-merchant/internal/game"
)

type settings struct {
	Addr       string  `env:"VOYAGE_ADDR" envDefault:":8081"`
	ConfigPath string  `env:"VOYAGE_CONFIG" envDefault:"voyage.yaml"`
	DBPath     string  `env:"VOYAGE_DB" envDefault:"data/leaderboard.db"`
	Seed       int64   `env:"VOYAGE_SEED" envDefault:"0"` // 0 picks a time based seed
	RateLimit  float64 `env:"VOYAGE_RATE_LIMIT" envDefault:"20"`
	RateBurst  int     `env:"VOYAGE_RATE_BURST" envDefault:"40"`
	LogLevel   string  `env:"VOYAGE_LOG_LEVEL" envDefault:"info"`
}

func loadSettings() (settings, error) {
	var s settings
	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

func (s settings) level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadGameConfig reads the tuning file. A missing file is not an error: the
// game ships with working defaults.
func loadGameConfig(path string, log *slog.Logger) (game.Config, error) {
	cfg, err := game.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("config file not found, using defaults", "path", path)
		return game.DefaultConfig(), nil
	}
	if err != nil {
		return game.Config{}, err
	}
	log.Info("config loaded", "path", path, "ports", len(cfg.Ports), "goods", len(cfg.Goods))
	return cfg, nil
}
