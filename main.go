/*
Package main
File: main.go
Description: Server entry point. Loads the voyage tuning, opens the
leaderboard, starts the real-time WebSocket hub and serves the game API.
*/

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/everforgeworks/mediterranean-merchant/internal/api"
	"github.com/everforgeworks/mediterranean-merchant/internal/game"
	"github.com/everforgeworks/mediterranean-merchant/internal/leaderboard"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Settings and logging
	set, err := loadSettings()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: set.level()}))
	slog.SetDefault(logger)

	// 2. Game tuning from YAML
	cfg, err := loadGameConfig(set.ConfigPath, logger)
	if err != nil {
		return err
	}

	seed := set.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("random source ready", "seed", seed)

	// 3. Leaderboard database
	if err := os.MkdirAll(filepath.Dir(set.DBPath), 0o755); err != nil {
		return err
	}
	board, err := leaderboard.Open(set.DBPath)
	if err != nil {
		return err
	}
	defer board.Close()
	logger.Info("leaderboard opened", "path", set.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Real-time hub
	hub := api.NewHub(logger.With("component", "hub"))
	go hub.Run(ctx)

	srv, err := api.NewServer(cfg, game.NewRandom(seed), hub, board, api.NewMetrics(), logger)
	if err != nil {
		return err
	}

	// 5. Hot reload: SIGHUP re-reads the tuning file for the next game
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGHUP)
		defer signal.Stop(sigChan)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigChan:
				logger.Info("SIGHUP: reloading config", "path", set.ConfigPath)
				next, err := loadGameConfig(set.ConfigPath, logger)
				if err != nil {
					logger.Error("config reload failed, keeping current config", "err", err)
					continue
				}
				srv.Reload(next)
			}
		}
	}()

	// 6. Serve
	limiter := api.NewRateLimiter(set.RateLimit, set.RateBurst)
	httpServer := &http.Server{
		Addr:              set.Addr,
		Handler:           api.CORS(limiter.Middleware(srv.Routes())),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("Mediterranean Merchant server live", "addr", set.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server shut down")
	return nil
}
