/*
Package api
File: server.go
Description:
    Hosts one voyage engine behind HTTP and WebSockets.

    The engine is not safe for concurrent use, so every handler takes the
    server lock for the whole command. Engine hooks fire inside that lock
    and are forwarded to the hub and the metrics.
*/

package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/everforgeworks/mediterranean-merchant/internal/game"
	"github.com/everforgeworks/mediterranean-merchant/internal/leaderboard"
)

// Leaderboard is the score store used by the leaderboard endpoints.
type Leaderboard interface {
	Top(ctx context.Context, n int) ([]leaderboard.Entry, error)
	Qualifies(ctx context.Context, score int) (bool, error)
	Add(ctx context.Context, e leaderboard.Entry) ([]leaderboard.Entry, error)
}

// Server owns the engine and everything the handlers need around it.
type Server struct {
	mu        sync.Mutex
	engine    *game.Engine
	next      game.Config // Applied on the next reset
	runID     string
	submitted bool

	hub     *Hub
	board   Leaderboard
	metrics *Metrics
	log     *slog.Logger
}

// DayRolloverPayload is pushed when a new day starts.
type DayRolloverPayload struct {
	Day   int                  `json:"day"`
	Offer *game.ExpansionOffer `json:"offer,omitempty"`
}

// SmoothSailingPayload is pushed when a voyage ends without incident.
type SmoothSailingPayload struct {
	Destination game.Port `json:"destination"`
	Message     string    `json:"message"`
}

// NewServer starts a game with cfg. board may be nil, which disables the
// leaderboard endpoints.
func NewServer(cfg game.Config, rng game.Random, hub *Hub, board Leaderboard, metrics *Metrics, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if hub == nil {
		hub = NewHub(log)
	}

	s := &Server{
		next:    cfg,
		runID:   newRunID(),
		hub:     hub,
		board:   board,
		metrics: metrics,
		log:     log,
	}

	engine, err := game.NewEngine(cfg, rng,
		game.WithLogger(log.With("component", "engine")),
		game.WithHooks(s.hooks()),
	)
	if err != nil {
		return nil, fmt.Errorf("new server: %w", err)
	}
	s.engine = engine

	log.Info("game started", "run_id", s.runID, "port", cfg.Start.Port, "balance", cfg.Start.Balance)
	return s, nil
}

func newRunID() string {
	return uuid.NewString()
}

func (s *Server) hooks() game.Hooks {
	return game.Hooks{
		DayRollover: func(day int, offer *game.ExpansionOffer) {
			s.metrics.dayRollovers.Inc()
			if offer != nil {
				s.metrics.expansionOffers.WithLabelValues("offered").Inc()
			}
			s.hub.Publish(MsgDayRollover, DayRolloverPayload{Day: day, Offer: offer})
		},
		SmoothSailing: func(dest game.Port) {
			s.hub.Publish(MsgSmoothSailing, SmoothSailingPayload{
				Destination: dest,
				Message:     fmt.Sprintf("You sailed to %s with no incidents.", dest),
			})
		},
		EventResolved: func(out game.Outcome) {
			s.metrics.events.WithLabelValues(string(out.Kind)).Inc()
			s.hub.Publish(MsgEventResolved, out)
		},
	}
}

// Reload swaps in a new configuration. The running game keeps its own until
// the player resets.
func (s *Server) Reload(cfg game.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = cfg
	s.log.Info("config reloaded, applies on next reset")
}

// Routes builds the HTTP handler for every endpoint.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Information
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/routes", s.handleRoutes)
	mux.HandleFunc("GET /api/escorts/quote", s.handleEscortQuote)

	// Voyage
	mux.HandleFunc("POST /api/voyage/start", s.handleStartVoyage)
	mux.HandleFunc("POST /api/voyage/midpoint", s.handleMidpoint)
	mux.HandleFunc("POST /api/voyage/option", s.handleOption)
	mux.HandleFunc("POST /api/voyage/ack", s.handleAcknowledge)
	mux.HandleFunc("POST /api/voyage/resume", s.handleResume)
	mux.HandleFunc("POST /api/voyage/reroute", s.handleReroute)
	mux.HandleFunc("POST /api/voyage/finish", s.handleFinish)

	// Port actions
	mux.HandleFunc("POST /api/trade", s.handleTrade)
	mux.HandleFunc("POST /api/bank", s.handleBank)
	mux.HandleFunc("POST /api/escorts", s.handleHireEscorts)
	mux.HandleFunc("POST /api/expansion/accept", s.handleAcceptExpansion)
	mux.HandleFunc("POST /api/expansion/decline", s.handleDeclineExpansion)
	mux.HandleFunc("POST /api/rest", s.handleRest)
	mux.HandleFunc("POST /api/reset", s.handleReset)

	// Leaderboard
	mux.HandleFunc("GET /api/leaderboard", s.handleGetLeaderboard)
	mux.HandleFunc("POST /api/leaderboard", s.handleSubmitScore)

	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(s.hub, w, r, s.greeting)
	})

	return s.metrics.Instrument(mux)
}

func (s *Server) greeting() Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Message{Type: MsgState, Payload: s.stateLocked()}
}
