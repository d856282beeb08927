/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers for the REST API.
    These functions decode the JSON request, hand the command to the engine
    under the server lock and return the resulting state as JSON.

    Key Responsibilities:
    - Input Validation (Is the JSON valid? Does the port or good exist?)
    - State Modification (Calling the engine to sail, trade and rest)
    - Mapping engine rejections to 409 Conflict
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/everforgeworks/mediterranean-merchant/internal/game"
	"github.com/everforgeworks/mediterranean-merchant/internal/leaderboard"
)

const maxBodyBytes = 1 << 16

// Request DTOs (Data Transfer Objects)

type VoyageRequest struct {
	Destination string `json:"destination"`
}

type OptionRequest struct {
	Option string `json:"option"`
}

type TradeRequest struct {
	Good     string `json:"good"`
	Quantity int    `json:"quantity"`
	Action   string `json:"action"` // "buy" or "sell"
}

type BankRequest struct {
	Action string `json:"action"` // "deposit" or "withdraw"
	Amount int    `json:"amount"`
}

type EscortRequest struct {
	Count int `json:"count"`
}

type ScoreRequest struct {
	Name string `json:"name"`
}

// Response DTOs

type StateResponse struct {
	RunID string `json:"run_id"`
	game.Snapshot
}

type MidpointResponse struct {
	Event *game.Event   `json:"event"`
	State StateResponse `json:"state"`
}

type OptionResponse struct {
	Outcome game.Outcome  `json:"outcome"`
	State   StateResponse `json:"state"`
}

type LeaderboardResponse struct {
	Entries   []leaderboard.Entry `json:"entries"`
	Qualifies bool                `json:"qualifies"`
}

// stateLocked must be called with s.mu held.
func (s *Server) stateLocked() StateResponse {
	return StateResponse{RunID: s.runID, Snapshot: s.engine.Snapshot()}
}

// command runs fn under the lock, broadcasts the new state and writes it back.
func (s *Server) command(w http.ResponseWriter, fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(); err != nil {
		s.writeError(w, err)
		return
	}
	state := s.stateLocked()
	s.hub.Publish(MsgState, state)
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, game.ErrRejected) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	s.log.Error("request failed", "err", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

// handleState returns the full game state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.stateLocked())
}

// handleRoutes lists travel times from the current port.
func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.engine.Routes())
}

func (s *Server) handleEscortQuote(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.engine.EscortQuote())
}

// handleStartVoyage departs for a port. The name is matched loosely ("egpyt").
func (s *Server) handleStartVoyage(w http.ResponseWriter, r *http.Request) {
	var req VoyageRequest
	if !decode(w, r, &req) {
		return
	}

	s.command(w, func() error {
		dest, err := game.ParsePort(req.Destination, s.engine.Config().PortNames())
		if err != nil {
			return &game.Rejection{Op: "start voyage", Reason: err.Error()}
		}
		if _, err := s.engine.StartVoyage(dest); err != nil {
			return err
		}
		s.metrics.voyagesStarted.Inc()
		return nil
	})
}

// handleMidpoint is called by the client when the ship reaches mid-route.
func (s *Server) handleMidpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := s.engine.OnMidpoint()
	if err != nil {
		s.writeError(w, err)
		return
	}
	state := s.stateLocked()
	s.hub.Publish(MsgState, state)
	writeJSON(w, http.StatusOK, MidpointResponse{Event: ev, State: state})
}

// handleOption answers a pirate encounter.
func (s *Server) handleOption(w http.ResponseWriter, r *http.Request) {
	var req OptionRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.engine.ResolveEventOption(strings.ToLower(strings.TrimSpace(req.Option)))
	if err != nil {
		s.writeError(w, err)
		return
	}
	state := s.stateLocked()
	s.hub.Publish(MsgState, state)
	writeJSON(w, http.StatusOK, OptionResponse{Outcome: out, State: state})
}

func (s *Server) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	s.command(w, s.engine.AcknowledgeEvent)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.command(w, s.engine.Resume)
}

func (s *Server) handleReroute(w http.ResponseWriter, r *http.Request) {
	s.command(w, s.engine.ApplyReroute)
}

// handleFinish docks the ship at its destination.
func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	s.command(w, func() error {
		_, err := s.engine.FinishVoyage()
		return err
	})
}

// handleTrade buys or sells at the current port.
func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	var req TradeRequest
	if !decode(w, r, &req) {
		return
	}

	var isBuy bool
	switch strings.ToLower(req.Action) {
	case "buy":
		isBuy = true
	case "sell":
	default:
		http.Error(w, "Action must be buy or sell", http.StatusBadRequest)
		return
	}

	s.command(w, func() error {
		good, ok := matchGood(req.Good, s.engine.Config().GoodNames())
		if !ok {
			return &game.Rejection{Op: "trade", Reason: "unknown good " + req.Good}
		}
		return s.engine.Trade(good, req.Quantity, isBuy)
	})
}

func (s *Server) handleBank(w http.ResponseWriter, r *http.Request) {
	var req BankRequest
	if !decode(w, r, &req) {
		return
	}
	s.command(w, func() error {
		return s.engine.BankTransfer(game.BankAction(strings.ToLower(req.Action)), req.Amount)
	})
}

// handleHireEscorts hires at the current quote. Clients never set the price.
func (s *Server) handleHireEscorts(w http.ResponseWriter, r *http.Request) {
	var req EscortRequest
	if !decode(w, r, &req) {
		return
	}
	s.command(w, func() error {
		quote := s.engine.EscortQuote()
		return s.engine.HireEscorts(req.Count, quote.PricePerShip)
	})
}

func (s *Server) handleAcceptExpansion(w http.ResponseWriter, r *http.Request) {
	s.command(w, func() error {
		if err := s.engine.AcceptExpansion(); err != nil {
			return err
		}
		s.metrics.expansionOffers.WithLabelValues("accepted").Inc()
		return nil
	})
}

func (s *Server) handleDeclineExpansion(w http.ResponseWriter, r *http.Request) {
	s.command(w, func() error {
		if err := s.engine.DeclineExpansion(); err != nil {
			return err
		}
		s.metrics.expansionOffers.WithLabelValues("declined").Inc()
		return nil
	})
}

func (s *Server) handleRest(w http.ResponseWriter, r *http.Request) {
	s.command(w, s.engine.Rest)
}

// handleReset starts a new season with the latest configuration.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.command(w, func() error {
		if err := s.engine.Reset(s.next); err != nil {
			return err
		}
		s.runID = newRunID()
		s.submitted = false
		s.log.Info("new run", "run_id", s.runID)
		return nil
	})
}

// handleGetLeaderboard returns the top scores and whether the finished
// season may still be entered.
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.board == nil {
		http.Error(w, "Leaderboard unavailable", http.StatusServiceUnavailable)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.board.Top(r.Context(), leaderboard.Size)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := LeaderboardResponse{Entries: entries}
	if s.engine.GameOver() && !s.submitted {
		resp.Qualifies, err = s.board.Qualifies(r.Context(), s.engine.Score())
		if err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSubmitScore records the finished season's balance once per run.
func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	if s.board == nil {
		http.Error(w, "Leaderboard unavailable", http.StatusServiceUnavailable)
		return
	}
	var req ScoreRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Only finished seasons, only once
	if !s.engine.GameOver() {
		http.Error(w, "The season is not over yet", http.StatusConflict)
		return
	}
	if s.submitted {
		http.Error(w, "Score already submitted for this run", http.StatusConflict)
		return
	}

	// 2. Must beat the board
	score := s.engine.Score()
	ok, err := s.board.Qualifies(r.Context(), score)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !ok {
		http.Error(w, "Score does not qualify", http.StatusConflict)
		return
	}

	// 3. Record
	entries, err := s.board.Add(r.Context(), leaderboard.Entry{RunID: s.runID, Name: req.Name, Score: score})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.submitted = true
	s.log.Info("score submitted", "run_id", s.runID, "name", req.Name, "score", score)
	writeJSON(w, http.StatusCreated, LeaderboardResponse{Entries: entries})
}

func matchGood(name string, goods []game.Good) (game.Good, bool) {
	name = strings.TrimSpace(name)
	for _, g := range goods {
		if strings.EqualFold(string(g), name) {
			return g, true
		}
	}
	return "", false
}
