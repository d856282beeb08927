/*
Package game
File: state.go
Description:
    Manages the runtime state of one game.
    The Engine holds the clock, the current port and weather, the ledger,
    the price table and the active voyage, and threads an injected random
    source through every transition so games can be replayed from a seed.

    The Engine is not safe for concurrent use. Hosts serialise calls.
*/

package game

import (
	"errors"
	"fmt"
	"log/slog"
)

// Hooks are notifications the host may subscribe to. Nil hooks are skipped.
type Hooks struct {
	// DayRollover fires once per new day. offer is the capacity offer rolled
	// for that day, or nil.
	DayRollover func(day int, offer *ExpansionOffer)
	// SmoothSailing fires when a voyage finishes without any event.
	SmoothSailing func(dest Port)
	// EventResolved fires with the outcome of every resolved event.
	EventResolved func(out Outcome)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithHooks subscribes the host to engine notifications.
func WithHooks(h Hooks) Option {
	return func(e *Engine) { e.hooks = h }
}

// Engine is the voyage simulation.
type Engine struct {
	cfg   Config
	rng   Random
	log   *slog.Logger
	hooks Hooks

	clock   Clock
	port    Port
	weather Weather
	ledger  Ledger
	prices  PriceTable
	voyage  *Voyage
	event   *Event
	offer   *ExpansionOffer

	eventSeq int
}

// NewEngine validates cfg and starts a game on day 1.
func NewEngine(cfg Config, rng Random, opts ...Option) (*Engine, error) {
	if rng == nil {
		return nil, errors.New("new engine: nil random source")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}

	e := &Engine{rng: rng, log: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	e.reset(cfg)
	return e, nil
}

// Reset starts a new game ("play again") with the given configuration.
func (e *Engine) Reset(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	e.reset(cfg)
	e.log.Info("game reset", "port", e.port, "balance", e.ledger.Balance)
	return nil
}

func (e *Engine) reset(cfg Config) {
	e.cfg = cfg
	e.clock = NewClock(cfg.Clock, e.dayRollover)
	e.port = cfg.Start.Port
	e.ledger = NewLedger(cfg.Start, cfg.GoodNames())
	e.prices = GeneratePriceTable(cfg.PortNames(), cfg.Goods, e.rng)
	e.weather = e.drawWeather()
	e.voyage = nil
	e.event = nil
	e.offer = nil
	e.eventSeq = 0
}

// Config returns the configuration of the current game.
func (e *Engine) Config() Config { return e.cfg }

// GameOver is true once the last day has passed.
func (e *Engine) GameOver() bool {
	return e.clock.Day > e.cfg.Clock.Horizon
}

// Score is the final balance used for the leaderboard.
func (e *Engine) Score() int {
	return e.ledger.Balance
}

// Snapshot copies the state for the host. Mutating it does not affect the engine.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Day:          e.clock.Day,
		Hour:         e.clock.Hour,
		Time:         e.clock.Format(),
		Night:        e.clock.IsNight(),
		Port:         e.port,
		Weather:      e.weather,
		Balance:      e.ledger.Balance,
		Bank:         e.ledger.Bank,
		Cargo:        e.ledger.Cargo.Clone(),
		CargoValue:   e.cargoValue(),
		ShipCapacity: e.ledger.ShipCapacity,
		Escorts:      e.ledger.Escorts,
		Prices:       e.prices.Clone(),
		Voyage:       e.voyage.clone(),
		Event:        e.event.clone(),
		GameOver:     e.GameOver(),
		Score:        e.Score(),
	}
	if e.voyage != nil {
		s.Paused = e.voyage.Paused
	}
	if e.offer != nil {
		offer := *e.offer
		s.Offer = &offer
	}
	return s
}

// Ledger returns a copy of the ledger.
func (e *Engine) Ledger() Ledger { return e.ledger.clone() }

// Voyage returns a copy of the active voyage, or nil when docked.
func (e *Engine) Voyage() *Voyage { return e.voyage.clone() }

// cargoValue prices the hold at the current port.
func (e *Engine) cargoValue() int {
	return e.ledger.CargoValue(e.prices[e.port])
}

func (e *Engine) drawWeather() Weather {
	return e.cfg.Weather[e.rng.IntN(len(e.cfg.Weather))]
}

// dayRollover runs once per new day: prices, weather, then the expansion
// offer judged on the balance from before the rollover.
func (e *Engine) dayRollover() {
	balance := e.ledger.Balance

	e.prices = GeneratePriceTable(e.cfg.PortNames(), e.cfg.Goods, e.rng)
	e.weather = e.drawWeather()

	offer := RollExpansionOffer(e.clock.Day, balance, e.ledger.ShipCapacity, e.cfg.Expansion, e.rng)
	if offer != nil {
		if e.offer != nil {
			// An unanswered offer is declined by the newer one.
			e.log.Info("expansion offer auto-declined", "day", e.offer.Day, "price", e.offer.Price)
		}
		e.offer = offer
		e.log.Info("expansion offered", "day", offer.Day, "price", offer.Price, "new_capacity", offer.NewCapacity)
	}

	e.log.Info("new day", "day", e.clock.Day, "weather", e.weather)
	if e.hooks.DayRollover != nil {
		var copied *ExpansionOffer
		if offer != nil {
			o := *offer
			copied = &o
		}
		e.hooks.DayRollover(e.clock.Day, copied)
	}
}
