package game

import (
	"io"
	"log/slog"
	"testing"
)

// scriptedRandom returns queued values in order. An empty float queue yields
// 0.999 (nothing triggers); an empty int queue yields 0.
type scriptedRandom struct {
	floats []float64
	ints   []int
}

func (s *scriptedRandom) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.999
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRandom) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, rng Random, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	e, err := NewEngine(DefaultConfig(), rng, opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func setCargo(e *Engine, wheat, olives, copper int) {
	e.ledger.Cargo = CargoHold{
		{Good: GoodWheat, Amount: wheat},
		{Good: GoodOlives, Amount: olives},
		{Good: GoodCopper, Amount: copper},
	}
}
