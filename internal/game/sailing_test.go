package game

import (
	"errors"
	"testing"
)

func TestVoyageWithoutRiskArrivesSameDay(t *testing.T) {
	rng := &scriptedRandom{}
	var arrived []Port
	e := newTestEngine(t, rng, WithHooks(Hooks{SmoothSailing: func(p Port) { arrived = append(arrived, p) }}))

	v, err := e.StartVoyage(PortEgypt)
	if err != nil {
		t.Fatalf("start voyage: %v", err)
	}
	if v.Risk != RiskNone || v.TravelHours != 6 {
		t.Fatalf("expected a quiet 6 hour voyage, got %+v", v)
	}

	ev, err := e.OnMidpoint()
	if err != nil || ev != nil {
		t.Fatalf("expected no event at midpoint, got %+v, %v", ev, err)
	}

	if _, err := e.FinishVoyage(); err != nil {
		t.Fatalf("finish voyage: %v", err)
	}

	s := e.Snapshot()
	if s.Port != PortEgypt || s.Day != 1 || s.Hour != 14 {
		t.Fatalf("expected Egypt day 1 14:00, got %s day %d %s", s.Port, s.Day, s.Time)
	}
	if s.Voyage != nil {
		t.Fatalf("expected to be docked")
	}
	if len(arrived) != 1 || arrived[0] != PortEgypt {
		t.Fatalf("expected one smooth sailing notice for Egypt, got %v", arrived)
	}
}

func TestStartVoyageRejections(t *testing.T) {
	tests := []struct {
		name  string
		setup func(e *Engine)
		dest  Port
	}{
		{name: "unknown port", dest: Port("Atlantis")},
		{name: "same port", dest: PortIsrael},
		{name: "no route", setup: func(e *Engine) { e.port = PortEgypt }, dest: PortCyprus},
		{name: "arrives too late", setup: func(e *Engine) { e.clock.Hour = 14 }, dest: PortGreece},
		{name: "over capacity", setup: func(e *Engine) { setCargo(e, 101, 0, 0) }, dest: PortEgypt},
		{name: "season over", setup: func(e *Engine) { e.clock.Day = 8 }, dest: PortEgypt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, &scriptedRandom{})
			if tt.setup != nil {
				tt.setup(e)
			}
			before := e.Snapshot()

			_, err := e.StartVoyage(tt.dest)
			if !errors.Is(err, ErrRejected) {
				t.Fatalf("expected rejection, got %v", err)
			}
			after := e.Snapshot()
			if after.Voyage != nil || after.Hour != before.Hour || after.Balance != before.Balance {
				t.Fatalf("rejected departure changed state: %+v", after)
			}
		})
	}
}

func TestStartVoyageWhileAtSea(t *testing.T) {
	e := newTestEngine(t, &scriptedRandom{})
	if _, err := e.StartVoyage(PortEgypt); err != nil {
		t.Fatalf("start voyage: %v", err)
	}
	if _, err := e.StartVoyage(PortTurkey); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected rejection while at sea, got %v", err)
	}
	if e.Voyage().To != PortEgypt {
		t.Fatalf("expected destination to stay Egypt")
	}
}

func TestVoyageArrivingAtClosingHour(t *testing.T) {
	e := newTestEngine(t, &scriptedRandom{})
	e.clock.Hour = 14

	if _, err := e.StartVoyage(PortEgypt); err != nil {
		t.Fatalf("expected to arrive exactly at 20:00, got %v", err)
	}
}

func TestDrawRiskPartitions(t *testing.T) {
	cfg := DefaultConfig().Risk

	tests := []struct {
		name string
		roll float64
		rc   riskContext
		want RiskKind
	}{
		{"day pirates", 0.10, riskContext{cargoTotal: 10, weather: WeatherSunny}, RiskPirate},
		{"storm with cargo", 0.25, riskContext{cargoTotal: 10, weather: WeatherSunny}, RiskStorm},
		{"deserted with cargo", 0.45, riskContext{cargoTotal: 10, weather: WeatherSunny}, RiskDesertedShips},
		{"navigation with cargo", 0.57, riskContext{cargoTotal: 10, weather: WeatherSunny}, RiskNavigationError},
		{"quiet with cargo", 0.70, riskContext{cargoTotal: 10, weather: WeatherSunny}, RiskNone},
		{"no storm on empty hold", 0.25, riskContext{weather: WeatherStormy}, RiskDesertedShips},
		{"navigation on empty hold", 0.37, riskContext{weather: WeatherSunny}, RiskNavigationError},
		{"quiet on empty hold", 0.45, riskContext{weather: WeatherSunny}, RiskNone},
		{"night pirates", 0.25, riskContext{night: true, weather: WeatherSunny}, RiskPirate},
		{"stormy weather widens storms", 0.45, riskContext{cargoTotal: 1, weather: WeatherStormy}, RiskStorm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := drawRisk(&scriptedRandom{floats: []float64{tt.roll}}, cfg, tt.rc)
			if got != tt.want {
				t.Fatalf("roll %.2f: expected %q, got %q", tt.roll, tt.want, got)
			}
		})
	}
}

func TestDrawRiskNeverStormsOnEmptyHold(t *testing.T) {
	cfg := DefaultConfig().Risk
	rng := NewRandom(7)

	for i := 0; i < 5000; i++ {
		rc := riskContext{night: i%2 == 0, weather: WeatherStormy}
		if got := drawRisk(rng, cfg, rc); got == RiskStorm {
			t.Fatalf("draw %d: storm assigned to an empty hold", i)
		}
	}
}

func TestPauseAndResume(t *testing.T) {
	e := newTestEngine(t, &scriptedRandom{})
	if _, err := e.StartVoyage(PortEgypt); err != nil {
		t.Fatalf("start voyage: %v", err)
	}

	if err := e.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := e.Pause(); err != nil {
		t.Fatalf("second pause: %v", err)
	}
	if !e.Snapshot().Paused {
		t.Fatalf("expected voyage to be paused")
	}
	if _, err := e.FinishVoyage(); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected finish to be rejected while paused, got %v", err)
	}

	if err := e.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if _, err := e.FinishVoyage(); err != nil {
		t.Fatalf("finish voyage: %v", err)
	}
}

func TestEscortsLastOneVoyage(t *testing.T) {
	e := newTestEngine(t, &scriptedRandom{})
	e.ledger.Balance = 1000

	if err := e.HireEscorts(2, 100); err != nil {
		t.Fatalf("hire escorts: %v", err)
	}
	if e.ledger.Balance != 800 || e.ledger.Escorts != 2 {
		t.Fatalf("expected balance 800 with 2 escorts, got %d with %d", e.ledger.Balance, e.ledger.Escorts)
	}

	if _, err := e.StartVoyage(PortEgypt); err != nil {
		t.Fatalf("start voyage: %v", err)
	}
	if _, err := e.FinishVoyage(); err != nil {
		t.Fatalf("finish voyage: %v", err)
	}
	if e.ledger.Escorts != 0 {
		t.Fatalf("expected escorts to leave after arrival, got %d", e.ledger.Escorts)
	}
}

func TestNavigationErrorReroute(t *testing.T) {
	rng := &scriptedRandom{}
	e := newTestEngine(t, rng)

	rng.floats = []float64{0.37}
	if _, err := e.StartVoyage(PortEgypt); err != nil {
		t.Fatalf("start voyage: %v", err)
	}
	if e.Voyage().Risk != RiskNavigationError {
		t.Fatalf("expected navigation error, got %q", e.Voyage().Risk)
	}

	// Candidates are Turkey, Cyprus, Greece.
	rng.ints = []int{1}
	ev, err := e.OnMidpoint()
	if err != nil {
		t.Fatalf("midpoint: %v", err)
	}
	if ev == nil || !ev.Resolved || ev.Outcome == nil || ev.Outcome.RerouteTo != PortCyprus {
		t.Fatalf("expected resolved reroute to Cyprus, got %+v", ev)
	}

	if err := e.Resume(); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected resume to wait for the reroute, got %v", err)
	}
	if err := e.AcknowledgeEvent(); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}

	v := e.Voyage()
	if v.To != PortCyprus || v.TravelHours != 6 || v.Paused {
		t.Fatalf("expected running voyage to Cyprus keeping 6 hours, got %+v", v)
	}

	if _, err := e.FinishVoyage(); err != nil {
		t.Fatalf("finish voyage: %v", err)
	}
	if s := e.Snapshot(); s.Port != PortCyprus || s.Hour != 14 {
		t.Fatalf("expected Cyprus at 14:00, got %s %s", s.Port, s.Time)
	}
}

func TestApplyRerouteWithoutNavigationError(t *testing.T) {
	v := &Voyage{From: PortIsrael, To: PortEgypt, Risk: RiskStorm}
	if err := v.ApplyReroute(); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if v.To != PortEgypt {
		t.Fatalf("destination changed to %s", v.To)
	}
}

func TestRoutesFromIsrael(t *testing.T) {
	e := newTestEngine(t, &scriptedRandom{})
	e.clock.Hour = 14

	routes := e.Routes()
	if len(routes) != 4 {
		t.Fatalf("expected 4 routes, got %d", len(routes))
	}
	for _, r := range routes {
		if !r.Reachable {
			t.Fatalf("expected %s reachable from Israel", r.To)
		}
		if r.To == PortGreece && r.InTime {
			t.Fatalf("Greece should not be reachable before closing from 14:00")
		}
		if r.To == PortCyprus && (r.Hours != 1 || !r.InTime) {
			t.Fatalf("expected Cyprus one hour away, got %+v", r)
		}
	}
}
