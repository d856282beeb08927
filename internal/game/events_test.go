package game

import (
	"errors"
	"strings"
	"testing"
)

func TestStormOnlyLosesCarriedCargo(t *testing.T) {
	rng := &scriptedRandom{}
	var resolved []Outcome
	e := newTestEngine(t, rng, WithHooks(Hooks{EventResolved: func(out Outcome) { resolved = append(resolved, out) }}))
	setCargo(e, 10, 0, 0)
	e.voyage = &Voyage{From: PortIsrael, To: PortEgypt, DurationDays: 0.5, TravelHours: 6, Risk: RiskStorm}

	rng.floats = []float64{0.5}
	ev, err := e.OnMidpoint()
	if err != nil {
		t.Fatalf("midpoint: %v", err)
	}
	if ev == nil || !ev.Resolved {
		t.Fatalf("expected storm to resolve immediately, got %+v", ev)
	}

	if got := e.ledger.Cargo.Amount(GoodWheat); got != 8 {
		t.Fatalf("expected 8 wheat left, got %d", got)
	}
	if e.ledger.Cargo.Amount(GoodOlives) != 0 || e.ledger.Cargo.Amount(GoodCopper) != 0 {
		t.Fatalf("storm touched goods that were not aboard: %+v", e.ledger.Cargo)
	}
	if !strings.Contains(ev.Narrative, "2 tons of Wheat") {
		t.Fatalf("expected narrative to name the lost wheat, got %q", ev.Narrative)
	}
	if strings.Contains(ev.Narrative, "Olives") || strings.Contains(ev.Narrative, "Copper") {
		t.Fatalf("narrative names goods that were not lost: %q", ev.Narrative)
	}
	if !e.voyage.Paused || !e.voyage.EventFired {
		t.Fatalf("expected paused voyage with its event fired")
	}
	if len(resolved) != 1 || resolved[0].Kind != RiskStorm {
		t.Fatalf("expected one storm outcome notice, got %+v", resolved)
	}

	again, err := e.OnMidpoint()
	if err != nil || again != nil {
		t.Fatalf("expected midpoint to fire once, got %+v, %v", again, err)
	}
}

func TestStormLossBounds(t *testing.T) {
	cfg := DefaultConfig().Storm

	for seed := int64(1); seed <= 300; seed++ {
		rng := NewRandom(seed)
		l := Ledger{ShipCapacity: 100, Cargo: CargoHold{
			{GoodWheat, rng.IntN(40)},
			{GoodOlives, rng.IntN(40)},
			{GoodCopper, rng.IntN(20) + 1},
		}}
		before := l.Cargo.Total()

		out := resolveStorm(&l, cfg, rng)

		lost := out.CargoLost.Total()
		if lost < 1 || lost > before {
			t.Fatalf("seed %d: lost %d of %d", seed, lost, before)
		}
		if l.Cargo.Total() != before-lost {
			t.Fatalf("seed %d: hold total %d, expected %d", seed, l.Cargo.Total(), before-lost)
		}
		for _, item := range l.Cargo {
			if item.Amount < 0 {
				t.Fatalf("seed %d: negative cargo %+v", seed, item)
			}
		}
	}
}

func TestCargoRemovalOrders(t *testing.T) {
	h := CargoHold{{GoodWheat, 2}, {GoodOlives, 5}, {GoodCopper, 1}}
	lost := removeFirstFit(&h, 4)
	if h.Amount(GoodWheat) != 0 || h.Amount(GoodOlives) != 3 || h.Amount(GoodCopper) != 1 {
		t.Fatalf("first fit: unexpected hold %+v", h)
	}
	if describeCargo(lost) != "2 tons of Wheat, 2 tons of Olives" {
		t.Fatalf("first fit: unexpected loss %q", describeCargo(lost))
	}

	h = CargoHold{{GoodWheat, 2}, {GoodOlives, 5}, {GoodCopper, 4}}
	lost = removeLargestFirst(&h, 7)
	if h.Amount(GoodWheat) != 2 || h.Amount(GoodOlives) != 0 || h.Amount(GoodCopper) != 2 {
		t.Fatalf("largest first: unexpected hold %+v", h)
	}
	if lost.Total() != 7 {
		t.Fatalf("largest first: expected 7 lost, got %d", lost.Total())
	}

	h = CargoHold{{GoodWheat, 3}, {GoodOlives, 0}, {GoodCopper, 1}}
	lost = removeOneEach(&h)
	if describeCargo(lost) != "1 ton of Wheat, 1 ton of Copper" {
		t.Fatalf("one each: unexpected loss %q", describeCargo(lost))
	}
}

func salvagePrices(price int) PriceTable {
	return PriceTable{PortEgypt: {GoodWheat: price, GoodOlives: price, GoodCopper: price}}
}

func TestSalvageCappedByFreeSpace(t *testing.T) {
	l := Ledger{Balance: 1_000_000, ShipCapacity: 100, Cargo: CargoHold{{GoodWheat, 95}, {GoodOlives, 0}, {GoodCopper, 0}}}
	in := salvageInput{
		destination: PortEgypt,
		prices:      salvagePrices(50),
		localPrices: salvagePrices(50)[PortEgypt],
		goods:       []Good{GoodWheat, GoodOlives, GoodCopper},
	}

	out := resolveSalvage(&l, in, DefaultConfig().Salvage, &scriptedRandom{floats: []float64{0.5}, ints: []int{2}})

	if got := l.Cargo.Amount(GoodCopper); got != 5 {
		t.Fatalf("expected 5 copper salvaged, got %d", got)
	}
	if l.Cargo.Total() != l.ShipCapacity {
		t.Fatalf("expected a full hold, got %d", l.Cargo.Total())
	}
	if out.CargoGained.Total() != 5 || !strings.Contains(out.Narrative, "5 tons of Copper") {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestSalvageWithFullHold(t *testing.T) {
	l := Ledger{Balance: 5000, ShipCapacity: 10, Cargo: CargoHold{{GoodWheat, 10}}}
	in := salvageInput{destination: PortEgypt, prices: salvagePrices(50), goods: []Good{GoodWheat}}

	out := resolveSalvage(&l, in, DefaultConfig().Salvage, &scriptedRandom{})

	if l.Cargo.Total() != 10 || out.CargoGained.Total() != 0 {
		t.Fatalf("full hold changed: %+v", l.Cargo)
	}
	if out.Narrative == "" {
		t.Fatalf("expected a narrative")
	}
}

func TestSalvageWithoutDestinationPrice(t *testing.T) {
	l := Ledger{Balance: 5000, ShipCapacity: 10, Cargo: CargoHold{{GoodWheat, 0}}}
	in := salvageInput{destination: PortGreece, prices: salvagePrices(50), goods: []Good{GoodWheat}}

	out := resolveSalvage(&l, in, DefaultConfig().Salvage, &scriptedRandom{})

	if l.Cargo.Total() != 0 || out.CargoGained != nil {
		t.Fatalf("expected nothing salvaged, got %+v", out)
	}
}

func TestResolvePirates(t *testing.T) {
	cfg := DefaultConfig().Pirates

	tests := []struct {
		name        string
		option      string
		ledger      Ledger
		rng         *scriptedRandom
		wantBalance int
		wantCargo   [3]int
	}{
		{
			name:        "escape succeeds",
			option:      OptionEscape,
			ledger:      Ledger{Balance: 1000, Cargo: CargoHold{{GoodWheat, 4}, {GoodOlives, 0}, {GoodCopper, 0}}},
			rng:         &scriptedRandom{floats: []float64{0.0}},
			wantBalance: 1000,
			wantCargo:   [3]int{4, 0, 0},
		},
		{
			name:        "escort cap",
			option:      OptionEscape,
			ledger:      Ledger{Balance: 1000, Escorts: 10, Cargo: CargoHold{{GoodWheat, 4}, {GoodOlives, 0}, {GoodCopper, 0}}},
			rng:         &scriptedRandom{floats: []float64{0.89}},
			wantBalance: 1000,
			wantCargo:   [3]int{4, 0, 0},
		},
		{
			name:        "escape fails with cargo",
			option:      OptionEscape,
			ledger:      Ledger{Balance: 1000, Cargo: CargoHold{{GoodWheat, 2}, {GoodOlives, 5}, {GoodCopper, 4}}},
			rng:         &scriptedRandom{floats: []float64{0.99, 0.0}},
			wantBalance: 1000,
			wantCargo:   [3]int{2, 2, 4},
		},
		{
			name:        "escape fails with empty hold",
			option:      OptionEscape,
			ledger:      Ledger{Balance: 1000, Cargo: CargoHold{{GoodWheat, 0}, {GoodOlives, 0}, {GoodCopper, 0}}},
			rng:         &scriptedRandom{floats: []float64{0.99}, ints: []int{0}},
			wantBalance: 800,
		},
		{
			name:        "negotiate with cargo",
			option:      OptionNegotiate,
			ledger:      Ledger{Balance: 1000, Cargo: CargoHold{{GoodWheat, 3}, {GoodOlives, 0}, {GoodCopper, 1}}},
			rng:         &scriptedRandom{},
			wantBalance: 1000,
			wantCargo:   [3]int{2, 0, 0},
		},
		{
			name:        "negotiate with empty hold",
			option:      OptionNegotiate,
			ledger:      Ledger{Balance: 1000, Cargo: CargoHold{{GoodWheat, 0}, {GoodOlives, 0}, {GoodCopper, 0}}},
			rng:         &scriptedRandom{ints: []int{0}},
			wantBalance: 850,
		},
		{
			name:        "fight won",
			option:      OptionFight,
			ledger:      Ledger{Balance: 1000, Cargo: CargoHold{{GoodWheat, 1}, {GoodOlives, 0}, {GoodCopper, 0}}},
			rng:         &scriptedRandom{floats: []float64{0.0}, ints: []int{0}},
			wantBalance: 1350,
			wantCargo:   [3]int{1, 0, 0},
		},
		{
			name:        "fight won with escorts",
			option:      OptionFight,
			ledger:      Ledger{Balance: 1000, Escorts: 2, Cargo: CargoHold{{GoodWheat, 0}, {GoodOlives, 0}, {GoodCopper, 0}}},
			rng:         &scriptedRandom{floats: []float64{0.2}, ints: []int{0}},
			wantBalance: 1420,
		},
		{
			name:        "fight lost with cargo",
			option:      OptionFight,
			ledger:      Ledger{Balance: 1000, Cargo: CargoHold{{GoodWheat, 3}, {GoodOlives, 0}, {GoodCopper, 1}}},
			rng:         &scriptedRandom{floats: []float64{0.99}},
			wantBalance: 1000,
			wantCargo:   [3]int{2, 0, 0},
		},
		{
			name:        "fight lost while nearly broke",
			option:      OptionFight,
			ledger:      Ledger{Balance: 50, Cargo: CargoHold{{GoodWheat, 0}, {GoodOlives, 0}, {GoodCopper, 0}}},
			rng:         &scriptedRandom{floats: []float64{0.99}, ints: []int{0}},
			wantBalance: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.ledger
			before := l.Balance

			out, err := resolvePirates(tt.option, &l, cfg, tt.rng)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if l.Balance != tt.wantBalance {
				t.Fatalf("expected balance %d, got %d", tt.wantBalance, l.Balance)
			}
			if out.BalanceDelta != l.Balance-before {
				t.Fatalf("balance delta %d does not match change %d", out.BalanceDelta, l.Balance-before)
			}
			got := [3]int{l.Cargo.Amount(GoodWheat), l.Cargo.Amount(GoodOlives), l.Cargo.Amount(GoodCopper)}
			if got != tt.wantCargo {
				t.Fatalf("expected cargo %v, got %v", tt.wantCargo, got)
			}
			if out.Narrative == "" || out.Option != tt.option {
				t.Fatalf("incomplete outcome %+v", out)
			}
		})
	}
}

func TestResolvePiratesUnknownOption(t *testing.T) {
	l := Ledger{Balance: 1000}
	if _, err := resolvePirates("surrender", &l, DefaultConfig().Pirates, &scriptedRandom{}); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if l.Balance != 1000 {
		t.Fatalf("balance changed to %d", l.Balance)
	}
}

func TestPirateEncounterFlow(t *testing.T) {
	rng := &scriptedRandom{}
	var arrivals int
	e := newTestEngine(t, rng, WithHooks(Hooks{SmoothSailing: func(Port) { arrivals++ }}))

	rng.floats = []float64{0.1}
	if _, err := e.StartVoyage(PortEgypt); err != nil {
		t.Fatalf("start voyage: %v", err)
	}

	ev, err := e.OnMidpoint()
	if err != nil {
		t.Fatalf("midpoint: %v", err)
	}
	if ev.Kind != RiskPirate || ev.Resolved || len(ev.Options) != 3 {
		t.Fatalf("expected pending pirate choice, got %+v", ev)
	}
	if err := e.Resume(); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected resume to wait for a choice, got %v", err)
	}
	if _, err := e.ResolveEventOption("bribe"); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected unknown option rejection, got %v", err)
	}
	if e.event.Resolved {
		t.Fatalf("rejected option resolved the event")
	}

	out, err := e.ResolveEventOption(OptionNegotiate)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if out.BalanceDelta != -150 || e.ledger.Balance != 4850 {
		t.Fatalf("expected a toll of 150, got %+v with balance %d", out, e.ledger.Balance)
	}
	if _, err := e.ResolveEventOption(OptionFight); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected second resolution to be rejected, got %v", err)
	}

	if err := e.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if e.Snapshot().Event != nil {
		t.Fatalf("expected event cleared after resume")
	}
	if _, err := e.FinishVoyage(); err != nil {
		t.Fatalf("finish voyage: %v", err)
	}
	if arrivals != 0 {
		t.Fatalf("voyage with an event must not report smooth sailing")
	}
}
