/*
Package game
File: sailing.go
Description:
    The sailing state machine.

        Idle -> InTransit(paused=false) <-> InTransit(paused=true) -> Idle

    A voyage is created by Engine.StartVoyage and destroyed by
    Engine.FinishVoyage. Pausing is a flag only: the host must stop
    advancing its progress signal while Paused is true.
*/

package game

// Voyage is one in-progress sailing attempt.
type Voyage struct {
	From          Port     `json:"from"`
	To            Port     `json:"to"`
	DurationDays  float64  `json:"duration_days"`
	TravelHours   int      `json:"travel_hours"`
	Risk          RiskKind `json:"risk"`
	EventFired    bool     `json:"event_fired"`
	Paused        bool     `json:"paused"`
	RerouteTarget Port     `json:"reroute_target,omitempty"`
}

// Pause freezes the voyage. Repeated calls are harmless.
func (v *Voyage) Pause() { v.Paused = true }

// Resume lets the host advance the voyage again.
func (v *Voyage) Resume() { v.Paused = false }

// MarkEventFired stops the midpoint from raising a second event.
func (v *Voyage) MarkEventFired() { v.EventFired = true }

// RerouteDue reports a navigation error whose new course is not applied yet.
func (v *Voyage) RerouteDue() bool {
	return v.Risk == RiskNavigationError && v.RerouteTarget != ""
}

// ApplyReroute turns the ship toward the reroute target. The duration is
// kept as scheduled for the original destination.
func (v *Voyage) ApplyReroute() error {
	if v.Risk != RiskNavigationError {
		return reject("reroute", "voyage has no navigation error")
	}
	if v.RerouteTarget == "" {
		return reject("reroute", "no reroute target set")
	}
	v.To = v.RerouteTarget
	v.RerouteTarget = ""
	return nil
}

func (v *Voyage) clone() *Voyage {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// riskContext is everything the departure draw depends on.
type riskContext struct {
	night      bool
	cargoTotal int
	weather    Weather
}

type riskPartition struct {
	kind RiskKind
	p    float64
}

// partitions returns the probability mass of each risk in draw order.
func (rc riskContext) partitions(cfg RiskConfig) []riskPartition {
	pirate := cfg.PirateDay
	if rc.night {
		pirate = cfg.PirateNight
	}

	// Storms need cargo to throw overboard
	storm := 0.0
	if rc.cargoTotal > 0 {
		storm = cfg.Storm
		if rc.weather == WeatherStormy {
			storm += cfg.StormyWeatherBonus
		}
	}

	return []riskPartition{
		{RiskPirate, pirate},
		{RiskStorm, storm},
		{RiskDesertedShips, cfg.DesertedShips},
		{RiskNavigationError, cfg.NavigationError},
	}
}

// drawRisk makes the single uniform draw that assigns at most one risk.
func drawRisk(rng Random, cfg RiskConfig, rc riskContext) RiskKind {
	roll := rng.Float64()
	cumulative := 0.0
	for _, part := range rc.partitions(cfg) {
		if part.p <= 0 {
			continue
		}
		cumulative += part.p
		if roll < cumulative {
			return part.kind
		}
	}
	return RiskNone
}

// StartVoyage departs for dest. Rejections leave the engine unchanged.
func (e *Engine) StartVoyage(dest Port) (*Voyage, error) {
	const op = "start voyage"

	if e.GameOver() {
		return nil, reject(op, "the season is over")
	}
	if e.voyage != nil {
		return nil, reject(op, "already at sea, bound for %s", e.voyage.To)
	}
	if !e.cfg.HasPort(dest) {
		return nil, reject(op, "unknown port %q", dest)
	}
	if dest == e.port {
		return nil, reject(op, "already docked at %s", dest)
	}

	// 1. Route: must exist and arrive before the harbour closes
	days, ok := e.cfg.TravelDays(e.port, dest)
	if !ok {
		return nil, reject(op, "no route from %s to %s", e.port, dest)
	}
	hours := e.clock.TravelHours(days)
	if e.clock.Hour+hours > e.cfg.Clock.DayEndHour {
		return nil, reject(op, "you cannot arrive after %02d:00, rest until the next day", e.cfg.Clock.DayEndHour)
	}

	// 2. Capacity: only checked at departure
	if total := e.ledger.Cargo.Total(); total > e.ledger.ShipCapacity {
		return nil, reject(op, "cargo of %d tons exceeds ship capacity of %d", total, e.ledger.ShipCapacity)
	}

	// 3. Risk is drawn once, here, and never re-rolled
	risk := drawRisk(e.rng, e.cfg.Risk, riskContext{
		night:      e.clock.IsNight(),
		cargoTotal: e.ledger.Cargo.Total(),
		weather:    e.weather,
	})

	e.voyage = &Voyage{
		From:         e.port,
		To:           dest,
		DurationDays: days,
		TravelHours:  hours,
		Risk:         risk,
	}
	e.event = nil

	e.log.Info("voyage started", "from", e.port, "to", dest, "hours", hours, "risk", string(risk), "escorts", e.ledger.Escorts)
	return e.voyage.clone(), nil
}

// Pause freezes the active voyage.
func (e *Engine) Pause() error {
	if e.voyage == nil {
		return reject("pause", "no voyage in progress")
	}
	e.voyage.Pause()
	return nil
}

// Resume continues the active voyage after the host has shown an event.
func (e *Engine) Resume() error {
	const op = "resume"

	if e.voyage == nil {
		return reject(op, "no voyage in progress")
	}
	if e.event != nil && !e.event.Resolved {
		return reject(op, "the %s event is waiting for a choice", e.event.Kind)
	}
	if e.voyage.RerouteDue() {
		return reject(op, "apply the reroute to %s first", e.voyage.RerouteTarget)
	}
	e.voyage.Resume()
	e.event = nil
	return nil
}

// MarkEventFired stops the midpoint from raising an event for this voyage.
func (e *Engine) MarkEventFired() error {
	if e.voyage == nil {
		return reject("mark event", "no voyage in progress")
	}
	e.voyage.MarkEventFired()
	return nil
}

// ApplyReroute turns the ship toward the navigation error's target.
func (e *Engine) ApplyReroute() error {
	if e.voyage == nil {
		return reject("reroute", "no voyage in progress")
	}
	from := e.voyage.To
	if err := e.voyage.ApplyReroute(); err != nil {
		return err
	}
	e.log.Info("voyage rerouted", "from", from, "to", e.voyage.To, "hours", e.voyage.TravelHours)
	return nil
}

// AcknowledgeEvent is the host's "continue" button: it applies a pending
// reroute if there is one and resumes the voyage.
func (e *Engine) AcknowledgeEvent() error {
	if e.voyage == nil {
		return reject("acknowledge", "no voyage in progress")
	}
	if e.event != nil && !e.event.Resolved {
		return reject("acknowledge", "the %s event is waiting for a choice", e.event.Kind)
	}
	if e.voyage.RerouteDue() {
		if err := e.ApplyReroute(); err != nil {
			return err
		}
	}
	return e.Resume()
}

// FinishVoyage docks the ship at the voyage's destination.
func (e *Engine) FinishVoyage() (*Voyage, error) {
	const op = "finish voyage"

	v := e.voyage
	if v == nil {
		return nil, reject(op, "no voyage in progress")
	}
	if v.Paused {
		return nil, reject(op, "the voyage is paused")
	}

	e.clock.AdvanceByHours(v.TravelHours)
	e.port = v.To
	e.weather = e.drawWeather()
	e.ledger.ClearEscorts()
	e.voyage = nil
	e.event = nil

	e.log.Info("voyage finished", "port", e.port, "day", e.clock.Day, "time", e.clock.Format(), "event", v.EventFired)
	if !v.EventFired && e.hooks.SmoothSailing != nil {
		e.hooks.SmoothSailing(v.To)
	}
	return v.clone(), nil
}

// Routes lists every other port with its travel time from the current port.
func (e *Engine) Routes() []RouteInfo {
	routes := make([]RouteInfo, 0, len(e.cfg.Ports))
	for _, p := range e.cfg.Ports {
		if p.Name == e.port {
			continue
		}
		info := RouteInfo{To: p.Name}
		if days, ok := e.cfg.TravelDays(e.port, p.Name); ok {
			info.Days = days
			info.Hours = e.clock.TravelHours(days)
			info.Reachable = true
			info.InTime = e.clock.Hour+info.Hours <= e.cfg.Clock.DayEndHour
		}
		routes = append(routes, info)
	}
	return routes
}
