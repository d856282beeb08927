/*
Package game
File: models.go
Description:
    Defines the data structures shared by the voyage engine.
    This file serves as the "schema" for the simulation, mapping directly to
    YAML configuration files and JSON API responses.

    Behaviour lives next to the component that owns it (ledger.go, clock.go,
    sailing.go, events.go); only small enum helpers are defined here.
*/

package game

// Port is a tradeable location the ship can occupy or sail to.
type Port string

const (
	PortIsrael Port = "Israel"
	PortTurkey Port = "Turkey"
	PortEgypt  Port = "Egypt"
	PortCyprus Port = "Cyprus"
	PortGreece Port = "Greece"
)

// Good is one of the commodity kinds traded at every port.
type Good string

const (
	GoodWheat  Good = "Wheat"
	GoodOlives Good = "Olives"
	GoodCopper Good = "Copper"
)

// Weather is redrawn on every day rollover and on every arrival.
type Weather string

const (
	WeatherSunny    Weather = "Sunny"
	WeatherStormy   Weather = "Stormy"
	WeatherOvercast Weather = "Overcast"
)

// RiskKind is the event assigned to a voyage at departure.
type RiskKind string

const (
	RiskNone            RiskKind = ""
	RiskPirate          RiskKind = "Pirate"
	RiskStorm           RiskKind = "Storm"
	RiskDesertedShips   RiskKind = "Deserted Ships"
	RiskNavigationError RiskKind = "Navigation Error"
)

// Title is the heading shown to the player when the event fires.
func (k RiskKind) Title() string {
	switch k {
	case RiskPirate:
		return "Pirates!"
	case RiskStorm:
		return "Storm at Sea"
	case RiskDesertedShips:
		return "Deserted Ships"
	case RiskNavigationError:
		return "Navigation Error"
	default:
		return "Calm Seas"
	}
}

// Interactive reports whether the event waits for a player choice.
func (k RiskKind) Interactive() bool {
	return k == RiskPirate
}

// BankAction selects the direction of a bank transfer.
type BankAction string

const (
	BankDeposit  BankAction = "deposit"
	BankWithdraw BankAction = "withdraw"
)

// Pirate encounter choices.
const (
	OptionEscape    = "escape"
	OptionNegotiate = "negotiate"
	OptionFight     = "fight"
)

// EventOption is one choice offered by an interactive event.
type EventOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Event is the payload handed to the host when a risk fires mid-voyage.
// Automatic kinds arrive already resolved with their Outcome attached.
type Event struct {
	ID        int           `json:"id"`
	Kind      RiskKind      `json:"kind"`
	Title     string        `json:"title"`
	Narrative string        `json:"narrative"`
	Options   []EventOption `json:"options"`
	Resolved  bool          `json:"resolved"`
	Outcome   *Outcome      `json:"outcome,omitempty"`
}

func (ev *Event) clone() *Event {
	if ev == nil {
		return nil
	}
	c := *ev
	c.Options = append([]EventOption(nil), ev.Options...)
	if ev.Outcome != nil {
		out := ev.Outcome.clone()
		c.Outcome = &out
	}
	return &c
}

// Outcome is the result of resolving an event. Every resolution produces one,
// including the ones that change nothing.
type Outcome struct {
	EventID      int       `json:"event_id"`
	Kind         RiskKind  `json:"kind"`
	Option       string    `json:"option,omitempty"`
	Narrative    string    `json:"narrative"`
	CargoLost    CargoHold `json:"cargo_lost,omitempty"`
	CargoGained  CargoHold `json:"cargo_gained,omitempty"`
	BalanceDelta int       `json:"balance_delta"`
	RerouteTo    Port      `json:"reroute_to,omitempty"`
}

func (o Outcome) clone() Outcome {
	o.CargoLost = o.CargoLost.Clone()
	o.CargoGained = o.CargoGained.Clone()
	return o
}

// ExpansionOffer is a pending proposal to double the ship's capacity.
type ExpansionOffer struct {
	Day         int `json:"day"`
	Price       int `json:"price"`
	NewCapacity int `json:"new_capacity"`
}

// EscortQuote tells the host what escorts cost before a departure.
type EscortQuote struct {
	PricePerShip int `json:"price_per_ship"`
	MaxShips     int `json:"max_ships"`
}

// RouteInfo describes one leg from the current port.
type RouteInfo struct {
	To        Port    `json:"to"`
	Days      float64 `json:"days"`
	Hours     int     `json:"hours"`
	Reachable bool    `json:"reachable"`
	// InTime is false when the ship would arrive after the end of the day.
	InTime bool `json:"in_time"`
}

// Snapshot is a read-only copy of the whole engine state for the host.
type Snapshot struct {
	Day          int             `json:"day"`
	Hour         int             `json:"hour"`
	Time         string          `json:"time"`
	Night        bool            `json:"night"`
	Port         Port            `json:"port"`
	Weather      Weather         `json:"weather"`
	Balance      int             `json:"balance"`
	Bank         int             `json:"bank"`
	Cargo        CargoHold       `json:"cargo"`
	CargoValue   int             `json:"cargo_value"`
	ShipCapacity int             `json:"ship_capacity"`
	Escorts      int             `json:"escorts"`
	Prices       PriceTable      `json:"prices"`
	Voyage       *Voyage         `json:"voyage"`
	Paused       bool            `json:"paused"`
	Event        *Event          `json:"event"`
	Offer        *ExpansionOffer `json:"offer"`
	GameOver     bool            `json:"game_over"`
	Score        int             `json:"score"`
}
