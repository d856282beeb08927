/*
Package game
File: config.go
Description:
    Tuning variables for the voyage engine, loaded from 'voyage.yaml'.
    DefaultConfig carries the values the game ships with; a YAML file only
    needs to name the fields it overrides.
*/

package game

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StartConfig is the state a new game (or "play again") begins from.
type StartConfig struct {
	Port         Port `yaml:"port" json:"port"`
	Balance      int  `yaml:"balance" json:"balance"`
	Bank         int  `yaml:"bank" json:"bank"`
	ShipCapacity int  `yaml:"ship_capacity" json:"ship_capacity"`
}

// ClockConfig defines the daily operating window.
type ClockConfig struct {
	DayStartHour int `yaml:"day_start_hour" json:"day_start_hour"`
	DayEndHour   int `yaml:"day_end_hour" json:"day_end_hour"`
	HoursPerDay  int `yaml:"hours_per_day" json:"hours_per_day"` // Converts route "days" to hours
	NightHour    int `yaml:"night_hour" json:"night_hour"`       // From this hour on pirates are bolder
	Horizon      int `yaml:"horizon" json:"horizon"`             // Last playable day
}

// GoodConfig is a commodity and its price band.
type GoodConfig struct {
	Name     Good `yaml:"name" json:"name"`
	MinPrice int  `yaml:"min_price" json:"min_price"`
	MaxPrice int  `yaml:"max_price" json:"max_price"`
	Step     int  `yaml:"step" json:"step"`
}

// PortConfig is a port and its outgoing routes in days. A destination that is
// not listed is unreachable.
type PortConfig struct {
	Name   Port             `yaml:"name" json:"name"`
	Routes map[Port]float64 `yaml:"routes" json:"routes"`
}

// RiskConfig holds the partition sizes of the departure risk draw.
type RiskConfig struct {
	PirateDay          float64 `yaml:"pirate_day"`
	PirateNight        float64 `yaml:"pirate_night"`
	Storm              float64 `yaml:"storm"`
	StormyWeatherBonus float64 `yaml:"stormy_weather_bonus"`
	DesertedShips      float64 `yaml:"deserted_ships"`
	NavigationError    float64 `yaml:"navigation_error"`
}

// Range is an inclusive integer range of coins.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// StormConfig is the fraction of total cargo thrown overboard.
type StormConfig struct {
	MinLoss float64 `yaml:"min_loss"`
	MaxLoss float64 `yaml:"max_loss"`
}

// SalvageConfig is the fraction of total wealth found on deserted ships.
type SalvageConfig struct {
	MinGain float64 `yaml:"min_gain"`
	MaxGain float64 `yaml:"max_gain"`
}

// PirateConfig tunes the three pirate options.
type PirateConfig struct {
	EscapeChance          float64 `yaml:"escape_chance"`
	EscapeBonusPerEscort  float64 `yaml:"escape_bonus_per_escort"`
	EscapeChanceCap       float64 `yaml:"escape_chance_cap"`
	EscapeMinLoss         float64 `yaml:"escape_min_loss"`
	EscapeMaxLoss         float64 `yaml:"escape_max_loss"`
	EscapeToll            Range   `yaml:"escape_toll"`
	NegotiateToll         Range   `yaml:"negotiate_toll"`
	FightChance           float64 `yaml:"fight_chance"`
	FightBonusPerEscort   float64 `yaml:"fight_bonus_per_escort"`
	FightChanceCap        float64 `yaml:"fight_chance_cap"`
	Plunder               Range   `yaml:"plunder"`
	PlunderBonusPerEscort float64 `yaml:"plunder_bonus_per_escort"`
	FightToll             Range   `yaml:"fight_toll"`
}

// EscortConfig prices hired defend ships.
type EscortConfig struct {
	ValueFraction float64 `yaml:"value_fraction"` // Of balance + cargo value, per ship
	MinPrice      int     `yaml:"min_price"`
	MaxPrice      int     `yaml:"max_price"`
	MaxShips      int     `yaml:"max_ships"`
}

// ExpansionConfig tunes the daily cargo expansion offer.
type ExpansionConfig struct {
	MinBalance       int     `yaml:"min_balance"`
	Chance           float64 `yaml:"chance"`
	PriceFraction    float64 `yaml:"price_fraction"`
	MinPrice         int     `yaml:"min_price"`
	MaxPriceFraction float64 `yaml:"max_price_fraction"`
}

// Config is the root configuration struct, mapping to the entire 'voyage.yaml' file.
type Config struct {
	Start     StartConfig     `yaml:"start"`
	Clock     ClockConfig     `yaml:"clock"`
	Goods     []GoodConfig    `yaml:"goods"`
	Ports     []PortConfig    `yaml:"ports"`
	Weather   []Weather       `yaml:"weather"`
	Risk      RiskConfig      `yaml:"risk"`
	Storm     StormConfig     `yaml:"storm"`
	Salvage   SalvageConfig   `yaml:"salvage"`
	Pirates   PirateConfig    `yaml:"pirates"`
	Escorts   EscortConfig    `yaml:"escorts"`
	Expansion ExpansionConfig `yaml:"expansion"`
}

// DefaultConfig returns the Mediterranean map and the tuning the game ships with.
func DefaultConfig() Config {
	return Config{
		Start: StartConfig{Port: PortIsrael, Balance: 5000, ShipCapacity: 100},
		Clock: ClockConfig{DayStartHour: 8, DayEndHour: 20, HoursPerDay: 12, NightHour: 18, Horizon: 7},
		Goods: []GoodConfig{
			{Name: GoodWheat, MinPrice: 35, MaxPrice: 200, Step: 5},
			{Name: GoodOlives, MinPrice: 70, MaxPrice: 400, Step: 5},
			{Name: GoodCopper, MinPrice: 150, MaxPrice: 1000, Step: 5},
		},
		Ports: []PortConfig{
			{Name: PortIsrael, Routes: map[Port]float64{PortEgypt: 0.5, PortTurkey: 0.5, PortCyprus: 0.104, PortGreece: 1}},
			{Name: PortTurkey, Routes: map[Port]float64{PortIsrael: 0.5, PortEgypt: 1}},
			{Name: PortEgypt, Routes: map[Port]float64{PortIsrael: 0.5, PortTurkey: 1}},
			{Name: PortCyprus, Routes: map[Port]float64{PortIsrael: 0.104}},
			{Name: PortGreece, Routes: map[Port]float64{PortIsrael: 1}},
		},
		Weather: []Weather{WeatherSunny, WeatherStormy, WeatherOvercast},
		Risk: RiskConfig{
			PirateDay:          0.20,
			PirateNight:        0.30,
			Storm:              0.20,
			StormyWeatherBonus: 0.10,
			DesertedShips:      0.15,
			NavigationError:    0.05,
		},
		Storm:   StormConfig{MinLoss: 0.10, MaxLoss: 0.30},
		Salvage: SalvageConfig{MinGain: 0.05, MaxGain: 0.20},
		Pirates: PirateConfig{
			EscapeChance:          0.45,
			EscapeBonusPerEscort:  0.07,
			EscapeChanceCap:       0.90,
			EscapeMinLoss:         0.30,
			EscapeMaxLoss:         0.80,
			EscapeToll:            Range{Min: 200, Max: 499},
			NegotiateToll:         Range{Min: 150, Max: 349},
			FightChance:           0.18,
			FightBonusPerEscort:   0.06,
			FightChanceCap:        0.60,
			Plunder:               Range{Min: 350, Max: 749},
			PlunderBonusPerEscort: 0.10,
			FightToll:             Range{Min: 100, Max: 299},
		},
		Escorts: EscortConfig{ValueFraction: 0.08, MinPrice: 300, MaxPrice: 4000, MaxShips: 5},
		Expansion: ExpansionConfig{
			MinBalance:       6000,
			Chance:           0.40,
			PriceFraction:    0.10,
			MinPrice:         5000,
			MaxPriceFraction: 0.50,
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
// A missing file is reported as an error wrapping fs.ErrNotExist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(f, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the structural rules the engine relies on.
func (c Config) Validate() error {
	var errs []error

	if c.Clock.HoursPerDay <= 0 {
		errs = append(errs, errors.New("clock.hours_per_day must be positive"))
	}
	if c.Clock.DayStartHour >= c.Clock.DayEndHour {
		errs = append(errs, errors.New("clock.day_start_hour must be before day_end_hour"))
	}
	if c.Clock.Horizon < 1 {
		errs = append(errs, errors.New("clock.horizon must be at least 1"))
	}
	if len(c.Goods) == 0 {
		errs = append(errs, errors.New("at least one good is required"))
	}
	for _, g := range c.Goods {
		if g.Step <= 0 || g.MinPrice <= 0 || g.MaxPrice < g.MinPrice {
			errs = append(errs, fmt.Errorf("good %s: invalid price band %d-%d step %d", g.Name, g.MinPrice, g.MaxPrice, g.Step))
		} else if g.MinPrice%g.Step != 0 {
			errs = append(errs, fmt.Errorf("good %s: min price %d is not a multiple of step %d", g.Name, g.MinPrice, g.Step))
		}
	}
	if len(c.Weather) == 0 {
		errs = append(errs, errors.New("at least one weather kind is required"))
	}

	known := make(map[Port]bool, len(c.Ports))
	for _, p := range c.Ports {
		known[p.Name] = true
	}
	if !known[c.Start.Port] {
		errs = append(errs, fmt.Errorf("start port %q is not a configured port", c.Start.Port))
	}
	for _, p := range c.Ports {
		for dest, days := range p.Routes {
			if !known[dest] {
				errs = append(errs, fmt.Errorf("port %s: route to unknown port %q", p.Name, dest))
			}
			if days <= 0 && dest != p.Name {
				errs = append(errs, fmt.Errorf("port %s: route to %s must take positive time", p.Name, dest))
			}
		}
	}
	if c.Start.ShipCapacity <= 0 {
		errs = append(errs, errors.New("start.ship_capacity must be positive"))
	}
	if c.Start.Balance < 0 || c.Start.Bank < 0 {
		errs = append(errs, errors.New("start balance and bank must not be negative"))
	}

	return errors.Join(errs...)
}

// GoodNames lists the traded goods in hold order.
func (c Config) GoodNames() []Good {
	out := make([]Good, 0, len(c.Goods))
	for _, g := range c.Goods {
		out = append(out, g.Name)
	}
	return out
}

// PortNames lists the ports in map order.
func (c Config) PortNames() []Port {
	out := make([]Port, 0, len(c.Ports))
	for _, p := range c.Ports {
		out = append(out, p.Name)
	}
	return out
}
