package game

import (
	"fmt"
	"math"
)

// Clock tracks the day and the hour inside the daily operating window.
// The hour never leaves [DayStartHour, DayEndHour]; the day only moves
// through a rollover, which calls onRollover exactly once.
type Clock struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`

	cfg        ClockConfig
	onRollover func()
}

// NewClock starts on day 1 at the opening hour.
func NewClock(cfg ClockConfig, onRollover func()) Clock {
	return Clock{Day: 1, Hour: cfg.DayStartHour, cfg: cfg, onRollover: onRollover}
}

// AdvanceByHours moves time forward. Hours past the end of the day carry
// into the next morning.
func (c *Clock) AdvanceByHours(h int) {
	if h <= 0 {
		return
	}
	next := c.Hour + h
	if next <= c.cfg.DayEndHour {
		c.Hour = next
		return
	}

	overflow := next - c.cfg.DayEndHour
	c.Day++
	c.Hour = min(c.cfg.DayStartHour+overflow, c.cfg.DayEndHour)
	c.rollover()
}

// AdvanceToNextDay is a night's rest.
func (c *Clock) AdvanceToNextDay() {
	c.Day++
	c.Hour = c.cfg.DayStartHour
	c.rollover()
}

// IsNight reports the late hours when pirates are more active.
func (c *Clock) IsNight() bool {
	return c.Hour >= c.cfg.NightHour
}

// HoursLeft is the time remaining before the end of the day.
func (c *Clock) HoursLeft() int {
	return c.cfg.DayEndHour - c.Hour
}

// TravelHours converts route days into whole hours.
func (c *Clock) TravelHours(days float64) int {
	return int(math.Round(days * float64(c.cfg.HoursPerDay)))
}

// Format renders the hour as HH:00.
func (c *Clock) Format() string {
	return fmt.Sprintf("%02d:00", c.Hour)
}

func (c *Clock) rollover() {
	if c.onRollover != nil {
		c.onRollover()
	}
}
