// Package clock owns simulated time: a calendar date advanced by wall-clock
// deltas multiplied by a signed time scale.
package clock

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const (
	nsPerDay = float64(24 * time.Hour)
	// maxDays keeps a single advance inside time.Time's representable range.
	maxDays = 1e12
)

type Options struct {
	// Scale is simulated seconds per wall second. Zero means 1.
	Scale  float64
	Paused bool
	Logger log.Logger
}

// State is a consistent copy of the clock.
type State struct {
	Date   time.Time
	Scale  float64
	Paused bool
}

func (s State) String() string {
	if s.Paused {
		return "paused"
	}
	return fmt.Sprintf("running x%g", s.Scale)
}

type Clock struct {
	mu     sync.Mutex
	date   time.Time
	scale  float64
	paused bool

	lastWall time.Time
	hasWall  bool
	// carry holds the sub-nanosecond part of previous advances.
	carry float64

	logger log.Logger
}

func New(start time.Time, opts Options) (*Clock, error) {
	if start.IsZero() {
		return nil, fmt.Errorf("%w: zero start time", ErrInvalidDate)
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if err := checkScale(opts.Scale); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	return &Clock{
		date:   start.UTC(),
		scale:  opts.Scale,
		paused: opts.Paused,
		logger: log.With(opts.Logger, "component", "clock"),
	}, nil
}

// Tick advances the date by the wall time elapsed since the previous tick.
// The first tick after construction or Resume only records the reference.
// A wall clock that steps backwards resets the reference without moving the date.
// The date has nanosecond resolution: a tick worth less than 1ns of simulated
// time leaves Now unchanged, and the fraction is carried into later ticks.
func (c *Clock) Tick(wallNow time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasWall || c.paused {
		c.lastWall = wallNow
		c.hasWall = true
		return
	}
	delta := wallNow.Sub(c.lastWall)
	c.lastWall = wallNow
	if delta < 0 {
		level.Debug(c.logger).Log("msg", "wall clock stepped back", "delta", delta)
		return
	}
	if delta == 0 {
		return
	}
	c.advance(float64(delta) * c.scale)
}

// Advance moves the date by a simulated duration regardless of pause state.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advance(float64(d))
}

func (c *Clock) advance(ns float64) {
	ns += c.carry
	whole := math.Trunc(ns)
	c.carry = ns - whole

	days := math.Trunc(whole / nsPerDay)
	if days > maxDays || days < -maxDays {
		days = math.Copysign(maxDays, days)
		whole = days * nsPerDay
		c.carry = 0
		level.Warn(c.logger).Log("msg", "advance clamped", "days", days)
	}
	rest := whole - days*nsPerDay
	if days != 0 {
		c.date = c.date.AddDate(0, 0, int(days))
	}
	c.date = c.date.Add(time.Duration(rest))
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.date
}

func (c *Clock) Scale() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scale
}

func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

func (c *Clock) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Date: c.date, Scale: c.scale, Paused: c.paused}
}

// SetScale changes the rate only. The date moves on the next Tick.
func (c *Clock) SetScale(s float64) error {
	if err := checkScale(s); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scale = s
	level.Debug(c.logger).Log("msg", "scale set", "scale", s)
	return nil
}

// Reverse flips the direction of time, keeping the magnitude.
func (c *Clock) Reverse() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scale = -c.scale
}

func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.paused = false
	c.hasWall = false
}

// JumpTo replaces the date in either state.
func (c *Clock) JumpTo(t time.Time) error {
	if t.IsZero() {
		return fmt.Errorf("%w: zero time", ErrInvalidDate)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.date = t.UTC()
	c.carry = 0
	level.Debug(c.logger).Log("msg", "jump", "date", c.date.Format(time.RFC3339))
	return nil
}

func checkScale(s float64) error {
	if s == 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidScale, s)
	}
	return nil
}
