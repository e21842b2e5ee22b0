package simclock

import (
	"errors"
	"math"
	"time"
)

const (
	// DefaultRate advances 3 simulated hours per real second
	DefaultRate = 10800.0

	// MaxRate keeps a frame's advance and the simulated instant within time.Duration range
	MaxRate = 1e9
)

// ErrInvalidRate is returned for negative, NaN or infinite rate multipliers
var ErrInvalidRate = errors.New("simclock: rate multiplier must be a finite value >= 0")

// Driver converts irregularly spaced real-time ticks into a simulated time
// that advances at a constant rate relative to wall-clock time
// Not safe for concurrent use; owned by the frame loop goroutine
type Driver struct {
	simulatedMs float64 // Epoch milliseconds
	rate        float64 // Simulated ms per real ms

	lastTickMs float64
	started    bool // lastTickMs is valid

	paused bool
}

// New creates a driver awaiting its first tick
func New(initialMs, rate float64) (*Driver, error) {
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	return &Driver{
		simulatedMs: initialMs,
		rate:        rate,
	}, nil
}

// NewAt creates a driver starting at the given simulated instant
func NewAt(start time.Time, rate float64) (*Driver, error) {
	return New(ToMs(start), rate)
}

// OnTick records a real-time tick and returns the resulting simulated time
// First tick only records the timestamp; backward ticks advance by zero
func (d *Driver) OnTick(realMs float64) float64 {
	if !d.started {
		d.lastTickMs = realMs
		d.started = true
		return d.simulatedMs
	}

	elapsed := realMs - d.lastTickMs
	if elapsed < 0 || math.IsNaN(elapsed) {
		elapsed = 0
	}
	d.lastTickMs = realMs

	// Paused ticks still consume elapsed real time so it never leaks on resume
	if !d.paused {
		d.simulatedMs += elapsed * d.rate
	}
	return d.simulatedMs
}

// Current returns simulated time in epoch milliseconds
func (d *Driver) Current() float64 {
	return d.simulatedMs
}

// Time returns simulated time as time.Time in UTC
func (d *Driver) Time() time.Time {
	return FromMs(d.simulatedMs)
}

// Started reports whether the first tick has been observed
func (d *Driver) Started() bool {
	return d.started
}

// Rate returns the current rate multiplier
func (d *Driver) Rate() float64 {
	return d.rate
}

// SetRate changes the multiplier, effective from the next tick
func (d *Driver) SetRate(rate float64) error {
	if err := validateRate(rate); err != nil {
		return err
	}
	d.rate = rate
	return nil
}

// Pause freezes simulated time; ticks keep tracking real time
func (d *Driver) Pause() {
	d.paused = true
}

// Resume continues advancement from the next tick
func (d *Driver) Resume() {
	d.paused = false
}

// Paused reports whether advancement is frozen
func (d *Driver) Paused() bool {
	return d.paused
}

// Reset sets simulated time and returns the driver to awaiting its first tick
func (d *Driver) Reset(initialMs float64) {
	d.simulatedMs = initialMs
	d.lastTickMs = 0
	d.started = false
}

func validateRate(rate float64) error {
	if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return ErrInvalidRate
	}
	return nil
}
