package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lixenwraith/daynight/simclock"
)

const (
	DefaultFPS = 60

	// Rate bounds reachable through CommandFaster/CommandSlower
	minStepRate = 1.0
	maxStepRate = simclock.MaxRate
)

// ErrQuit is returned by a Sink to end the loop without error
var ErrQuit = errors.New("engine: quit requested")

// FrameInfo is the per-frame snapshot handed to sinks and observers
type FrameInfo struct {
	Index     uint64
	Real      time.Time     // Tick source timestamp
	Delta     time.Duration // Real time since previous frame, 0 on first
	Simulated time.Time
	Advance   time.Duration // Simulated time added this frame
	Rate      float64
	Paused    bool
}

// Sink consumes the simulated time after every tick
type Sink interface {
	Frame(info FrameInfo) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(FrameInfo) error

func (f SinkFunc) Frame(info FrameInfo) error { return f(info) }

// CommandHandler is implemented by sinks that react to non-clock commands
type CommandHandler interface {
	HandleCommand(cmd Command)
}

// FrameLoop is the tick source: it measures real time, drives the simulated
// clock once per frame and schedules the next frame itself
// The driver is only touched from the goroutine calling Run or Step
type FrameLoop struct {
	clock  clockwork.Clock
	driver *simclock.Driver
	sink   Sink

	interval  time.Duration
	maxFrames uint64
	commands  <-chan Command
	observers []func(FrameInfo)

	resetMs float64

	origin   time.Time // Real time of first frame, base of monotonic ms
	lastReal time.Time
	index    uint64
}

// Option configures a FrameLoop
type Option func(*FrameLoop)

// WithFPS sets the target frame rate, non-positive values are ignored
func WithFPS(fps int) Option {
	return func(l *FrameLoop) {
		if fps > 0 {
			l.interval = time.Second / time.Duration(fps)
		}
	}
}

// WithMaxFrames stops the loop after n frames, 0 means unlimited
func WithMaxFrames(n uint64) Option {
	return func(l *FrameLoop) { l.maxFrames = n }
}

// WithCommands sets the channel the loop drains between frames
func WithCommands(ch <-chan Command) Option {
	return func(l *FrameLoop) { l.commands = ch }
}

// WithObserver registers a callback invoked after each tick before the sink
func WithObserver(fn func(FrameInfo)) Option {
	return func(l *FrameLoop) {
		if fn != nil {
			l.observers = append(l.observers, fn)
		}
	}
}

// WithResetTime sets the simulated time CommandReset returns to
func WithResetTime(t time.Time) Option {
	return func(l *FrameLoop) { l.resetMs = simclock.ToMs(t) }
}

// NewFrameLoop creates a loop; reset time defaults to the driver's current time
func NewFrameLoop(clock clockwork.Clock, driver *simclock.Driver, sink Sink, opts ...Option) *FrameLoop {
	l := &FrameLoop{
		clock:    clock,
		driver:   driver,
		sink:     sink,
		interval: time.Second / DefaultFPS,
		resetMs:  driver.Current(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Interval returns the target frame interval
func (l *FrameLoop) Interval() time.Duration {
	return l.interval
}

// Frames returns the number of frames rendered
func (l *FrameLoop) Frames() uint64 {
	return l.index
}

// Run renders frames until ctx is cancelled, a quit is requested, the sink
// fails or the frame limit is reached
// Returns nil on quit or frame limit, ctx.Err() on cancellation
func (l *FrameLoop) Run(ctx context.Context) error {
	ticker := l.clock.NewTicker(l.interval)
	defer ticker.Stop()

	if done, err := l.runFrame(l.clock.Now()); done {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd := <-l.commands:
			if l.Apply(cmd) {
				return nil
			}

		case now := <-ticker.Chan():
			if done, err := l.runFrame(now); done {
				return err
			}
		}
	}
}

func (l *FrameLoop) runFrame(now time.Time) (bool, error) {
	if _, err := l.Step(now); err != nil {
		if errors.Is(err, ErrQuit) {
			return true, nil
		}
		return true, err
	}
	if l.maxFrames > 0 && l.index >= l.maxFrames {
		return true, nil
	}
	return false, nil
}

// Step performs one synchronous frame at the given real time
func (l *FrameLoop) Step(now time.Time) (FrameInfo, error) {
	var delta time.Duration
	if l.index == 0 {
		l.origin = now
	} else if delta = now.Sub(l.lastReal); delta < 0 {
		delta = 0
	}
	l.lastReal = now

	prev := l.driver.Current()
	wasStarted := l.driver.Started()
	sim := l.driver.OnTick(msSince(l.origin, now))

	var advance time.Duration
	if wasStarted {
		advance = time.Duration((sim - prev) * float64(time.Millisecond))
	}

	info := FrameInfo{
		Index:     l.index,
		Real:      now,
		Delta:     delta,
		Simulated: simclock.FromMs(sim),
		Advance:   advance,
		Rate:      l.driver.Rate(),
		Paused:    l.driver.Paused(),
	}
	l.index++

	for _, fn := range l.observers {
		fn(info)
	}

	if err := l.sink.Frame(info); err != nil {
		if errors.Is(err, ErrQuit) {
			return info, err
		}
		return info, fmt.Errorf("frame %d: %w", info.Index, err)
	}
	return info, nil
}

// Apply executes a command between frames, returns true when the loop should stop
func (l *FrameLoop) Apply(cmd Command) bool {
	switch cmd.Kind {
	case CommandQuit:
		return true
	case CommandTogglePause:
		if l.driver.Paused() {
			l.driver.Resume()
		} else {
			l.driver.Pause()
		}
	case CommandPause:
		l.driver.Pause()
	case CommandResume:
		l.driver.Resume()
	case CommandFaster:
		rate := l.driver.Rate() * 2
		if rate < minStepRate {
			rate = minStepRate
		}
		if rate > maxStepRate {
			rate = maxStepRate
		}
		_ = l.driver.SetRate(rate)
	case CommandSlower:
		rate := l.driver.Rate() / 2
		if rate < minStepRate {
			rate = 0
		}
		_ = l.driver.SetRate(rate)
	case CommandReset:
		l.driver.Reset(l.resetMs)
	default:
		if h, ok := l.sink.(CommandHandler); ok {
			h.HandleCommand(cmd)
		}
	}
	return false
}

// msSince uses the monotonic reading when both instants carry one
func msSince(origin, now time.Time) float64 {
	return float64(now.Sub(origin)) / float64(time.Millisecond)
}
