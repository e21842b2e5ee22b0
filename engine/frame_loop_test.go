package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/daynight/simclock"
)

var epoch = time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

type recordingSink struct {
	frames   []FrameInfo
	commands []Command
	err      error
}

func (s *recordingSink) Frame(info FrameInfo) error {
	s.frames = append(s.frames, info)
	return s.err
}

func (s *recordingSink) HandleCommand(cmd Command) {
	s.commands = append(s.commands, cmd)
}

func newTestLoop(t *testing.T, rate float64, opts ...Option) (*FrameLoop, *simclock.Driver, *recordingSink) {
	t.Helper()
	d, err := simclock.NewAt(epoch, rate)
	require.NoError(t, err)
	sink := &recordingSink{}
	return NewFrameLoop(clockwork.NewFakeClockAt(epoch), d, sink, opts...), d, sink
}

func TestStepFirstFrameDoesNotAdvance(t *testing.T) {
	loop, d, sink := newTestLoop(t, simclock.DefaultRate)

	info, err := loop.Step(epoch)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), info.Index)
	assert.Zero(t, info.Delta)
	assert.Zero(t, info.Advance)
	assert.True(t, info.Simulated.Equal(epoch))
	assert.True(t, d.Started())
	assert.Len(t, sink.frames, 1)
}

func TestStepVariableCadence(t *testing.T) {
	loop, _, sink := newTestLoop(t, simclock.DefaultRate)

	now := epoch
	_, err := loop.Step(now)
	require.NoError(t, err)

	// 60Hz frame followed by a slow 30Hz frame
	for _, dt := range []time.Duration{16 * time.Millisecond, 32 * time.Millisecond} {
		now = now.Add(dt)
		info, err := loop.Step(now)
		require.NoError(t, err)
		assert.Equal(t, dt, info.Delta)
		assert.Equal(t, dt*time.Duration(simclock.DefaultRate), info.Advance)
	}

	last := sink.frames[len(sink.frames)-1]
	assert.True(t, last.Simulated.Equal(epoch.Add(48*time.Millisecond*10800)), "got %v", last.Simulated)
	assert.Equal(t, uint64(3), loop.Frames())
}

func TestStepBackwardRealTime(t *testing.T) {
	loop, d, _ := newTestLoop(t, 100)

	_, _ = loop.Step(epoch)
	_, _ = loop.Step(epoch.Add(10 * time.Millisecond))
	before := d.Current()

	info, err := loop.Step(epoch.Add(5 * time.Millisecond))
	require.NoError(t, err)
	assert.Zero(t, info.Delta)
	assert.Zero(t, info.Advance)
	assert.Equal(t, before, d.Current())
}

func TestStepSinkError(t *testing.T) {
	loop, _, sink := newTestLoop(t, 1)
	sink.err = errors.New("screen gone")

	_, err := loop.Step(epoch)
	require.Error(t, err)
	assert.ErrorIs(t, err, sink.err)
	assert.Contains(t, err.Error(), "frame 0")
}

func TestObserversSeeEveryFrame(t *testing.T) {
	var seen []uint64
	loop, _, _ := newTestLoop(t, 1, WithObserver(func(f FrameInfo) {
		seen = append(seen, f.Index)
	}), WithObserver(nil))

	for i := 0; i < 3; i++ {
		_, err := loop.Step(epoch.Add(time.Duration(i) * time.Second))
		require.NoError(t, err)
	}
	assert.Equal(t, []uint64{0, 1, 2}, seen)
}

func TestApplyCommands(t *testing.T) {
	loop, d, sink := newTestLoop(t, 8)

	assert.False(t, loop.Apply(Command{Kind: CommandTogglePause}))
	assert.True(t, d.Paused())
	loop.Apply(Command{Kind: CommandTogglePause})
	assert.False(t, d.Paused())

	loop.Apply(Command{Kind: CommandPause})
	assert.True(t, d.Paused())
	loop.Apply(Command{Kind: CommandResume})
	assert.False(t, d.Paused())

	loop.Apply(Command{Kind: CommandFaster})
	assert.Equal(t, 16.0, d.Rate())
	loop.Apply(Command{Kind: CommandSlower})
	loop.Apply(Command{Kind: CommandSlower})
	assert.Equal(t, 4.0, d.Rate())

	loop.Apply(Command{Kind: CommandToggleLayer, Arg: 2})
	loop.Apply(Command{Kind: CommandResize})
	assert.Equal(t, []Command{{Kind: CommandToggleLayer, Arg: 2}, {Kind: CommandResize}}, sink.commands)

	assert.True(t, loop.Apply(Command{Kind: CommandQuit}))
}

func TestSlowerBottomsOutAtZero(t *testing.T) {
	loop, d, _ := newTestLoop(t, 1)

	loop.Apply(Command{Kind: CommandSlower})
	assert.Equal(t, 0.0, d.Rate())

	loop.Apply(Command{Kind: CommandFaster})
	assert.Equal(t, minStepRate, d.Rate())
}

func TestResetReturnsToStart(t *testing.T) {
	loop, d, _ := newTestLoop(t, 1000)

	_, _ = loop.Step(epoch)
	_, _ = loop.Step(epoch.Add(time.Second))
	require.NotEqual(t, simclock.ToMs(epoch), d.Current())

	loop.Apply(Command{Kind: CommandReset})
	assert.False(t, d.Started())

	info, err := loop.Step(epoch.Add(2 * time.Second))
	require.NoError(t, err)
	assert.True(t, info.Simulated.Equal(epoch))
	assert.Zero(t, info.Advance)
}

func TestRunDrivenByFakeClock(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fc := clockwork.NewFakeClockAt(epoch)
	d, err := simclock.NewAt(epoch, simclock.DefaultRate)
	require.NoError(t, err)

	frames := make(chan FrameInfo, 8)
	sink := SinkFunc(func(f FrameInfo) error {
		frames <- f
		return nil
	})
	loop := NewFrameLoop(fc, d, sink, WithFPS(50), WithMaxFrames(3))
	require.Equal(t, 20*time.Millisecond, loop.Interval())

	errc := make(chan error, 1)
	go func() { errc <- loop.Run(ctx) }()

	first := <-frames
	assert.Zero(t, first.Advance)

	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	fc.Advance(20 * time.Millisecond)
	second := <-frames
	assert.Equal(t, 20*time.Millisecond*10800, second.Advance)

	fc.Advance(20 * time.Millisecond)
	third := <-frames
	assert.Equal(t, uint64(2), third.Index)

	require.NoError(t, <-errc)
	assert.True(t, d.Time().Equal(epoch.Add(40*time.Millisecond*10800)))
}

func TestRunStopsOnQuitCommand(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmds := make(chan Command, 1)
	loop, _, sink := newTestLoop(t, 1, WithCommands(cmds))

	cmds <- Command{Kind: CommandQuit}
	require.NoError(t, loop.Run(ctx))
	assert.Len(t, sink.frames, 1)
}

func TestRunStopsOnSinkQuit(t *testing.T) {
	loop, _, sink := newTestLoop(t, 1)
	sink.err = ErrQuit

	assert.NoError(t, loop.Run(context.Background()))
}

func TestRunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop, _, _ := newTestLoop(t, 1)

	cancel()
	assert.ErrorIs(t, loop.Run(ctx), context.Canceled)
}

func TestCommandKindString(t *testing.T) {
	assert.Equal(t, "TogglePause", CommandTogglePause.String())
	assert.Equal(t, "Unknown", CommandKind(200).String())
}

func TestFasterCapsAtMaxRate(t *testing.T) {
	loop, d, _ := newTestLoop(t, simclock.MaxRate)

	loop.Apply(Command{Kind: CommandFaster})
	assert.Equal(t, simclock.MaxRate, d.Rate())

	_, err := loop.Step(epoch)
	require.NoError(t, err)
	info, err := loop.Step(epoch.Add(16 * time.Millisecond))
	require.NoError(t, err)

	// A full frame at the cap stays representable
	assert.Equal(t, 16*time.Millisecond*time.Duration(simclock.MaxRate), info.Advance)
	assert.True(t, info.Simulated.After(epoch))
}
