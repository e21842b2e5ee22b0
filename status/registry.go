package status

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/daynight/engine"
	"github.com/lixenwraith/daynight/simclock"
)

// fpsSmoothing is the weight of the newest sample in the FPS moving average
const fpsSmoothing = 0.1

// Registry is the live frame statistics facade
// The frame loop writes through Observe; renderers and exporters read lock-free
type Registry struct {
	Frames      atomic.Uint64
	FPS         AtomicFloat
	Rate        AtomicFloat
	SimulatedMs AtomicFloat
	LastDelta   atomic.Int64 // Nanoseconds
	Paused      atomic.Bool
	Phase       AtomicString // Observer illumination, set by the caller
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Observe records one frame, suitable for engine.WithObserver
func (r *Registry) Observe(info engine.FrameInfo) {
	r.Frames.Add(1)
	r.Rate.Set(info.Rate)
	r.SimulatedMs.Set(simclock.ToMs(info.Simulated))
	r.LastDelta.Store(int64(info.Delta))
	r.Paused.Store(info.Paused)

	if info.Delta <= 0 {
		return
	}
	inst := float64(time.Second) / float64(info.Delta)
	if prev := r.FPS.Get(); prev > 0 {
		inst = prev + (inst-prev)*fpsSmoothing
	}
	r.FPS.Set(inst)
}

// Simulated returns the last observed simulated instant
func (r *Registry) Simulated() time.Time {
	return simclock.FromMs(r.SimulatedMs.Get())
}
