package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/daynight/solar"
)

const (
	sampleRate    = beep.SampleRate(48000)
	cueDuration   = 600 * time.Millisecond
	shimmerVolume = -3.0 // Base-2 attenuation of the overtone
)

// Chime plays short cues for sunrise and sunset
// All methods are safe to call without a successful Initialize
type Chime struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewChime creates an uninitialised chime
func NewChime() *Chime {
	return &Chime{
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker; failure is expected on hosts without audio
func (c *Chime) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Play queues the cue for a transition, no-op when uninitialised
func (c *Chime) Play(kind solar.Transition) {
	cue := Cue(kind)
	if cue == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	speaker.Lock()
	c.mixer.Add(cue)
	speaker.Unlock()
}

// Cleanup silences queued cues and closes the speaker
func (c *Chime) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()

	speaker.Close()
	c.initialized = false
}

// Cue builds the finite streamer for a transition
// Sunrise rises a fifth, sunset falls; nil for NoTransition
func Cue(kind solar.Transition) beep.Streamer {
	var from, to float64
	switch kind {
	case solar.Sunrise:
		from, to = 440, 660
	case solar.Sunset:
		from, to = 660, 440
	default:
		return nil
	}

	sweep := NewSweepGenerator(sampleRate, from, to, cueDuration)

	// Faint octave shimmer over the first third of the cue
	var shimmer beep.Streamer = beep.Silence(0)
	if tone, err := generators.SineTone(sampleRate, to*2); err == nil {
		shimmer = &effects.Volume{
			Streamer: beep.Take(sampleRate.N(cueDuration/3), tone),
			Base:     2,
			Volume:   shimmerVolume,
		}
	}

	return beep.Mix(sweep, shimmer)
}
