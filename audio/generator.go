package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// SweepGenerator produces a finite sine chirp with a soft attack and release
type SweepGenerator struct {
	sr       beep.SampleRate
	from, to float64 // Hz
	total    int
	pos      int
	phase    float64
}

// NewSweepGenerator creates a chirp from one frequency to another over d
func NewSweepGenerator(sr beep.SampleRate, from, to float64, d time.Duration) *SweepGenerator {
	return &SweepGenerator{
		sr:    sr,
		from:  from,
		to:    to,
		total: sr.N(d),
	}
}

func (g *SweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.total {
			return i, true
		}
		progress := float64(g.pos) / float64(g.total)

		// Exponential sweep sounds linear in pitch
		freq := g.from * math.Pow(g.to/g.from, progress)
		g.phase += 2 * math.Pi * freq / float64(g.sr)

		sample := 0.25 * envelope(progress) * math.Sin(g.phase)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *SweepGenerator) Err() error {
	return nil
}

// envelope ramps in over the first 10% and out over the last 30%
func envelope(progress float64) float64 {
	switch {
	case progress < 0.1:
		return progress / 0.1
	case progress > 0.7:
		return (1 - progress) / 0.3
	default:
		return 1
	}
}
