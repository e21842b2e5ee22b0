package render

import (
	"io"
	"log"
	"time"

	"github.com/lixenwraith/daynight/engine"
	"github.com/lixenwraith/daynight/solar"
)

// Headless is a text sink for non-interactive output
// Writes one line each time simulated time crosses the next report boundary
type Headless struct {
	logger   *log.Logger
	every    time.Duration
	observer *solar.Observer
	next     time.Time
}

// NewHeadless creates a sink reporting every interval of simulated time, 0 reports every frame
func NewHeadless(w io.Writer, every time.Duration, observer *solar.Observer) *Headless {
	return &Headless{
		logger:   log.New(w, "", 0),
		every:    every,
		observer: observer,
	}
}

// Frame implements engine.Sink
func (h *Headless) Frame(info engine.FrameInfo) error {
	if !h.next.IsZero() && info.Simulated.Before(h.next) {
		return nil
	}
	h.next = info.Simulated.Add(h.every)
	if h.every <= 0 {
		h.next = time.Time{}
	}

	lat, lon := solar.SubsolarPoint(info.Simulated)
	line := info.Simulated.Format(time.RFC3339)
	h.logger.Printf("frame=%d sim=%s rate=%g subsolar=%.2f,%.2f%s",
		info.Index, line, info.Rate, lat, lon, h.observerSuffix(info.Simulated))
	return nil
}

func (h *Headless) observerSuffix(t time.Time) string {
	if h.observer == nil {
		return ""
	}
	return " " + h.observer.Name + "=" + h.observer.Phase(t).String()
}
