package solar

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// Observer is a named ground location
type Observer struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Event is a sunrise or sunset instant
type Event struct {
	Kind Transition
	At   time.Time
}

// Transition is a change between day and not-day at an observer
type Transition uint8

const (
	NoTransition Transition = iota
	Sunrise
	Sunset
)

func (t Transition) String() string {
	switch t {
	case Sunrise:
		return "sunrise"
	case Sunset:
		return "sunset"
	default:
		return "none"
	}
}

// SunriseSunset returns the UTC sunrise and sunset on t's UTC calendar day
// Both are zero during polar day or polar night
func (o Observer) SunriseSunset(t time.Time) (rise, set time.Time) {
	u := t.UTC()
	return sunrise.SunriseSunset(o.Latitude, o.Longitude, u.Year(), u.Month(), u.Day())
}

// NextEvent returns the first sunrise or sunset strictly after t
// Searches a few days ahead; false when none found (polar regime)
func (o Observer) NextEvent(t time.Time) (Event, bool) {
	const searchDays = 4

	// Events are keyed by local solar date, west of Greenwich the previous
	// date's sunset can fall on t's UTC date
	day := t.UTC().AddDate(0, 0, -1)
	for i := 0; i < searchDays; i++ {
		rise, set := o.SunriseSunset(day)

		var best Event
		for _, ev := range []Event{{Sunrise, rise}, {Sunset, set}} {
			if ev.At.IsZero() || !ev.At.After(t) {
				continue
			}
			if best.At.IsZero() || ev.At.Before(best.At) {
				best = ev
			}
		}
		if !best.At.IsZero() {
			return best, true
		}
		day = day.AddDate(0, 0, 1)
	}
	return Event{}, false
}

// Phase returns illumination at the observer
func (o Observer) Phase(t time.Time) Phase {
	return PhaseAt(t, o.Latitude, o.Longitude)
}

// Tracker detects sunrise and sunset at an observer across successive frames
// Not safe for concurrent use
type Tracker struct {
	observer Observer
	day      bool
	primed   bool
}

// NewTracker creates a tracker with no prior observation
func NewTracker(o Observer) *Tracker {
	return &Tracker{observer: o}
}

// Observer returns the tracked location
func (tr *Tracker) Observer() Observer {
	return tr.observer
}

// Update samples the observer at t and reports a transition since the previous sample
// The first sample only primes the tracker
func (tr *Tracker) Update(t time.Time) Transition {
	day := tr.observer.Phase(t) == Day
	if !tr.primed {
		tr.primed = true
		tr.day = day
		return NoTransition
	}
	if day == tr.day {
		return NoTransition
	}
	tr.day = day
	if day {
		return Sunrise
	}
	return Sunset
}
