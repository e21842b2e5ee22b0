package solar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var london = Observer{Name: "London", Latitude: 51.5074, Longitude: -0.1278}

func TestSunriseSunsetLondonMidsummer(t *testing.T) {
	rise, set := london.SunriseSunset(time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC))
	require.False(t, rise.IsZero())
	require.False(t, set.IsZero())

	// 04:43 and 21:21 local BST
	assert.WithinDuration(t, time.Date(2024, 6, 21, 3, 43, 0, 0, time.UTC), rise, 5*time.Minute)
	assert.WithinDuration(t, time.Date(2024, 6, 21, 20, 21, 0, 0, time.UTC), set, 5*time.Minute)
}

func TestNextEvent(t *testing.T) {
	midday := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)

	ev, ok := london.NextEvent(midday)
	require.True(t, ok)
	assert.Equal(t, Sunset, ev.Kind)
	assert.True(t, ev.At.After(midday))

	lateNight := time.Date(2024, 6, 21, 23, 0, 0, 0, time.UTC)
	ev, ok = london.NextEvent(lateNight)
	require.True(t, ok)
	assert.Equal(t, Sunrise, ev.Kind)
	assert.Equal(t, 22, ev.At.Day())
}

func TestNextEventPolarDay(t *testing.T) {
	pole := Observer{Name: "Alert", Latitude: 82.5, Longitude: -62.3}
	_, ok := pole.NextEvent(time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestTrackerTransitions(t *testing.T) {
	tr := NewTracker(london)
	assert.Equal(t, london, tr.Observer())

	day := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	rise, set := london.SunriseSunset(day)

	assert.Equal(t, NoTransition, tr.Update(rise.Add(-30*time.Minute)))
	assert.Equal(t, NoTransition, tr.Update(rise.Add(-10*time.Minute)))
	assert.Equal(t, Sunrise, tr.Update(rise.Add(10*time.Minute)))
	assert.Equal(t, NoTransition, tr.Update(day.Add(12*time.Hour)))
	assert.Equal(t, Sunset, tr.Update(set.Add(10*time.Minute)))
	assert.Equal(t, "sunset", Sunset.String())
}

func TestNextEventWesternObserver(t *testing.T) {
	honolulu := Observer{Name: "Honolulu", Latitude: 21.31, Longitude: -157.86}

	// 15:00 local, the evening sunset belongs to the previous UTC date
	afternoon := time.Date(2025, 6, 21, 1, 0, 0, 0, time.UTC)
	_, set := honolulu.SunriseSunset(afternoon.AddDate(0, 0, -1))
	require.True(t, set.After(afternoon))

	ev, ok := honolulu.NextEvent(afternoon)
	require.True(t, ok)
	assert.Equal(t, Sunset, ev.Kind)
	assert.True(t, ev.At.Equal(set), "got %v want %v", ev.At, set)
	assert.WithinDuration(t, time.Date(2025, 6, 21, 5, 16, 0, 0, time.UTC), ev.At, 10*time.Minute)

	// After that sunset the next event is the following sunrise
	ev, ok = honolulu.NextEvent(set.Add(time.Minute))
	require.True(t, ok)
	assert.Equal(t, Sunrise, ev.Kind)
	assert.WithinDuration(t, time.Date(2025, 6, 21, 15, 50, 0, 0, time.UTC), ev.At, 10*time.Minute)
}

func TestNextEventEasternObserver(t *testing.T) {
	tokyo := Observer{Name: "Tokyo", Latitude: 35.68, Longitude: 139.69}

	// 23:00 UTC is 08:00 local the next date, sunset comes next
	morning := time.Date(2025, 6, 20, 23, 0, 0, 0, time.UTC)
	ev, ok := tokyo.NextEvent(morning)
	require.True(t, ok)
	assert.Equal(t, Sunset, ev.Kind)
	assert.True(t, ev.At.After(morning))
	assert.Less(t, ev.At.Sub(morning), 12*time.Hour)
}
