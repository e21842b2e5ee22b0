package solar

import (
	"math"
	"time"
)

const (
	julianUnixEpoch = 2440587.5
	julianJ2000     = 2451545.0

	// Elevation thresholds in degrees, sunrise includes refraction and disk radius
	HorizonElevation  = -0.833
	TwilightElevation = -6.0
)

// Phase classifies illumination at a point on the globe
type Phase uint8

const (
	Night Phase = iota
	Twilight
	Day
)

func (p Phase) String() string {
	switch p {
	case Night:
		return "night"
	case Twilight:
		return "twilight"
	case Day:
		return "day"
	default:
		return "unknown"
	}
}

// daysSinceJ2000 returns fractional days from the J2000.0 epoch
func daysSinceJ2000(t time.Time) float64 {
	sec := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return sec/86400 + julianUnixEpoch - julianJ2000
}

// Declination returns the solar declination in degrees
func Declination(t time.Time) float64 {
	dec, _ := equatorial(daysSinceJ2000(t))
	return dec
}

// SubsolarPoint returns latitude and longitude in degrees where the Sun is at zenith
// Longitude is normalised to [-180, 180)
func SubsolarPoint(t time.Time) (lat, lon float64) {
	n := daysSinceJ2000(t)
	dec, ra := equatorial(n)

	gmst := normalize(18.697374558+24.06570982441908*n, 24)
	return dec, wrapLongitude(ra - gmst*15)
}

// Elevation returns the solar elevation angle in degrees at the given point
func Elevation(t time.Time, lat, lon float64) float64 {
	sLat, sLon := SubsolarPoint(t)
	return elevationFrom(sLat, sLon, lat, lon)
}

// PhaseAt classifies illumination at the given point
func PhaseAt(t time.Time, lat, lon float64) Phase {
	return PhaseForElevation(Elevation(t, lat, lon))
}

// PhaseForElevation maps an elevation angle to a Phase
func PhaseForElevation(el float64) Phase {
	switch {
	case el > HorizonElevation:
		return Day
	case el > TwilightElevation:
		return Twilight
	default:
		return Night
	}
}

// Field precomputes the subsolar point so many cells can be shaded per frame
type Field struct {
	sinLat, cosLat float64
	lon            float64
}

// NewField captures sun geometry at t
func NewField(t time.Time) Field {
	lat, lon := SubsolarPoint(t)
	r := lat * deg2rad
	return Field{sinLat: math.Sin(r), cosLat: math.Cos(r), lon: lon}
}

// Elevation returns solar elevation in degrees at a point for the captured instant
func (f Field) Elevation(lat, lon float64) float64 {
	la := lat * deg2rad
	h := (lon - f.lon) * deg2rad
	s := math.Sin(la)*f.sinLat + math.Cos(la)*f.cosLat*math.Cos(h)
	return math.Asin(clamp(s, -1, 1)) * rad2deg
}

func elevationFrom(sLat, sLon, lat, lon float64) float64 {
	la, sla := lat*deg2rad, sLat*deg2rad
	h := (lon - sLon) * deg2rad
	s := math.Sin(la)*math.Sin(sla) + math.Cos(la)*math.Cos(sla)*math.Cos(h)
	return math.Asin(clamp(s, -1, 1)) * rad2deg
}

// equatorial returns declination and right ascension in degrees
func equatorial(n float64) (dec, ra float64) {
	meanLon := normalize(280.460+0.9856474*n, 360)
	anomaly := normalize(357.528+0.9856003*n, 360) * deg2rad

	eclLon := (meanLon + 1.915*math.Sin(anomaly) + 0.020*math.Sin(2*anomaly)) * deg2rad
	obliquity := (23.439 - 0.0000004*n) * deg2rad

	dec = math.Asin(math.Sin(obliquity)*math.Sin(eclLon)) * rad2deg
	ra = math.Atan2(math.Cos(obliquity)*math.Sin(eclLon), math.Cos(eclLon)) * rad2deg
	return dec, ra
}
