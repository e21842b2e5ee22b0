package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// ColorMode selects how blended colours are emitted to the terminal
type ColorMode uint8

const (
	ColorModeTrueColor ColorMode = iota
	ColorMode256
)

// Sky palette anchors, blended by solar elevation
var (
	RgbNight    = colorful.Color{R: 0.02, G: 0.03, B: 0.10}
	RgbTwilight = colorful.Color{R: 0.35, G: 0.20, B: 0.45}
	RgbHorizon  = colorful.Color{R: 0.95, G: 0.55, B: 0.25}
	RgbDay      = colorful.Color{R: 0.30, G: 0.60, B: 0.95}
	RgbZenith   = colorful.Color{R: 0.55, G: 0.80, B: 1.00}

	RgbGridLine  = colorful.Color{R: 0.55, G: 0.55, B: 0.60}
	RgbEquator   = colorful.Color{R: 0.80, G: 0.80, B: 0.55}
	RgbSun       = colorful.Color{R: 1.00, G: 0.90, B: 0.20}
	RgbObserver  = colorful.Color{R: 1.00, G: 0.25, B: 0.25}
	RgbStatusBg  = colorful.Color{R: 0.10, G: 0.11, B: 0.15}
	RgbStatusFg  = colorful.Color{R: 0.90, G: 0.90, B: 0.90}
	RgbPausedTag = colorful.Color{R: 1.00, G: 0.65, B: 0.00}
)

// SkyColor returns the ground shading for a solar elevation in degrees
// Night below -12, twilight through the horizon band, full day above 30
func SkyColor(elevation float64) colorful.Color {
	switch {
	case elevation <= -12:
		return RgbNight
	case elevation <= -6:
		return RgbNight.BlendLab(RgbTwilight, (elevation+12)/6).Clamped()
	case elevation <= 0:
		return RgbTwilight.BlendLab(RgbHorizon, (elevation+6)/6).Clamped()
	case elevation <= 10:
		return RgbHorizon.BlendLab(RgbDay, elevation/10).Clamped()
	case elevation <= 30:
		return RgbDay.BlendLab(RgbZenith, (elevation-10)/20).Clamped()
	default:
		return RgbZenith
	}
}

// palette256 is the xterm palette used for nearest-colour matching
var palette256 = func() []tcell.Color {
	p := make([]tcell.Color, 256)
	for i := range p {
		p[i] = tcell.PaletteColor(i)
	}
	return p
}()

// ToTcell converts a colourful colour for the given mode
func ToTcell(c colorful.Color, mode ColorMode) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	rgb := tcell.NewRGBColor(int32(r), int32(g), int32(b))
	if mode == ColorMode256 {
		return tcell.FindColor(rgb, palette256)
	}
	return rgb
}
