package render

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/daynight/solar"
	"github.com/lixenwraith/daynight/status"
)

// Layer names, also used as config keys
const (
	LayerShading  = "shading"
	LayerGrid     = "grid"
	LayerObserver = "observer"
	LayerSun      = "sun"
	LayerStatus   = "status"
)

// ShadingLayer fills the map with day/night colour by solar elevation
type ShadingLayer struct{}

func (ShadingLayer) Name() string { return LayerShading }

func (ShadingLayer) Draw(ctx Context, scr tcell.Screen) {
	for y := 0; y < ctx.Height; y++ {
		for x := 0; x < ctx.Width; x++ {
			lat, lon := ctx.CellToLatLon(x, y)
			bg := ToTcell(SkyColor(ctx.Field.Elevation(lat, lon)), ctx.Mode)
			scr.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(bg))
		}
	}
}

// GridLayer draws graticule lines every Step degrees, equator highlighted
type GridLayer struct {
	Step float64
}

func (g GridLayer) Name() string { return LayerGrid }

func (g GridLayer) Draw(ctx Context, scr tcell.Screen) {
	step := g.Step
	if step <= 0 {
		step = 30
	}

	lineFg := ToTcell(RgbGridLine, ctx.Mode)
	eqFg := ToTcell(RgbEquator, ctx.Mode)

	for lat := -90 + step; lat < 90; lat += step {
		_, y := ctx.LatLonToCell(lat, 0)
		fg := lineFg
		if math.Abs(lat) < 1e-9 {
			fg = eqFg
		}
		for x := 0; x < ctx.Width; x++ {
			overlay(scr, x, y, '·', fg)
		}
	}
	for lon := -180 + step; lon < 180; lon += step {
		x, _ := ctx.LatLonToCell(0, lon)
		for y := 0; y < ctx.Height; y++ {
			overlay(scr, x, y, '┊', lineFg)
		}
	}
}

// SunLayer marks the subsolar point
type SunLayer struct{}

func (SunLayer) Name() string { return LayerSun }

func (SunLayer) Draw(ctx Context, scr tcell.Screen) {
	lat, lon := solar.SubsolarPoint(ctx.Frame.Simulated)
	x, y := ctx.LatLonToCell(lat, lon)
	overlay(scr, x, y, '☼', ToTcell(RgbSun, ctx.Mode))
}

// ObserverLayer marks a ground location
type ObserverLayer struct {
	Observer solar.Observer
}

func (o ObserverLayer) Name() string { return LayerObserver }

func (o ObserverLayer) Draw(ctx Context, scr tcell.Screen) {
	x, y := ctx.LatLonToCell(o.Observer.Latitude, o.Observer.Longitude)
	overlay(scr, x, y, '◉', ToTcell(RgbObserver, ctx.Mode))
}

// StatusLayer renders the bottom bar with clock and observer readout
type StatusLayer struct {
	Observer *solar.Observer
	Stats    *status.Registry
}

func (s StatusLayer) Name() string { return LayerStatus }

func (s StatusLayer) Draw(ctx Context, scr tcell.Screen) {
	row := ctx.Height
	bg := ToTcell(RgbStatusBg, ctx.Mode)
	style := tcell.StyleDefault.Background(bg).Foreground(ToTcell(RgbStatusFg, ctx.Mode))

	for x := 0; x < ctx.Width; x++ {
		scr.SetContent(x, row, ' ', nil, style)
	}

	x := drawText(scr, 0, row, style, s.Text(ctx))
	if ctx.Frame.Paused {
		tag := style.Foreground(ToTcell(RgbPausedTag, ctx.Mode)).Bold(true)
		drawText(scr, x, row, tag, " [PAUSED]")
	}
}

// Text returns the status line without the paused tag
func (s StatusLayer) Text(ctx Context) string {
	sim := ctx.Frame.Simulated
	text := fmt.Sprintf(" %s  x%s", sim.Format("2006-01-02 15:04 UTC"), formatRate(ctx.Frame.Rate))

	if s.Stats != nil {
		text += fmt.Sprintf("  %3.0ffps", s.Stats.FPS.Get())
	}

	if s.Observer != nil {
		o := *s.Observer
		text += fmt.Sprintf("  %s: %s", o.Name, o.Phase(sim))
		if ev, ok := o.NextEvent(sim); ok {
			text += fmt.Sprintf(", %s in %s", ev.Kind, formatSpan(ev.At.Sub(sim)))
		}
	}
	return text
}

func formatRate(rate float64) string {
	if rate == math.Trunc(rate) {
		return fmt.Sprintf("%.0f", rate)
	}
	return fmt.Sprintf("%.2f", rate)
}

func formatSpan(d time.Duration) string {
	d = d.Round(time.Minute)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	return fmt.Sprintf("%dh%02dm", h, m)
}

// overlay draws a glyph keeping the existing cell background
func overlay(scr tcell.Screen, x, y int, r rune, fg tcell.Color) {
	_, _, style, _ := scr.GetContent(x, y)
	scr.SetContent(x, y, r, nil, style.Foreground(fg))
}

func drawText(scr tcell.Screen, x, y int, style tcell.Style, text string) int {
	for _, r := range text {
		scr.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
