package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/daynight/engine"
	"github.com/lixenwraith/daynight/solar"
)

// Context is the per-frame state shared by all layers
type Context struct {
	Frame  engine.FrameInfo
	Field  solar.Field
	Width  int
	Height int // Map rows, excludes the status bar
	Mode   ColorMode
}

// Layer draws one aspect of the scene
type Layer interface {
	Name() string
	Draw(ctx Context, scr tcell.Screen)
}

// CellToLatLon maps a map cell centre to geographic coordinates
func (c Context) CellToLatLon(x, y int) (lat, lon float64) {
	lat = 90 - (float64(y)+0.5)/float64(c.Height)*180
	lon = -180 + (float64(x)+0.5)/float64(c.Width)*360
	return lat, lon
}

// LatLonToCell maps geographic coordinates to the containing map cell
func (c Context) LatLonToCell(lat, lon float64) (x, y int) {
	x = int((lon + 180) / 360 * float64(c.Width))
	y = int((90 - lat) / 180 * float64(c.Height))
	if x >= c.Width {
		x = c.Width - 1
	}
	if y >= c.Height {
		y = c.Height - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}
