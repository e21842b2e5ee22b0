package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/daynight/engine"
	"github.com/lixenwraith/daynight/solar"
)

type layerEntry struct {
	layer    Layer
	priority Priority
	index    int // Registration order for stable sort
	visible  bool
}

// Scene is the terminal render sink, drawing registered layers in priority order
// Frame and HandleCommand are called from the frame loop goroutine only
type Scene struct {
	screen   tcell.Screen
	mode     ColorMode
	layers   []layerEntry
	regCount int
}

// NewScene creates a scene drawing to an initialised screen
func NewScene(screen tcell.Screen, mode ColorMode) *Scene {
	return &Scene{
		screen: screen,
		mode:   mode,
		layers: make([]layerEntry, 0, 8),
	}
}

// Register adds a layer at the given priority. Maintains sorted order via insertion sort
func (s *Scene) Register(l Layer, priority Priority, visible bool) {
	entry := layerEntry{
		layer:    l,
		priority: priority,
		index:    s.regCount,
		visible:  visible,
	}
	s.regCount++

	pos := len(s.layers)
	for i, e := range s.layers {
		if priority < e.priority || (priority == e.priority && entry.index < e.index) {
			pos = i
			break
		}
	}

	s.layers = append(s.layers, layerEntry{})
	copy(s.layers[pos+1:], s.layers[pos:])
	s.layers[pos] = entry
}

// Layers returns layer names in draw order
func (s *Scene) Layers() []string {
	names := make([]string, len(s.layers))
	for i, e := range s.layers {
		names[i] = e.layer.Name()
	}
	return names
}

// Visible reports whether the named layer is drawn
func (s *Scene) Visible(name string) bool {
	for _, e := range s.layers {
		if e.layer.Name() == name {
			return e.visible
		}
	}
	return false
}

// SetVisible toggles a layer by name, returns false if no such layer
func (s *Scene) SetVisible(name string, visible bool) bool {
	for i := range s.layers {
		if s.layers[i].layer.Name() == name {
			s.layers[i].visible = visible
			return true
		}
	}
	return false
}

// Frame implements engine.Sink
func (s *Scene) Frame(info engine.FrameInfo) error {
	w, h := s.screen.Size()
	s.screen.Clear()

	// Status bar takes the last row
	if w < 1 || h < 2 {
		s.screen.Show()
		return nil
	}

	ctx := Context{
		Frame:  info,
		Field:  solar.NewField(info.Simulated),
		Width:  w,
		Height: h - 1,
		Mode:   s.mode,
	}

	for _, e := range s.layers {
		if e.visible {
			e.layer.Draw(ctx, s.screen)
		}
	}

	s.screen.Show()
	return nil
}

// HandleCommand implements engine.CommandHandler
func (s *Scene) HandleCommand(cmd engine.Command) {
	switch cmd.Kind {
	case engine.CommandToggleLayer:
		if cmd.Arg >= 0 && cmd.Arg < len(s.layers) {
			s.layers[cmd.Arg].visible = !s.layers[cmd.Arg].visible
		}
	case engine.CommandResize:
		s.screen.Sync()
	}
}
