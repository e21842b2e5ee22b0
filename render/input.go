package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/daynight/engine"
)

// TranslateEvent maps a terminal event to a frame loop command
func TranslateEvent(ev tcell.Event) (engine.Command, bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return engine.Command{Kind: engine.CommandQuit}, true
		case tcell.KeyRune:
			return translateRune(ev.Rune())
		}

	case *tcell.EventResize:
		return engine.Command{Kind: engine.CommandResize}, true
	}
	return engine.Command{}, false
}

func translateRune(r rune) (engine.Command, bool) {
	switch r {
	case 'q':
		return engine.Command{Kind: engine.CommandQuit}, true
	case ' ', 'p':
		return engine.Command{Kind: engine.CommandTogglePause}, true
	case '+', '=', 'f':
		return engine.Command{Kind: engine.CommandFaster}, true
	case '-', 's':
		return engine.Command{Kind: engine.CommandSlower}, true
	case 'r':
		return engine.Command{Kind: engine.CommandReset}, true
	}
	if r >= '1' && r <= '9' {
		return engine.Command{Kind: engine.CommandToggleLayer, Arg: int(r - '1')}, true
	}
	return engine.Command{}, false
}

// PollInput forwards screen events as commands until the screen is finalised or done closes
// Blocks; run it on its own goroutine
func PollInput(screen tcell.Screen, out chan<- engine.Command, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		cmd, ok := TranslateEvent(ev)
		if !ok {
			continue
		}
		select {
		case out <- cmd:
		case <-done:
			return
		}
	}
}
