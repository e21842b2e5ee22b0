package engine

// CommandKind identifies a control request applied between frames
type CommandKind uint8

const (
	CommandNone CommandKind = iota
	CommandQuit
	CommandTogglePause
	CommandPause
	CommandResume
	CommandFaster
	CommandSlower
	CommandReset
	CommandToggleLayer // Arg: layer index
	CommandResize
)

// Command is sent from input goroutines to the frame loop
type Command struct {
	Kind CommandKind
	Arg  int
}

// String returns the command name for logging
func (k CommandKind) String() string {
	switch k {
	case CommandNone:
		return "None"
	case CommandQuit:
		return "Quit"
	case CommandTogglePause:
		return "TogglePause"
	case CommandPause:
		return "Pause"
	case CommandResume:
		return "Resume"
	case CommandFaster:
		return "Faster"
	case CommandSlower:
		return "Slower"
	case CommandReset:
		return "Reset"
	case CommandToggleLayer:
		return "ToggleLayer"
	case CommandResize:
		return "Resize"
	default:
		return "Unknown"
	}
}
