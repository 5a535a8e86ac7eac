package anova

// State represents the session's connection lifecycle stage.
type State uint32

// Session states. Disconnected is both the initial and the terminal state.
const (
	Disconnected State = iota
	Connecting
	Connected
)

// IsConnected reports whether the session is ready for commands.
func (s State) IsConnected() bool { return s == Connected }

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}
