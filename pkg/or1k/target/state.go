package target

import "fmt"

// Mode is the life-cycle state of the target as the debugger sees it
type Mode int

const (
	// ModeUnknown is the state before the target is examined
	ModeUnknown Mode = iota
	// ModeRunning means the CPU is executing
	ModeRunning
	// ModeHalted means the CPU is stalled and the register cache is populated
	ModeHalted
	// ModeResetAsserted means the CPU is held in reset
	ModeResetAsserted
	// ModeDebugRunning means the CPU is executing code on behalf of the debugger
	ModeDebugRunning
)

func (m Mode) String() string {
	switch m {
	case ModeUnknown:
		return "unknown"
	case ModeRunning:
		return "running"
	case ModeHalted:
		return "halted"
	case ModeResetAsserted:
		return "reset"
	case ModeDebugRunning:
		return "debug-running"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// DebugReason tells why the target last stopped, or that it is not stopped
type DebugReason int

const (
	ReasonNone DebugReason = iota
	ReasonBreakpointTrap
	ReasonWatchpointTrap
	ReasonSingleStep
	ReasonDebugRequest
	ReasonNotHalted
)

func (r DebugReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonBreakpointTrap:
		return "breakpoint"
	case ReasonWatchpointTrap:
		return "watchpoint"
	case ReasonSingleStep:
		return "single-step"
	case ReasonDebugRequest:
		return "debug-request"
	case ReasonNotHalted:
		return "not-halted"
	default:
		return fmt.Sprintf("DebugReason(%d)", int(r))
	}
}

type State struct {
	Mode        Mode
	DebugReason DebugReason
}

func (s State) String() string {
	return fmt.Sprintf("%v (%v)", s.Mode, s.DebugReason)
}

// Event is sent to the registered handlers on target state changes
type Event int

const (
	// EventHalted is fired when the target stops while running user code
	EventHalted Event = iota
	// EventDebugHalted is fired when the target stops while running debugger code,
	// or had to be stopped again after being found running while it should be halted
	EventDebugHalted
	// EventResumed is fired when the target resumes user code
	EventResumed
	// EventDebugResumed is fired when the target resumes on behalf of the debugger
	EventDebugResumed
)

func (e Event) String() string {
	switch e {
	case EventHalted:
		return "halted"
	case EventDebugHalted:
		return "debug-halted"
	case EventResumed:
		return "resumed"
	case EventDebugResumed:
		return "debug-resumed"
	default:
		return "unknown"
	}
}

// EventData contains the event and the target state right after it
type EventData struct {
	Event Event
	State State
	// Program counter the target stopped at or resumed from
	PC uint32
}

type EventHandler func(event EventData)
