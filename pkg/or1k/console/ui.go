// Package console implements the debugger commands shared by the interactive frontends.
//
// A Controller runs commands against a target and reports the outcome through a UI, so the
// same commands back the line console, the register viewer and the tests.
package console

import (
	"github.com/Manu343726/or1kdbg/pkg/or1k/breakpoints"
	"github.com/Manu343726/or1kdbg/pkg/or1k/target"
)

// MessageLevel indicates the type of message
type MessageLevel int

const (
	LevelInfo MessageLevel = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l MessageLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// RegisterValue is a named register and its value
type RegisterValue struct {
	Name  string
	Index int
	Value uint32
	Group string
}

// BreakpointInfo describes a breakpoint for display
type BreakpointInfo struct {
	Address   uint32
	Kind      breakpoints.Kind
	Installed bool
}

// CommandHelp describes a console command
type CommandHelp struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string
}

// StateInfo is the target state plus the program counters, when known
type StateInfo struct {
	State target.State
	PC    uint32
	PPC   uint32
	// PC and PPC are only meaningful for a halted target
	HasPC bool
}

// UI is implemented by the presentation layers
type UI interface {
	// OnEvent is called on every target event
	OnEvent(event target.EventData)

	ShowMessage(level MessageLevel, format string, args ...any)
	ShowState(state StateInfo)
	ShowRegisters(regs []RegisterValue)
	ShowMemory(address uint32, size int, data []byte)
	ShowBreakpoints(bps []BreakpointInfo)
	ShowHelp(commands []CommandHelp)
}
