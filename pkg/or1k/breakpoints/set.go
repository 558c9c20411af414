package breakpoints

import (
	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/Manu343726/or1kdbg/pkg/utils"
)

// Set is the caller side list of breakpoints, in insertion order
type Set struct {
	breakpoints []*Breakpoint
}

func NewSet() *Set {
	return &Set{}
}

// Adds a breakpoint, not installed yet
func (s *Set) Add(address uint32, kind Kind) (*Breakpoint, error) {
	if s.Find(address) != nil {
		return nil, utils.MakeError(or1k.ErrInvalidArgument, "there's already a breakpoint at 0x%08x", address)
	}

	bp := &Breakpoint{Address: address, Kind: kind}
	s.breakpoints = append(s.breakpoints, bp)
	return bp, nil
}

// Returns the breakpoint at address, or nil
func (s *Set) Find(address uint32) *Breakpoint {
	for _, bp := range s.breakpoints {
		if bp.Address == address {
			return bp
		}
	}

	return nil
}

// Takes the breakpoint at address out of the set and returns it
func (s *Set) Delete(address uint32) (*Breakpoint, error) {
	for i, bp := range s.breakpoints {
		if bp.Address == address {
			s.breakpoints = append(s.breakpoints[:i], s.breakpoints[i+1:]...)
			return bp, nil
		}
	}

	return nil, utils.MakeError(or1k.ErrInvalidArgument, "no breakpoint at 0x%08x", address)
}

func (s *Set) All() []*Breakpoint {
	return append([]*Breakpoint(nil), s.breakpoints...)
}

func (s *Set) Len() int {
	return len(s.breakpoints)
}

// Returns true if any installed breakpoint patches memory
func (s *Set) HasSoftware() bool {
	return len(utils.Filter(s.breakpoints, func(bp *Breakpoint) bool {
		return bp.Installed && bp.Kind == Software
	})) > 0
}
