// Package breakpoints installs software breakpoints by patching l.trap over target instructions.
package breakpoints

import (
	"encoding/binary"
	"log/slog"

	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/Manu343726/or1kdbg/pkg/or1k/du"
	"github.com/Manu343726/or1kdbg/pkg/or1k/memory"
	"github.com/Manu343726/or1kdbg/pkg/utils"
)

type Kind int

const (
	Software Kind = iota
	Hardware
)

func (k Kind) String() string {
	switch k {
	case Software:
		return "software"
	case Hardware:
		return "hardware"
	}

	panic("unreachable")
}

type Breakpoint struct {
	Address uint32

	// Instruction word replaced by the trap, in target byte order
	Saved [or1k.InstructionSize]byte

	Kind      Kind
	Installed bool
}

// Manager patches and restores breakpoint instructions. It does not own the breakpoints.
type Manager struct {
	unit   du.DebugUnit
	memory *memory.Access
	logger *slog.Logger
}

func NewManager(unit du.DebugUnit, access *memory.Access, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		unit:   unit,
		memory: access,
		logger: logger,
	}
}

func (m *Manager) invalidateICache(address uint32) error {
	if err := m.unit.WriteCPU(or1k.ICBIRAddress, []uint32{address}); err != nil {
		m.logger.Error("error while invalidating the instruction cache", "address", utils.FormatUintHex(uint64(address), 8), "error", err)
		return utils.WithContext(err, "invalidating icache block at 0x%08x", address)
	}

	return nil
}

// Saves the instruction at the breakpoint address and replaces it with a trap.
// Hardware breakpoints are not supported and get installed as software ones.
func (m *Manager) Install(bp *Breakpoint) error {
	m.logger.Debug("adding breakpoint", "address", utils.FormatUintHex(uint64(bp.Address), 8), "kind", bp.Kind)

	if bp.Installed {
		return nil
	}

	if bp.Kind == Hardware {
		m.logger.Warn("hardware breakpoints not supported, using a software breakpoint", "address", utils.FormatUintHex(uint64(bp.Address), 8))
		bp.Kind = Software
	}

	var saved [or1k.InstructionSize]byte
	if err := m.memory.Read(bp.Address, 4, 1, saved[:]); err != nil {
		m.logger.Error("error while reading the instruction", "address", utils.FormatUintHex(uint64(bp.Address), 8), "error", err)
		return err
	}

	var trap [or1k.InstructionSize]byte
	binary.BigEndian.PutUint32(trap[:], or1k.TrapInstruction)

	if err := m.memory.Write(bp.Address, 4, 1, trap[:]); err != nil {
		m.logger.Error("error while writing the trap instruction", "address", utils.FormatUintHex(uint64(bp.Address), 8), "error", err)
		return err
	}

	bp.Saved = saved
	bp.Installed = true

	return m.invalidateICache(bp.Address)
}

// Puts back the instruction saved by Install
func (m *Manager) Remove(bp *Breakpoint) error {
	m.logger.Debug("removing breakpoint", "address", utils.FormatUintHex(uint64(bp.Address), 8))

	if !bp.Installed {
		return nil
	}

	if err := m.memory.Write(bp.Address, 4, 1, bp.Saved[:]); err != nil {
		m.logger.Error("error while restoring the instruction", "address", utils.FormatUintHex(uint64(bp.Address), 8), "error", err)
		return err
	}

	bp.Installed = false

	return m.invalidateICache(bp.Address)
}
