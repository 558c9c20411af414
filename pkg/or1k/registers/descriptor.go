// Package registers contains the catalog of OpenRISC 1000 registers known to the debugger.
//
// The table is owned by a single target. It only grows: descriptors are values, and callers
// refer to registers by index, so appending never invalidates what was handed out before.
package registers

import (
	"fmt"

	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/Manu343726/or1kdbg/pkg/utils"
)

// Indices of the core registers. They come first in every table.
const (
	RegR0  = 0
	RegR31 = 31
	RegPPC = 32
	RegNPC = 33
	RegSR  = 34

	// Number of core registers (r0-r31, ppc, npc, sr). Registers past this index are SPRs.
	CoreCount = 35

	// Number of general purpose registers transferred in bulk
	GPRCount = RegR31 + 1
)

// All registers are one word wide
const BitSize = 32

type RegisterDescriptor struct {
	// Register name
	Name string

	// Address in the SPR space
	Address uint32

	// Target description feature the register is exported under. Empty means no feature.
	Feature string

	// Display group
	Group string

	// Position in the table
	Index int
}

func (d RegisterDescriptor) String() string {
	return d.Name
}

// Returns true for r0-r31, ppc, npc and sr
func (d RegisterDescriptor) IsCore() bool {
	return d.Index < CoreCount
}

// Returns true for the registers that can't be read as part of the r0-r31 bulk transfer
func (d RegisterDescriptor) IsProgramCounterClass() bool {
	return d.Index == RegPPC || d.Index == RegNPC || d.Index == RegSR
}

type Table struct {
	descriptors []RegisterDescriptor
	byName      map[string]int
}

// Builds the register table of an OpenRISC 1000 target: static catalog followed by the TLB registers
func NewTable() *Table {
	t := &Table{
		byName: make(map[string]int),
	}

	for _, d := range staticCatalog() {
		t.append(d)
	}

	for _, d := range tlbRegisters() {
		t.append(d)
	}

	return t
}

func (t *Table) append(d RegisterDescriptor) int {
	d.Index = len(t.descriptors)
	t.descriptors = append(t.descriptors, d)

	if _, exists := t.byName[d.Name]; !exists {
		t.byName[d.Name] = d.Index
	}

	return d.Index
}

// Returns the number of registers in the table
func (t *Table) Len() int {
	return len(t.descriptors)
}

// Returns a register descriptor given its index
func (t *Table) At(index int) (RegisterDescriptor, error) {
	if index < 0 || index >= len(t.descriptors) {
		return RegisterDescriptor{}, utils.MakeError(or1k.ErrOutOfRange, "register index %v, table has %v registers", index, len(t.descriptors))
	}

	return t.descriptors[index], nil
}

// Returns a register descriptor given its name
func (t *Table) ByName(name string) (RegisterDescriptor, error) {
	if index, found := t.byName[name]; found {
		return t.descriptors[index], nil
	}

	return RegisterDescriptor{}, utils.MakeError(or1k.ErrUnknownRegister, "'%v'", name)
}

// Appends a register to the table and returns its index. The Index field of the given descriptor is ignored.
func (t *Table) Add(d RegisterDescriptor) (int, error) {
	if len(d.Name) == 0 {
		return 0, utils.MakeError(or1k.ErrInvalidArgument, "register name can't be empty")
	}

	if existing, found := t.byName[d.Name]; found {
		return 0, utils.MakeError(or1k.ErrInvalidArgument, "register '%v' already exists at index %v", d.Name, existing)
	}

	return t.append(d), nil
}

// Returns a copy of all the descriptors in table order
func (t *Table) All() []RegisterDescriptor {
	return append([]RegisterDescriptor(nil), t.descriptors...)
}

// Returns the descriptors of the core registers
func (t *Table) Core() []RegisterDescriptor {
	return append([]RegisterDescriptor(nil), t.descriptors[:CoreCount]...)
}

// Returns all the registers in a display group, in table order
func (t *Table) Group(group string) []RegisterDescriptor {
	return utils.Filter(t.descriptors, func(d RegisterDescriptor) bool {
		return d.Group == group
	})
}

// Returns the distinct display groups, in order of first appearance. Registers without group are skipped.
func (t *Table) Groups() []string {
	return utils.Filter(utils.Distinct(t.descriptors, func(d RegisterDescriptor) string { return d.Group }), func(group string) bool {
		return group != ""
	})
}

func (t *Table) String() string {
	return fmt.Sprintf("register table (%v registers)", t.Len())
}
