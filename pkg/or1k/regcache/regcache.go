// Package regcache keeps the debugger's shadow copy of the target registers.
//
// Core registers (r0-r31, ppc, npc, sr) are cached: they are fetched in one batch when the
// target halts and written back before it resumes. SPRs are never trusted from the cache,
// every read and write goes to the hardware.
package regcache

import (
	"log/slog"

	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/Manu343726/or1kdbg/pkg/or1k/du"
	"github.com/Manu343726/or1kdbg/pkg/or1k/registers"
	"github.com/Manu343726/or1kdbg/pkg/utils"
)

type Entry struct {
	Descriptor registers.RegisterDescriptor

	// Last known value
	Value uint32

	// The value matches the hardware, or will once written back
	Valid bool

	// The value was changed by the debugger and not written back yet. Implies Valid.
	Dirty bool
}

type Cache struct {
	unit    du.DebugUnit
	table   *registers.Table
	entries []Entry

	// Core register values in transfer layout: r0-r31 are sent as one block
	raw [registers.CoreCount]uint32

	logger *slog.Logger
}

// Creates a cache with one invalid entry per register of the table
func New(unit du.DebugUnit, table *registers.Table, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Cache{
		unit:   unit,
		table:  table,
		logger: logger,
	}

	c.Grow()
	return c
}

func (c *Cache) Len() int {
	return len(c.entries)
}

// Adds entries for the registers appended to the table since the last call
func (c *Cache) Grow() {
	for i := len(c.entries); i < c.table.Len(); i++ {
		d, _ := c.table.At(i)
		c.entries = append(c.entries, Entry{Descriptor: d})
	}
}

// Returns a copy of the cache entry at index
func (c *Cache) Entry(index int) (Entry, error) {
	if err := c.checkIndex(index); err != nil {
		return Entry{}, err
	}

	return c.entries[index], nil
}

func (c *Cache) checkIndex(index int) error {
	if index < 0 || index >= len(c.entries) {
		return utils.MakeError(or1k.ErrOutOfRange, "register index %v, cache has %v registers", index, len(c.entries))
	}

	return nil
}

// Returns the value of a register. Core registers come from the cache, refreshed in one batch
// if stale. SPRs are always read from the hardware.
func (c *Cache) Read(index int) (uint32, error) {
	if err := c.checkIndex(index); err != nil {
		return 0, err
	}

	entry := &c.entries[index]

	if entry.Descriptor.IsCore() {
		if !entry.Valid {
			if err := c.SaveContext(); err != nil {
				return 0, err
			}
		}

		return entry.Value, nil
	}

	values, err := c.unit.ReadCPU(entry.Descriptor.Address, 1)
	if err != nil {
		return 0, utils.WithContext(err, "reading spr %v (0x%04x)", entry.Descriptor.Name, entry.Descriptor.Address)
	}

	c.logger.Debug("read spr", "name", entry.Descriptor.Name, "value", utils.FormatUintHex(uint64(values[0]), 8))
	entry.Value = values[0]
	entry.Valid = true
	return entry.Value, nil
}

// Sets the value of a register. Core registers are marked dirty and written back by
// RestoreContext, SPRs are written to the hardware immediately.
//
// Writing a core register while the cache is stale first refreshes all of them with
// SaveContext (one bulk read), since RestoreContext sends r0-r31 as a single block.
// A write to a valid core register never touches the hardware.
func (c *Cache) Write(index int, value uint32) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}

	entry := &c.entries[index]

	if entry.Descriptor.IsCore() {
		// The bulk write back sends all of r0-r31, so every one of them must hold a real value
		if !entry.Valid {
			if err := c.SaveContext(); err != nil {
				return err
			}
		}

		entry.Value = value
		entry.Valid = true
		entry.Dirty = true
		c.raw[index] = value
		return nil
	}

	if err := c.unit.WriteCPU(entry.Descriptor.Address, []uint32{value}); err != nil {
		return utils.WithContext(err, "writing spr %v (0x%04x)", entry.Descriptor.Name, entry.Descriptor.Address)
	}

	entry.Value = value
	entry.Valid = true
	return nil
}

// Refreshes every stale core register. ppc, npc and sr are read one by one, r0-r31 with a
// single block read no matter how many of them are stale.
func (c *Cache) SaveContext() error {
	gprsRead := false

	for i := 0; i < registers.CoreCount; i++ {
		entry := &c.entries[i]

		if entry.Valid {
			continue
		}

		if entry.Descriptor.IsProgramCounterClass() {
			values, err := c.unit.ReadCPU(entry.Descriptor.Address, 1)
			if err != nil {
				c.logger.Error("error while saving context", "register", entry.Descriptor.Name, "error", err)
				return utils.WithContext(err, "reading %v", entry.Descriptor.Name)
			}

			c.raw[i] = values[0]
		} else if !gprsRead {
			values, err := c.unit.ReadCPU(or1k.GPR0Address, registers.GPRCount)
			if err != nil {
				c.logger.Error("error while saving context", "register", "r0-r31", "error", err)
				return utils.WithContext(err, "reading r0-r31")
			}

			copy(c.raw[:registers.GPRCount], values)
			gprsRead = true
		}

		entry.Value = c.raw[i]
		entry.Valid = true
		entry.Dirty = false
	}

	return nil
}

// Writes back every dirty core register. ppc, npc and sr are written one by one, r0-r31 with
// a single block write if any of them is dirty. An entry stays dirty until its write succeeds.
func (c *Cache) RestoreContext() error {
	gprsDirty := false

	for i := 0; i < registers.CoreCount; i++ {
		entry := &c.entries[i]

		if !entry.Dirty {
			continue
		}

		if !entry.Descriptor.IsProgramCounterClass() {
			gprsDirty = true
			continue
		}

		c.raw[i] = entry.Value

		if err := c.unit.WriteCPU(entry.Descriptor.Address, []uint32{entry.Value}); err != nil {
			c.logger.Error("error while restoring context", "register", entry.Descriptor.Name, "error", err)
			return utils.WithContext(err, "writing %v", entry.Descriptor.Name)
		}

		entry.Dirty = false
	}

	if !gprsDirty {
		return nil
	}

	for i := 0; i < registers.GPRCount; i++ {
		c.raw[i] = c.entries[i].Value
	}

	if err := c.unit.WriteCPU(or1k.GPR0Address, c.raw[:registers.GPRCount]); err != nil {
		c.logger.Error("error while restoring context", "register", "r0-r31", "error", err)
		return utils.WithContext(err, "writing r0-r31")
	}

	for i := 0; i < registers.GPRCount; i++ {
		c.entries[i].Dirty = false
	}

	return nil
}

// Marks every entry stale. Dirty values not yet written back are lost.
func (c *Cache) Invalidate() {
	for i := range c.entries {
		if c.entries[i].Dirty {
			c.logger.Warn("discarding register value not written back", "register", c.entries[i].Descriptor.Name)
		}

		c.entries[i].Valid = false
		c.entries[i].Dirty = false
	}
}
