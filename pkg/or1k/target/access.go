package target

import (
	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/Manu343726/or1kdbg/pkg/or1k/breakpoints"
	"github.com/Manu343726/or1kdbg/pkg/or1k/regcache"
	"github.com/Manu343726/or1kdbg/pkg/or1k/registers"
	"github.com/Manu343726/or1kdbg/pkg/utils"
)

func (t *Target) checkHalted() error {
	if t.state.Mode != ModeHalted {
		t.logger.Error("target not halted", "state", t.state)
		return utils.MakeError(or1k.ErrNotHalted, "target is %v", t.state.Mode)
	}

	return nil
}

func (t *Target) RegisterByName(name string) (registers.RegisterDescriptor, error) {
	return t.table.ByName(name)
}

// Returns the value of the register at index. Requires a halted target.
func (t *Target) ReadRegister(index int) (uint32, error) {
	if err := t.checkHalted(); err != nil {
		return 0, err
	}

	return t.cache.Read(index)
}

// Sets the value of the register at index. Core registers are written back on resume,
// SPRs immediately. Requires a halted target.
func (t *Target) WriteRegister(index int, value uint32) error {
	if err := t.checkHalted(); err != nil {
		return err
	}

	return t.cache.Write(index, value)
}

// Appends a register to the target's table and returns its index
func (t *Target) AddRegister(d registers.RegisterDescriptor) (int, error) {
	index, err := t.table.Add(d)
	if err != nil {
		return 0, err
	}

	t.cache.Grow()
	t.logger.Debug("add reg", "name", d.Name, "address", utils.FormatUintHex(uint64(d.Address), 8), "group", d.Group, "feature", d.Feature)
	return index, nil
}

type GroupValue struct {
	Descriptor registers.RegisterDescriptor
	Value      uint32
}

// Reads from the hardware every register whose display group is group
func (t *Target) ReadGroup(group string) ([]GroupValue, error) {
	descriptors := t.table.Group(group)
	result := make([]GroupValue, 0, len(descriptors))

	for _, d := range descriptors {
		values, err := t.unit.ReadCPU(d.Address, 1)
		if err != nil {
			return nil, utils.WithContext(err, "reading %v", d.Name)
		}

		result = append(result, GroupValue{Descriptor: d, Value: values[0]})
	}

	return result, nil
}

// Returns the core registers (r0-r31, ppc, npc, sr), refreshing stale ones first.
// Requires a halted target.
func (t *Target) GeneralRegisters() ([]regcache.Entry, error) {
	if err := t.checkHalted(); err != nil {
		return nil, err
	}

	if err := t.cache.SaveContext(); err != nil {
		return nil, err
	}

	result := make([]regcache.Entry, registers.CoreCount)
	for i := range result {
		result[i], _ = t.cache.Entry(i)
	}

	return result, nil
}

// Returns every register the target knows about
func (t *Target) AllRegisters() []registers.RegisterDescriptor {
	return t.table.All()
}

// Reads count elements of size bytes. Requires a halted target.
func (t *Target) ReadMemory(address uint32, size int, count int) ([]byte, error) {
	if err := t.checkHalted(); err != nil {
		return nil, err
	}

	if size <= 0 || count <= 0 {
		return nil, utils.MakeError(or1k.ErrInvalidArgument, "size %v, count %v", size, count)
	}

	buffer := make([]byte, size*count)
	if err := t.memory.Read(address, size, count, buffer); err != nil {
		return nil, err
	}

	return buffer, nil
}

// Writes count elements of size bytes from data. Requires a halted target.
func (t *Target) WriteMemory(address uint32, size int, count int, data []byte) error {
	if err := t.checkHalted(); err != nil {
		return err
	}

	return t.memory.Write(address, size, count, data)
}

// Adds a breakpoint to the target's set and patches it in. If the trap made it
// into memory before the failure the breakpoint stays in the set, so
// RemoveBreakpoint can still put the original instruction back.
func (t *Target) AddBreakpoint(address uint32, kind breakpoints.Kind) (*breakpoints.Breakpoint, error) {
	bp, err := t.breakpoints.Add(address, kind)
	if err != nil {
		return nil, err
	}

	if err := t.manager.Install(bp); err != nil {
		if !bp.Installed {
			t.breakpoints.Delete(address)
		}

		return nil, err
	}

	return bp, nil
}

// Restores the instruction under a breakpoint and drops it from the set
func (t *Target) RemoveBreakpoint(address uint32) error {
	bp := t.breakpoints.Find(address)
	if bp == nil {
		return utils.MakeError(or1k.ErrInvalidArgument, "no breakpoint at 0x%08x", address)
	}

	if err := t.manager.Remove(bp); err != nil {
		return err
	}

	_, err := t.breakpoints.Delete(address)
	return err
}

// Patches back every breakpoint of the set that is not installed, e.g. after
// resuming from one of them
func (t *Target) ReinstallBreakpoints() error {
	for _, bp := range t.breakpoints.All() {
		if err := t.manager.Install(bp); err != nil {
			return err
		}
	}

	return nil
}

// Watchpoints are not supported. The request is logged and ignored.
func (t *Target) AddWatchpoint(address uint32, length int) error {
	t.logger.Error("watchpoints not supported", "address", utils.FormatUintHex(uint64(address), 8), "length", length)
	return nil
}

func (t *Target) RemoveWatchpoint(address uint32, length int) error {
	t.logger.Error("watchpoints not supported", "address", utils.FormatUintHex(uint64(address), 8), "length", length)
	return nil
}

// Not supported: callers should read the memory and compute the checksum themselves
func (t *Target) ChecksumMemory(address uint32, count int) (uint32, error) {
	return 0, utils.MakeError(or1k.ErrUnsupported, "memory checksum of %v bytes at 0x%08x", count, address)
}
