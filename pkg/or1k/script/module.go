package script

import (
	"encoding/binary"
	"log/slog"

	"github.com/Manu343726/or1kdbg/pkg/or1k/breakpoints"
	"github.com/Manu343726/or1kdbg/pkg/or1k/registers"
	"github.com/Manu343726/or1kdbg/pkg/or1k/target"
	lua "github.com/yuin/gopher-lua"
)

// module implements the `target` Lua table
type module struct {
	target *target.Target
	logger *slog.Logger
}

func newModule(t *target.Target, logger *slog.Logger) *module {
	return &module{target: t, logger: logger}
}

func (m *module) table(L *lua.LState) *lua.LTable {
	mod := L.NewTable()

	L.SetFuncs(mod, map[string]lua.LGFunction{
		"state":     m.state,
		"poll":      m.poll,
		"halt":      m.halt,
		"resume":    m.resume,
		"step":      m.step,
		"reg":       m.reg,
		"setreg":    m.setreg,
		"read32":    m.read32,
		"write32":   m.write32,
		"addreg":    m.addreg,
		"readgroup": m.readgroup,
		"bp":        m.bp,
		"unbp":      m.unbp,
	})

	return mod
}

func checkUint32(L *lua.LState, n int) uint32 {
	value := L.CheckNumber(n)
	if value < 0 || value > 0xFFFFFFFF || value != lua.LNumber(uint32(value)) {
		L.ArgError(n, "expected a 32 bit unsigned integer")
	}

	return uint32(value)
}

// Raises err as a Lua error prefixed by the function name
func (m *module) raise(L *lua.LState, function string, err error) int {
	m.logger.Debug("script call failed", "function", function, "error", err)
	L.RaiseError("%v: %v", function, err)
	return 0
}

// state() -> mode, reason
func (m *module) state(L *lua.LState) int {
	state := m.target.State()
	L.Push(lua.LString(state.Mode.String()))
	L.Push(lua.LString(state.DebugReason.String()))
	return 2
}

// poll() -> mode
func (m *module) poll(L *lua.LState) int {
	if err := m.target.Poll(); err != nil {
		return m.raise(L, "poll", err)
	}

	L.Push(lua.LString(m.target.Mode().String()))
	return 1
}

// halt() -> nil
// The target is halted after the next poll().
func (m *module) halt(L *lua.LState) int {
	if err := m.target.Halt(); err != nil {
		return m.raise(L, "halt", err)
	}

	return 0
}

// resume([addr]) -> nil
func (m *module) resume(L *lua.LState) int {
	var err error

	if L.GetTop() >= 1 {
		err = m.target.Resume(false, checkUint32(L, 1), true, false)
	} else {
		err = m.target.Resume(true, 0, true, false)
	}

	if err != nil {
		return m.raise(L, "resume", err)
	}

	return 0
}

// step() -> nil
func (m *module) step(L *lua.LState) int {
	if err := m.target.Step(true, 0, true); err != nil {
		return m.raise(L, "step", err)
	}

	return 0
}

func (m *module) lookup(L *lua.LState, function string) registers.RegisterDescriptor {
	d, err := m.target.RegisterByName(L.CheckString(1))
	if err != nil {
		m.raise(L, function, err)
	}

	return d
}

// reg(name) -> value
func (m *module) reg(L *lua.LState) int {
	d := m.lookup(L, "reg")

	value, err := m.target.ReadRegister(d.Index)
	if err != nil {
		return m.raise(L, "reg", err)
	}

	L.Push(lua.LNumber(value))
	return 1
}

// setreg(name, value) -> nil
func (m *module) setreg(L *lua.LState) int {
	d := m.lookup(L, "setreg")

	if err := m.target.WriteRegister(d.Index, checkUint32(L, 2)); err != nil {
		return m.raise(L, "setreg", err)
	}

	return 0
}

// read32(addr) -> value
func (m *module) read32(L *lua.LState) int {
	data, err := m.target.ReadMemory(checkUint32(L, 1), 4, 1)
	if err != nil {
		return m.raise(L, "read32", err)
	}

	L.Push(lua.LNumber(binary.BigEndian.Uint32(data)))
	return 1
}

// write32(addr, value) -> nil
func (m *module) write32(L *lua.LState) int {
	address := checkUint32(L, 1)

	var data [4]byte
	binary.BigEndian.PutUint32(data[:], checkUint32(L, 2))

	if err := m.target.WriteMemory(address, 4, 1, data[:]); err != nil {
		return m.raise(L, "write32", err)
	}

	return 0
}

// addreg(name, addr, feature, group) -> index
func (m *module) addreg(L *lua.LState) int {
	index, err := m.target.AddRegister(registers.RegisterDescriptor{
		Name:    L.CheckString(1),
		Address: checkUint32(L, 2),
		Feature: L.CheckString(3),
		Group:   L.CheckString(4),
	})
	if err != nil {
		return m.raise(L, "addreg", err)
	}

	L.Push(lua.LNumber(index))
	return 1
}

// readgroup(group) -> {name = value, ...}
func (m *module) readgroup(L *lua.LState) int {
	values, err := m.target.ReadGroup(L.CheckString(1))
	if err != nil {
		return m.raise(L, "readgroup", err)
	}

	tbl := L.NewTable()
	for _, v := range values {
		tbl.RawSetString(v.Descriptor.Name, lua.LNumber(v.Value))
	}

	L.Push(tbl)
	return 1
}

// bp(addr) -> nil
func (m *module) bp(L *lua.LState) int {
	if _, err := m.target.AddBreakpoint(checkUint32(L, 1), breakpoints.Software); err != nil {
		return m.raise(L, "bp", err)
	}

	return 0
}

// unbp(addr) -> nil
func (m *module) unbp(L *lua.LState) int {
	if err := m.target.RemoveBreakpoint(checkUint32(L, 1)); err != nil {
		return m.raise(L, "unbp", err)
	}

	return 0
}
