package console

import (
	"encoding/binary"

	"github.com/Manu343726/or1kdbg/pkg/or1k/breakpoints"
	"github.com/Manu343726/or1kdbg/pkg/or1k/regcache"
	"github.com/Manu343726/or1kdbg/pkg/or1k/registers"
	"github.com/Manu343726/or1kdbg/pkg/or1k/target"
	"github.com/Manu343726/or1kdbg/pkg/utils"
)

// Polls allowed for a single step to finish
const stepPollTries = 10

type Controller struct {
	target      *target.Target
	ui          UI
	running     bool
	lastCommand string
}

// Creates a controller and forwards the target events to the UI
func NewController(t *target.Target, ui UI) *Controller {
	c := &Controller{
		target:  t,
		ui:      ui,
		running: true,
	}

	t.OnEvent(ui.OnEvent)
	return c
}

func (c *Controller) Target() *target.Target {
	return c.target
}

func (c *Controller) UI() UI {
	return c.ui
}

// Returns false once the user quits
func (c *Controller) IsRunning() bool {
	return c.running
}

func (c *Controller) SetLastCommand(cmd string) {
	c.lastCommand = cmd
}

func (c *Controller) LastCommand() string {
	return c.lastCommand
}

func (c *Controller) stateInfo() StateInfo {
	info := StateInfo{State: c.target.State()}

	if info.State.Mode != target.ModeHalted {
		return info
	}

	npc, err := c.target.ReadRegister(registers.RegNPC)
	if err != nil {
		return info
	}

	ppc, err := c.target.ReadRegister(registers.RegPPC)
	if err != nil {
		return info
	}

	info.PC = npc
	info.PPC = ppc
	info.HasPC = true
	return info
}

// CmdState shows the target state
func (c *Controller) CmdState() {
	c.ui.ShowState(c.stateInfo())
}

// CmdPoll queries the hardware and shows the resulting state
func (c *Controller) CmdPoll() {
	if err := c.target.Poll(); err != nil {
		c.ui.ShowMessage(LevelError, "Poll failed: %v", err)
		return
	}

	c.CmdState()
}

// CmdHalt stops the target
func (c *Controller) CmdHalt() {
	if err := c.target.Halt(); err != nil {
		c.ui.ShowMessage(LevelError, "Halt failed: %v", err)
		return
	}

	c.CmdPoll()
}

// Steps over an installed breakpoint at the current pc so resuming doesn't trap right away
func (c *Controller) stepOverBreakpoint() error {
	pc, err := c.target.ReadRegister(registers.RegNPC)
	if err != nil {
		return err
	}

	if bp := c.target.Breakpoints().Find(pc); bp == nil || !bp.Installed {
		return nil
	}

	if err := c.target.Step(true, 0, true); err != nil {
		return err
	}

	if err := c.target.WaitHalted(stepPollTries); err != nil {
		return err
	}

	return c.target.ReinstallBreakpoints()
}

// CmdContinue resumes execution at the current pc, or at address if not nil
func (c *Controller) CmdContinue(address *uint32) {
	var err error

	if address != nil {
		err = c.target.Resume(false, *address, true, false)
	} else if err = c.stepOverBreakpoint(); err == nil {
		err = c.target.Resume(true, 0, true, false)
	}

	if err != nil {
		c.ui.ShowMessage(LevelError, "Resume failed: %v", err)
		return
	}

	c.CmdPoll()
}

// CmdStep executes one instruction at the current pc, or at address if not nil
func (c *Controller) CmdStep(address *uint32) {
	var err error

	if address != nil {
		err = c.target.Step(false, *address, true)
	} else {
		err = c.target.Step(true, 0, true)
	}

	if err == nil {
		err = c.target.WaitHalted(stepPollTries)
	}

	if err == nil {
		err = c.target.ReinstallBreakpoints()
	}

	if err != nil {
		c.ui.ShowMessage(LevelError, "Step failed: %v", err)
		return
	}

	c.CmdState()
}

// CmdRegister shows one register
func (c *Controller) CmdRegister(name string) {
	d, err := c.target.RegisterByName(name)
	if err != nil {
		c.ui.ShowMessage(LevelError, "%v", err)
		return
	}

	value, err := c.target.ReadRegister(d.Index)
	if err != nil {
		c.ui.ShowMessage(LevelError, "Failed to read %v: %v", name, err)
		return
	}

	c.ui.ShowRegisters([]RegisterValue{{Name: d.Name, Index: d.Index, Value: value, Group: d.Group}})
}

// CmdSetRegister sets a register value
func (c *Controller) CmdSetRegister(name string, value uint32) {
	d, err := c.target.RegisterByName(name)
	if err != nil {
		c.ui.ShowMessage(LevelError, "%v", err)
		return
	}

	if err := c.target.WriteRegister(d.Index, value); err != nil {
		c.ui.ShowMessage(LevelError, "Failed to set %v: %v", name, err)
		return
	}

	c.ui.ShowMessage(LevelSuccess, "%v = 0x%08X", name, value)
}

// CmdRegisters shows the core registers
func (c *Controller) CmdRegisters() {
	entries, err := c.target.GeneralRegisters()
	if err != nil {
		c.ui.ShowMessage(LevelError, "Failed to read registers: %v", err)
		return
	}

	c.ui.ShowRegisters(utils.Map(entries, func(e regcache.Entry) RegisterValue {
		return RegisterValue{Name: e.Descriptor.Name, Index: e.Descriptor.Index, Value: e.Value, Group: e.Descriptor.Group}
	}))
}

// CmdMemory shows count elements of size bytes starting at address
func (c *Controller) CmdMemory(address uint32, count int, size int) {
	data, err := c.target.ReadMemory(address, size, count)
	if err != nil {
		c.ui.ShowMessage(LevelError, "Failed to read memory: %v", err)
		return
	}

	c.ui.ShowMemory(address, size, data)
}

// CmdWrite writes a value of size bytes at address
func (c *Controller) CmdWrite(address uint32, value uint32, size int) {
	var buffer [4]byte
	binary.BigEndian.PutUint32(buffer[:], value)

	if size < 1 || size > 4 {
		c.ui.ShowMessage(LevelError, "Invalid size %v, expected 1, 2 or 4", size)
		return
	}

	if err := c.target.WriteMemory(address, size, 1, buffer[4-size:]); err != nil {
		c.ui.ShowMessage(LevelError, "Failed to write memory: %v", err)
		return
	}

	c.ui.ShowMessage(LevelSuccess, "Wrote 0x%X at 0x%08X", value, address)
}

// CmdBreak adds a breakpoint at address
func (c *Controller) CmdBreak(address uint32, hardware bool) {
	kind := breakpoints.Software
	if hardware {
		kind = breakpoints.Hardware
	}

	bp, err := c.target.AddBreakpoint(address, kind)
	if err != nil {
		c.ui.ShowMessage(LevelError, "Failed to add breakpoint: %v", err)
		return
	}

	if hardware && bp.Kind == breakpoints.Software {
		c.ui.ShowMessage(LevelWarning, "Hardware breakpoints not supported, using a software breakpoint")
	}

	c.ui.ShowMessage(LevelSuccess, "Breakpoint set at 0x%08X", address)
}

// CmdDelete removes the breakpoint at address
func (c *Controller) CmdDelete(address uint32) {
	if err := c.target.RemoveBreakpoint(address); err != nil {
		c.ui.ShowMessage(LevelError, "Failed to delete breakpoint: %v", err)
		return
	}

	c.ui.ShowMessage(LevelSuccess, "Breakpoint at 0x%08X deleted", address)
}

// CmdBreakpoints lists the breakpoints
func (c *Controller) CmdBreakpoints() {
	bps := c.target.Breakpoints().All()

	if len(bps) == 0 {
		c.ui.ShowMessage(LevelInfo, "No breakpoints set.")
		return
	}

	c.ui.ShowBreakpoints(utils.Map(bps, func(bp *breakpoints.Breakpoint) BreakpointInfo {
		return BreakpointInfo{Address: bp.Address, Kind: bp.Kind, Installed: bp.Installed}
	}))
}

// CmdReadGroup shows every register of a display group, read from the hardware
func (c *Controller) CmdReadGroup(group string) {
	values, err := c.target.ReadGroup(group)
	if err != nil {
		c.ui.ShowMessage(LevelError, "Failed to read group %v: %v", group, err)
		return
	}

	if len(values) == 0 {
		c.ui.ShowMessage(LevelWarning, "No registers in group '%v'", group)
		return
	}

	c.ui.ShowRegisters(utils.Map(values, func(v target.GroupValue) RegisterValue {
		return RegisterValue{Name: v.Descriptor.Name, Index: v.Descriptor.Index, Value: v.Value, Group: v.Descriptor.Group}
	}))
}

// CmdAddRegister appends a register to the target's table
func (c *Controller) CmdAddRegister(name string, address uint32, feature string, group string) {
	index, err := c.target.AddRegister(registers.RegisterDescriptor{
		Name:    name,
		Address: address,
		Feature: feature,
		Group:   group,
	})
	if err != nil {
		c.ui.ShowMessage(LevelError, "Failed to add register: %v", err)
		return
	}

	c.ui.ShowMessage(LevelSuccess, "Added register %v @ 0x%08X as #%v", name, address, index)
}

// CmdReset takes the target through a reset, leaving it halted if halt is true
func (c *Controller) CmdReset(halt bool) {
	var err error

	if halt {
		err = c.target.SoftResetHalt()
	} else if err = c.target.AssertReset(); err == nil {
		err = c.target.DeassertReset()
	}

	if err != nil {
		c.ui.ShowMessage(LevelError, "Reset failed: %v", err)
		return
	}

	c.CmdPoll()
}

// CmdHelp shows help information
func (c *Controller) CmdHelp() {
	c.ui.ShowHelp(Commands)
}

// CmdQuit exits the console
func (c *Controller) CmdQuit() {
	c.running = false
	c.ui.ShowMessage(LevelSuccess, "Exiting debugger.")
}
