package target

import (
	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/Manu343726/or1kdbg/pkg/or1k/registers"
	"github.com/Manu343726/or1kdbg/pkg/utils"
)

// First contact with the target. Moves from unknown to running or halted; later calls do nothing.
func (t *Target) Examine() error {
	if t.examined {
		return nil
	}

	running, err := t.unit.IsRunning()
	if err != nil {
		t.logger.Error("couldn't read the CPU state", "error", err)
		return utils.WithContext(err, "examining target")
	}

	t.examined = true

	if running {
		t.state.Mode = ModeRunning
		return nil
	}

	t.logger.Debug("target is halted")

	// Stalled for a reason we don't know, assume it was us
	if t.state.Mode == ModeUnknown {
		t.state.DebugReason = ReasonDebugRequest
	}

	t.state.Mode = ModeHalted
	return t.debugEntry()
}

func (t *Target) isCPURunning() (bool, error) {
	var lastErr error

	for attempt := 1; attempt <= t.pollRetries; attempt++ {
		running, err := t.unit.IsRunning()
		if err == nil {
			return running, nil
		}

		lastErr = err
		t.logger.Warn("debug unit CPU state query failed, reinitializing", "attempt", attempt, "of", t.pollRetries, "error", err)

		if err := t.unit.Reinitialize(); err != nil {
			t.logger.Warn("debug unit reinitialization failed", "error", err)
		}

		if attempt < t.pollRetries {
			t.sleep(t.pollBackoff)
		}
	}

	t.logger.Error("could not re-establish communication with target")
	return false, utils.WrapError(or1k.ErrCommunication, lastErr, "CPU state query failed %v times", t.pollRetries)
}

// Queries the hardware and updates the target state. Entering the halted state refreshes the
// register cache and fires EventHalted or EventDebugHalted.
func (t *Target) Poll() error {
	running, err := t.isCPURunning()
	if err != nil {
		return err
	}

	if !running {
		switch t.state.Mode {
		case ModeRunning, ModeResetAsserted:
			return t.enterHalted(EventHalted)
		case ModeDebugRunning:
			return t.enterHalted(EventDebugHalted)
		}

		return nil
	}

	if t.state.Mode == ModeHalted {
		// Found running while it should be stalled, stall it again
		t.logger.Warn("target found running while halted, halting again")
		t.state.Mode = ModeRunning

		if err := t.Halt(); err != nil {
			return err
		}

		t.cache.Invalidate()

		if err := t.debugEntry(); err != nil {
			return err
		}

		t.emit(EventDebugHalted, t.pc())
	}

	t.state.Mode = ModeRunning
	return nil
}

// Polls until the target is halted, at most tries times with the poll backoff in between.
// Useful after Step, which returns as soon as the CPU is unstalled.
func (t *Target) WaitHalted(tries int) error {
	for attempt := 1; ; attempt++ {
		if err := t.Poll(); err != nil {
			return err
		}

		if t.state.Mode == ModeHalted {
			return nil
		}

		if attempt >= tries {
			return utils.MakeError(or1k.ErrNotHalted, "target still %v after %v polls", t.state.Mode, tries)
		}

		t.sleep(t.pollBackoff)
	}
}

func (t *Target) enterHalted(event Event) error {
	t.state.Mode = ModeHalted

	t.updateDebugReason()

	if err := t.debugEntry(); err != nil {
		return err
	}

	t.emit(event, t.pc())
	return nil
}

// Figures out why a running target stopped, from the debug reason register.
// If DRR cannot be read the stop is reported as a debug request.
func (t *Target) updateDebugReason() {
	switch t.state.DebugReason {
	case ReasonSingleStep, ReasonDebugRequest:
		return
	}

	t.state.DebugReason = ReasonDebugRequest

	drr, err := t.unit.ReadCPU(or1k.DMR1Address+or1k.DebugRegDRR, 1)
	if err != nil {
		t.logger.Warn("could not read the debug reason register, assuming a debug request", "error", err)
		return
	}

	if drr[0]&or1k.DRRTE != 0 {
		t.state.DebugReason = ReasonBreakpointTrap
	}
}

// Refreshes the register cache after the target stops
func (t *Target) debugEntry() error {
	t.logger.Debug("debug entry")

	if err := t.cache.SaveContext(); err != nil {
		t.logger.Error("error while saving context", "error", err)
		return err
	}

	npc, err := t.cache.Read(registers.RegNPC)
	if err != nil {
		return err
	}

	// Stopped on a breakpoint: pin npc so it is written back as is on resume
	if t.breakpoints.Find(npc) != nil {
		return t.cache.Write(registers.RegNPC, npc)
	}

	return nil
}

// Returns the cached npc, or zero if the cache is stale
func (t *Target) pc() uint32 {
	entry, err := t.cache.Entry(registers.RegNPC)
	if err != nil || !entry.Valid {
		return 0
	}

	return entry.Value
}

// Requests the CPU to stop. The state changes to halted on the next Poll.
func (t *Target) Halt() error {
	t.logger.Debug("halt", "state", t.state)

	switch t.state.Mode {
	case ModeHalted:
		t.logger.Debug("target was already halted")
		return nil
	case ModeUnknown:
		t.logger.Warn("target was in unknown state when halt was requested")
	case ModeResetAsserted:
		if t.srstPullsTrst {
			t.logger.Error("can't request a halt while in reset if srst pulls trst")
			return utils.MakeError(or1k.ErrTargetFailure, "can't request a halt while in reset if srst pulls trst")
		}

		// Stall once the reset is released
		t.state.DebugReason = ReasonDebugRequest
		t.haltPending = true
		return nil
	}

	if err := t.unit.Stall(); err != nil {
		t.logger.Error("impossible to stall the CPU", "error", err)
		return utils.WithContext(err, "stalling the CPU")
	}

	t.state.DebugReason = ReasonDebugRequest
	return nil
}

// Resumes execution at npc (current) or at address. With handleBreakpoints, a breakpoint at
// the resume address is removed first so its instruction runs.
func (t *Target) Resume(current bool, address uint32, handleBreakpoints bool, debugExecution bool) error {
	return t.resumeOrStep(current, address, handleBreakpoints, debugExecution, false)
}

// Executes one instruction at npc (current) or at address
func (t *Target) Step(current bool, address uint32, handleBreakpoints bool) error {
	return t.resumeOrStep(current, address, handleBreakpoints, false, true)
}

func (t *Target) resumeOrStep(current bool, address uint32, handleBreakpoints bool, debugExecution bool, step bool) error {
	t.logger.Debug("resume", "current", current, "address", utils.FormatUintHex(uint64(address), 8), "step", step, "handle_breakpoints", handleBreakpoints)

	if err := t.checkHalted(); err != nil {
		return err
	}

	if !current {
		if err := t.cache.Write(registers.RegNPC, address); err != nil {
			return err
		}
	}

	if err := t.cache.RestoreContext(); err != nil {
		t.logger.Error("error while restoring context", "error", err)
		return err
	}

	debugRegs, err := t.unit.ReadCPU(or1k.DMR1Address, or1k.DebugRegCount)
	if err != nil {
		t.logger.Error("error while reading debug registers", "error", err)
		return utils.WithContext(err, "reading debug registers")
	}

	debugRegs[or1k.DebugRegDRR] = 0

	dmr2 := utils.CreateBitView(&debugRegs[or1k.DebugRegDMR2])
	dmr2.ClearBits(or1k.DMR2WGBBit, or1k.DMR2WGBWidth)

	dmr1 := utils.CreateBitView(&debugRegs[or1k.DebugRegDMR1])
	if step {
		dmr1.SetBit(or1k.DMR1STBit)
		dmr1.SetBit(or1k.DMR1BTBit)
	} else {
		dmr1.ClearBit(or1k.DMR1STBit)
		dmr1.ClearBit(or1k.DMR1BTBit)
	}

	// Route l.trap to the debugger only when we patched some in, the software on the
	// target may rely on them otherwise
	if t.breakpoints.HasSoftware() {
		utils.CreateBitView(&debugRegs[or1k.DebugRegDSR]).SetBit(or1k.DSRTEBit)
	}

	if err := t.unit.WriteCPU(or1k.DMR1Address, debugRegs); err != nil {
		t.logger.Error("error while writing back debug registers", "error", err)
		return utils.WithContext(err, "writing debug registers")
	}

	resumePC, err := t.cache.Read(registers.RegNPC)
	if err != nil {
		return err
	}

	if handleBreakpoints {
		if bp := t.breakpoints.Find(resumePC); bp != nil {
			t.logger.Debug("unset breakpoint", "address", utils.FormatUintHex(uint64(bp.Address), 8))

			if err := t.manager.Remove(bp); err != nil {
				return err
			}
		}
	}

	if err := t.unit.Unstall(); err != nil {
		t.logger.Error("error while unstalling the CPU", "error", err)
		return utils.WithContext(err, "unstalling the CPU")
	}

	if step {
		t.state.DebugReason = ReasonSingleStep
	} else {
		t.state.DebugReason = ReasonNotHalted
	}

	t.cache.Invalidate()

	if !debugExecution {
		t.state.Mode = ModeRunning
		t.logger.Debug("target resumed", "pc", utils.FormatUintHex(uint64(resumePC), 8))
		t.emit(EventResumed, resumePC)
	} else {
		t.state.Mode = ModeDebugRunning
		t.logger.Debug("target debug resumed", "pc", utils.FormatUintHex(uint64(resumePC), 8))
		t.emit(EventDebugResumed, resumePC)
	}

	return nil
}

// Puts the CPU in reset
func (t *Target) AssertReset() error {
	t.logger.Debug("assert reset")

	if err := t.unit.AssertReset(); err != nil {
		t.logger.Error("error while asserting reset", "error", err)
		return utils.WithContext(err, "asserting reset")
	}

	t.state.Mode = ModeResetAsserted
	t.cache.Invalidate()
	return nil
}

// Releases the CPU from reset, stalling it if a halt was requested meanwhile
func (t *Target) DeassertReset() error {
	t.logger.Debug("deassert reset")

	if err := t.unit.DeassertReset(); err != nil {
		t.logger.Error("error while deasserting reset", "error", err)
		return utils.WithContext(err, "deasserting reset")
	}

	if t.state.Mode == ModeResetAsserted {
		t.state.Mode = ModeRunning
	}

	if t.haltPending {
		t.haltPending = false

		if err := t.unit.Stall(); err != nil {
			t.logger.Error("impossible to stall the CPU", "error", err)
			return utils.WithContext(err, "stalling the CPU after reset")
		}
	}

	return nil
}

// Stalls the CPU and takes it through a reset cycle, leaving it halted at the reset vector
func (t *Target) SoftResetHalt() error {
	t.logger.Debug("soft reset halt")

	if err := t.unit.Stall(); err != nil {
		t.logger.Error("error while stalling the CPU", "error", err)
		return utils.WithContext(err, "stalling the CPU")
	}

	if err := t.AssertReset(); err != nil {
		return err
	}

	if err := t.DeassertReset(); err != nil {
		return err
	}

	t.state.Mode = ModeHalted
	t.state.DebugReason = ReasonDebugRequest

	if err := t.debugEntry(); err != nil {
		return err
	}

	t.emit(EventHalted, t.pc())
	return nil
}
