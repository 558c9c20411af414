package target

import (
	"testing"
	"time"

	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/Manu343726/or1kdbg/pkg/or1k/breakpoints"
	"github.com/Manu343726/or1kdbg/pkg/or1k/du/sim"
	"github.com/Manu343726/or1kdbg/pkg/or1k/registers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var npcAddress = or1k.GroupSystem + 16

type fixture struct {
	target *Target
	unit   *sim.DebugUnit
	sleeps []time.Duration
	events []EventData
}

func newFixture(t *testing.T, options ...Option) *fixture {
	t.Helper()

	f := &fixture{unit: sim.New(0x10000)}
	options = append([]Option{WithSleep(func(d time.Duration) { f.sleeps = append(f.sleeps, d) })}, options...)
	f.target = New(f.unit, options...)
	f.target.OnEvent(func(event EventData) { f.events = append(f.events, event) })
	return f
}

// Returns a fixture with the target examined while stalled
func newHaltedFixture(t *testing.T, options ...Option) *fixture {
	t.Helper()

	f := newFixture(t, options...)
	f.unit.SetStalled(true)
	require.NoError(t, f.target.Examine())
	require.Equal(t, ModeHalted, f.target.Mode())
	f.unit.ClearTransactions()
	return f
}

func (f *fixture) bulkReads() int {
	count := 0
	for _, tr := range f.unit.Transactions() {
		if tr.Op == sim.OpReadCPU && tr.Address == or1k.GPR0Address {
			count++
		}
	}

	return count
}

func (f *fixture) indexOf(t *testing.T, match func(sim.Transaction) bool) int {
	t.Helper()

	for i, tr := range f.unit.Transactions() {
		if match(tr) {
			return i
		}
	}

	t.Fatalf("transaction not found in %v", f.unit.Transactions())
	return -1
}

func TestExamine(t *testing.T) {
	t.Run("running", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.target.Examine())
		assert.Equal(t, ModeRunning, f.target.Mode())
		assert.Zero(t, f.bulkReads())
	})

	t.Run("stalled", func(t *testing.T) {
		f := newFixture(t)
		f.unit.SetStalled(true)
		f.unit.SetGPR(1, 0x1111)

		require.NoError(t, f.target.Examine())
		assert.Equal(t, State{ModeHalted, ReasonDebugRequest}, f.target.State())

		entry, err := f.target.Cache().Entry(1)
		require.NoError(t, err)
		assert.True(t, entry.Valid)
		assert.Equal(t, uint32(0x1111), entry.Value)
	})

	t.Run("only once", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.target.Examine())
		f.unit.ClearTransactions()

		require.NoError(t, f.target.Examine())
		assert.Empty(t, f.unit.Transactions())
	})

	t.Run("failure", func(t *testing.T) {
		f := newFixture(t)
		f.unit.FailNext(sim.OpIsRunning, 1)
		assert.ErrorIs(t, f.target.Examine(), or1k.ErrCommunication)
		assert.Equal(t, ModeUnknown, f.target.Mode())
	})
}

func TestPoll_RetriesUntilSuccess(t *testing.T) {
	f := newFixture(t)
	f.unit.FailNext(sim.OpIsRunning, 4)

	require.NoError(t, f.target.Poll())

	assert.Equal(t, ModeRunning, f.target.Mode())
	assert.Equal(t, 5, f.unit.Count(sim.OpIsRunning))
	assert.Equal(t, 4, f.unit.Count(sim.OpReinitialize))
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second, time.Second}, f.sleeps)
}

func TestPoll_GivesUpAfterFiveFailures(t *testing.T) {
	f := newFixture(t)
	f.unit.FailNext(sim.OpIsRunning, 5)

	err := f.target.Poll()
	assert.ErrorIs(t, err, or1k.ErrCommunication)

	assert.Equal(t, ModeUnknown, f.target.Mode())
	assert.Equal(t, 5, f.unit.Count(sim.OpIsRunning))
	assert.Equal(t, 5, f.unit.Count(sim.OpReinitialize))

	// A later poll can succeed
	require.NoError(t, f.target.Poll())
	assert.Equal(t, ModeRunning, f.target.Mode())
}

func TestPoll_CustomRetries(t *testing.T) {
	f := newFixture(t, WithPollRetries(2), WithPollBackoff(time.Millisecond))
	f.unit.FailNext(sim.OpIsRunning, 2)

	assert.ErrorIs(t, f.target.Poll(), or1k.ErrCommunication)
	assert.Equal(t, []time.Duration{time.Millisecond}, f.sleeps)
}

func TestPoll_RunningToHalted(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.target.Examine())
	require.Equal(t, ModeRunning, f.target.Mode())

	f.unit.SetStalled(true)
	f.unit.ClearTransactions()

	require.NoError(t, f.target.Poll())

	assert.Equal(t, ModeHalted, f.target.Mode())
	assert.Equal(t, 1, f.bulkReads(), "exactly one debug entry")
	require.Len(t, f.events, 1)
	assert.Equal(t, EventHalted, f.events[0].Event)
	assert.Equal(t, sim.ResetVector, f.events[0].PC)

	// Nothing changes while it stays stalled
	require.NoError(t, f.target.Poll())
	assert.Len(t, f.events, 1)
	assert.Equal(t, 1, f.bulkReads())
}

func TestPoll_UnreadableDebugReason(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.target.Examine())
	require.Equal(t, ModeRunning, f.target.Mode())

	f.unit.SetStalled(true)
	f.unit.SetSPR(or1k.DMR1Address+or1k.DebugRegDRR, or1k.DRRTE)
	f.unit.ClearTransactions()
	f.unit.FailNext(sim.OpReadCPU, 1)

	require.NoError(t, f.target.Poll())

	assert.Equal(t, State{ModeHalted, ReasonDebugRequest}, f.target.State())
	assert.Equal(t, 1, f.bulkReads(), "debug entry still runs")
	require.Len(t, f.events, 1)
	assert.Equal(t, EventHalted, f.events[0].Event)
}

func TestWaitHalted(t *testing.T) {
	t.Run("halts after a few polls", func(t *testing.T) {
		var f *fixture
		naps := 0
		f = newFixture(t, WithSleep(func(time.Duration) {
			naps++
			if naps == 2 {
				f.unit.SetStalled(true)
			}
		}))
		require.NoError(t, f.target.Examine())
		f.unit.ClearTransactions()

		require.NoError(t, f.target.WaitHalted(5))
		assert.Equal(t, ModeHalted, f.target.Mode())
		assert.Equal(t, 2, naps)
		assert.Equal(t, 3, f.unit.Count(sim.OpIsRunning))
	})

	t.Run("gives up", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.target.Examine())

		err := f.target.WaitHalted(3)
		assert.ErrorIs(t, err, or1k.ErrNotHalted)
		assert.Equal(t, ModeRunning, f.target.Mode())
		assert.Len(t, f.sleeps, 2)
	})
}

func TestPoll_DebugRunningToHalted(t *testing.T) {
	f := newHaltedFixture(t)

	f.unit.SetSPR(or1k.DMR1Address+or1k.DebugRegDSR, 0)
	require.NoError(t, f.target.Resume(true, 0, false, true))
	assert.Equal(t, ModeDebugRunning, f.target.Mode())

	f.unit.SetStalled(true)
	require.NoError(t, f.target.Poll())

	assert.Equal(t, ModeHalted, f.target.Mode())
	require.Len(t, f.events, 2)
	assert.Equal(t, EventDebugResumed, f.events[0].Event)
	assert.Equal(t, EventDebugHalted, f.events[1].Event)
}

func TestPoll_HaltedButRunning(t *testing.T) {
	f := newHaltedFixture(t)
	f.unit.SetStalled(false)

	require.NoError(t, f.target.Poll())

	assert.Equal(t, ModeRunning, f.target.Mode())
	assert.True(t, f.unit.Stalled())
	assert.Equal(t, 1, f.unit.Count(sim.OpStall))
	require.Len(t, f.events, 1)
	assert.Equal(t, EventDebugHalted, f.events[0].Event)

	require.NoError(t, f.target.Poll())
	assert.Equal(t, ModeHalted, f.target.Mode())
	require.Len(t, f.events, 2)
	assert.Equal(t, EventHalted, f.events[1].Event)
	assert.Equal(t, ReasonDebugRequest, f.target.DebugReason())
}

func TestHalt(t *testing.T) {
	t.Run("running", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.target.Examine())

		require.NoError(t, f.target.Halt())
		assert.Equal(t, ReasonDebugRequest, f.target.DebugReason())
		assert.True(t, f.unit.Stalled())
		assert.Equal(t, ModeRunning, f.target.Mode(), "state changes on the next poll")

		require.NoError(t, f.target.Poll())
		assert.Equal(t, ModeHalted, f.target.Mode())
	})

	t.Run("already halted", func(t *testing.T) {
		f := newHaltedFixture(t)
		require.NoError(t, f.target.Halt())
		assert.Empty(t, f.unit.Transactions())
	})

	t.Run("stall failure", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.target.Examine())
		f.unit.FailNext(sim.OpStall, 1)
		assert.ErrorIs(t, f.target.Halt(), or1k.ErrCommunication)
	})
}

func TestHalt_InReset(t *testing.T) {
	t.Run("deferred", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.target.Examine())
		require.NoError(t, f.target.AssertReset())
		assert.Equal(t, ModeResetAsserted, f.target.Mode())

		require.NoError(t, f.target.Halt())
		assert.Zero(t, f.unit.Count(sim.OpStall))
		assert.Equal(t, ReasonDebugRequest, f.target.DebugReason())

		require.NoError(t, f.target.DeassertReset())
		assert.Equal(t, 1, f.unit.Count(sim.OpStall))
		assert.Equal(t, ModeRunning, f.target.Mode())

		require.NoError(t, f.target.Poll())
		assert.Equal(t, ModeHalted, f.target.Mode())

		npc, err := f.target.ReadRegister(registers.RegNPC)
		require.NoError(t, err)
		assert.Equal(t, sim.ResetVector, npc)
	})

	t.Run("srst pulls trst", func(t *testing.T) {
		f := newFixture(t, WithSrstPullsTrst(true))
		require.NoError(t, f.target.Examine())
		require.NoError(t, f.target.AssertReset())

		assert.ErrorIs(t, f.target.Halt(), or1k.ErrTargetFailure)
		assert.Zero(t, f.unit.Count(sim.OpStall))
	})
}

func TestPoll_ResetToHalted(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.target.Examine())
	require.NoError(t, f.target.AssertReset())

	require.NoError(t, f.target.Poll())
	assert.Equal(t, ModeHalted, f.target.Mode())
	require.Len(t, f.events, 1)
	assert.Equal(t, EventHalted, f.events[0].Event)
}

func TestSoftResetHalt(t *testing.T) {
	f := newHaltedFixture(t)
	f.unit.SetSPR(npcAddress, 0x8000)

	require.NoError(t, f.target.SoftResetHalt())

	ops := f.unit.Ops()
	require.GreaterOrEqual(t, len(ops), 3)
	assert.Equal(t, []sim.Op{sim.OpStall, sim.OpAssertReset, sim.OpDeassertReset}, ops[:3])
	assert.Equal(t, ModeHalted, f.target.Mode())
	assert.True(t, f.unit.Stalled())

	npc, err := f.target.ReadRegister(registers.RegNPC)
	require.NoError(t, err)
	assert.Equal(t, sim.ResetVector, npc)
}

func TestStep_DebugRegisterBits(t *testing.T) {
	f := newHaltedFixture(t)

	f.unit.SetSPR(or1k.DMR1Address+or1k.DebugRegDMR1, 0x00000f0f)
	f.unit.SetSPR(or1k.DMR1Address+or1k.DebugRegDMR2, 0xffffffff)
	f.unit.SetSPR(or1k.DMR1Address+or1k.DebugRegDCWR0, 0x12345678)
	f.unit.SetSPR(or1k.DMR1Address+or1k.DebugRegDCWR1, 0x9abcdef0)
	f.unit.SetSPR(or1k.DMR1Address+or1k.DebugRegDSR, 0x00000001)
	f.unit.SetSPR(or1k.DMR1Address+or1k.DebugRegDRR, 0x00000055)

	require.NoError(t, f.target.Step(true, 0, false))

	i := f.indexOf(t, func(tr sim.Transaction) bool { return tr.Op == sim.OpWriteCPU && tr.Address == or1k.DMR1Address })
	written := f.unit.Transactions()[i].Values

	assert.Equal(t, []uint32{
		0x00000f0f | or1k.DMR1ST | or1k.DMR1BT,
		0xffffffff &^ or1k.DMR2WGB,
		0x12345678,
		0x9abcdef0,
		0x00000001,
		0,
	}, written)

	assert.Equal(t, State{ModeRunning, ReasonSingleStep}, f.target.State())
}

func TestResume_ClearsStepBits(t *testing.T) {
	f := newHaltedFixture(t)
	f.unit.SetSPR(or1k.DMR1Address+or1k.DebugRegDMR1, 0xffffffff)

	require.NoError(t, f.target.Resume(true, 0, false, false))

	assert.Equal(t, 0xffffffff&^(or1k.DMR1ST|or1k.DMR1BT), f.unit.SPR(or1k.DMR1Address))
	assert.Zero(t, f.unit.SPR(or1k.DMR1Address+or1k.DebugRegDSR)&or1k.DSRTE, "no software breakpoints")
	assert.Equal(t, State{ModeRunning, ReasonNotHalted}, f.target.State())
	require.Len(t, f.events, 1)
	assert.Equal(t, EventResumed, f.events[0].Event)
	assert.Equal(t, sim.ResetVector, f.events[0].PC)
}

func TestStep_ThenPoll(t *testing.T) {
	f := newHaltedFixture(t)

	require.NoError(t, f.target.Step(true, 0, false))
	require.NoError(t, f.target.Poll())

	assert.Equal(t, State{ModeHalted, ReasonSingleStep}, f.target.State())

	npc, err := f.target.ReadRegister(registers.RegNPC)
	require.NoError(t, err)
	assert.Equal(t, sim.ResetVector+4, npc)

	ppc, err := f.target.ReadRegister(registers.RegPPC)
	require.NoError(t, err)
	assert.Equal(t, sim.ResetVector, ppc)
}

func TestResume_Ordering(t *testing.T) {
	f := newHaltedFixture(t)

	require.NoError(t, f.target.WriteRegister(3, 0x33))
	require.NoError(t, f.target.WriteRegister(registers.RegSR, 0x8003))
	require.NoError(t, f.target.Resume(true, 0, false, false))

	srWrite := f.indexOf(t, func(tr sim.Transaction) bool {
		return tr.Op == sim.OpWriteCPU && tr.Address == or1k.GroupSystem+17
	})
	gprWrite := f.indexOf(t, func(tr sim.Transaction) bool {
		return tr.Op == sim.OpWriteCPU && tr.Address == or1k.GPR0Address
	})
	debugRead := f.indexOf(t, func(tr sim.Transaction) bool {
		return tr.Op == sim.OpReadCPU && tr.Address == or1k.DMR1Address && tr.Count == or1k.DebugRegCount
	})
	debugWrite := f.indexOf(t, func(tr sim.Transaction) bool {
		return tr.Op == sim.OpWriteCPU && tr.Address == or1k.DMR1Address
	})
	unstall := f.indexOf(t, func(tr sim.Transaction) bool { return tr.Op == sim.OpUnstall })

	assert.Less(t, srWrite, debugRead)
	assert.Less(t, gprWrite, debugRead)
	assert.Less(t, debugRead, debugWrite)
	assert.Less(t, debugWrite, unstall)

	assert.Equal(t, uint32(0x33), f.unit.GPR(3))
	assert.Equal(t, uint32(0x8003), f.unit.SPR(or1k.GroupSystem+17))

	for i := 0; i < registers.CoreCount; i++ {
		entry, err := f.target.Cache().Entry(i)
		require.NoError(t, err)
		assert.False(t, entry.Valid)
		assert.False(t, entry.Dirty)
	}
}

func TestResume_AtAddress(t *testing.T) {
	f := newHaltedFixture(t)

	require.NoError(t, f.target.Step(false, 0x400, false))
	assert.Equal(t, uint32(0x404), f.unit.SPR(npcAddress))
	assert.Equal(t, uint32(0x400), f.unit.SPR(or1k.GroupSystem+18))
}

func TestResume_AbortedStaysHalted(t *testing.T) {
	for _, op := range []sim.Op{sim.OpWriteCPU, sim.OpReadCPU, sim.OpUnstall} {
		t.Run(string(op), func(t *testing.T) {
			f := newHaltedFixture(t)
			require.NoError(t, f.target.WriteRegister(5, 0x55))

			f.unit.FailNext(op, 1)
			assert.ErrorIs(t, f.target.Resume(true, 0, false, false), or1k.ErrCommunication)

			assert.Equal(t, ModeHalted, f.target.Mode())
			assert.Empty(t, f.events)

			require.NoError(t, f.target.Resume(true, 0, false, false))
			assert.Equal(t, ModeRunning, f.target.Mode())
			assert.Equal(t, uint32(0x55), f.unit.GPR(5))
		})
	}
}

func TestResume_NotHalted(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.target.Resume(true, 0, false, false), or1k.ErrNotHalted)
	assert.ErrorIs(t, f.target.Step(true, 0, false), or1k.ErrNotHalted)

	require.NoError(t, f.target.Examine())
	assert.ErrorIs(t, f.target.Resume(true, 0, false, false), or1k.ErrNotHalted)
	assert.Empty(t, f.unit.Ops()[1:])
}

func TestBreakpointRoundTrip(t *testing.T) {
	f := newHaltedFixture(t)
	f.unit.SetWord(0x120, 0x15000000)

	bp, err := f.target.AddBreakpoint(0x120, breakpoints.Software)
	require.NoError(t, err)
	assert.Equal(t, or1k.TrapInstruction, f.unit.Word(0x120))

	require.NoError(t, f.target.Resume(true, 0, true, false))
	assert.NotZero(t, f.unit.SPR(or1k.DMR1Address+or1k.DebugRegDSR)&or1k.DSRTE, "trap routed to the debugger")
	assert.True(t, f.unit.Stalled())

	require.NoError(t, f.target.Poll())
	assert.Equal(t, State{ModeHalted, ReasonBreakpointTrap}, f.target.State())
	require.Len(t, f.events, 2)
	assert.Equal(t, EventHalted, f.events[1].Event)
	assert.Equal(t, uint32(0x120), f.events[1].PC)

	npc, err := f.target.Cache().Entry(registers.RegNPC)
	require.NoError(t, err)
	assert.True(t, npc.Valid)
	assert.True(t, npc.Dirty)
	assert.Equal(t, uint32(0x120), npc.Value)

	// Resuming from the breakpoint takes it out so the original instruction runs
	require.NoError(t, f.target.Resume(true, 0, true, false))
	assert.False(t, bp.Installed)
	assert.Equal(t, uint32(0x15000000), f.unit.Word(0x120))
	assert.False(t, f.unit.Stalled())

	require.NoError(t, f.target.Halt())
	require.NoError(t, f.target.Poll())
	require.NoError(t, f.target.ReinstallBreakpoints())
	assert.True(t, bp.Installed)

	require.NoError(t, f.target.RemoveBreakpoint(0x120))
	assert.Equal(t, uint32(0x15000000), f.unit.Word(0x120))
	assert.Zero(t, f.target.Breakpoints().Len())
	assert.ErrorIs(t, f.target.RemoveBreakpoint(0x120), or1k.ErrInvalidArgument)
}

func TestAddBreakpoint_FailureLeavesSetUnchanged(t *testing.T) {
	f := newHaltedFixture(t)
	f.unit.FailNext(sim.OpReadMemory32, 1)

	_, err := f.target.AddBreakpoint(0x100, breakpoints.Hardware)
	assert.ErrorIs(t, err, or1k.ErrCommunication)
	assert.Zero(t, f.target.Breakpoints().Len())
}

func TestAddBreakpoint_IcacheFailureKeepsTrapTracked(t *testing.T) {
	f := newHaltedFixture(t)
	f.unit.SetWord(0x120, 0x15000000)
	f.unit.FailNext(sim.OpWriteCPU, 1)

	_, err := f.target.AddBreakpoint(0x120, breakpoints.Software)
	assert.ErrorIs(t, err, or1k.ErrCommunication)
	assert.Equal(t, or1k.TrapInstruction, f.unit.Word(0x120))

	bp := f.target.Breakpoints().Find(0x120)
	require.NotNil(t, bp)
	assert.True(t, bp.Installed)

	require.NoError(t, f.target.RemoveBreakpoint(0x120))
	assert.Equal(t, uint32(0x15000000), f.unit.Word(0x120))
	assert.Zero(t, f.target.Breakpoints().Len())
}

func TestRegisterAccess(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.target.Examine())

	_, err := f.target.ReadRegister(0)
	assert.ErrorIs(t, err, or1k.ErrNotHalted)
	assert.ErrorIs(t, f.target.WriteRegister(0, 1), or1k.ErrNotHalted)
	_, err = f.target.GeneralRegisters()
	assert.ErrorIs(t, err, or1k.ErrNotHalted)

	require.NoError(t, f.target.Halt())
	require.NoError(t, f.target.Poll())

	dmr2, err := f.target.RegisterByName("dmr2")
	require.NoError(t, err)
	require.NoError(t, f.target.WriteRegister(dmr2.Index, 0xabc))
	assert.Equal(t, uint32(0xabc), f.unit.SPR(dmr2.Address))

	_, err = f.target.ReadRegister(f.target.Registers().Len())
	assert.ErrorIs(t, err, or1k.ErrOutOfRange)

	general, err := f.target.GeneralRegisters()
	require.NoError(t, err)
	assert.Len(t, general, registers.CoreCount)
	assert.Equal(t, "npc", general[registers.RegNPC].Descriptor.Name)

	assert.Len(t, f.target.AllRegisters(), registers.StaticCount+registers.TLBCount)
}

func TestAddRegisterAndReadGroup(t *testing.T) {
	f := newFixture(t)

	index, err := f.target.AddRegister(registers.RegisterDescriptor{Name: "myreg", Address: or1k.Group(20) + 4, Feature: "custom", Group: "board"})
	require.NoError(t, err)
	assert.Equal(t, registers.StaticCount+registers.TLBCount, index)
	assert.Equal(t, index+1, f.target.Cache().Len())

	_, err = f.target.AddRegister(registers.RegisterDescriptor{Name: "myreg"})
	assert.ErrorIs(t, err, or1k.ErrInvalidArgument)

	f.unit.SetSPR(or1k.Group(20)+4, 0x77)
	values, err := f.target.ReadGroup("board")
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "myreg", values[0].Descriptor.Name)
	assert.Equal(t, uint32(0x77), values[0].Value)

	values, err = f.target.ReadGroup("nothing")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestMemory(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.target.Examine())

	_, err := f.target.ReadMemory(0x1000, 4, 1)
	assert.ErrorIs(t, err, or1k.ErrNotHalted)
	assert.ErrorIs(t, f.target.WriteMemory(0x1000, 4, 1, []byte{1, 2, 3, 4}), or1k.ErrNotHalted)

	require.NoError(t, f.target.Halt())
	require.NoError(t, f.target.Poll())

	_, err = f.target.ReadMemory(0x1001, 4, 1)
	assert.ErrorIs(t, err, or1k.ErrUnalignedAccess)

	f.unit.SetWord(0x1000, 0xcafebabe)
	data, err := f.target.ReadMemory(0x1002, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xba, 0xbe}, data)

	_, err = f.target.ReadMemory(0x1000, 0, 1)
	assert.ErrorIs(t, err, or1k.ErrInvalidArgument)

	require.NoError(t, f.target.WriteMemory(0x2000, 4, 2, []byte{1, 2, 3, 4, 5, 6, 7, 8}))
	assert.Equal(t, uint32(0x05060708), f.unit.Word(0x2004))
}

func TestUnsupported(t *testing.T) {
	f := newHaltedFixture(t)

	assert.NoError(t, f.target.AddWatchpoint(0x100, 4))
	assert.NoError(t, f.target.RemoveWatchpoint(0x100, 4))
	assert.Empty(t, f.unit.Transactions())

	_, err := f.target.ChecksumMemory(0x100, 16)
	assert.ErrorIs(t, err, or1k.ErrUnsupported)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "halted (debug-request)", State{ModeHalted, ReasonDebugRequest}.String())
	assert.Equal(t, "reset", ModeResetAsserted.String())
	assert.Equal(t, "debug-halted", EventDebugHalted.String())
}
