package du_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/Manu343726/or1kdbg/pkg/or1k/du"
	"github.com/Manu343726/or1kdbg/pkg/or1k/du/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	traces []*du.Trace
}

func (r *recorder) SaveTrace(t *du.Trace) {
	r.traces = append(r.traces, t)
}

func TestTraced_ForwardsAndRecords(t *testing.T) {
	target := sim.New(1024)
	tracer := &recorder{}
	unit := du.Traced(target, tracer)

	require.NoError(t, unit.WriteCPU(or1k.GPR0Address+3, []uint32{0xcafe}))
	values, err := unit.ReadCPU(or1k.GPR0Address+3, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0xcafe}, values)

	require.NoError(t, unit.Stall())
	running, err := unit.IsRunning()
	require.NoError(t, err)
	assert.False(t, running)

	require.Len(t, tracer.traces, 4)
	assert.Equal(t, "WriteCPU", tracer.traces[0].Operation)
	assert.Equal(t, "ReadCPU", tracer.traces[1].Operation)
	assert.Equal(t, "Stall", tracer.traces[2].Operation)
	assert.Equal(t, "IsRunning", tracer.traces[3].Operation)
	assert.Equal(t, "false", tracer.traces[3].Result)

	assert.Equal(t, []sim.Op{sim.OpWriteCPU, sim.OpReadCPU, sim.OpStall, sim.OpIsRunning}, target.Ops())
}

func TestTraced_RecordsErrors(t *testing.T) {
	target := sim.New(1024)
	tracer := &recorder{}
	unit := du.Traced(target, tracer)

	target.FailNext(sim.OpReadMemory32, 1)
	_, err := unit.ReadMemory32(0, 4)
	assert.ErrorIs(t, err, or1k.ErrCommunication)

	require.Len(t, tracer.traces, 1)
	assert.ErrorIs(t, tracer.traces[0].Error, or1k.ErrCommunication)
	assert.Contains(t, tracer.traces[0].String(), "ReadMemory32(address: 0x00000000, count: 4) error:")
}

func TestSlogTracer(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	unit := du.Traced(sim.New(64), du.SlogTracer{Logger: logger})

	require.NoError(t, unit.WriteMemory8(0x10, []byte{1, 2}))

	assert.Contains(t, out.String(), "du transaction")
	assert.Contains(t, out.String(), "op=WriteMemory8")
	assert.Contains(t, out.String(), "address=0x00000010")
}
