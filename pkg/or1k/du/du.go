// Package du defines the transactions the debugger core issues against an OpenRISC 1000
// debug unit. Adapters (JTAG TAPs, simulators, remote bridges) implement DebugUnit; the
// core never depends on a concrete adapter.
package du

// DebugUnit is the hardware transaction interface of a debug unit.
//
// Memory transactions move raw target bytes (big-endian words), count is in elements
// of the transaction size. All transactions are synchronous. Failures must match
// or1k.ErrCommunication through errors.Is().
type DebugUnit interface {
	// Reads count consecutive CPU (SPR) registers starting at address
	ReadCPU(address uint32, count int) ([]uint32, error)
	// Writes consecutive CPU (SPR) registers starting at address
	WriteCPU(address uint32, values []uint32) error

	ReadMemory8(address uint32, count int) ([]byte, error)
	ReadMemory16(address uint32, count int) ([]byte, error)
	ReadMemory32(address uint32, count int) ([]byte, error)
	WriteMemory8(address uint32, data []byte) error
	WriteMemory16(address uint32, data []byte) error
	WriteMemory32(address uint32, data []byte) error

	Stall() error
	Unstall() error

	AssertReset() error
	DeassertReset() error

	// Returns whether the CPU is executing (not stalled)
	IsRunning() (bool, error)

	// Resets the transport session, used to recover after the target was reset under our feet
	Reinitialize() error
}
