// Package sim implements an in-memory OpenRISC 1000 debug unit.
//
// The model keeps a sparse SPR space and a big-endian memory array. It does not execute
// code: single steps retire one instruction by advancing the program counters, and a
// continue with trap exceptions routed to the debugger stops on the next l.trap found
// ahead of npc. Every transaction is recorded so tests can check what the debugger issued,
// and failures can be injected per operation.
package sim

import (
	"encoding/binary"
	"fmt"

	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/Manu343726/or1kdbg/pkg/or1k/du"
	"github.com/Manu343726/or1kdbg/pkg/utils"
)

type Op string

const (
	OpReadCPU       Op = "ReadCPU"
	OpWriteCPU      Op = "WriteCPU"
	OpReadMemory8   Op = "ReadMemory8"
	OpReadMemory16  Op = "ReadMemory16"
	OpReadMemory32  Op = "ReadMemory32"
	OpWriteMemory8  Op = "WriteMemory8"
	OpWriteMemory16 Op = "WriteMemory16"
	OpWriteMemory32 Op = "WriteMemory32"
	OpStall         Op = "Stall"
	OpUnstall       Op = "Unstall"
	OpAssertReset   Op = "AssertReset"
	OpDeassertReset Op = "DeassertReset"
	OpIsRunning     Op = "IsRunning"
	OpReinitialize  Op = "Reinitialize"
)

// Transaction is one recorded call. Values and Data hold what was written, if anything.
type Transaction struct {
	Op      Op
	Address uint32
	Count   int
	Values  []uint32
	Data    []byte
	Failed  bool
}

func (t Transaction) String() string {
	return fmt.Sprintf("%v(0x%08x, %v)", t.Op, t.Address, t.Count)
}

const (
	DefaultMemorySize = 1 << 20

	// Address execution starts from after a reset
	ResetVector uint32 = 0x100

	// SR value after reset: supervisor mode, fixed-one bit
	ResetSR uint32 = 0x8001

	// How many words ahead of npc a continue looks for a trap instruction
	TrapScanWindow = 4096
)

var (
	ppcAddress = or1k.GroupSystem + 18
	npcAddress = or1k.GroupSystem + 16
	srAddress  = or1k.GroupSystem + 17
	vrAddress  = or1k.GroupSystem + 0
)

type DebugUnit struct {
	spr          map[uint32]uint32
	memory       []byte
	stalled      bool
	reset        bool
	transactions []Transaction
	failures     map[Op]int
}

// Creates a running simulated target with the given memory size in bytes
func New(memorySize int) *DebugUnit {
	d := &DebugUnit{
		spr:      make(map[uint32]uint32),
		memory:   make([]byte, memorySize),
		failures: make(map[Op]int),
	}

	d.spr[vrAddress] = 0x12000001
	d.resetCPU()
	return d
}

// Factory for du.Registry. Supported options: "memory" (size in bytes).
func Factory(options map[string]any) (du.DebugUnit, error) {
	size := DefaultMemorySize

	if value, ok := options["memory"]; ok {
		switch v := value.(type) {
		case int:
			size = v
		case int64:
			size = int(v)
		case uint32:
			size = int(v)
		default:
			return nil, utils.MakeError(or1k.ErrInvalidArgument, "sim memory size must be an integer, got %T", value)
		}
	}

	if size <= 0 {
		return nil, utils.MakeError(or1k.ErrInvalidArgument, "sim memory size must be positive, got %v", size)
	}

	return New(size), nil
}

var _ du.DebugUnit = (*DebugUnit)(nil)

func (d *DebugUnit) resetCPU() {
	d.spr[ppcAddress] = 0
	d.spr[npcAddress] = ResetVector
	d.spr[srAddress] = ResetSR
}

// Makes the next n calls of op fail with a communication error
func (d *DebugUnit) FailNext(op Op, n int) {
	d.failures[op] = n
}

// Returns all the recorded transactions
func (d *DebugUnit) Transactions() []Transaction {
	return append([]Transaction(nil), d.transactions...)
}

// Returns the recorded operations, in order
func (d *DebugUnit) Ops() []Op {
	return utils.Map(d.transactions, func(t Transaction) Op { return t.Op })
}

// Returns how many times op was issued
func (d *DebugUnit) Count(op Op) int {
	return len(utils.Filter(d.transactions, func(t Transaction) bool { return t.Op == op }))
}

func (d *DebugUnit) ClearTransactions() {
	d.transactions = nil
}

// Backdoor access to the SPR space, not recorded
func (d *DebugUnit) SPR(address uint32) uint32 {
	return d.spr[address]
}

func (d *DebugUnit) SetSPR(address uint32, value uint32) {
	d.spr[address] = value
}

// Backdoor access to a general purpose register
func (d *DebugUnit) GPR(n int) uint32 {
	return d.spr[or1k.GPR0Address+uint32(n)]
}

func (d *DebugUnit) SetGPR(n int, value uint32) {
	d.spr[or1k.GPR0Address+uint32(n)] = value
}

// Backdoor access to memory, not recorded
func (d *DebugUnit) Memory() []byte {
	return d.memory
}

func (d *DebugUnit) Word(address uint32) uint32 {
	return binary.BigEndian.Uint32(d.memory[address:])
}

func (d *DebugUnit) SetWord(address uint32, value uint32) {
	binary.BigEndian.PutUint32(d.memory[address:], value)
}

// Simulates the CPU stalling on its own (e.g. hitting a breakpoint) or being released
func (d *DebugUnit) SetStalled(stalled bool) {
	d.stalled = stalled
}

func (d *DebugUnit) Stalled() bool {
	return d.stalled
}

func (d *DebugUnit) InReset() bool {
	return d.reset
}

func (d *DebugUnit) record(t Transaction) error {
	if d.failures[t.Op] > 0 {
		d.failures[t.Op]--
		t.Failed = true
		d.transactions = append(d.transactions, t)
		return utils.MakeError(or1k.ErrCommunication, "sim: injected %v failure", t.Op)
	}

	d.transactions = append(d.transactions, t)
	return nil
}

func (d *DebugUnit) ReadCPU(address uint32, count int) ([]uint32, error) {
	if err := d.record(Transaction{Op: OpReadCPU, Address: address, Count: count}); err != nil {
		return nil, err
	}

	values := make([]uint32, count)
	for i := range values {
		values[i] = d.spr[address+uint32(i)]
	}

	return values, nil
}

func (d *DebugUnit) WriteCPU(address uint32, values []uint32) error {
	if err := d.record(Transaction{Op: OpWriteCPU, Address: address, Count: len(values), Values: append([]uint32(nil), values...)}); err != nil {
		return err
	}

	for i, value := range values {
		d.spr[address+uint32(i)] = value
	}

	return nil
}

func (d *DebugUnit) checkBounds(address uint32, bytes int) error {
	if uint64(address)+uint64(bytes) > uint64(len(d.memory)) {
		return utils.MakeError(or1k.ErrCommunication, "sim: bus error accessing [0x%08x-0x%08x), memory is %v bytes", address, uint64(address)+uint64(bytes), len(d.memory))
	}

	return nil
}

func (d *DebugUnit) readMemory(op Op, address uint32, count int, size int) ([]byte, error) {
	if err := d.record(Transaction{Op: op, Address: address, Count: count}); err != nil {
		return nil, err
	}

	if err := d.checkBounds(address, count*size); err != nil {
		return nil, err
	}

	return append([]byte(nil), d.memory[address:int(address)+count*size]...), nil
}

func (d *DebugUnit) writeMemory(op Op, address uint32, data []byte, size int) error {
	if len(data)%size != 0 {
		return utils.MakeError(or1k.ErrInvalidArgument, "sim: %v bytes is not a multiple of the %v bytes element size", len(data), size)
	}

	if err := d.record(Transaction{Op: op, Address: address, Count: len(data) / size, Data: append([]byte(nil), data...)}); err != nil {
		return err
	}

	if err := d.checkBounds(address, len(data)); err != nil {
		return err
	}

	copy(d.memory[address:], data)
	return nil
}

func (d *DebugUnit) ReadMemory8(address uint32, count int) ([]byte, error) {
	return d.readMemory(OpReadMemory8, address, count, 1)
}

func (d *DebugUnit) ReadMemory16(address uint32, count int) ([]byte, error) {
	return d.readMemory(OpReadMemory16, address, count, 2)
}

func (d *DebugUnit) ReadMemory32(address uint32, count int) ([]byte, error) {
	return d.readMemory(OpReadMemory32, address, count, 4)
}

func (d *DebugUnit) WriteMemory8(address uint32, data []byte) error {
	return d.writeMemory(OpWriteMemory8, address, data, 1)
}

func (d *DebugUnit) WriteMemory16(address uint32, data []byte) error {
	return d.writeMemory(OpWriteMemory16, address, data, 2)
}

func (d *DebugUnit) WriteMemory32(address uint32, data []byte) error {
	return d.writeMemory(OpWriteMemory32, address, data, 4)
}

func (d *DebugUnit) Stall() error {
	if err := d.record(Transaction{Op: OpStall}); err != nil {
		return err
	}

	d.stalled = true
	return nil
}

func (d *DebugUnit) Unstall() error {
	if err := d.record(Transaction{Op: OpUnstall}); err != nil {
		return err
	}

	d.stalled = false

	if d.reset {
		return nil
	}

	dmr1 := d.spr[or1k.DMR1Address+or1k.DebugRegDMR1]
	dsr := d.spr[or1k.DMR1Address+or1k.DebugRegDSR]

	if dmr1&or1k.DMR1ST != 0 {
		d.retire()
	} else if dsr&or1k.DSRTE != 0 {
		d.runToTrap()
	}

	return nil
}

// Executes the instruction at npc as a no-op and stalls again
func (d *DebugUnit) retire() {
	npc := d.spr[npcAddress]
	d.spr[ppcAddress] = npc
	d.spr[npcAddress] = npc + or1k.InstructionSize
	d.stalled = true
}

// Stops on the first trap instruction ahead of npc, if any
func (d *DebugUnit) runToTrap() {
	address := d.spr[npcAddress]

	for i := 0; i < TrapScanWindow; i++ {
		if d.checkBounds(address, or1k.InstructionSize) != nil {
			return
		}

		if d.Word(address) == or1k.TrapInstruction {
			d.spr[ppcAddress] = address - or1k.InstructionSize
			d.spr[npcAddress] = address
			d.spr[or1k.DMR1Address+or1k.DebugRegDRR] |= or1k.DRRTE
			d.stalled = true
			return
		}

		address += or1k.InstructionSize
	}
}

func (d *DebugUnit) AssertReset() error {
	if err := d.record(Transaction{Op: OpAssertReset}); err != nil {
		return err
	}

	d.reset = true
	return nil
}

func (d *DebugUnit) DeassertReset() error {
	if err := d.record(Transaction{Op: OpDeassertReset}); err != nil {
		return err
	}

	if d.reset {
		d.resetCPU()
	}

	d.reset = false
	return nil
}

func (d *DebugUnit) IsRunning() (bool, error) {
	if err := d.record(Transaction{Op: OpIsRunning}); err != nil {
		return false, err
	}

	return !d.stalled && !d.reset, nil
}

func (d *DebugUnit) Reinitialize() error {
	return d.record(Transaction{Op: OpReinitialize})
}

