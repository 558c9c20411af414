// Package or1k contains the architectural constants of the OpenRISC 1000 debug
// unit shared by the debugger packages, and the errors they report.
package or1k

// Special purpose registers are addressed as (group << 11) + offset.
const GroupShift = 11

// Base address of an SPR group
func Group(n int) uint32 {
	return uint32(n) << GroupShift
}

// SPR groups
var (
	GroupSystem = Group(0)
	GroupDMMU   = Group(1)
	GroupIMMU   = Group(2)
	GroupDCache = Group(3)
	GroupICache = Group(4)
	GroupMAC    = Group(5)
	GroupDebug  = Group(6)
	GroupPerf   = Group(7)
	GroupPower  = Group(8)
	GroupPIC    = Group(9)
	GroupTimer  = Group(10)
)

// Addresses the debug core accesses directly
var (
	// First general purpose register. r0..r31 are contiguous from here.
	GPR0Address = GroupSystem + 1024

	// Instruction cache block invalidate register
	ICBIRAddress = GroupICache + 2

	// First register of the debug control block (DMR1, DMR2, DCWR0, DCWR1, DSR, DRR)
	DMR1Address = GroupDebug + 16
)

// Word positions inside the debug control block read starting at DMR1Address
const (
	DebugRegDMR1 = iota
	DebugRegDMR2
	DebugRegDCWR0
	DebugRegDCWR1
	DebugRegDSR
	DebugRegDRR

	DebugRegCount
)

// Debug register bit fields, as (bit, width) pairs
const (
	// DMR1: single step trace
	DMR1STBit = 22
	// DMR1: branch trace
	DMR1BTBit = 23

	// DMR2: watchpoints generating breakpoint
	DMR2WGBBit   = 12
	DMR2WGBWidth = 10

	// DSR: trap exception stops the CPU and hands control to the debugger
	DSRTEBit = 13
	// DRR: the CPU stopped on a trap exception
	DRRTEBit = 13
)

// Masks matching the bit fields above
const (
	DMR1ST  uint32 = 1 << DMR1STBit
	DMR1BT  uint32 = 1 << DMR1BTBit
	DMR2WGB uint32 = ((1 << DMR2WGBWidth) - 1) << DMR2WGBBit
	DSRTE   uint32 = 1 << DSRTEBit
	DRRTE   uint32 = 1 << DRRTEBit
)

// Encoding of "l.trap 1", the instruction patched in by software breakpoints
const TrapInstruction uint32 = 0x21000001

// Size of an instruction word in bytes
const InstructionSize = 4
