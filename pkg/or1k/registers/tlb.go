package registers

import (
	"fmt"

	"github.com/Manu343726/or1kdbg/pkg/or1k"
)

const (
	TLBWays         = 4
	TLBEntriesByWay = 128

	// Offsets of the match and translate register banks inside an MMU group
	TLBMatchOffset     = 512
	TLBTranslateOffset = 640

	// Distance between the banks of two consecutive ways
	TLBWayStride = 256

	// Number of registers generated for the data and instruction TLBs
	TLBCount = TLBWays * TLBEntriesByWay * 4
)

// Returns the SPR address of a TLB way register
func TLBAddress(base uint32, bankOffset uint32, way int, entry int) uint32 {
	return base + bankOffset + uint32(entry) + uint32(way)*TLBWayStride
}

// Generates the TLB match (mr) and translate (tr) registers of both MMUs, way by way
func tlbRegisters() []RegisterDescriptor {
	regs := make([]RegisterDescriptor, 0, TLBCount)

	for way := 0; way < TLBWays; way++ {
		for i := 0; i < TLBEntriesByWay; i++ {
			regs = append(regs,
				RegisterDescriptor{
					Name:    fmt.Sprintf("dtlbw%dmr%d", way, i),
					Address: TLBAddress(or1k.GroupDMMU, TLBMatchOffset, way, i),
					Feature: "group1",
					Group:   "dmmu",
				},
				RegisterDescriptor{
					Name:    fmt.Sprintf("dtlbw%dtr%d", way, i),
					Address: TLBAddress(or1k.GroupDMMU, TLBTranslateOffset, way, i),
					Feature: "group1",
					Group:   "dmmu",
				},
				RegisterDescriptor{
					Name:    fmt.Sprintf("itlbw%dmr%d", way, i),
					Address: TLBAddress(or1k.GroupIMMU, TLBMatchOffset, way, i),
					Feature: "group2",
					Group:   "immu",
				},
				RegisterDescriptor{
					Name:    fmt.Sprintf("itlbw%dtr%d", way, i),
					Address: TLBAddress(or1k.GroupIMMU, TLBTranslateOffset, way, i),
					Feature: "group2",
					Group:   "immu",
				},
			)
		}
	}

	return regs
}
