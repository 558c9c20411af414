package registers

import (
	"fmt"

	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/Manu343726/or1kdbg/pkg/utils"
)

// Number of registers in the static catalog
const StaticCount = 170

func spr(name string, base uint32, offset uint32, feature string, group string) RegisterDescriptor {
	return RegisterDescriptor{
		Name:    name,
		Address: base + offset,
		Feature: feature,
		Group:   group,
	}
}

// Creates count consecutive registers named prefix0, prefix1, ...
func sprSeries(prefix string, count int, base uint32, offset uint32, feature string, group string) []RegisterDescriptor {
	return utils.Iota(count, func(i int) RegisterDescriptor {
		return spr(fmt.Sprintf("%v%v", prefix, i), base, offset+uint32(i), feature, group)
	})
}

// r0-r31, ppc, npc and sr, in index order
func coreRegisters() []RegisterDescriptor {
	regs := sprSeries("r", GPRCount, or1k.GroupSystem, 1024, "group0", "")

	return append(regs,
		spr("ppc", or1k.GroupSystem, 18, "group0", ""),
		spr("npc", or1k.GroupSystem, 16, "group0", ""),
		spr("sr", or1k.GroupSystem, 17, "group0", ""),
	)
}

func systemRegisters() []RegisterDescriptor {
	const feature, group = "group0", "system"
	base := or1k.GroupSystem

	regs := []RegisterDescriptor{
		spr("vr", base, 0, feature, group),
		spr("upr", base, 1, feature, group),
		spr("cpucfgr", base, 2, feature, group),
		spr("dmmucfgr", base, 3, feature, group),
		spr("immucfgr", base, 4, feature, group),
		spr("dccfgr", base, 5, feature, group),
		spr("iccfgr", base, 6, feature, group),
		spr("dcfgr", base, 7, feature, group),
		spr("pccfgr", base, 8, feature, group),
		spr("fpcsr", base, 20, feature, group),
	}

	regs = append(regs, sprSeries("epcr", 16, base, 32, feature, group)...)
	regs = append(regs, sprSeries("eear", 16, base, 48, feature, group)...)
	return append(regs, sprSeries("esr", 16, base, 64, feature, group)...)
}

// Data and instruction MMU control registers. prefix is "d" or "i".
func mmuRegisters(prefix string, base uint32, feature string, group string) []RegisterDescriptor {
	regs := []RegisterDescriptor{
		spr(prefix+"mmucr", base, 0, feature, group),
		spr(prefix+"mmupr", base, 1, feature, group),
		spr(prefix+"tlbeir", base, 2, feature, group),
	}

	regs = append(regs, sprSeries(prefix+"atbmr", 4, base, 4, feature, group)...)
	return append(regs, sprSeries(prefix+"atbtr", 4, base, 8, feature, group)...)
}

func cacheRegisters() []RegisterDescriptor {
	return []RegisterDescriptor{
		spr("dccr", or1k.GroupDCache, 0, "group3", "dcache"),
		spr("dcbpr", or1k.GroupDCache, 1, "group3", "dcache"),
		spr("dcbfr", or1k.GroupDCache, 2, "group3", "dcache"),
		spr("dcbir", or1k.GroupDCache, 3, "group3", "dcache"),
		spr("dcbwr", or1k.GroupDCache, 4, "group3", "dcache"),
		spr("dcblr", or1k.GroupDCache, 5, "group3", "dcache"),

		spr("iccr", or1k.GroupICache, 0, "group4", "icache"),
		spr("icbpr", or1k.GroupICache, 1, "group4", "icache"),
		spr("icbir", or1k.GroupICache, 2, "group4", "icache"),
		spr("icblr", or1k.GroupICache, 3, "group4", "icache"),
	}
}

func debugRegisters() []RegisterDescriptor {
	const feature, group = "group6", "debug"
	base := or1k.GroupDebug

	regs := sprSeries("dvr", 8, base, 0, feature, group)
	regs = append(regs, sprSeries("dcr", 8, base, 8, feature, group)...)

	return append(regs,
		spr("dmr1", base, 16, feature, group),
		spr("dmr2", base, 17, feature, group),
		spr("dcwr0", base, 18, feature, group),
		spr("dcwr1", base, 19, feature, group),
		spr("dsr", base, 20, feature, group),
		spr("drr", base, 21, feature, group),
	)
}

func staticCatalog() []RegisterDescriptor {
	catalog := coreRegisters()
	catalog = append(catalog, systemRegisters()...)
	catalog = append(catalog, mmuRegisters("d", or1k.GroupDMMU, "group1", "dmmu")...)
	catalog = append(catalog, mmuRegisters("i", or1k.GroupIMMU, "group2", "immu")...)
	catalog = append(catalog, cacheRegisters()...)
	catalog = append(catalog,
		spr("maclo", or1k.GroupMAC, 0, "group5", "mac"),
		spr("machi", or1k.GroupMAC, 1, "group5", "mac"),
	)
	catalog = append(catalog, debugRegisters()...)
	catalog = append(catalog, sprSeries("pccr", 8, or1k.GroupPerf, 0, "group7", "perf")...)
	catalog = append(catalog, sprSeries("pcmr", 8, or1k.GroupPerf, 8, "group7", "perf")...)

	return append(catalog,
		spr("pmr", or1k.GroupPower, 0, "group8", "power"),
		spr("picmr", or1k.GroupPIC, 0, "group9", "pic"),
		spr("picsr", or1k.GroupPIC, 2, "group9", "pic"),
		spr("ttmr", or1k.GroupTimer, 0, "group10", "timer"),
		spr("ttcr", or1k.GroupTimer, 1, "group10", "timer"),
	)
}
