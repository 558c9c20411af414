package tdesc

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/Manu343726/or1kdbg/pkg/or1k/registers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	table := registers.NewTable()
	records := Export(table)

	require.Len(t, records, table.Len())
	for i, r := range records {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, 32, r.BitSize)
	}

	assert.Equal(t, "r0", records[0].Name)
}

func TestFeatures(t *testing.T) {
	records := []Record{
		{Name: "a", Feature: "x"},
		{Name: "b"},
		{Name: "c", Feature: "y"},
		{Name: "d", Feature: "x"},
	}

	assert.Equal(t, []string{"x", "y"}, Features(records))
}

func TestGenerate(t *testing.T) {
	records := []Record{
		{Name: "r0", BitSize: 32, Feature: "group0", Group: "system", Index: 0},
		{Name: "myreg", BitSize: 32, Index: 1},
		{Name: "dmr1", BitSize: 32, Feature: "group6", Group: "debug", Index: 2},
		{Name: "r1", BitSize: 32, Feature: "group0", Index: 3},
	}

	var out bytes.Buffer
	require.NoError(t, Generate(&out, Architecture, records))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "<?xml version=\"1.0\"?>\n<!DOCTYPE target SYSTEM \"gdb-target.dtd\">\n<target>"))
	assert.Contains(t, text, "<architecture>or1k</architecture>")
	assert.Contains(t, text, `<reg name="dmr1" bitsize="32" regnum="2" group="debug"></reg>`)

	var doc document
	require.NoError(t, xml.Unmarshal([]byte(text[strings.Index(text, "<target>"):]), &doc))

	require.Len(t, doc.Features, 3)
	assert.Equal(t, "org.gnu.gdb.or32.group0", doc.Features[0].Name)
	assert.Equal(t, "org.gnu.gdb.or32.group6", doc.Features[1].Name)
	assert.Equal(t, "org.gnu.gdb.or32.nogroup", doc.Features[2].Name)

	require.Len(t, doc.Features[0].Registers, 2)
	assert.Equal(t, "r0", doc.Features[0].Registers[0].Name)
	assert.Equal(t, 3, doc.Features[0].Registers[1].RegNum)
	assert.Equal(t, "myreg", doc.Features[2].Registers[0].Name)
}

func TestGenerate_NoUntagged(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Generate(&out, Architecture, []Record{{Name: "r0", BitSize: 32, Feature: "f"}}))
	assert.NotContains(t, out.String(), NoGroup)
}

func TestGenerate_FullTable(t *testing.T) {
	table := registers.NewTable()
	_, err := table.Add(registers.RegisterDescriptor{Name: "extra", Address: or1k.Group(24)})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Generate(&out, Architecture, Export(table)))

	assert.Equal(t, table.Len(), strings.Count(out.String(), "<reg "))
	assert.Contains(t, out.String(), `org.gnu.gdb.or32.nogroup`)
}
