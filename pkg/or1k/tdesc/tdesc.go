// Package tdesc exports the register table as GDB target description XML.
package tdesc

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/Manu343726/or1kdbg/pkg/or1k/registers"
	"github.com/Manu343726/or1kdbg/pkg/utils"
)

// Architecture name written in the description
const Architecture = "or1k"

// Prefix of the feature names, followed by the register feature tag
const FeaturePrefix = "org.gnu.gdb.or32."

// Feature holding the registers without a feature tag
const NoGroup = "nogroup"

// Record is the exported view of a register
type Record struct {
	Name    string
	BitSize int
	Feature string
	Group   string
	Index   int
}

// Returns one record per register, in table order
func Export(table *registers.Table) []Record {
	return utils.Map(table.All(), func(d registers.RegisterDescriptor) Record {
		return Record{
			Name:    d.Name,
			BitSize: registers.BitSize,
			Feature: d.Feature,
			Group:   d.Group,
			Index:   d.Index,
		}
	})
}

// Returns the distinct non empty feature tags in order of first appearance
func Features(records []Record) []string {
	tagged := utils.Filter(records, func(r Record) bool { return len(r.Feature) > 0 })
	return utils.Distinct(tagged, func(r Record) string { return r.Feature })
}

type document struct {
	XMLName      xml.Name  `xml:"target"`
	Architecture string    `xml:"architecture"`
	Features     []feature `xml:"feature"`
}

type feature struct {
	Name      string     `xml:"name,attr"`
	Registers []register `xml:"reg"`
}

type register struct {
	Name    string `xml:"name,attr"`
	BitSize int    `xml:"bitsize,attr"`
	RegNum  int    `xml:"regnum,attr"`
	Group   string `xml:"group,attr,omitempty"`
}

func section(name string, records []Record) feature {
	return feature{
		Name: FeaturePrefix + name,
		Registers: utils.Map(records, func(r Record) register {
			return register{
				Name:    r.Name,
				BitSize: r.BitSize,
				RegNum:  r.Index,
				Group:   r.Group,
			}
		}),
	}
}

// Writes the target description: one feature section per feature tag, then a section
// with the untagged registers if there are any
func Generate(w io.Writer, arch string, records []Record) error {
	doc := document{Architecture: arch}

	for _, name := range Features(records) {
		doc.Features = append(doc.Features, section(name, utils.Filter(records, func(r Record) bool {
			return r.Feature == name
		})))
	}

	untagged := utils.Filter(records, func(r Record) bool { return len(r.Feature) == 0 })
	if len(untagged) > 0 {
		doc.Features = append(doc.Features, section(NoGroup, untagged))
	}

	if _, err := fmt.Fprint(w, "<?xml version=\"1.0\"?>\n<!DOCTYPE target SYSTEM \"gdb-target.dtd\">\n"); err != nil {
		return err
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("writing target description: %w", err)
	}

	_, err := fmt.Fprintln(w)
	return err
}
