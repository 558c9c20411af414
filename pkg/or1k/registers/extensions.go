package registers

import (
	"errors"
	"io"

	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/Manu343726/or1kdbg/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Layout of a register extensions file:
//
//	registers:
//	  - name: mycustomreg
//	    address: 0xc000
//	    feature: group24
//	    group: custom
type extensionsFile struct {
	Registers []struct {
		Name    string `yaml:"name"`
		Address uint32 `yaml:"address"`
		Feature string `yaml:"feature"`
		Group   string `yaml:"group"`
	} `yaml:"registers"`
}

// Parses a YAML document listing extra registers
func LoadExtensions(r io.Reader) ([]RegisterDescriptor, error) {
	var file extensionsFile

	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, utils.WrapError(or1k.ErrInvalidArgument, err, "parsing register extensions")
	}

	regs := make([]RegisterDescriptor, 0, len(file.Registers))

	for i, reg := range file.Registers {
		if len(reg.Name) == 0 {
			return nil, utils.MakeError(or1k.ErrInvalidArgument, "register extension #%v has no name", i)
		}

		regs = append(regs, RegisterDescriptor{
			Name:    reg.Name,
			Address: reg.Address,
			Feature: reg.Feature,
			Group:   reg.Group,
		})
	}

	return regs, nil
}
