package cmd

import (
	"fmt"

	"github.com/Manu343726/or1kdbg/pkg/config"
	"github.com/Manu343726/or1kdbg/pkg/or1k/registers"
	"github.com/Manu343726/or1kdbg/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var regsGroup string

var regsCmd = &cobra.Command{
	Use:   "regs",
	Short: "List the registers known to the debugger",
	Long: `Lists the register table: the OpenRISC 1000 core registers, the special purpose
register catalog, the TLB registers and the registers from the extensions file.

Use --group to list a single display group. Core registers have no group and are listed as "core".`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		table, err := loadTable(viper.GetString(config.KeyExtraRegs))
		if err != nil {
			colorError.Printf("Error: %v\n", err)
			return
		}

		var regs []registers.RegisterDescriptor
		switch regsGroup {
		case "":
			regs = table.All()
		case "core":
			regs = table.Core()
		default:
			regs = table.Group(regsGroup)
		}

		if len(regs) == 0 {
			colorWarning.Printf("No registers in group '%v'. Groups: %v\n", regsGroup, utils.FormatSlice(table.Groups(), ", "))
			return
		}

		colorHeader.Printf("%-6s %-16s %-10s %-10s %s\n", "#", "name", "address", "feature", "group")
		for _, d := range regs {
			group := d.Group
			if len(group) == 0 {
				group = "core"
			}

			fmt.Printf("%-6d %s %s %-10s %s\n",
				d.Index,
				colorReg.Sprintf("%-16s", d.Name),
				colorAddr.Sprintf("0x%08X", d.Address),
				d.Feature,
				colorHiBlack.Sprint(group))
		}
	},
}

func init() {
	RootCmd.AddCommand(regsCmd)
	regsCmd.Flags().StringVarP(&regsGroup, "group", "g", "", "only list the registers of this group (\"core\" for the core registers)")
}
