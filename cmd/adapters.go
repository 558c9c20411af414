package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var adaptersCmd = &cobra.Command{
	Use:   "adapters",
	Short: "List the available debug units",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range adapters.Names() {
			description, _ := adapters.Description(name)
			fmt.Printf("%s\t%s\n", colorReg.Sprint(name), description)
		}
	},
}

func init() {
	RootCmd.AddCommand(adaptersCmd)
}
