package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var readgroupCmd = &cobra.Command{
	Use:   "readgroup group",
	Short: "Read every register of a display group from the target",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := mustOpenSession(os.Stderr)
		defer s.Close()

		values, err := s.target.ReadGroup(args[0])
		if err != nil {
			colorError.Printf("Error: %v\n", err)
			return
		}

		if len(values) == 0 {
			colorWarning.Printf("No registers in group '%v'\n", args[0])
			return
		}

		for _, v := range values {
			fmt.Printf("%s @ %s = %s\n",
				colorReg.Sprintf("%-10s", v.Descriptor.Name),
				colorAddr.Sprintf("0x%08X", v.Descriptor.Address),
				colorHex.Sprintf("0x%08X", v.Value))
		}
	},
}

func init() {
	RootCmd.AddCommand(readgroupCmd)
}
