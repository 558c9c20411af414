package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Manu343726/or1kdbg/pkg/config"
	"github.com/Manu343726/or1kdbg/pkg/or1k/tdesc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var tdescCmd = &cobra.Command{
	Use:   "tdesc",
	Short: "Write the GDB target description of the register table",
	Long: `Writes the GDB target description XML for the register table, including the registers
from the extensions file. By default the document is dumped to stdout, but it can be redirected
to a file using the --output flag.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		table, err := loadTable(viper.GetString(config.KeyExtraRegs))
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}

		var output io.Writer = os.Stdout

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			file, err := os.Create(outputFile)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error creating file:", err)
				os.Exit(1)
			}
			defer file.Close()
			output = file
		}

		if err := tdesc.Generate(output, tdesc.Architecture, tdesc.Export(table)); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	RootCmd.AddCommand(tdescCmd)
	tdescCmd.Flags().StringP("output", "o", "", "Output file. If not specified, the description is dumped to stdout.")
}
