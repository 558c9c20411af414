package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/Manu343726/or1kdbg/pkg/config"
	"github.com/Manu343726/or1kdbg/pkg/or1k/console"
	"github.com/Manu343726/or1kdbg/pkg/or1k/registers"
	"github.com/Manu343726/or1kdbg/pkg/utils"
	"github.com/spf13/cobra"
)

var supportedModules = map[string]func() string{
	"registers": registersDocs,
	"console":   consoleDocs,
	"config":    configDocs,
}

func registersDocs() string {
	var builder strings.Builder

	builder.WriteString("# Registers\n\n| # | name | address | feature | group |\n|---|---|---|---|---|\n")
	for _, d := range registers.NewTable().All() {
		fmt.Fprintf(&builder, "| %v | %v | 0x%04x | %v | %v |\n", d.Index, d.Name, d.Address, d.Feature, d.Group)
	}

	return builder.String()
}

func consoleDocs() string {
	var builder strings.Builder

	builder.WriteString("# Console commands\n\n")
	for _, cmd := range console.Commands {
		fmt.Fprintf(&builder, " - `%v`: %v.", cmd.Usage, cmd.Description)
		if len(cmd.Aliases) > 0 {
			fmt.Fprintf(&builder, " Aliases: %v.", utils.FormatSlice(cmd.Aliases, ", "))
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

func configDocs() string {
	keys := []struct {
		key         string
		description string
	}{
		{config.KeyAdapter, "debug unit implementation"},
		{config.KeyTrace, "log every debug unit transaction at debug level"},
		{config.KeyLogLevel, "debug, info, warn or error"},
		{config.KeyLogFile, "file receiving JSON log records"},
		{config.KeyPollRetries, "attempts of the CPU state query before giving up"},
		{config.KeyPollBackoff, "wait between failed CPU state queries"},
		{config.KeySrstPullsTrst, "system reset also resets the debug unit, so halt requests fail while in reset"},
		{config.KeyExtraRegs, "YAML file with registers added to the default catalog"},
		{config.KeySimMemory, "memory size in bytes of the simulated target"},
	}

	var builder strings.Builder

	builder.WriteString("# Configuration keys\n\n")
	for _, k := range keys {
		env := config.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(k.key, ".", "_"))
		fmt.Fprintf(&builder, " - `%v` (`%v`): %v\n", k.key, env, k.description)
	}

	return builder.String()
}

var docsCmd = &cobra.Command{
	Use:   "docs module",
	Short: "Show or1kdbg documentation",
	Long: `Dumps the documentation of the specified or1kdbg module.
By default the tool dumps the documentation to stdout, but it can be redirected to a file using the --output flag.

Supported modules:
` + strings.Join(utils.Map(utils.SortedKeys(supportedModules), func(module string) string { return "  " + module }), "\n"),
	Args:      cobra.MatchAll(cobra.OnlyValidArgs, cobra.ExactArgs(1)),
	ValidArgs: utils.SortedKeys(supportedModules),
	Run: func(cmd *cobra.Command, args []string) {
		module := args[0]
		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			file, err := os.Create(outputFile)
			if err != nil {
				fmt.Println("Error creating file:", err)
				os.Exit(1)
			}
			defer file.Close()
			fmt.Fprintln(file, supportedModules[module]())
		} else {
			fmt.Println(supportedModules[module]())
		}
	},
}

func init() {
	ToolsCmd.AddCommand(docsCmd)
	docsCmd.Flags().StringP("output", "o", "", "Output file. If not specified, the documentation is dumped to stdout.")
}
