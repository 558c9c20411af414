package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Manu343726/or1kdbg/cmd/tools"
	"github.com/Manu343726/or1kdbg/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "or1kdbg",
	Short: "A debugger core for OpenRISC 1000 targets",
	Long: `or1kdbg drives the debug unit of an OpenRISC 1000 CPU: halt, resume, single step,
reset, register and memory access and software breakpoints.

This CLI is the entry point for the debugger: an interactive console, a register viewer,
Lua scripting and a GDB target description generator.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(tools.ToolsCmd)
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.or1kdbg.yaml)")
	flags.String("adapter", "sim", "debug unit implementation, see 'or1kdbg adapters'")
	flags.Bool("trace", false, "log every debug unit transaction")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-file", "", "also write JSON logs to this file")
	flags.String("registers", "", "YAML file with registers added to the default catalog")

	cobra.CheckErr(viper.BindPFlag(config.KeyAdapter, flags.Lookup("adapter")))
	cobra.CheckErr(viper.BindPFlag(config.KeyTrace, flags.Lookup("trace")))
	cobra.CheckErr(viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag(config.KeyLogFile, flags.Lookup("log-file")))
	cobra.CheckErr(viper.BindPFlag(config.KeyExtraRegs, flags.Lookup("registers")))

	config.SetDefaults(viper.GetViper())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".or1kdbg" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".or1kdbg")
	}

	// OR1KDBG_POLL_RETRIES overrides poll.retries
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
