package cmd

import (
	"os"

	"github.com/Manu343726/or1kdbg/pkg/or1k/script"
	"github.com/spf13/cobra"
)

var scriptCmd = &cobra.Command{
	Use:   "script file.lua",
	Short: "Run a Lua script against the target",
	Long: `Runs a Lua script with a 'target' module bound to the debugged CPU:

  target.state()                          -> mode, reason
  target.poll()                           -> mode
  target.halt()
  target.resume([addr])
  target.step()
  target.reg(name)                        -> value
  target.setreg(name, value)
  target.read32(addr)                     -> value
  target.write32(addr, value)
  target.addreg(name, addr, feature, group) -> index
  target.readgroup(group)                 -> {name = value}
  target.bp(addr)
  target.unbp(addr)

Failed operations raise Lua errors.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := mustOpenSession(os.Stderr)
		defer s.Close()

		state := script.NewState(s.target, script.WithLogger(s.logger))
		defer state.Close()

		if err := state.DoFile(args[0]); err != nil {
			colorError.Printf("Error: %v\n", err)
			s.Close()
			os.Exit(2)
		}
	},
}

func init() {
	RootCmd.AddCommand(scriptCmd)
}
