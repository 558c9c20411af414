package cmd

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Manu343726/or1kdbg/pkg/or1k/console"
	"github.com/Manu343726/or1kdbg/pkg/or1k/target"
	"github.com/Manu343726/or1kdbg/pkg/utils"
	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// cliUI implements console.UI for terminal output
type cliUI struct{}

var _ console.UI = (*cliUI)(nil)

func (ui *cliUI) OnEvent(event target.EventData) {
	switch event.Event {
	case target.EventHalted, target.EventDebugHalted:
		if event.State.DebugReason == target.ReasonBreakpointTrap {
			colorBreak.Printf("Breakpoint hit at %s\n", colorAddr.Sprintf("0x%08X", event.PC))
		} else {
			colorWarning.Printf("CPU halted at %s (%v)\n", colorAddr.Sprintf("0x%08X", event.PC), event.State.DebugReason)
		}

	case target.EventResumed, target.EventDebugResumed:
		colorHiBlack.Printf("Resumed at 0x%08X\n", event.PC)
	}
}

func (ui *cliUI) ShowMessage(level console.MessageLevel, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	switch level {
	case console.LevelError:
		colorError.Println(message)
	case console.LevelWarning:
		colorWarning.Println(message)
	case console.LevelSuccess:
		colorSuccess.Println(message)
	default:
		fmt.Println(message)
	}
}

func (ui *cliUI) ShowState(state console.StateInfo) {
	fmt.Printf("Target %s", colorValue.Sprint(state.State))

	if state.HasPC {
		fmt.Printf(" %s %s (ppc %s)",
			colorPC.Sprint("=>"),
			colorAddr.Sprintf("0x%08X", state.PC),
			colorAddr.Sprintf("0x%08X", state.PPC))
	}

	fmt.Println()
}

func (ui *cliUI) ShowRegisters(regs []console.RegisterValue) {
	if len(regs) == 1 {
		reg := regs[0]
		fmt.Printf("%s = %s (%s)\n       %s\n",
			colorReg.Sprint(reg.Name),
			colorHex.Sprintf("0x%08X", reg.Value),
			colorValue.Sprintf("%d", reg.Value),
			colorHiBlack.Sprint(utils.FormatUintBinary(uint64(reg.Value), 32)))
		return
	}

	columns := 1
	if width, _ := getTerminalSize(); width >= 120 {
		columns = 4
	} else if width >= 60 {
		columns = 2
	}

	for i, reg := range regs {
		fmt.Printf("%s = %s",
			colorReg.Sprintf("%-8s", reg.Name),
			colorHex.Sprintf("0x%08X", reg.Value))

		if (i+1)%columns == 0 || i == len(regs)-1 {
			fmt.Println()
		} else {
			fmt.Print("    ")
		}
	}
}

func (ui *cliUI) ShowMemory(address uint32, size int, data []byte) {
	perLine := 16
	if width, _ := getTerminalSize(); width < 80 {
		perLine = 8
	}

	fmt.Printf("Memory at %s:\n", colorAddr.Sprintf("0x%08X", address))

	for i := 0; i < len(data); i += perLine {
		end := min(i+perLine, len(data))
		fmt.Printf("%s: ", colorAddr.Sprintf("0x%08X", address+uint32(i)))

		for j := i; j+size <= end; j += size {
			switch size {
			case 1:
				fmt.Printf("%s ", colorHex.Sprintf("%02X", data[j]))
			case 2:
				fmt.Printf("%s ", colorHex.Sprintf("%04X", binary.BigEndian.Uint16(data[j:])))
			default:
				fmt.Printf("%s ", colorHex.Sprintf("%08X", binary.BigEndian.Uint32(data[j:])))
			}
		}

		fmt.Print(" |")
		for _, b := range data[i:end] {
			if b >= 32 && b < 127 {
				fmt.Printf("%c", b)
			} else {
				fmt.Print(".")
			}
		}
		fmt.Println("|")
	}
}

func (ui *cliUI) ShowBreakpoints(bps []console.BreakpointInfo) {
	colorHeader.Println("Breakpoints:")

	for i, bp := range bps {
		status := colorHiBlack.Sprint("not installed")
		if bp.Installed {
			status = colorSuccess.Sprint("installed")
		}

		fmt.Printf("  %s: %s %v (%s)\n",
			colorValue.Sprintf("%d", i),
			colorAddr.Sprintf("0x%08X", bp.Address),
			bp.Kind,
			status)
	}
}

func (ui *cliUI) ShowHelp(commands []console.CommandHelp) {
	colorHeader.Println("or1kdbg Console Commands:")
	fmt.Println()

	for _, cmd := range commands {
		aliases := ""
		if len(cmd.Aliases) > 0 {
			aliases = ", " + strings.Join(cmd.Aliases, ", ")
		}

		fmt.Printf("  %-40s %s\n",
			colorCommand.Sprint(cmd.Usage)+colorHiBlack.Sprint(aliases),
			cmd.Description)
	}

	fmt.Println()
	fmt.Println("Numbers accept 0x (hex), 0b (binary) and 0o (octal) prefixes.")
	fmt.Println("Press Enter to repeat the last command.")
}

// getTerminalSize returns terminal width and height, with fallback defaults
func getTerminalSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return 80, 24
	}
	return width, height
}

// getHistoryFilePath returns the path to the console history file
func getHistoryFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".or1kdbg_history"
	}
	return filepath.Join(homeDir, ".or1kdbg_history")
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive debugger console",
	Long: `Opens the target and starts an interactive console.

Type 'help' in the console for the list of commands.`,
	Args: cobra.NoArgs,
	Run:  runConsole,
}

func init() {
	RootCmd.AddCommand(consoleCmd)
}

func runConsole(cmd *cobra.Command, args []string) {
	s := mustOpenSession(os.Stderr)
	defer s.Close()

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(false)
	line.SetCompleter(console.Complete)

	historyFile := getHistoryFilePath()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	ui := &cliUI{}
	controller := console.NewController(s.target, ui)

	fmt.Printf("Connected to %s, %d registers\n", colorValue.Sprint(s.config.Adapter), s.table.Len())
	colorSuccess.Println("Type 'help' for available commands.")
	fmt.Println()
	controller.CmdState()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
	prompt := colorPrompt.Sprint("(or1k) ")

	for controller.IsRunning() {
		input, err := line.Prompt(prompt)
		if err != nil {
			if err == io.EOF {
				colorSuccess.Println("\nExiting debugger.")
				break
			}
			if err == liner.ErrPromptAborted {
				colorWarning.Println("Use 'quit' or 'exit' to leave the debugger.")
				continue
			}
			colorError.Printf("Error reading input: %v\n", err)
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			input = controller.LastCommand()
		}
		if input != "" {
			if input != controller.LastCommand() {
				line.AppendHistory(input)
			}
			controller.SetLastCommand(input)
			controller.Execute(input)
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}
