package console

import (
	"strconv"
	"strings"

	"github.com/Manu343726/or1kdbg/pkg/utils"
)

var Commands = []CommandHelp{
	{Name: "state", Aliases: []string{"st"}, Description: "Show the target state", Usage: "state"},
	{Name: "poll", Aliases: nil, Description: "Query the hardware and update the state", Usage: "poll"},
	{Name: "halt", Aliases: []string{"h"}, Description: "Stop the target", Usage: "halt"},
	{Name: "resume", Aliases: []string{"c", "continue"}, Description: "Resume execution", Usage: "resume [addr]"},
	{Name: "step", Aliases: []string{"s", "si"}, Description: "Execute one instruction", Usage: "step [addr]"},
	{Name: "reg", Aliases: []string{"r"}, Description: "Show or set a register", Usage: "reg <name> [value]"},
	{Name: "regs", Aliases: nil, Description: "Show the core registers", Usage: "regs"},
	{Name: "mem", Aliases: []string{"x"}, Description: "Show memory", Usage: "mem <addr> [count] [size]"},
	{Name: "write", Aliases: []string{"w"}, Description: "Write memory", Usage: "write <addr> <value> [size]"},
	{Name: "bp", Aliases: []string{"b", "break"}, Description: "Set a breakpoint", Usage: "bp <addr> [hw]"},
	{Name: "delete", Aliases: []string{"d"}, Description: "Delete a breakpoint", Usage: "delete <addr>"},
	{Name: "breakpoints", Aliases: []string{"bl"}, Description: "List breakpoints", Usage: "breakpoints"},
	{Name: "readgroup", Aliases: []string{"rg"}, Description: "Read every register of a group", Usage: "readgroup <group>"},
	{Name: "addreg", Aliases: nil, Description: "Add a register", Usage: "addreg <name> <addr> <feature> <group>"},
	{Name: "reset", Aliases: nil, Description: "Reset the target", Usage: "reset [halt]"},
	{Name: "help", Aliases: []string{"?"}, Description: "Show help", Usage: "help"},
	{Name: "quit", Aliases: []string{"q", "exit"}, Description: "Exit the console", Usage: "quit"},
}

// Returns the command a name or alias refers to
func Lookup(name string) (CommandHelp, bool) {
	name = strings.ToLower(name)

	for _, cmd := range Commands {
		if cmd.Name == name {
			return cmd, true
		}

		for _, alias := range cmd.Aliases {
			if alias == name {
				return cmd, true
			}
		}
	}

	return CommandHelp{}, false
}

// Returns the command names starting with prefix, for completion
func Complete(prefix string) []string {
	var result []string

	for _, cmd := range Commands {
		if strings.HasPrefix(cmd.Name, strings.ToLower(prefix)) {
			result = append(result, cmd.Name)
		}
	}

	return result
}

// Parses and runs one command line
func (c *Controller) Execute(line string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}

	cmd, ok := Lookup(parts[0])
	if !ok {
		c.ui.ShowMessage(LevelError, "Unknown command '%v'. Type 'help' for available commands.", parts[0])
		return
	}

	args := parts[1:]

	usage := func() {
		c.ui.ShowMessage(LevelError, "Usage: %v", cmd.Usage)
	}

	number := func(i int) (uint32, bool) {
		value, err := utils.ParseUint32(args[i])
		if err != nil {
			c.ui.ShowMessage(LevelError, "Invalid number '%v'", args[i])
			return 0, false
		}

		return value, true
	}

	optionalAddress := func() (*uint32, bool) {
		if len(args) == 0 {
			return nil, true
		}

		address, ok := number(0)
		return &address, ok
	}

	switch cmd.Name {
	case "state":
		c.CmdState()

	case "poll":
		c.CmdPoll()

	case "halt":
		c.CmdHalt()

	case "resume":
		if address, ok := optionalAddress(); ok {
			c.CmdContinue(address)
		}

	case "step":
		if address, ok := optionalAddress(); ok {
			c.CmdStep(address)
		}

	case "reg":
		switch len(args) {
		case 1:
			c.CmdRegister(args[0])
		case 2:
			if value, ok := number(1); ok {
				c.CmdSetRegister(args[0], value)
			}
		default:
			usage()
		}

	case "regs":
		c.CmdRegisters()

	case "mem":
		if len(args) < 1 || len(args) > 3 {
			usage()
			return
		}

		address, ok := number(0)
		if !ok {
			return
		}

		count, size := 1, 4

		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				c.ui.ShowMessage(LevelError, "Invalid count '%v'", args[1])
				return
			}
			count = n
		}

		if len(args) > 2 {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				c.ui.ShowMessage(LevelError, "Invalid size '%v'", args[2])
				return
			}
			size = n
		}

		c.CmdMemory(address, count, size)

	case "write":
		if len(args) < 2 || len(args) > 3 {
			usage()
			return
		}

		address, ok := number(0)
		if !ok {
			return
		}

		value, ok := number(1)
		if !ok {
			return
		}

		size := 4
		if len(args) > 2 {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				c.ui.ShowMessage(LevelError, "Invalid size '%v'", args[2])
				return
			}
			size = n
		}

		c.CmdWrite(address, value, size)

	case "bp":
		if len(args) < 1 || len(args) > 2 || (len(args) == 2 && args[1] != "hw") {
			usage()
			return
		}

		if address, ok := number(0); ok {
			c.CmdBreak(address, len(args) == 2)
		}

	case "delete":
		if len(args) != 1 {
			usage()
			return
		}

		if address, ok := number(0); ok {
			c.CmdDelete(address)
		}

	case "breakpoints":
		c.CmdBreakpoints()

	case "readgroup":
		if len(args) != 1 {
			usage()
			return
		}

		c.CmdReadGroup(args[0])

	case "addreg":
		if len(args) != 4 {
			usage()
			return
		}

		if address, ok := number(1); ok {
			c.CmdAddRegister(args[0], address, args[2], args[3])
		}

	case "reset":
		if len(args) > 1 || (len(args) == 1 && args[0] != "halt") {
			usage()
			return
		}

		c.CmdReset(len(args) == 1)

	case "help":
		c.CmdHelp()

	case "quit":
		c.CmdQuit()
	}
}
