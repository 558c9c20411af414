package cmd

import (
	"fmt"
	"io"

	"github.com/Manu343726/or1kdbg/pkg/or1k/registers"
	"github.com/Manu343726/or1kdbg/pkg/or1k/target"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
)

// regView shows a register group in a table and lets the user run the CPU
type regView struct {
	target *target.Target
	group  string

	app    *tview.Application
	table  *tview.Table
	status *tview.TextView

	// Last values read, to highlight changes
	previous map[string]uint32
}

func newRegView(t *target.Target, group string) *regView {
	v := &regView{
		target:   t,
		group:    group,
		app:      tview.NewApplication(),
		table:    tview.NewTable().SetBorders(false).SetFixed(1, 0),
		status:   tview.NewTextView().SetDynamicColors(true),
		previous: make(map[string]uint32),
	}

	title := group
	if len(title) == 0 {
		title = "core"
	}
	v.table.SetBorder(true).SetTitle(fmt.Sprintf(" %v registers ", title))

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.table, 0, 1, true).
		AddItem(v.status, 2, 0, false)

	v.app.SetRoot(layout, true).SetInputCapture(v.onKey)
	return v
}

type row struct {
	descriptor registers.RegisterDescriptor
	value      uint32
	err        error
}

func (v *regView) read() []row {
	if len(v.group) > 0 {
		values, err := v.target.ReadGroup(v.group)
		if err != nil {
			return []row{{err: err}}
		}

		rows := make([]row, 0, len(values))
		for _, value := range values {
			rows = append(rows, row{descriptor: value.Descriptor, value: value.Value})
		}
		return rows
	}

	entries, err := v.target.GeneralRegisters()
	if err != nil {
		return []row{{err: err}}
	}

	rows := make([]row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, row{descriptor: e.Descriptor, value: e.Value})
	}
	return rows
}

func (v *regView) refresh() {
	v.table.Clear()

	for column, header := range []string{"#", "name", "address", "value"} {
		v.table.SetCell(0, column, tview.NewTableCell(header).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}

	for i, r := range v.read() {
		if r.err != nil {
			v.table.SetCell(i+1, 0, tview.NewTableCell(r.err.Error()).SetTextColor(tcell.ColorRed))
			continue
		}

		valueColor := tcell.ColorWhite
		if previous, found := v.previous[r.descriptor.Name]; found && previous != r.value {
			valueColor = tcell.ColorRed
		}
		v.previous[r.descriptor.Name] = r.value

		v.table.SetCell(i+1, 0, tview.NewTableCell(fmt.Sprint(r.descriptor.Index)).SetTextColor(tcell.ColorGray))
		v.table.SetCell(i+1, 1, tview.NewTableCell(r.descriptor.Name).SetTextColor(tcell.ColorGreen))
		v.table.SetCell(i+1, 2, tview.NewTableCell(fmt.Sprintf("0x%08X", r.descriptor.Address)).SetTextColor(tcell.ColorDarkCyan))
		v.table.SetCell(i+1, 3, tview.NewTableCell(fmt.Sprintf("0x%08X", r.value)).SetTextColor(valueColor))
	}

	v.status.SetText(fmt.Sprintf("[white]state: [green]%v[white]\n[gray]r[white] refresh  [gray]h[white] halt  [gray]c[white] resume  [gray]s[white] step  [gray]q[white] quit", v.target.State()))
}

func (v *regView) run(action func() error) {
	err := action()
	if err == nil {
		err = v.target.Poll()
	}

	if err != nil {
		v.status.SetText(fmt.Sprintf("[red]%v", err))
		return
	}

	v.refresh()
}

// Polls allowed for a single step to finish
const stepPollTries = 10

// Steps one instruction and puts back the breakpoint the step went over
func (v *regView) step() error {
	if err := v.target.Step(true, 0, true); err != nil {
		return err
	}

	if err := v.target.WaitHalted(stepPollTries); err != nil {
		return err
	}

	return v.target.ReinstallBreakpoints()
}

func (v *regView) onKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyEscape {
		v.app.Stop()
		return nil
	}

	switch event.Rune() {
	case 'q':
		v.app.Stop()
	case 'r':
		v.run(func() error { return nil })
	case 'h':
		v.run(v.target.Halt)
	case 'c':
		v.run(func() error { return v.target.Resume(true, 0, true, false) })
	case 's':
		v.run(v.step)
	default:
		return event
	}

	return nil
}

func (v *regView) Run() error {
	v.refresh()
	return v.app.Run()
}

var regviewCmd = &cobra.Command{
	Use:   "regview [group]",
	Short: "Live view of a register group",
	Long: `Shows the registers of a display group in a full screen table, re-read from the target
on every refresh. Without a group the core registers are shown, which requires a halted target.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// tview owns the terminal, only the log file gets records
		s := mustOpenSession(io.Discard)
		defer s.Close()

		group := ""
		if len(args) > 0 {
			group = args[0]
		}

		if err := newRegView(s.target, group).Run(); err != nil {
			colorError.Printf("Error: %v\n", err)
		}
	},
}

func init() {
	RootCmd.AddCommand(regviewCmd)
}
