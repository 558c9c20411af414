package cmd

import "github.com/fatih/color"

var (
	colorAddr    = color.New(color.FgCyan)
	colorReg     = color.New(color.FgGreen)
	colorValue   = color.New(color.FgWhite, color.Bold)
	colorHex     = color.New(color.FgMagenta)
	colorPrompt  = color.New(color.FgBlue, color.Bold)
	colorError   = color.New(color.FgRed, color.Bold)
	colorSuccess = color.New(color.FgGreen)
	colorWarning = color.New(color.FgYellow)
	colorHeader  = color.New(color.FgWhite, color.Bold, color.Underline)
	colorBreak   = color.New(color.FgRed, color.Bold)
	colorPC      = color.New(color.FgGreen, color.Bold)
	colorHiBlack = color.New(color.FgHiBlack)
	colorCommand = color.New(color.FgYellow)
)
