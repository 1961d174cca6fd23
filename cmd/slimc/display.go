package main

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

var (
	successColorFG = pterm.FgLightGreen
	successStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	warnColorFG    = pterm.FgYellow
	warnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	errorColorFG   = pterm.FgRed
	errorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
)

// printError writes a tagged error diagnostic
func printError(w io.Writer, tag string, err error) {
	fmt.Fprintln(w, errorStyleBG.Sprint(tag)+errorColorFG.Sprint(" "+err.Error()))
}

func printWarning(w io.Writer, tag, msg string) {
	fmt.Fprintln(w, warnStyleBG.Sprint(tag)+warnColorFG.Sprint(" "+msg))
}

func printSuccess(w io.Writer, tag, msg string) {
	fmt.Fprintln(w, successStyleBG.Sprint(tag)+successColorFG.Sprint(" "+msg))
}
