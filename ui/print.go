// Package ui holds console helpers shared by the command line tools.
package ui

import (
	"fmt"
	"io"
	"os"
)

const (
	ansiReset  = "\033[0m"
	ansiYellow = "\033[33m"
	ansiGreen  = "\033[92m"
	ansiWarn   = "\033[93m"
)

// Out is where every helper writes. Tests swap it for a buffer.
var Out io.Writer = os.Stdout

func colorf(color, format string, a ...interface{}) {
	fmt.Fprint(Out, color)
	fmt.Fprintf(Out, format, a...)
	fmt.Fprint(Out, ansiReset)
}

// Debugf prints a yellow [DEBUG] line when enabled.
func Debugf(enabled bool, format string, a ...interface{}) {
	if enabled {
		colorf(ansiYellow, "[DEBUG] "+format, a...)
	}
}

// Greenf reports a successful step.
func Greenf(format string, a ...interface{}) { colorf(ansiGreen, format, a...) }

// Warnf reports a failed or skipped step.
func Warnf(format string, a ...interface{}) { colorf(ansiWarn, format, a...) }

// ClearScreen wipes the terminal and homes the cursor, then prints title
// (if any) as the first line.
func ClearScreen(title string) {
	fmt.Fprint(Out, "\033[2J\033[1;1H")
	if title != "" {
		fmt.Fprintln(Out, title)
	}
}
