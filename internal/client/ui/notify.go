// Package ui renders transient user-facing feedback for the vault
// client: success, warning and error notices with distinct colors.
package ui

import (
	"fmt"
	"io"
)

// ANSI colors for notice levels.
const (
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorReset  = "\033[0m"
)

// Notifier writes user-facing notices to a terminal.
type Notifier struct {
	out   io.Writer
	color bool
}

// NewNotifier creates a Notifier writing to out. color disables ANSI
// escapes when false (tests, non-tty output).
func NewNotifier(out io.Writer, color bool) *Notifier {
	return &Notifier{out: out, color: color}
}

// Success reports a completed operation.
func (n *Notifier) Success(format string, args ...any) {
	n.write(colorGreen, "OK", fmt.Sprintf(format, args...))
}

// Warning reports a partial failure: the operation's core effect holds
// but something secondary failed (record saved, attachment did not).
func (n *Notifier) Warning(format string, args ...any) {
	n.write(colorYellow, "WARNING", fmt.Sprintf(format, args...))
}

// Error reports a failed operation.
func (n *Notifier) Error(format string, args ...any) {
	n.write(colorRed, "ERROR", fmt.Sprintf(format, args...))
}

func (n *Notifier) write(color, tag, msg string) {
	if n.color {
		fmt.Fprintf(n.out, "%s[%s]%s %s\n", color, tag, colorReset, msg)
		return
	}
	fmt.Fprintf(n.out, "[%s] %s\n", tag, msg)
}
