package cli

import (
	"fmt"
	"io"
)

// Notifier prints operation outcomes to the terminal.
type Notifier struct {
	out io.Writer
}

// NewNotifier writes styled outcome lines to out.
func NewNotifier(out io.Writer) *Notifier {
	return &Notifier{out: out}
}

// Success prints a styled success line.
func (n *Notifier) Success(msg string) {
	fmt.Fprintln(n.out, SuccessStyle.Render("✓ "+msg))
}

// Error prints a styled error line.
func (n *Notifier) Error(msg string) {
	fmt.Fprintln(n.out, ErrorStyle.Render("✗ "+msg))
}
