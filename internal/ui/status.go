package ui

import (
	"fmt"
	"io"
)

// OK prints a success line.
func OK(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Success.Render(t.SymOK+" "+msg))
}

// Fail prints an error line.
func Fail(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Error.Render(t.SymFail+" "+msg))
}

// Warn prints a notice the user should read but that did not fail the command.
func Warn(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Pending.Render("! "+msg))
}
