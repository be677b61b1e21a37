package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Logo is printed above the run configuration
const Logo = `
  ┌─┐┌─┐┬  ┬  ┌─┐┬─┐┬ ┬  ┌─┐┌─┐┬─┐┌─┐┌─┐┌─┐┬─┐
  │ ┬├─┤│  │  ├┤ ├┬┘└┬┘  └─┐│  ├┬┘├─┤├─┘├┤ ├┬┘
  └─┘┴ ┴┴─┘┴─┘└─┘┴└─ ┴   └─┘└─┘┴└─┴ ┴┴  └─┘┴└─`

// PrinterOptions configures a Printer
type PrinterOptions struct {
	// Quiet suppresses everything except errors
	Quiet bool
	// NoColor forces plain output even on a terminal
	NoColor bool
}

// Printer writes human-facing output. Structured logs go through the
// logger on stderr; the Printer owns stdout.
type Printer struct {
	out    io.Writer
	quiet  bool
	color  bool
	styles styles
}

// NewPrinter creates a Printer writing to w. Colour is only used when w is
// a terminal and NoColor is not set.
func NewPrinter(w io.Writer, opts PrinterOptions) *Printer {
	color := !opts.NoColor && IsTerminal(w)
	r := lipgloss.NewRenderer(w)
	return &Printer{
		out:    w,
		quiet:  opts.Quiet,
		color:  color,
		styles: newStyles(r, color),
	}
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Colored reports whether output is styled
func (p *Printer) Colored() bool {
	return p.color
}

// Quiet reports whether non-error output is suppressed
func (p *Printer) Quiet() bool {
	return p.quiet
}

// PrintLogo prints the logo
func (p *Printer) PrintLogo() {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, p.styles.logo.Render(Logo))
}

// PrintError prints an error message. Errors are printed even when quiet.
func (p *Printer) PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(p.out, p.styles.errorText.Render(msg))
}

// PrintSuccess prints a success message
func (p *Printer) PrintSuccess(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, p.styles.success.Render(msg))
}

// PrintInfo prints a label and its value
func (p *Printer) PrintInfo(label string, value string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s: %s\n", p.styles.label.Render(label), p.styles.value.Render(value))
}

// PrintWarning prints a warning message
func (p *Printer) PrintWarning(msg string, args ...interface{}) {
	if p.quiet {
		return
	}
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(p.out, p.styles.warning.Render(msg))
}

// PrintHighlight prints a highlighted message
func (p *Printer) PrintHighlight(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, p.styles.highlight.Render(msg))
}
