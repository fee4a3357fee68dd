package logging

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Color printers for each status kind.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
)

// Printer writes prefixed, color-coded status lines. Errors go to Err,
// everything else to Out.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// NewPrinter returns a Printer writing to out and errOut.
func NewPrinter(out, errOut io.Writer) *Printer {
	return &Printer{Out: out, Err: errOut}
}

// SetColor forces color on or off for every printer in the process.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// Info prints an informational message in blue.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.Out, infoPrefix("[INFO]")+" "+fmt.Sprintf(format, args...))
}

// Success prints a success message in green.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.Out, successPrefix("[SUCCESS]")+" "+fmt.Sprintf(format, args...))
}

// Warn prints a warning message in yellow.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.Out, warnPrefix("[WARN]")+" "+fmt.Sprintf(format, args...))
}

// Error prints an error message in red.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.Err, errorPrefix("[ERROR]")+" "+fmt.Sprintf(format, args...))
}

// FormatDays renders a signed day count relative to today.
//
//	FormatDays(0)  => "today"
//	FormatDays(1)  => "in 1d"
//	FormatDays(-3) => "3d ago"
func FormatDays(days int) string {
	switch {
	case days == 0:
		return "today"
	case days > 0:
		return fmt.Sprintf("in %dd", days)
	default:
		return fmt.Sprintf("%dd ago", -days)
	}
}
