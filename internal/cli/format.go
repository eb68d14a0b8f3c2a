package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	// fatih/color disables itself when output is not a terminal.
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
)

// printSection prints a section header.
func printSection(w io.Writer, title string) {
	_, _ = headerColor.Fprintf(w, "▸ %s\n", title)
}

// printSuccess prints a success message with a checkmark.
func printSuccess(w io.Writer, msg string) {
	_, _ = successColor.Fprintf(w, "✓ %s\n", msg)
}

// printWarning prints a warning message.
func printWarning(w io.Writer, msg string) {
	_, _ = warningColor.Fprintf(w, "⚠ %s\n", msg)
}

// printLabelValue prints an aligned label-value pair.
func printLabelValue(w io.Writer, label string, value any) {
	_, _ = labelColor.Fprintf(w, "  %-10s ", label+":")
	_, _ = valueColor.Fprintln(w, fmt.Sprint(value))
}
