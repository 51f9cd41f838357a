package diag

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ANSI escape sequences used in colour mode.
const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiGray   = "\x1b[90m"
)

// Renderer formats diagnostics for a terminal or a log.
type Renderer struct {
	Color bool // emit ANSI colour sequences
}

// Render writes the formatted diagnostic to w.
func (r Renderer) Render(w io.Writer, d *Diagnostic) error {
	_, err := io.WriteString(w, r.String(d))
	return err
}

// String returns the formatted diagnostic.
func (r Renderer) String(d *Diagnostic) string {
	var b strings.Builder

	// Header
	fmt.Fprintf(&b, "%s%s%s %s\n",
		r.paint(ansiGray, "[K:"), r.paint(ansiBold+ansiRed, d.Code.String()), r.paint(ansiGray, "]"),
		r.paint(ansiBold, d.Code.Name()))
	fmt.Fprintf(&b, "%s%s%s\n", r.paint(ansiRed, "ERROR ("), d.Phase, r.paint(ansiRed, ")"))
	fmt.Fprintf(&b, "%s %s\n", r.paint(ansiGray, "at"), d.Location)

	// Source context, error line last.
	if len(d.ContextLines) > 0 {
		b.WriteByte('\n')
		width := len(strconv.Itoa(d.Location.Line))
		first := d.Location.Line - len(d.ContextLines) + 1
		for i, text := range d.ContextLines {
			n := first + i
			fmt.Fprintf(&b, "%s %s %s\n", r.paint(ansiBlue, fmt.Sprintf("%*d", width, n)), r.paint(ansiGray, "|"), text)
			if n == d.Location.Line {
				fmt.Fprintf(&b, "%s %s %s%s\n",
					strings.Repeat(" ", width), r.paint(ansiGray, "|"),
					caretPad(text, d.Location.Column), r.paint(ansiBold+ansiRed, strings.Repeat("^", max(d.Span, 1))))
			}
		}
	}

	r.section(&b, "Cause", d.Cause)
	r.section(&b, "Expected", d.Expected)
	r.section(&b, "Fix", d.Fix)
	r.section(&b, "Example", d.Example)
	r.section(&b, "Note", d.Note)
	return b.String()
}

func (r Renderer) section(b *strings.Builder, title, body string) {
	if body == "" {
		return
	}
	fmt.Fprintf(b, "\n%s\n", r.paint(ansiYellow, title+":"))
	for _, line := range strings.Split(body, "\n") {
		fmt.Fprintf(b, "  %s\n", line)
	}
}

func (r Renderer) paint(code, s string) string {
	if !r.Color {
		return s
	}
	return code + s + ansiReset
}

// caretPad returns the padding that puts a caret under column col of line.
// Tabs are preserved so the caret lines up in a terminal.
func caretPad(line string, col int) string {
	var b strings.Builder
	for i := 0; i < col-1; i++ {
		if i < len(line) && line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
