package diag

import (
	"fmt"
	"sync"
)

// DefaultContextLines is the number of source lines shown before the
// offending line.
const DefaultContextLines = 2

// Location is a position in a source file. Line and Column are 1-based.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns "file:line:col".
func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Detail holds the explanatory text attached to a diagnostic.
// Only Cause is required.
type Detail struct {
	Cause    string
	Fix      string
	Expected string
	Example  string
	Note     string
	Span     int // caret width; values below 1 mean 1
}

// Diagnostic is a fatal compiler error. It is created at the failure site and
// never modified afterwards. A Diagnostic must not be copied after first use.
type Diagnostic struct {
	Code         Code
	Phase        Phase
	Location     Location
	ContextLines []string
	Cause        string
	Fix          string
	Expected     string
	Example      string
	Note         string
	Span         int

	once sync.Once
	text string
}

// New builds a diagnostic for code at loc, capturing the leading context
// lines from src.
func New(code Code, loc Location, src SourceLines, d Detail) *Diagnostic {
	span := d.Span
	if span < 1 {
		span = 1
	}
	return &Diagnostic{
		Code:         code,
		Phase:        code.Phase(),
		Location:     loc,
		ContextLines: src.Context(loc.Line, DefaultContextLines),
		Cause:        d.Cause,
		Fix:          d.Fix,
		Expected:     d.Expected,
		Example:      d.Example,
		Note:         d.Note,
		Span:         span,
	}
}

// Error returns a one-line summary of the diagnostic.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: [K:%s] %s: %s", d.Location, d.Code, d.Code.Name(), d.Cause)
}

// Format renders the full plain-text form of the diagnostic.
// The result is computed once and cached.
func (d *Diagnostic) Format() string {
	d.once.Do(func() {
		d.text = Renderer{}.String(d)
	})
	return d.text
}
