package codegen

import (
	"fmt"
	"io"
	"strings"
)

// emitter wraps an io.Writer with helpers for emitting Java source text.
type emitter struct {
	w      io.Writer
	err    error // first write error
	indent int   // current indentation depth
}

// emit writes a formatted line at the current indentation.
func (e *emitter) emit(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, strings.Repeat("    ", e.indent)+format+"\n", args...)
}

// emitLine writes a blank line.
func (e *emitter) emitLine() {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w)
}

// emitComment writes a line comment.
func (e *emitter) emitComment(text string) {
	e.emit("// %s", commentText(text))
}

// open writes a line ending in '{' and indents. An empty format opens a
// bare block.
func (e *emitter) open(format string, args ...interface{}) {
	if format == "" {
		e.emit("{")
	} else {
		e.emit(format+" {", args...)
	}
	e.indent++
}

// close dedents and writes the closing brace.
func (e *emitter) close() {
	e.indent--
	e.emit("}")
}

// reopen closes the current block and opens the next one on the same line,
// as in "} else {". A non-empty note is appended as a trailing comment.
func (e *emitter) reopen(note, format string, args ...interface{}) {
	e.indent--
	head := "} " + fmt.Sprintf(format, args...) + " {"
	if note != "" {
		head += " // " + commentText(note)
	}
	e.emit("%s", head)
	e.indent++
}

// commentText flattens s to a single line.
func commentText(s string) string {
	return strings.Map(func(r rune) rune {
		if r < ' ' {
			return ' '
		}
		return r
	}, s)
}
