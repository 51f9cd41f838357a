package syntax

import (
	"unicode"
	"unicode/utf8"
)

// source is a character reader with position tracking over an in-memory
// UTF-8 buffer.
type source struct {
	buf []byte

	filename string
	line     uint32 // current line number (1-based)
	col      uint32 // current column number (1-based, in runes)

	ch   rune // current character, -1 for EOF
	offs int  // byte offset of the next character

	bad bool // current character is an invalid UTF-8 byte
}

// newSource creates a source positioned on the first character of buf.
func newSource(filename string, buf []byte) source {
	s := source{
		buf:      buf,
		filename: filename,
		line:     1,
		col:      0,  // incremented to 1 by the first nextch
		ch:       -1, // "before first char"
	}
	s.nextch()
	return s
}

// nextch reads the next character and updates the position.
// (line, col) always refers to s.ch after nextch returns.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	s.bad = r == utf8.RuneError && width == 1
	s.ch = r
	s.offs += width
}

// peekch returns the character after s.ch without consuming anything.
func (s *source) peekch() rune {
	if s.offs >= len(s.buf) {
		return -1
	}
	r, _ := utf8.DecodeRune(s.buf[s.offs:])
	return r
}

// pos returns the position of the current character.
func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

// isLetter reports whether r may start an identifier.
func isLetter(r rune) bool {
	if r < utf8.RuneSelf {
		return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
	}
	return unicode.IsLetter(r)
}

// isDigit reports whether r is a decimal digit (0-9).
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isIdentPart reports whether r may continue an identifier.
func isIdentPart(r rune) bool {
	return isLetter(r) || isDigit(r) || r >= utf8.RuneSelf && unicode.IsDigit(r)
}

// isWhitespace reports whether r is skipped between tokens.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\f'
}
