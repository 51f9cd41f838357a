package syntax

import "testing"

func TestSourceBasic(t *testing.T) {
	src := newSource("test", []byte("abc"))

	for i, want := range "abc" {
		if src.ch != want {
			t.Errorf("ch = %q, want %q", src.ch, want)
		}
		if src.line != 1 || src.col != uint32(i+1) {
			t.Errorf("pos = %d:%d, want 1:%d", src.line, src.col, i+1)
		}
		src.nextch()
	}
	if src.ch != -1 {
		t.Errorf("ch = %d, want -1 (EOF)", src.ch)
	}
}

func TestSourceNewline(t *testing.T) {
	src := newSource("test", []byte("a\nb"))

	if src.ch != 'a' || src.line != 1 || src.col != 1 {
		t.Errorf("got ch=%q pos=%d:%d, want ch='a' pos=1:1", src.ch, src.line, src.col)
	}
	src.nextch()
	if src.ch != '\n' || src.line != 1 || src.col != 2 {
		t.Errorf("got ch=%q pos=%d:%d, want ch='\\n' pos=1:2", src.ch, src.line, src.col)
	}
	src.nextch()
	if src.ch != 'b' || src.line != 2 || src.col != 1 {
		t.Errorf("got ch=%q pos=%d:%d, want ch='b' pos=2:1", src.ch, src.line, src.col)
	}
}

func TestSourceUTF8(t *testing.T) {
	src := newSource("test", []byte("a中b"))
	src.nextch()
	if src.ch != '中' || src.col != 2 {
		t.Errorf("got ch=%q col=%d, want '中' col=2", src.ch, src.col)
	}
	if src.peekch() != 'b' {
		t.Errorf("peekch() = %q, want 'b'", src.peekch())
	}
	src.nextch()
	if src.ch != 'b' || src.col != 3 {
		t.Errorf("got ch=%q col=%d, want 'b' col=3 (columns count characters)", src.ch, src.col)
	}
}

func TestSourceInvalidUTF8(t *testing.T) {
	src := newSource("test", []byte{0xff, 'a'})
	if !src.bad {
		t.Error("invalid byte not flagged")
	}
	src.nextch()
	if src.bad || src.ch != 'a' {
		t.Errorf("got ch=%q bad=%v, want 'a' and clean", src.ch, src.bad)
	}
}

func TestSourceEmpty(t *testing.T) {
	src := newSource("test", nil)
	if src.ch != -1 {
		t.Errorf("ch = %d, want -1 (EOF)", src.ch)
	}
}

func TestCharClasses(t *testing.T) {
	for _, r := range []rune{'a', 'Z', '_', 'é', 'ж'} {
		if !isLetter(r) {
			t.Errorf("isLetter(%q) = false", r)
		}
	}
	for _, r := range []rune{'0', '9', '$', ' ', '-'} {
		if isLetter(r) {
			t.Errorf("isLetter(%q) = true", r)
		}
	}
	if !isIdentPart('7') || isIdentPart('.') {
		t.Error("isIdentPart misclassifies digits or dots")
	}
	for _, r := range []rune{' ', '\t', '\r', '\n'} {
		if !isWhitespace(r) {
			t.Errorf("isWhitespace(%q) = false", r)
		}
	}
}
