package syntax

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/klar/internal/diag"
)

// Scanner performs lexical analysis on Klar source code.
// The first lexical error stops the scanner; every later call to Next
// yields EOF.
type Scanner struct {
	source // embedded character reader

	lines diag.SourceLines
	tok   Token
	err   *diag.Diagnostic

	// Literal accumulation
	litBuf strings.Builder
}

// NewScanner creates a new Scanner for src.
func NewScanner(filename string, src []byte) *Scanner {
	return &Scanner{
		source: newSource(filename, src),
		lines:  diag.Lines(src),
	}
}

// Tokenize scans all of src and returns the tokens, terminated by an EOF
// token. On a lexical error it returns the tokens scanned so far and the
// diagnostic.
func Tokenize(filename string, src []byte) ([]Token, error) {
	s := NewScanner(filename, src)
	var toks []Token
	for {
		s.Next()
		if err := s.Err(); err != nil {
			return toks, err
		}
		toks = append(toks, s.tok)
		if s.tok.Kind == _EOF {
			return toks, nil
		}
	}
}

// Next advances to the next token.
func (s *Scanner) Next() {
	if s.err != nil {
		s.tok = Token{Kind: _EOF, Pos: s.pos(), End: s.pos()}
		return
	}

redo:
	for isWhitespace(s.ch) {
		s.nextch()
	}

	s.tok = Token{Pos: s.pos()}

	switch {
	case s.ch < 0:
		s.tok.Kind = _EOF

	case s.bad:
		s.errorf(s.tok.Pos, diag.UnexpectedCharacter, 1, diag.Detail{
			Cause: "the source contains a byte that is not valid UTF-8",
			Fix:   "save the file with UTF-8 encoding",
		})

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '"':
		s.scanString()

	case s.ch == '\'':
		s.scanChar()

	case s.ch == '/' && (s.peekch() == '/' || s.peekch() == '*'):
		if s.skipComment() {
			goto redo
		}

	default:
		s.scanOperator()
	}

	if s.err != nil {
		s.tok = Token{Kind: _EOF, Pos: s.tok.Pos}
	}
	s.tok.End = s.pos()
}

// Token returns the current token.
func (s *Scanner) Token() Token {
	return s.tok
}

// Err returns the lexical error that stopped the scanner, if any.
func (s *Scanner) Err() error {
	if s.err == nil {
		return nil
	}
	return s.err
}

// errorf records the first lexical error.
func (s *Scanner) errorf(pos Pos, code diag.Code, span int, d diag.Detail) {
	if s.err != nil {
		return
	}
	d.Span = span
	s.err = diag.New(code, pos.Location(), s.lines, d)
}

// startLit begins accumulating a literal.
func (s *Scanner) startLit() {
	s.litBuf.Reset()
	s.litBuf.WriteRune(s.ch)
}

// continueLit adds the current character to the literal being accumulated.
func (s *Scanner) continueLit() {
	s.litBuf.WriteRune(s.ch)
}

// stopLit ends literal accumulation and returns the accumulated string.
func (s *Scanner) stopLit() string {
	return s.litBuf.String()
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent() {
	s.startLit()
	s.nextch()

	for isIdentPart(s.ch) {
		s.continueLit()
		s.nextch()
	}

	s.tok.Lit = s.stopLit()
	s.tok.Kind = LookupKeyword(s.tok.Lit)
}

// scanNumber scans an integer or double literal. Digits glued to letters or
// extra dots are kept in the literal so the parser can reject the whole
// malformed number at once.
func (s *Scanner) scanNumber() {
	s.startLit()
	s.nextch()
	kind := IntLit

	for isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}
	if s.ch == '.' && isDigit(s.peekch()) {
		kind = DoubleLit
		s.continueLit()
		s.nextch()
		for isDigit(s.ch) {
			s.continueLit()
			s.nextch()
		}
	}
	for isIdentPart(s.ch) || s.ch == '.' {
		if s.ch == '.' {
			kind = DoubleLit
		}
		s.continueLit()
		s.nextch()
	}

	s.tok.Kind = _Literal
	s.tok.LitKind = kind
	s.tok.Lit = s.stopLit()
}

// scanString scans a double-quoted string literal and decodes its escapes.
func (s *Scanner) scanString() {
	start := s.pos()
	s.nextch() // opening quote
	s.litBuf.Reset()

	for {
		switch {
		case s.ch == '"':
			s.nextch()
			s.tok.Kind = _Literal
			s.tok.LitKind = StringLit
			s.tok.Lit = s.stopLit()
			return
		case s.ch < 0 || s.ch == '\n':
			s.errorf(start, diag.UnterminatedString, 1, detail(
				"string literal is not terminated before the end of the line",
				"close the string with a double quote",
				`String name = "klar";`))
			return
		case s.ch == '\\':
			r, ok := s.escape()
			if !ok {
				return
			}
			s.litBuf.WriteRune(r)
		default:
			s.continueLit()
			s.nextch()
		}
	}
}

// scanChar scans a single-quoted character literal.
func (s *Scanner) scanChar() {
	start := s.pos()
	s.nextch() // opening quote

	var r rune
	switch {
	case s.ch == '\'':
		s.errorf(start, diag.MalformedCharLiteral, 2, detail(
			"character literal is empty",
			"put exactly one character between the quotes",
			"character c = 'a';"))
		return
	case s.ch < 0 || s.ch == '\n':
		s.errorf(start, diag.MalformedCharLiteral, 1, detail(
			"character literal is not terminated",
			"close the literal with a single quote",
			"character c = 'a';"))
		return
	case s.ch == '\\':
		var ok bool
		if r, ok = s.escape(); !ok {
			return
		}
	default:
		r = s.ch
		s.nextch()
	}

	if s.ch != '\'' {
		s.errorf(start, diag.MalformedCharLiteral, 1, detail(
			"character literal must contain exactly one character",
			"use a String for text longer than one character",
			`String s = "ab";`))
		return
	}
	s.nextch()

	s.tok.Kind = _Literal
	s.tok.LitKind = CharLit
	s.tok.Lit = string(r)
}

// escape decodes an escape sequence starting at the backslash.
func (s *Scanner) escape() (rune, bool) {
	pos := s.pos()
	s.nextch() // backslash
	var r rune
	switch s.ch {
	case 'n':
		r = '\n'
	case 't':
		r = '\t'
	case 'r':
		r = '\r'
	case '0':
		r = 0
	case '\\', '\'', '"':
		r = s.ch
	default:
		s.errorf(pos, diag.UnexpectedCharacter, 2, detail(
			fmt.Sprintf("unknown escape sequence \\%c", s.ch),
			`use one of \n \t \r \0 \\ \' \"`,
			`println("line\n");`))
		return 0, false
	}
	s.nextch()
	return r, true
}

// skipComment skips a line or block comment starting at '/'.
// It reports false if the comment is unterminated.
func (s *Scanner) skipComment() bool {
	start := s.pos()
	s.nextch() // '/'
	if s.ch == '/' {
		for s.ch >= 0 && s.ch != '\n' {
			s.nextch()
		}
		return true
	}

	s.nextch() // '*'
	for s.ch >= 0 {
		if s.ch == '*' && s.peekch() == '/' {
			s.nextch()
			s.nextch()
			return true
		}
		s.nextch()
	}
	s.errorf(start, diag.UnexpectedCharacter, 2, detail(
		"block comment is not terminated",
		"close the comment with */",
		"/* note */"))
	return false
}

// scanOperator scans an operator or delimiter.
func (s *Scanner) scanOperator() {
	pos := s.pos()
	ch := s.ch
	s.nextch()

	var kind Kind
	switch ch {
	case '(':
		kind = _Lparen
	case ')':
		kind = _Rparen
	case '[':
		kind = _Lbrack
	case ']':
		kind = _Rbrack
	case '{':
		kind = _Lbrace
	case '}':
		kind = _Rbrace
	case ',':
		kind = _Comma
	case ';':
		kind = _Semi
	case '.':
		kind = _Dot
	case '@':
		kind = _At
	case '+':
		kind = _Add
	case '-':
		kind = _Sub
	case '*':
		kind = _Mul
	case '/':
		kind = _Div
	case '%':
		kind = _Rem
	case '=':
		kind = s.pick('=', _Eql, _Assign)
	case '!':
		kind = s.pick('=', _Neq, _Not)
	case '<':
		kind = s.pick('=', _Leq, _Lss)
	case '>':
		kind = s.pick('=', _Geq, _Gtr)
	case '&', '|':
		if s.ch != ch {
			s.errorf(pos, diag.UnexpectedCharacter, 1, detail(
				fmt.Sprintf("unexpected character %q", ch),
				fmt.Sprintf("write %c%c for the logical operator", ch, ch),
				"if (a && b) { } afterall;"))
			return
		}
		s.nextch()
		kind = _AndAnd
		if ch == '|' {
			kind = _OrOr
		}
	default:
		s.errorf(pos, diag.UnexpectedCharacter, 1, detail(
			fmt.Sprintf("unexpected character %q", ch),
			"remove the character or replace it with a valid token",
			""))
		return
	}

	s.tok.Kind = kind
	s.tok.Lit = kind.String()
}

// pick consumes next and returns yes if the current character is next,
// otherwise it returns no.
func (s *Scanner) pick(next rune, yes, no Kind) Kind {
	if s.ch == next {
		s.nextch()
		return yes
	}
	return no
}

// detail builds the explanatory part of a diagnostic.
func detail(cause, fix, example string) diag.Detail {
	return diag.Detail{Cause: cause, Fix: fix, Example: example}
}
