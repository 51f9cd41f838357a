// Package syntax implements lexical and syntactic analysis for the Klar language.
package syntax

import "fmt"

// Kind represents the type of a lexical token.
type Kind uint

const (
	// Special tokens
	_EOF Kind = iota // end of file

	// Literals
	_Name    // identifier: total, count
	_Literal // literal value (used with LitKind)

	// Operators
	_Assign // =
	_OrOr   // || or
	_AndAnd // && and
	_Eql    // ==
	_Neq    // !=
	_Lss    // <
	_Leq    // <=
	_Gtr    // >
	_Geq    // >=
	_Add    // +
	_Sub    // -
	_Mul    // *
	_Div    // /
	_Rem    // %
	_Not    // !

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Lbrack // [
	_Rbrack // ]
	_Lbrace // {
	_Rbrace // }
	_Comma  // ,
	_Semi   // ;
	_Dot    // .
	_At     // @

	// Keywords
	_Afterall
	_Because
	_Constant
	_False
	_If
	_Import
	_Internal
	_Module
	_New
	_Null
	_Otherwise
	_Protected
	_Public
	_Return
	_True
	_While

	// Type keywords
	_Integer
	_Double
	_Boolean
	_Character
	_String
	_Void

	kindCount
)

// kindNames maps token kinds to their string representation.
var kindNames = [...]string{
	_EOF: "EOF",

	_Name:    "NAME",
	_Literal: "LITERAL",

	_Assign: "=",
	_OrOr:   "||",
	_AndAnd: "&&",
	_Eql:    "==",
	_Neq:    "!=",
	_Lss:    "<",
	_Leq:    "<=",
	_Gtr:    ">",
	_Geq:    ">=",
	_Add:    "+",
	_Sub:    "-",
	_Mul:    "*",
	_Div:    "/",
	_Rem:    "%",
	_Not:    "!",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrack: "[",
	_Rbrack: "]",
	_Lbrace: "{",
	_Rbrace: "}",
	_Comma:  ",",
	_Semi:   ";",
	_Dot:    ".",
	_At:     "@",

	_Afterall:  "afterall",
	_Because:   "because",
	_Constant:  "constant",
	_False:     "false",
	_If:        "if",
	_Import:    "import",
	_Internal:  "internal",
	_Module:    "module",
	_New:       "new",
	_Null:      "null",
	_Otherwise: "otherwise",
	_Protected: "protected",
	_Public:    "public",
	_Return:    "return",
	_True:      "true",
	_While:     "while",

	_Integer:   "integer",
	_Double:    "double",
	_Boolean:   "boolean",
	_Character: "character",
	_String:    "String",
	_Void:      "void",
}

// String returns the string representation of the token kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Precedence returns the operator precedence for binary operators.
// Returns 0 for non-operators.
// Precedence levels (higher = binds tighter):
//
//	1: || or
//	2: && and
//	3: == != < <= > >=
//	4: + -
//	5: * / %
func (k Kind) Precedence() int {
	switch k {
	case _OrOr:
		return 1
	case _AndAnd:
		return 2
	case _Eql, _Neq, _Lss, _Leq, _Gtr, _Geq:
		return 3
	case _Add, _Sub:
		return 4
	case _Mul, _Div, _Rem:
		return 5
	}
	return 0
}

// IsKeyword reports whether k is a keyword, type keywords included.
func (k Kind) IsKeyword() bool {
	return k >= _Afterall && k <= _Void
}

// IsTypeKeyword reports whether k names a built-in type.
func (k Kind) IsTypeKeyword() bool {
	return k >= _Integer && k <= _Void
}

// IsOperator reports whether k is an operator token.
func (k Kind) IsOperator() bool {
	return k >= _Assign && k <= _Not
}

// IsComparison reports whether k is an equality or relational operator.
func (k Kind) IsComparison() bool {
	return k >= _Eql && k <= _Geq
}

// IsAccessModifier reports whether k is public, protected or internal.
func (k Kind) IsAccessModifier() bool {
	return k == _Public || k == _Protected || k == _Internal
}

// Exported kinds for the type checker, code generator and tools.
const (
	EOF     Kind = _EOF
	Literal Kind = _Literal

	Assign Kind = _Assign
	OrOr   Kind = _OrOr
	AndAnd Kind = _AndAnd
	Eql    Kind = _Eql
	Neq    Kind = _Neq
	Lss    Kind = _Lss
	Leq    Kind = _Leq
	Gtr    Kind = _Gtr
	Geq    Kind = _Geq
	Add    Kind = _Add
	Sub    Kind = _Sub
	Mul    Kind = _Mul
	Div    Kind = _Div
	Rem    Kind = _Rem
	Not    Kind = _Not

	Lparen Kind = _Lparen
	Rparen Kind = _Rparen
	Lbrack Kind = _Lbrack
	Rbrack Kind = _Rbrack
	Lbrace Kind = _Lbrace
	Rbrace Kind = _Rbrace
)

// LitKind represents the kind of a literal.
type LitKind uint8

const (
	IntLit    LitKind = iota // 42
	DoubleLit                // 3.14
	StringLit                // "hello"
	CharLit                  // 'a'
	BoolLit                  // true, false
	NullLit                  // null
)

var litKindNames = [...]string{
	IntLit:    "integer",
	DoubleLit: "double",
	StringLit: "string",
	CharLit:   "character",
	BoolLit:   "boolean",
	NullLit:   "null",
}

// String returns the string representation of the literal kind.
func (k LitKind) String() string {
	if int(k) < len(litKindNames) {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// keywords maps keyword spellings to their token kind.
// "and" and "or" are spelled-out forms of && and ||.
var keywords = map[string]Kind{
	"afterall":  _Afterall,
	"because":   _Because,
	"constant":  _Constant,
	"false":     _False,
	"if":        _If,
	"import":    _Import,
	"internal":  _Internal,
	"module":    _Module,
	"new":       _New,
	"null":      _Null,
	"otherwise": _Otherwise,
	"protected": _Protected,
	"public":    _Public,
	"return":    _Return,
	"true":      _True,
	"while":     _While,

	"integer":   _Integer,
	"double":    _Double,
	"boolean":   _Boolean,
	"character": _Character,
	"String":    _String,
	"void":      _Void,

	"and": _AndAnd,
	"or":  _OrOr,
}

// LookupKeyword returns the kind for the given identifier string.
// If the identifier is a keyword, returns the keyword kind.
// Otherwise, returns the identifier kind.
func LookupKeyword(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return _Name
}

// Token is a single lexical token. Tokens are produced by the scanner and
// never modified afterwards.
type Token struct {
	Kind    Kind
	LitKind LitKind // valid when Kind == _Literal
	Lit     string  // identifier, literal value (decoded), or source spelling
	Pos     Pos     // start position
	End     Pos     // position immediately after the token
}

// String returns a short description of the token for messages.
func (t Token) String() string {
	switch t.Kind {
	case _EOF:
		return "end of file"
	case _Name:
		return fmt.Sprintf("identifier %q", t.Lit)
	case _Literal:
		return fmt.Sprintf("%s literal %q", t.LitKind, t.Lit)
	}
	return fmt.Sprintf("%q", t.Lit)
}
