// Package diag defines the structured diagnostics reported by every phase of
// the Klar compiler.
package diag

import "fmt"

// Phase identifies the compiler phase that produced a diagnostic.
type Phase uint8

const (
	Lexical Phase = iota
	Syntax
	Semantic
	Backend
)

var phaseNames = [...]string{
	Lexical:  "LEXICAL",
	Syntax:   "SYNTAX",
	Semantic: "SEMANTIC",
	Backend:  "BACKEND",
}

// String returns the upper-case phase name used in rendered diagnostics.
func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", p)
}

// Code is a diagnostic code. Its numeric value is the number printed after
// the "E" prefix; the hundreds digit encodes the phase.
type Code uint16

// Lexical codes.
const (
	UnexpectedCharacter  Code = 1
	UnterminatedString   Code = 2
	MalformedCharLiteral Code = 3
)

// Syntax codes.
const (
	UnexpectedToken            Code = 100
	InvalidNumericLiteral      Code = 101
	MissingSemicolon           Code = 102
	ExpectedType               Code = 103
	MissingArrayBracket        Code = 105
	MissingArraySize           Code = 106
	MalformedArrayInitializer  Code = 107
	ExpectedExpression         Code = 108
	MissingReturnType          Code = 109
	MissingParameterType       Code = 110
	MisplacedAfterall          Code = 111
	MissingAccessModifier      Code = 112
	MissingAnnotation          Code = 113
	UnknownAnnotation          Code = 114
	MultipleReturnStatements   Code = 115
	InvalidReturnPlacement     Code = 116
	MissingReturnStatement     Code = 117
	MissingAfterall            Code = 118
	NestedFunctionDeclaration  Code = 119
	StatementOutsideFunction   Code = 120
	InvalidExpressionStatement Code = 121
)

// Semantic codes.
const (
	UnknownType           Code = 201
	SymbolRedeclaration   Code = 206
	TypeMismatch          Code = 207
	ArgumentCountMismatch Code = 208
	InvalidAssignment     Code = 209
	InvalidMainSignature  Code = 210
	InvalidConditionType  Code = 211
	MagicNumberViolation  Code = 212
	NonConstantExpression Code = 213
	InvalidOperation      Code = 214
	NotAnArray            Code = 215
	ArraySizeMismatch     Code = 216
	UnresolvedSymbol      Code = 217
	MissingReturnValue    Code = 218
)

// Backend codes.
const (
	BackendProbeTimeout     Code = 400
	MissingBackendTarget    Code = 401
	InvalidBackendBinding   Code = 402
	BackendToolchainFailure Code = 404
)

var codeNames = map[Code]string{
	UnexpectedCharacter:  "UnexpectedCharacter",
	UnterminatedString:   "UnterminatedString",
	MalformedCharLiteral: "MalformedCharLiteral",

	UnexpectedToken:            "UnexpectedToken",
	InvalidNumericLiteral:      "InvalidNumericLiteral",
	MissingSemicolon:           "MissingSemicolon",
	ExpectedType:               "ExpectedType",
	MissingArrayBracket:        "MissingArrayBracket",
	MissingArraySize:           "MissingArraySize",
	MalformedArrayInitializer:  "MalformedArrayInitializer",
	ExpectedExpression:         "ExpectedExpression",
	MissingReturnType:          "MissingReturnType",
	MissingParameterType:       "MissingParameterType",
	MisplacedAfterall:          "MisplacedAfterall",
	MissingAccessModifier:      "MissingAccessModifier",
	MissingAnnotation:          "MissingAnnotation",
	UnknownAnnotation:          "UnknownAnnotation",
	MultipleReturnStatements:   "MultipleReturnStatements",
	InvalidReturnPlacement:     "InvalidReturnPlacement",
	MissingReturnStatement:     "MissingReturnStatement",
	MissingAfterall:            "MissingAfterall",
	NestedFunctionDeclaration:  "NestedFunctionDeclaration",
	StatementOutsideFunction:   "StatementOutsideFunction",
	InvalidExpressionStatement: "InvalidExpressionStatement",

	UnknownType:           "UnknownType",
	SymbolRedeclaration:   "SymbolRedeclaration",
	TypeMismatch:          "TypeMismatch",
	ArgumentCountMismatch: "ArgumentCountMismatch",
	InvalidAssignment:     "InvalidAssignment",
	InvalidMainSignature:  "InvalidMainSignature",
	InvalidConditionType:  "InvalidConditionType",
	MagicNumberViolation:  "MagicNumberViolation",
	NonConstantExpression: "NonConstantExpression",
	InvalidOperation:      "InvalidOperation",
	NotAnArray:            "NotAnArray",
	ArraySizeMismatch:     "ArraySizeMismatch",
	UnresolvedSymbol:      "UnresolvedSymbol",
	MissingReturnValue:    "MissingReturnValue",

	BackendProbeTimeout:     "BackendProbeTimeout",
	MissingBackendTarget:    "MissingBackendTarget",
	InvalidBackendBinding:   "InvalidBackendBinding",
	BackendToolchainFailure: "BackendToolchainFailure",
}

// String returns the code in "E212" form.
func (c Code) String() string {
	return fmt.Sprintf("E%03d", uint16(c))
}

// Name returns the human-readable name of the code, e.g. "MagicNumberViolation".
func (c Code) Name() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return "Unknown"
}

// Phase returns the phase a code belongs to.
func (c Code) Phase() Phase {
	switch {
	case c < 100:
		return Lexical
	case c < 200:
		return Syntax
	case c < 400:
		return Semantic
	}
	return Backend
}

// Known reports whether c is a registered code.
func (c Code) Known() bool {
	_, ok := codeNames[c]
	return ok
}
