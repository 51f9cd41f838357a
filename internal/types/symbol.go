// Package types declares the type symbols, scopes and function table used by
// the Klar type checker.
package types

import "fmt"

// SymbolKind identifies the variant of a Symbol.
type SymbolKind uint8

const (
	Primitive SymbolKind = iota // a primitive value type
	Array                       // a one-dimensional array of a primitive
	Constant                    // a read-only wrapper around a Primitive or Array
)

func (k SymbolKind) String() string {
	switch k {
	case Primitive:
		return "primitive"
	case Array:
		return "array"
	case Constant:
		return "constant"
	}
	return fmt.Sprintf("SymbolKind(%d)", k)
}

// PrimKind describes a primitive type.
type PrimKind uint8

const (
	Unknown PrimKind = iota // result of a failed lookup; compatible with everything
	Integer
	Double
	Boolean
	String
	Character
	Void
	Null
)

var primNames = [...]string{
	Unknown:   "unknown",
	Integer:   "integer",
	Double:    "double",
	Boolean:   "boolean",
	String:    "String",
	Character: "character",
	Void:      "void",
	Null:      "null",
}

func (k PrimKind) String() string {
	if int(k) < len(primNames) {
		return primNames[k]
	}
	return fmt.Sprintf("PrimKind(%d)", k)
}

// Symbol is the type of a Klar value. It is a tagged union over
// SymbolKind; the zero value is the unknown primitive.
//
// For Primitive symbols base is the type; for Array symbols base is the
// element type. A Constant records the variant it wraps in inner and
// shares base with it. Constants never wrap constants.
type Symbol struct {
	kind    SymbolKind
	base    PrimKind
	inner   SymbolKind // Constant only
	literal bool       // Primitive only: the value was written as a literal
}

// NewPrimitive returns the primitive symbol for k.
func NewPrimitive(k PrimKind, literal bool) Symbol {
	return Symbol{kind: Primitive, base: k, literal: literal}
}

// NewArray returns the array symbol with element type elem.
func NewArray(elem PrimKind) Symbol {
	return Symbol{kind: Array, base: elem}
}

// NewConstant wraps s in a Constant. Wrapping a constant returns it
// unchanged, so queries always reach the innermost non-constant symbol.
func NewConstant(s Symbol) Symbol {
	switch s.kind {
	case Primitive, Array:
		return Symbol{kind: Constant, base: s.base, inner: s.kind}
	case Constant:
		return s
	}
	panic(badKind(s.kind))
}

// Typ returns the non-literal primitive symbol for k.
func Typ(k PrimKind) Symbol {
	return NewPrimitive(k, false)
}

func badKind(k SymbolKind) string {
	return fmt.Sprintf("types: unexpected symbol kind %s", k)
}

// Kind returns the variant of s.
func (s Symbol) Kind() SymbolKind { return s.kind }

// Underlying returns s with any Constant wrapper removed.
func (s Symbol) Underlying() Symbol {
	switch s.kind {
	case Primitive, Array:
		return s
	case Constant:
		return Symbol{kind: s.inner, base: s.base}
	}
	panic(badKind(s.kind))
}

// Prim returns the primitive kind of a Primitive symbol. It returns Unknown
// for arrays.
func (s Symbol) Prim() PrimKind {
	u := s.Underlying()
	if u.kind == Primitive {
		return u.base
	}
	return Unknown
}

// Elem returns the element type of an array symbol as a non-literal
// primitive. It panics if s is not an array.
func (s Symbol) Elem() Symbol {
	u := s.Underlying()
	if u.kind != Array {
		panic(fmt.Sprintf("types: Elem of non-array %s", s))
	}
	return Typ(u.base)
}

// IsLiteral reports whether s is a primitive produced by a literal.
func (s Symbol) IsLiteral() bool {
	return s.kind == Primitive && s.literal
}

// IsConstant reports whether s is a Constant.
func (s Symbol) IsConstant() bool {
	return s.kind == Constant
}

// IsArray reports whether the underlying symbol is an array.
func (s Symbol) IsArray() bool {
	return s.Underlying().kind == Array
}

func (s Symbol) isPrim(k PrimKind) bool {
	switch s.kind {
	case Primitive:
		return s.base == k
	case Array:
		return false
	case Constant:
		return s.Underlying().isPrim(k)
	}
	panic(badKind(s.kind))
}

func (s Symbol) IsInteger() bool { return s.isPrim(Integer) }
func (s Symbol) IsDouble() bool  { return s.isPrim(Double) }
func (s Symbol) IsBoolean() bool { return s.isPrim(Boolean) }
func (s Symbol) IsString() bool  { return s.isPrim(String) }
func (s Symbol) IsVoid() bool    { return s.isPrim(Void) }
func (s Symbol) IsNull() bool    { return s.isPrim(Null) }
func (s Symbol) IsUnknown() bool { return s.isPrim(Unknown) }

// IsNumeric reports whether s is integer or double.
func (s Symbol) IsNumeric() bool {
	return s.IsInteger() || s.IsDouble()
}

// IsReference reports whether values of s are object references in the
// generated code: strings, arrays and null.
func (s Symbol) IsReference() bool {
	switch s.kind {
	case Primitive:
		return s.base == String || s.base == Null
	case Array:
		return true
	case Constant:
		return s.Underlying().IsReference()
	}
	panic(badKind(s.kind))
}

// String returns the symbol as written in Klar source.
func (s Symbol) String() string {
	switch s.kind {
	case Primitive:
		return s.base.String()
	case Array:
		return s.base.String() + "[]"
	case Constant:
		return "constant " + s.Underlying().String()
	}
	panic(badKind(s.kind))
}
