package types

// Built-in function names.
const (
	BuiltinPrint   = "print"
	BuiltinPrintln = "println"
)

// builtins returns fresh copies of the predeclared functions. Both take a
// single argument of any type and return nothing.
func builtins() []*FuncSymbol {
	return []*FuncSymbol{
		{Name: BuiltinPrint, Result: Typ(Void), Params: []Symbol{Typ(Unknown)}, Builtin: true},
		{Name: BuiltinPrintln, Result: Typ(Void), Params: []Symbol{Typ(Unknown)}, Builtin: true},
	}
}

var typeNames = map[string]PrimKind{
	"integer":   Integer,
	"double":    Double,
	"boolean":   Boolean,
	"String":    String,
	"character": Character,
	"void":      Void,
}

// LookupPrim returns the primitive kind named by a type keyword.
func LookupPrim(name string) (PrimKind, bool) {
	k, ok := typeNames[name]
	return k, ok
}

// FromTypeName returns the symbol for a written type: a type keyword,
// optionally an array of it. It reports false for names that are not
// type keywords.
func FromTypeName(name string, array bool) (Symbol, bool) {
	k, ok := LookupPrim(name)
	if !ok {
		return Typ(Unknown), false
	}
	if array {
		return NewArray(k), true
	}
	return Typ(k), true
}
