package types

import "strings"

// FuncSymbol is the signature of a declared or built-in function.
type FuncSymbol struct {
	Name    string
	Result  Symbol
	Params  []Symbol
	Builtin bool
}

// String returns the signature, e.g. "integer add(integer, integer)".
func (f *FuncSymbol) String() string {
	var b strings.Builder
	b.WriteString(f.Result.String())
	b.WriteByte(' ')
	b.WriteString(f.Name)
	b.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	return b.String()
}

// FuncTable maps function names to signatures. Each table is private to
// one compilation.
type FuncTable struct {
	funcs map[string]*FuncSymbol
	order []*FuncSymbol
}

// NewFuncTable returns a table holding only the built-in functions.
func NewFuncTable() *FuncTable {
	t := &FuncTable{funcs: make(map[string]*FuncSymbol)}
	for _, b := range builtins() {
		t.Declare(b)
	}
	return t
}

// Declare adds f to the table. It reports false if a function with the
// same name, built-in or not, already exists.
func (t *FuncTable) Declare(f *FuncSymbol) bool {
	if _, dup := t.funcs[f.Name]; dup {
		return false
	}
	t.funcs[f.Name] = f
	t.order = append(t.order, f)
	return true
}

// Lookup returns the function named name, or nil.
func (t *FuncTable) Lookup(name string) *FuncSymbol {
	return t.funcs[name]
}

// Funcs returns all functions in declaration order, built-ins first.
func (t *FuncTable) Funcs() []*FuncSymbol {
	return t.order
}
