package types

import (
	"fmt"
	"sort"
	"strings"
)

// ScopeID addresses a scope inside a ScopeTable.
type ScopeID int

// NoScope is the parent of a root scope.
const NoScope ScopeID = -1

type scope struct {
	parent  ScopeID
	elems   map[string]Symbol
	comment string // debugging comment (e.g., "function main", "block")
}

// ScopeTable is an arena of lexical scopes. Scopes refer to their parent by
// id, never by pointer. The zero value is an empty table ready to use.
type ScopeTable struct {
	scopes []scope
}

// New creates a scope with the given parent and returns its id.
func (t *ScopeTable) New(parent ScopeID, comment string) ScopeID {
	if parent != NoScope {
		t.check(parent)
	}
	t.scopes = append(t.scopes, scope{
		parent:  parent,
		elems:   make(map[string]Symbol),
		comment: comment,
	})
	return ScopeID(len(t.scopes) - 1)
}

func (t *ScopeTable) check(id ScopeID) {
	if id < 0 || int(id) >= len(t.scopes) {
		panic(fmt.Sprintf("types: invalid scope id %d", id))
	}
}

// Len returns the number of scopes in the table.
func (t *ScopeTable) Len() int {
	return len(t.scopes)
}

// Parent returns the parent of id, or NoScope for a root scope.
func (t *ScopeTable) Parent(id ScopeID) ScopeID {
	t.check(id)
	return t.scopes[id].parent
}

// Comment returns the scope's comment (for debugging).
func (t *ScopeTable) Comment(id ScopeID) string {
	t.check(id)
	return t.scopes[id].comment
}

// Declare binds name to sym in scope id. It reports false, leaving the
// scope unchanged, if name is already declared in that same scope.
// Names in enclosing scopes may be shadowed.
func (t *ScopeTable) Declare(id ScopeID, name string, sym Symbol) bool {
	t.check(id)
	elems := t.scopes[id].elems
	if _, dup := elems[name]; dup {
		return false
	}
	elems[name] = sym
	return true
}

// Lookup returns the symbol bound to name in scope id only.
func (t *ScopeTable) Lookup(id ScopeID, name string) (Symbol, bool) {
	t.check(id)
	sym, ok := t.scopes[id].elems[name]
	return sym, ok
}

// Resolve looks name up starting at id and walking the parent chain.
// It returns the symbol and the scope that declares it.
func (t *ScopeTable) Resolve(id ScopeID, name string) (Symbol, ScopeID, bool) {
	for s := id; s != NoScope; s = t.Parent(s) {
		if sym, ok := t.scopes[s].elems[name]; ok {
			return sym, s, true
		}
	}
	return Symbol{}, NoScope, false
}

// Names returns the names declared in scope id, sorted.
func (t *ScopeTable) Names(id ScopeID) []string {
	t.check(id)
	names := make([]string, 0, len(t.scopes[id].elems))
	for name := range t.scopes[id].elems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns a string representation of scope id for debugging.
func (t *ScopeTable) String(id ScopeID) string {
	var b strings.Builder
	fmt.Fprintf(&b, "scope %d %q {\n", id, t.Comment(id))
	for _, name := range t.Names(id) {
		fmt.Fprintf(&b, "\t%s %s\n", name, t.scopes[id].elems[name])
	}
	b.WriteString("}")
	return b.String()
}
