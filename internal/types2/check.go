package types2

import (
	"github.com/you-not-fish/klar/internal/diag"
	"github.com/you-not-fish/klar/internal/syntax"
	"github.com/you-not-fish/klar/internal/types"
)

// Checker is the type checker. A Checker checks exactly one file; all of
// its state is private to that run.
type Checker struct {
	conf *Config
	info *Info

	scopes *types.ScopeTable
	scope  types.ScopeID // current scope
	funcs  *types.FuncTable

	// Function context
	fn *types.FuncSymbol // function whose body is being checked, or nil
}

// checkFile type-checks a single file in two passes: signatures first, then
// every top-level statement in source order.
func (c *Checker) checkFile(file *syntax.File) error {
	c.openScope(file, "global")

	// Pass 1: collect function signatures
	for _, s := range file.Stmts {
		if fd, ok := s.(*syntax.FuncDecl); ok {
			if err := c.collectFunc(fd); err != nil {
				return err
			}
		}
	}

	// Pass 2: verify declarations and bodies
	for _, s := range file.Stmts {
		if err := c.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

// openScope creates a new scope as a child of the current scope.
func (c *Checker) openScope(n syntax.Node, comment string) types.ScopeID {
	s := c.scopes.New(c.scope, comment)
	c.scope = s
	if c.info != nil {
		c.info.Scopes[n] = s
	}
	return s
}

// closeScope returns to the parent scope.
func (c *Checker) closeScope() {
	c.scope = c.scopes.Parent(c.scope)
}

// lookup resolves a variable name in the current scope chain.
func (c *Checker) lookup(name string) (types.Symbol, bool) {
	sym, _, ok := c.scopes.Resolve(c.scope, name)
	return sym, ok
}

// declare declares a variable, constant or parameter in the current scope.
func (c *Checker) declare(name *syntax.Name, sym types.Symbol) error {
	if !c.scopes.Declare(c.scope, name.Value, sym) {
		return c.errorAt(name, diag.SymbolRedeclaration, redeclared(name.Value))
	}
	if c.info != nil {
		c.info.Defs[name] = sym
	}
	return nil
}

// record stores the symbol of an expression.
func (c *Checker) record(e syntax.Expr, sym types.Symbol) types.Symbol {
	if c.info != nil {
		c.info.Types[e] = sym
	}
	return sym
}
