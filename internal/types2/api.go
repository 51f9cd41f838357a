// Package types2 implements type checking for the Klar programming language.
package types2

import (
	"github.com/you-not-fish/klar/internal/diag"
	"github.com/you-not-fish/klar/internal/syntax"
	"github.com/you-not-fish/klar/internal/types"
)

// Config specifies the configuration for type checking.
type Config struct {
	// Source supplies the context lines attached to diagnostics.
	// If nil, diagnostics carry no context.
	Source diag.SourceLines
}

// Info holds the results of type checking.
type Info struct {
	// Types maps every checked expression to its type symbol.
	Types map[syntax.Expr]types.Symbol

	// Defs maps declaring identifiers of variables, constants and
	// parameters to their declared symbols.
	Defs map[*syntax.Name]types.Symbol

	// Scopes maps the File, FuncDecl and BlockStmt nodes to their scopes in
	// ScopeTable. A function and its body share one scope.
	Scopes     map[syntax.Node]types.ScopeID
	ScopeTable *types.ScopeTable

	// Funcs is the function table, built-ins included.
	Funcs *types.FuncTable
}

// TypeOf returns the symbol recorded for e, or the unknown symbol.
func (info *Info) TypeOf(e syntax.Expr) types.Symbol {
	if info == nil {
		return types.Typ(types.Unknown)
	}
	if sym, ok := info.Types[e]; ok {
		return sym
	}
	return types.Typ(types.Unknown)
}

// Check type-checks a parsed file and returns the first error encountered,
// if any. Errors are *diag.Diagnostic values.
func Check(file *syntax.File, conf *Config, info *Info) error {
	if conf == nil {
		conf = &Config{}
	}

	// Initialize info maps if not provided
	if info != nil {
		if info.Types == nil {
			info.Types = make(map[syntax.Expr]types.Symbol)
		}
		if info.Defs == nil {
			info.Defs = make(map[*syntax.Name]types.Symbol)
		}
		if info.Scopes == nil {
			info.Scopes = make(map[syntax.Node]types.ScopeID)
		}
	}

	c := &Checker{
		conf:   conf,
		info:   info,
		scopes: new(types.ScopeTable),
		scope:  types.NoScope,
		funcs:  types.NewFuncTable(),
	}
	if info != nil {
		info.ScopeTable = c.scopes
		info.Funcs = c.funcs
	}
	return c.checkFile(file)
}
