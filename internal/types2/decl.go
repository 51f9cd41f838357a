package types2

import (
	"fmt"

	"github.com/you-not-fish/klar/internal/diag"
	"github.com/you-not-fish/klar/internal/syntax"
	"github.com/you-not-fish/klar/internal/types"
)

// typeRef resolves a written type. void is accepted only where allowVoid
// is set, and never as an array element.
func (c *Checker) typeRef(t *syntax.TypeRef, allowVoid bool, what string) (types.Symbol, error) {
	sym, ok := types.FromTypeName(t.Name, t.Array)
	if !ok {
		return sym, c.errorf(t.Pos(), diag.UnknownType, diag.Detail{
			Cause:    fmt.Sprintf("unknown type %s", t.Name),
			Expected: "integer, double, boolean, character or String",
			Fix:      "use one of the built-in types",
			Example:  "integer count = 0;",
			Span:     len(t.Name),
		})
	}
	if t.Name == "void" && (t.Array || !allowVoid) {
		return sym, c.errorf(t.Pos(), diag.UnknownType, diag.Detail{
			Cause:    fmt.Sprintf("%s cannot have type %s", what, t),
			Expected: "integer, double, boolean, character or String",
			Fix:      "void is only valid as a function result",
			Example:  "@Use(\"java\")\npublic void log(String message) {\n    println(message);\n    return;\n}",
			Span:     len(t.Name),
		})
	}
	return sym, nil
}

// collectFunc resolves a function signature and enters it into the function
// table.
func (c *Checker) collectFunc(fd *syntax.FuncDecl) error {
	result, err := c.typeRef(fd.Result, true, "a function result")
	if err != nil {
		return err
	}
	f := &types.FuncSymbol{Name: fd.Name.Value, Result: result}
	for _, p := range fd.Params {
		sym, err := c.typeRef(p.Type, false, "parameter "+p.Name.Value)
		if err != nil {
			return err
		}
		f.Params = append(f.Params, sym)
	}

	if prev := c.funcs.Lookup(f.Name); prev != nil {
		cause := fmt.Sprintf("function %s is already declared", f.Name)
		if prev.Builtin {
			cause = fmt.Sprintf("function %s redeclares a built-in function", f.Name)
		}
		return c.errorAt(fd.Name, diag.SymbolRedeclaration, diag.Detail{
			Cause:   cause,
			Fix:     "give the function a unique name",
			Example: "@Use(\"java\")\npublic void report() {\n    println(\"done\");\n    return;\n}",
		})
	}
	c.funcs.Declare(f)
	return nil
}

// funcDecl checks a function body in a scope holding the parameters.
func (c *Checker) funcDecl(fd *syntax.FuncDecl) error {
	f := c.funcs.Lookup(fd.Name.Value)

	if fd.Name.Value == "main" {
		var cause string
		switch {
		case len(fd.Params) > 0:
			cause = "main must not declare parameters"
		case !f.Result.IsVoid():
			cause = fmt.Sprintf("main must return void, not %s", f.Result)
		}
		if cause != "" {
			return c.errorAt(fd.Name, diag.InvalidMainSignature, diag.Detail{
				Cause:    cause,
				Expected: "public void main()",
				Fix:      "declare main without parameters and with a void result",
				Example:  "@Use(\"java\")\npublic void main() {\n    println(\"hello\");\n    return;\n}",
			})
		}
	}

	c.fn = f
	defer func() { c.fn = nil }()

	c.openScope(fd, "function "+f.Name)
	defer c.closeScope()
	if c.info != nil {
		c.info.Scopes[fd.Body] = c.scope
	}

	for i, p := range fd.Params {
		if err := c.declare(p.Name, f.Params[i]); err != nil {
			return err
		}
	}
	return c.stmts(fd.Body.Stmts)
}

// varDecl checks: Type Name [= Value];
func (c *Checker) varDecl(d *syntax.VarDecl) error {
	typ, err := c.typeRef(d.Type, false, "variable "+d.Name.Value)
	if err != nil {
		return err
	}
	if d.Value != nil {
		val, err := c.expr(d.Value, ctxInitialization)
		if err != nil {
			return err
		}
		if err := c.assignable(d.Value, typ, val, "the initializer of "+d.Name.Value); err != nil {
			return err
		}
	}
	return c.declare(d.Name, typ)
}

// constDecl checks: constant Type Name = Value;
func (c *Checker) constDecl(d *syntax.ConstDecl) error {
	typ, err := c.typeRef(d.Type, false, "constant "+d.Name.Value)
	if err != nil {
		return err
	}
	if bad := nonConstant(d.Value); bad != nil {
		return c.errorAt(bad, diag.NonConstantExpression, diag.Detail{
			Cause:   fmt.Sprintf("the value of constant %s must be known at compile time", d.Name.Value),
			Fix:     "build the value from literals and operators only",
			Example: "constant integer SECONDS_PER_DAY = 60 * 60 * 24;",
			Note:    "variables, constants and calls may not appear in a constant initializer",
		})
	}
	val, err := c.expr(d.Value, ctxInitialization)
	if err != nil {
		return err
	}
	if err := c.assignable(d.Value, typ, val, "the value of constant "+d.Name.Value); err != nil {
		return err
	}
	return c.declare(d.Name, types.NewConstant(typ))
}

// nonConstant returns the first node of e that is not a literal or an
// operator over literals, or nil if e is a compile-time constant.
func nonConstant(e syntax.Expr) syntax.Node {
	var bad syntax.Node
	syntax.Walk(e, func(n syntax.Node) bool {
		if bad != nil {
			return false
		}
		switch n.(type) {
		case *syntax.BasicLit, *syntax.Operation, *syntax.ParenExpr:
			return true
		}
		bad = n
		return false
	})
	return bad
}

// assignable reports a type mismatch if a value of type val (computed from
// e) cannot be stored in a location of type typ.
func (c *Checker) assignable(e syntax.Expr, typ, val types.Symbol, what string) error {
	if val.IsVoid() {
		return c.errorAt(e, diag.TypeMismatch, diag.Detail{
			Cause:   fmt.Sprintf("%s has no value", syntax.ExprString(e)),
			Fix:     "call a function that returns a value",
			Example: "integer total = add(1, 0);",
		})
	}
	if !typ.AssignableFrom(val) {
		return c.errorAt(e, diag.TypeMismatch, mismatch(what, typ.Underlying(), val, exampleFor(typ)))
	}
	return nil
}

// exampleFor returns a declaration of a variable of type typ.
func exampleFor(typ types.Symbol) string {
	u := typ.Underlying()
	if u.Kind() == types.Array {
		return fmt.Sprintf("%s values = new %s[2];", u, u.Elem())
	}
	switch u.Prim() {
	case types.Integer:
		return "integer count = 0;"
	case types.Double:
		return "double ratio = 0.5;"
	case types.Boolean:
		return "boolean ready = true;"
	case types.Character:
		return "character initial = 'k';"
	case types.String:
		return "String name = \"klar\";"
	}
	return ""
}
