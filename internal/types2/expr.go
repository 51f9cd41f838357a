package types2

import (
	"fmt"
	"strconv"

	"github.com/you-not-fish/klar/internal/diag"
	"github.com/you-not-fish/klar/internal/syntax"
	"github.com/you-not-fish/klar/internal/types"
)

// expr type-checks e in context ctx and records its symbol.
func (c *Checker) expr(e syntax.Expr, ctx exprContext) (types.Symbol, error) {
	sym, err := c.exprInternal(e, ctx)
	if err != nil {
		return sym, err
	}
	return c.record(e, sym), nil
}

func (c *Checker) exprInternal(e syntax.Expr, ctx exprContext) (types.Symbol, error) {
	switch e := e.(type) {
	case *syntax.BasicLit:
		return c.basicLit(e, ctx)

	case *syntax.Name:
		sym, ok := c.lookup(e.Value)
		if !ok {
			return sym, c.unresolved(e)
		}
		return sym, nil

	case *syntax.ParenExpr:
		return c.expr(e.X, ctx)

	case *syntax.Operation:
		if e.Y == nil {
			return c.unary(e, ctx)
		}
		return c.binary(e, ctx)

	case *syntax.CallExpr:
		return c.call(e)

	case *syntax.IndexExpr:
		return c.index(e)

	case *syntax.NewArrayExpr:
		return c.newArray(e, ctx)
	}
	panic(fmt.Sprintf("types2: unexpected expression %T", e))
}

// basicLit types a literal and applies the magic number policy: 0 and 1
// may appear anywhere, other integers only in assignments, initializers
// and expression statements, doubles only in assignments, initializers and
// return values.
func (c *Checker) basicLit(x *syntax.BasicLit, ctx exprContext) (types.Symbol, error) {
	switch x.Kind {
	case syntax.IntLit:
		if x.Value != "0" && x.Value != "1" && !ctx.allowsInt() {
			return types.Symbol{}, c.magicNumber(x, ctx)
		}
		return types.NewPrimitive(types.Integer, true), nil
	case syntax.DoubleLit:
		if !ctx.allowsDouble() {
			return types.Symbol{}, c.magicNumber(x, ctx)
		}
		return types.NewPrimitive(types.Double, true), nil
	case syntax.StringLit:
		return types.NewPrimitive(types.String, true), nil
	case syntax.CharLit:
		return types.NewPrimitive(types.Character, true), nil
	case syntax.BoolLit:
		return types.NewPrimitive(types.Boolean, true), nil
	case syntax.NullLit:
		return types.Typ(types.Null), nil
	}
	panic(fmt.Sprintf("types2: unexpected literal kind %s", x.Kind))
}

func (c *Checker) magicNumber(x *syntax.BasicLit, ctx exprContext) error {
	typ := "integer"
	if x.Kind == syntax.DoubleLit {
		typ = "double"
	}
	return c.errorAt(x, diag.MagicNumberViolation, diag.Detail{
		Cause:   fmt.Sprintf("magic number %s in %s", x.Value, ctx),
		Fix:     "give the value a name with a constant and use the constant instead",
		Example: fmt.Sprintf("constant %s LIMIT = %s;\n...\nif (value > LIMIT) {\n    ...\n} afterall;", typ, x.Value),
		Note:    "only 0 and 1 may be written directly outside assignments and initializers",
	})
}

// unresolved reports a reference to an undeclared variable.
func (c *Checker) unresolved(n *syntax.Name) error {
	cause := fmt.Sprintf("%s is not declared", n.Value)
	if c.funcs.Lookup(n.Value) != nil {
		cause = fmt.Sprintf("%s is a function, not a variable", n.Value)
	}
	return c.errorAt(n, diag.UnresolvedSymbol, diag.Detail{
		Cause:   cause,
		Fix:     fmt.Sprintf("declare %s before using it", n.Value),
		Example: fmt.Sprintf("integer %s = 0;", n.Value),
	})
}

// unary checks ! and unary -.
func (c *Checker) unary(x *syntax.Operation, ctx exprContext) (types.Symbol, error) {
	t, err := c.expr(x.X, ctx)
	if err != nil {
		return t, err
	}
	switch x.Op {
	case syntax.Not:
		if !t.IsBoolean() {
			return t, c.errorAt(x, diag.InvalidOperation, invalidUnary(x.Op, t, "boolean"))
		}
		return types.Typ(types.Boolean), nil
	case syntax.Sub:
		if !t.IsNumeric() {
			return t, c.errorAt(x, diag.InvalidOperation, invalidUnary(x.Op, t, "numeric"))
		}
		return types.Typ(t.Prim()), nil
	}
	panic(fmt.Sprintf("types2: unexpected unary operator %s", x.Op))
}

// binary checks a binary operation. Both operands inherit ctx.
func (c *Checker) binary(x *syntax.Operation, ctx exprContext) (types.Symbol, error) {
	lhs, err := c.expr(x.X, ctx)
	if err != nil {
		return lhs, err
	}
	rhs, err := c.expr(x.Y, ctx)
	if err != nil {
		return rhs, err
	}
	if lhs.IsVoid() || rhs.IsVoid() {
		return lhs, c.errorAt(x, diag.InvalidOperation, invalidBinary(x.Op, lhs, rhs, "non-void"))
	}

	switch x.Op {
	case syntax.Add:
		if lhs.IsString() || rhs.IsString() {
			return types.Typ(types.String), nil
		}
		if lhs.IsNumeric() && rhs.IsNumeric() {
			return arith(lhs, rhs), nil
		}
		return lhs, c.errorAt(x, diag.InvalidOperation, invalidBinary(x.Op, lhs, rhs, "numeric or String"))

	case syntax.Sub, syntax.Mul, syntax.Div, syntax.Rem:
		if lhs.IsNumeric() && rhs.IsNumeric() {
			return arith(lhs, rhs), nil
		}
		return lhs, c.errorAt(x, diag.InvalidOperation, invalidBinary(x.Op, lhs, rhs, "numeric"))

	case syntax.Eql, syntax.Neq:
		if !types.Comparable(lhs, rhs) {
			return lhs, c.errorAt(x, diag.TypeMismatch, diag.Detail{
				Cause:   fmt.Sprintf("cannot compare %s with %s", lhs, rhs),
				Fix:     "compare values of the same type",
				Example: "if (name == \"klar\") {\n    println(name);\n} afterall;",
			})
		}
		return types.Typ(types.Boolean), nil

	case syntax.Lss, syntax.Leq, syntax.Gtr, syntax.Geq:
		if lhs.IsNumeric() && rhs.IsNumeric() {
			return types.Typ(types.Boolean), nil
		}
		return lhs, c.errorAt(x, diag.InvalidOperation, invalidBinary(x.Op, lhs, rhs, "numeric"))

	case syntax.AndAnd, syntax.OrOr:
		if lhs.IsBoolean() && rhs.IsBoolean() {
			return types.Typ(types.Boolean), nil
		}
		return lhs, c.errorAt(x, diag.InvalidOperation, invalidBinary(x.Op, lhs, rhs, "boolean"))
	}
	panic(fmt.Sprintf("types2: unexpected binary operator %s", x.Op))
}

// arith returns the result type of arithmetic on two numeric operands.
func arith(x, y types.Symbol) types.Symbol {
	if x.IsDouble() || y.IsDouble() {
		return types.Typ(types.Double)
	}
	return types.Typ(types.Integer)
}

// call checks a function call. Arguments are evaluated in argument context.
func (c *Checker) call(x *syntax.CallExpr) (types.Symbol, error) {
	name := x.Fun.Value
	f := c.funcs.Lookup(name)
	if f == nil {
		cause := fmt.Sprintf("function %s is not declared", name)
		if _, ok := c.lookup(name); ok {
			cause = fmt.Sprintf("%s is a variable, not a function", name)
		}
		return types.Symbol{}, c.errorAt(x.Fun, diag.UnresolvedSymbol, diag.Detail{
			Cause:   cause,
			Fix:     fmt.Sprintf("declare function %s or check the spelling", name),
			Example: fmt.Sprintf("@Use(\"java\")\npublic void %s() {\n    return;\n}", name),
		})
	}

	if len(x.Args) != len(f.Params) {
		return f.Result, c.errorAt(x.Fun, diag.ArgumentCountMismatch, diag.Detail{
			Cause:    fmt.Sprintf("%s expects %d argument(s) but got %d", name, len(f.Params), len(x.Args)),
			Expected: f.String(),
			Fix:      "pass exactly one argument per parameter",
			Example:  callExample(f),
		})
	}

	for i, a := range x.Args {
		arg, err := c.expr(a, ctxArgument)
		if err != nil {
			return arg, err
		}
		what := fmt.Sprintf("argument %d of %s", i+1, name)
		if err := c.assignable(a, f.Params[i], arg, what); err != nil {
			return arg, err
		}
	}
	return f.Result, nil
}

func callExample(f *types.FuncSymbol) string {
	args := ""
	for i, p := range f.Params {
		if i > 0 {
			args += ", "
		}
		args += argName(p, i)
	}
	return fmt.Sprintf("%s(%s);", f.Name, args)
}

func argName(p types.Symbol, i int) string {
	if p.IsUnknown() {
		return "value"
	}
	return fmt.Sprintf("%s%d", p.Underlying().String()[:1], i+1)
}

// index checks X[Index]. The result is the element type, never a literal.
func (c *Checker) index(x *syntax.IndexExpr) (types.Symbol, error) {
	t, err := c.expr(x.X, ctxIndex)
	if err != nil {
		return t, err
	}
	if !t.IsArray() {
		return t, c.errorAt(x.X, diag.NotAnArray, diag.Detail{
			Cause:   fmt.Sprintf("%s has type %s and cannot be indexed", syntax.ExprString(x.X), t),
			Fix:     "index a variable declared with an array type",
			Example: "integer[] values = new integer[3];\ninteger first = values[0];",
		})
	}
	idx, err := c.expr(x.Index, ctxIndex)
	if err != nil {
		return idx, err
	}
	if !idx.IsInteger() {
		return idx, c.errorAt(x.Index, diag.TypeMismatch, diag.Detail{
			Cause:    fmt.Sprintf("array index has type %s", idx),
			Expected: "integer",
			Fix:      "index arrays with an integer",
			Example:  "integer first = values[0];",
		})
	}
	return t.Elem(), nil
}

// newArray checks new T[size] {init...}. The size and elements inherit ctx.
func (c *Checker) newArray(x *syntax.NewArrayExpr, ctx exprContext) (types.Symbol, error) {
	elem, ok := types.LookupPrim(x.Elem.Name)
	if !ok || elem == types.Void {
		return types.Symbol{}, c.errorf(x.Elem.Pos(), diag.UnknownType, diag.Detail{
			Cause:    fmt.Sprintf("arrays of %s are not allowed", x.Elem.Name),
			Expected: "integer, double, boolean, character or String",
			Fix:      "choose a value type for the elements",
			Example:  "integer[] values = new integer[3];",
			Span:     len(x.Elem.Name),
		})
	}
	arr := types.NewArray(elem)

	size, err := c.expr(x.Size, ctx)
	if err != nil {
		return size, err
	}
	if !size.IsInteger() {
		return size, c.errorAt(x.Size, diag.TypeMismatch, diag.Detail{
			Cause:    fmt.Sprintf("array size has type %s", size),
			Expected: "integer",
			Fix:      "give the array size as an integer",
			Example:  "integer[] values = new integer[3];",
		})
	}

	et := types.Typ(elem)
	for _, e := range x.Init {
		v, err := c.expr(e, ctx)
		if err != nil {
			return v, err
		}
		if err := c.assignable(e, et, v, "an element of "+arr.String()); err != nil {
			return v, err
		}
	}

	if n, ok := literalSize(x.Size); ok && len(x.Init) > n {
		return arr, c.errorAt(x.Init[n], diag.ArraySizeMismatch, diag.Detail{
			Cause:   fmt.Sprintf("array of size %d has %d initial elements", n, len(x.Init)),
			Fix:     "enlarge the array or remove elements",
			Example: "integer[] values = new integer[3] {1, 2, 3};",
		})
	}
	return arr, nil
}

// literalSize returns the value of an integer literal size expression.
func literalSize(e syntax.Expr) (int, bool) {
	for {
		p, ok := e.(*syntax.ParenExpr)
		if !ok {
			break
		}
		e = p.X
	}
	lit, ok := e.(*syntax.BasicLit)
	if !ok || lit.Kind != syntax.IntLit {
		return 0, false
	}
	n, err := strconv.Atoi(lit.Value)
	if err != nil {
		return 0, false
	}
	return n, true
}
