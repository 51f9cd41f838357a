package types2

import (
	"fmt"

	"github.com/you-not-fish/klar/internal/diag"
	"github.com/you-not-fish/klar/internal/syntax"
	"github.com/you-not-fish/klar/internal/types"
)

// stmts checks a list of statements.
func (c *Checker) stmts(list []syntax.Stmt) error {
	for _, s := range list {
		if err := c.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

// stmt checks a single statement.
func (c *Checker) stmt(s syntax.Stmt) error {
	switch s := s.(type) {
	case *syntax.ModuleDecl, *syntax.ImportDecl:
		return nil

	case *syntax.FuncDecl:
		return c.funcDecl(s)

	case *syntax.VarDecl:
		return c.varDecl(s)

	case *syntax.ConstDecl:
		return c.constDecl(s)

	case *syntax.AssignStmt:
		return c.assignStmt(s)

	case *syntax.ExprStmt:
		_, err := c.expr(s.X, ctxGeneral)
		return err

	case *syntax.BlockStmt:
		return c.blockStmt(s, "block")

	case *syntax.WhileStmt:
		if err := c.condition(s.Cond, "while"); err != nil {
			return err
		}
		return c.blockStmt(s.Body, "while body")

	case *syntax.DecisionStmt:
		return c.decisionStmt(s)

	case *syntax.ReturnStmt:
		return c.returnStmt(s)
	}
	panic(fmt.Sprintf("types2: unexpected statement %T", s))
}

// blockStmt checks a block in its own scope.
func (c *Checker) blockStmt(b *syntax.BlockStmt, comment string) error {
	c.openScope(b, comment)
	defer c.closeScope()
	return c.stmts(b.Stmts)
}

// assignStmt checks: Target = Value;
func (c *Checker) assignStmt(s *syntax.AssignStmt) error {
	var target types.Symbol
	switch t := s.Target.(type) {
	case *syntax.Name:
		sym, ok := c.lookup(t.Value)
		if !ok {
			return c.unresolved(t)
		}
		if sym.IsConstant() {
			return c.errorAt(t, diag.InvalidAssignment, diag.Detail{
				Cause:   fmt.Sprintf("cannot assign to constant %s", t.Value),
				Fix:     "declare a variable instead if the value must change",
				Example: "integer limit = 10;\nlimit = limit + 1;",
			})
		}
		target = c.record(t, sym)

	case *syntax.IndexExpr:
		sym, err := c.expr(t, ctxAssignment)
		if err != nil {
			return err
		}
		target = sym

	default:
		return c.errorAt(s.Target, diag.InvalidAssignment, diag.Detail{
			Cause:   fmt.Sprintf("cannot assign to %s", syntax.ExprString(s.Target)),
			Fix:     "assign to a variable or an array element",
			Example: "values[0] = total;",
		})
	}

	val, err := c.expr(s.Value, ctxAssignment)
	if err != nil {
		return err
	}
	return c.assignable(s.Value, target, val, "assignment to "+syntax.ExprString(s.Target))
}

// condition checks that cond is exactly boolean.
func (c *Checker) condition(cond syntax.Expr, what string) error {
	sym, err := c.expr(cond, ctxCondition)
	if err != nil {
		return err
	}
	if !sym.IsBoolean() {
		return c.errorAt(cond, diag.InvalidConditionType, diag.Detail{
			Cause:    fmt.Sprintf("%s condition has type %s", what, sym),
			Expected: "boolean",
			Fix:      "compare the value explicitly",
			Example:  "if (count > 0) {\n    println(count);\n} afterall;",
		})
	}
	return nil
}

// decisionStmt checks every branch of an if/otherwise/afterall chain.
func (c *Checker) decisionStmt(s *syntax.DecisionStmt) error {
	if err := c.condition(s.Cond, "if"); err != nil {
		return err
	}
	if err := c.blockStmt(s.Then, "if"); err != nil {
		return err
	}
	for _, o := range s.Otherwise {
		if err := c.condition(o.Cond, "otherwise"); err != nil {
			return err
		}
		if err := c.blockStmt(o.Body, "otherwise"); err != nil {
			return err
		}
	}
	if s.Afterall != nil {
		return c.blockStmt(s.Afterall, "afterall")
	}
	return nil
}

// returnStmt checks a return against the enclosing function's result.
func (c *Checker) returnStmt(s *syntax.ReturnStmt) error {
	if c.fn == nil {
		return nil
	}
	result := c.fn.Result

	if result.IsVoid() {
		if s.Result == nil {
			return nil
		}
		val, err := c.expr(s.Result, ctxReturn)
		if err != nil {
			return err
		}
		if val.IsNull() {
			return nil
		}
		return c.errorAt(s.Result, diag.TypeMismatch, diag.Detail{
			Cause:   fmt.Sprintf("void function %s cannot return a value", c.fn.Name),
			Fix:     "use a bare return, or declare a result type",
			Example: "return;",
		})
	}

	if s.Result == nil {
		return c.errorf(s.Pos(), diag.MissingReturnValue, diag.Detail{
			Cause:    fmt.Sprintf("function %s must return a %s value", c.fn.Name, result),
			Expected: result.String(),
			Fix:      "return a value of the declared result type",
			Example:  "return total;",
			Span:     len("return"),
		})
	}
	val, err := c.expr(s.Result, ctxReturn)
	if err != nil {
		return err
	}
	return c.assignable(s.Result, result, val, "the result of "+c.fn.Name)
}
