package types2

import (
	"fmt"
	"unicode/utf8"

	"github.com/you-not-fish/klar/internal/diag"
	"github.com/you-not-fish/klar/internal/syntax"
	"github.com/you-not-fish/klar/internal/types"
)

// errorf builds a semantic diagnostic at pos.
func (c *Checker) errorf(pos syntax.Pos, code diag.Code, d diag.Detail) error {
	return diag.New(code, pos.Location(), c.conf.Source, d)
}

// errorAt builds a semantic diagnostic whose caret covers n.
func (c *Checker) errorAt(n syntax.Node, code diag.Code, d diag.Detail) error {
	if d.Span == 0 {
		d.Span = span(n)
	}
	return c.errorf(n.Pos(), code, d)
}

// span returns the caret width for a node that starts on a single token.
func span(n syntax.Node) int {
	switch n := n.(type) {
	case *syntax.Name:
		return utf8.RuneCountInString(n.Value)
	case *syntax.BasicLit:
		switch n.Kind {
		case syntax.IntLit, syntax.DoubleLit, syntax.BoolLit, syntax.NullLit:
			return len(n.Value)
		}
	case *syntax.Operation:
		return len(n.Op.String())
	}
	return 1
}

func redeclared(name string) diag.Detail {
	return diag.Detail{
		Cause:   fmt.Sprintf("%s is already declared in this scope", name),
		Fix:     "rename one of the declarations",
		Example: "integer count = 0;\ninteger total = 0;",
	}
}

func mismatch(what string, want, got types.Symbol, example string) diag.Detail {
	return diag.Detail{
		Cause:    fmt.Sprintf("cannot use %s as %s in %s", got, want, what),
		Expected: want.String(),
		Fix:      fmt.Sprintf("provide a value of type %s", want),
		Example:  example,
		Note:     "integer values widen to double; no other conversion is implicit",
	}
}

func invalidBinary(op syntax.Kind, x, y types.Symbol, need string) diag.Detail {
	return diag.Detail{
		Cause:    fmt.Sprintf("operator %s is not defined between %s and %s", op, x, y),
		Expected: need + " operands",
		Fix:      fmt.Sprintf("use %s operands", need),
		Example:  "integer sum = a + b;\nboolean both = ready && valid;",
	}
}

func invalidUnary(op syntax.Kind, x types.Symbol, need string) diag.Detail {
	return diag.Detail{
		Cause:    fmt.Sprintf("operator %s is not defined on %s", op, x),
		Expected: need + " operand",
		Fix:      fmt.Sprintf("use a %s operand", need),
		Example:  "boolean done = !running;\ninteger neg = -count;",
	}
}
