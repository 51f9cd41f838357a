package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/you-not-fish/klar/internal/syntax"
	"github.com/you-not-fish/klar/internal/types"
)

// javaPrec returns the Java precedence of a binary operator (higher binds
// tighter). Unlike Klar, Java ranks equality below relational operators.
func javaPrec(op syntax.Kind) int {
	switch op {
	case syntax.OrOr:
		return 1
	case syntax.AndAnd:
		return 2
	case syntax.Eql, syntax.Neq:
		return 3
	case syntax.Lss, syntax.Leq, syntax.Gtr, syntax.Geq:
		return 4
	case syntax.Add, syntax.Sub:
		return 5
	case syntax.Mul, syntax.Div, syntax.Rem:
		return 6
	}
	return 7
}

// expr lowers an expression to Java source.
func (g *generator) expr(e syntax.Expr) (string, error) {
	var b strings.Builder
	if err := g.writeExpr(&b, e); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (g *generator) writeExpr(b *strings.Builder, e syntax.Expr) error {
	switch x := e.(type) {
	case *syntax.BasicLit:
		lit, err := javaLiteral(x)
		if err != nil {
			return err
		}
		b.WriteString(lit)

	case *syntax.Name:
		b.WriteString(g.vars.resolve(x.Value))

	case *syntax.ParenExpr:
		b.WriteByte('(')
		if err := g.writeExpr(b, x.X); err != nil {
			return err
		}
		b.WriteByte(')')

	case *syntax.Operation:
		if x.Y == nil {
			return g.writeUnary(b, x)
		}
		return g.writeBinary(b, x)

	case *syntax.CallExpr:
		return g.writeCall(b, x)

	case *syntax.IndexExpr:
		if err := g.writeExpr(b, x.X); err != nil {
			return err
		}
		b.WriteByte('[')
		if err := g.writeExpr(b, x.Index); err != nil {
			return err
		}
		b.WriteByte(']')

	case *syntax.NewArrayExpr:
		return g.writeNewArray(b, x)

	default:
		return fmt.Errorf("%w: expression %T", ErrUnsupportedNode, e)
	}
	return nil
}

func (g *generator) writeUnary(b *strings.Builder, x *syntax.Operation) error {
	operand, err := g.expr(x.X)
	if err != nil {
		return err
	}
	b.WriteString(x.Op.String())
	if _, ok := x.X.(*syntax.Operation); ok {
		// Nested operations keep their grouping: -(a + b), not -a + b.
		fmt.Fprintf(b, "(%s)", operand)
		return nil
	}
	b.WriteString(operand)
	return nil
}

func (g *generator) writeBinary(b *strings.Builder, x *syntax.Operation) error {
	lhs, err := g.operand(x.X, x.Op, false)
	if err != nil {
		return err
	}
	rhs, err := g.operand(x.Y, x.Op, true)
	if err != nil {
		return err
	}

	if (x.Op == syntax.Eql || x.Op == syntax.Neq) && g.stringCompare(x) {
		if x.Op == syntax.Neq {
			b.WriteByte('!')
		}
		fmt.Fprintf(b, "java.util.Objects.equals(%s, %s)", lhs, rhs)
		return nil
	}
	fmt.Fprintf(b, "%s %s %s", lhs, x.Op, rhs)
	return nil
}

// operand lowers an operand of op, adding parentheses where Java would
// otherwise group the tree differently.
func (g *generator) operand(e syntax.Expr, op syntax.Kind, right bool) (string, error) {
	s, err := g.expr(e)
	if err != nil {
		return "", err
	}
	inner, ok := e.(*syntax.Operation)
	if !ok || inner.Y == nil {
		return s, nil
	}
	if p, q := javaPrec(inner.Op), javaPrec(op); p < q || right && p == q {
		return "(" + s + ")", nil
	}
	return s, nil
}

// stringCompare reports whether the operands of x are compared as strings.
func (g *generator) stringCompare(x *syntax.Operation) bool {
	return g.info.TypeOf(x.X).IsString() || g.info.TypeOf(x.Y).IsString()
}

func (g *generator) writeCall(b *strings.Builder, x *syntax.CallExpr) error {
	name := x.Fun.Value
	switch name {
	case types.BuiltinPrint:
		b.WriteString("System.out.print(")
	case types.BuiltinPrintln:
		b.WriteString("System.out.println(")
	default:
		b.WriteString(g.methods.lookup(name))
		b.WriteByte('(')
	}
	builtin := name == types.BuiltinPrint || name == types.BuiltinPrintln
	for i, a := range x.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		if builtin && g.info.TypeOf(a).IsNull() {
			// println(null) is ambiguous between the char[] and String
			// overloads.
			b.WriteString("(Object) ")
		}
		if err := g.writeExpr(b, a); err != nil {
			return err
		}
	}
	b.WriteByte(')')
	return nil
}

// writeNewArray lowers new T[n] and new T[n] {a, b}. An initializer list
// shorter than n is padded with zero values by Arrays.copyOf.
func (g *generator) writeNewArray(b *strings.Builder, x *syntax.NewArrayExpr) error {
	elem, err := javaType(x.Elem)
	if err != nil {
		return err
	}
	size, err := g.expr(x.Size)
	if err != nil {
		return err
	}
	if !x.HasInit {
		fmt.Fprintf(b, "new %s[%s]", elem, size)
		return nil
	}
	fmt.Fprintf(b, "java.util.Arrays.copyOf(new %s[]{", elem)
	for i, e := range x.Init {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := g.writeExpr(b, e); err != nil {
			return err
		}
	}
	fmt.Fprintf(b, "}, %s)", size)
	return nil
}

// javaLiteral returns the Java spelling of a literal.
func javaLiteral(x *syntax.BasicLit) (string, error) {
	switch x.Kind {
	case syntax.IntLit:
		// Java reads a leading zero as octal.
		n, err := strconv.ParseInt(x.Value, 10, 32)
		if err != nil {
			return "", fmt.Errorf("%w: integer literal %s", ErrUnsupportedNode, x.Value)
		}
		return strconv.FormatInt(n, 10), nil
	case syntax.DoubleLit, syntax.BoolLit, syntax.NullLit:
		return x.Value, nil
	case syntax.StringLit:
		return `"` + javaEscape(x.Value, '"') + `"`, nil
	case syntax.CharLit:
		r := []rune(x.Value)
		if len(r) != 1 || r[0] > 0xFFFF {
			return "", fmt.Errorf("%w: character literal %q does not fit in a Java char", ErrUnsupportedNode, x.Value)
		}
		return "'" + javaEscape(x.Value, '\'') + "'", nil
	}
	return "", fmt.Errorf("%w: literal kind %s", ErrUnsupportedNode, x.Kind)
}

// javaEscape escapes s for a Java string or character literal delimited by
// quote. Non-ASCII characters are kept as is; the generated file is UTF-8.
func javaEscape(s string, quote rune) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r == quote:
				b.WriteByte('\\')
				b.WriteRune(r)
			case r < ' ' || r == 0x7f:
				// Octal, not \u: Java translates unicode escapes before
				// lexing.
				fmt.Fprintf(&b, `\%03o`, r)
			default:
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
