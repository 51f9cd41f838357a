package codegen

import (
	"fmt"

	"github.com/you-not-fish/klar/internal/syntax"
)

func (g *generator) stmts(list []syntax.Stmt) error {
	for _, s := range list {
		if err := g.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

// stmt lowers a statement inside a method body.
func (g *generator) stmt(s syntax.Stmt) error {
	switch s := s.(type) {
	case *syntax.VarDecl:
		return g.local("", s.Type, s.Name, s.Value)

	case *syntax.ConstDecl:
		return g.local("final ", s.Type, s.Name, s.Value)

	case *syntax.AssignStmt:
		target, err := g.expr(s.Target)
		if err != nil {
			return err
		}
		value, err := g.expr(s.Value)
		if err != nil {
			return err
		}
		g.e.emit("%s = %s;", target, value)
		return nil

	case *syntax.ExprStmt:
		x, err := g.expr(s.X)
		if err != nil {
			return err
		}
		g.e.emit("%s;", x)
		return nil

	case *syntax.BlockStmt:
		g.e.open("")
		if err := g.block(s); err != nil {
			return err
		}
		g.e.close()
		return nil

	case *syntax.WhileStmt:
		cond, err := g.expr(s.Cond)
		if err != nil {
			return err
		}
		if !g.constant(s.Cond) {
			g.e.open("while (%s)", cond)
		} else {
			// javac rejects the body of while (false) and any statement
			// after while (true) as unreachable. An if statement is exempt
			// from that analysis.
			g.e.open("while (true)")
			g.e.emit("if (!(%s)) break;", cond)
		}
		if err := g.block(s.Body); err != nil {
			return err
		}
		g.e.close()
		return nil

	case *syntax.DecisionStmt:
		return g.decision(s)

	case *syntax.ReturnStmt:
		return g.returnStmt(s)
	}
	return fmt.Errorf("%w: statement %T", ErrUnsupportedNode, s)
}

// constant reports whether Java may treat e as a constant expression: it is
// built from literals and constants only. A false positive is harmless.
func (g *generator) constant(e syntax.Expr) bool {
	switch x := e.(type) {
	case *syntax.BasicLit:
		return x.Kind != syntax.NullLit
	case *syntax.Name:
		return g.info.TypeOf(x).IsConstant()
	case *syntax.ParenExpr:
		return g.constant(x.X)
	case *syntax.Operation:
		return g.constant(x.X) && (x.Y == nil || g.constant(x.Y))
	}
	return false
}

// block lowers the statements of b in a new local scope. The caller writes
// the braces.
func (g *generator) block(b *syntax.BlockStmt) error {
	g.vars.push()
	defer g.vars.pop()
	return g.stmts(b.Stmts)
}

// local declares a method local. Locals without an initializer start at
// their type's zero value.
func (g *generator) local(mods string, t *syntax.TypeRef, name *syntax.Name, value syntax.Expr) error {
	typ, err := javaType(t)
	if err != nil {
		return err
	}
	init := zeroValue(t)
	if value != nil {
		if init, err = g.expr(value); err != nil {
			return err
		}
	}
	// The initializer is lowered before the name is declared: it still sees
	// any outer variable of the same name.
	g.e.emit("%s%s %s = %s;", mods, typ, g.vars.declare(name.Value), init)
	return nil
}

// decision lowers if/otherwise/afterall to an if/else-if/else chain.
func (g *generator) decision(s *syntax.DecisionStmt) error {
	cond, err := g.expr(s.Cond)
	if err != nil {
		return err
	}
	g.e.open("if (%s)", cond)
	if err := g.block(s.Then); err != nil {
		return err
	}
	for _, o := range s.Otherwise {
		cond, err := g.expr(o.Cond)
		if err != nil {
			return err
		}
		g.e.reopen(o.Reason, "else if (%s)", cond)
		if err := g.block(o.Body); err != nil {
			return err
		}
	}
	if s.Afterall != nil {
		g.e.reopen("", "else")
		if err := g.block(s.Afterall); err != nil {
			return err
		}
	}
	g.e.close()
	return nil
}

// returnStmt lowers a return. A void function returning null returns
// nothing in Java.
func (g *generator) returnStmt(s *syntax.ReturnStmt) error {
	if s.Result == nil || g.void && g.info.TypeOf(s.Result).IsNull() {
		g.e.emit("return;")
		return nil
	}
	x, err := g.expr(s.Result)
	if err != nil {
		return err
	}
	g.e.emit("return %s;", x)
	return nil
}
