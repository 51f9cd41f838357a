package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// field prints a labelled child node one level deeper.
func (p *printer) field(label string, n Node) {
	p.printf("%s:\n", label)
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) block(label string, b *BlockStmt) {
	if b == nil {
		p.printf("%s: <none>\n", label)
		return
	}
	p.field(label, b)
}

func (p *printer) print(node Node) {
	if isNil(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		p.printf("File %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *ModuleDecl:
		p.printf("ModuleDecl %s %s\n", n.pos, n.Path)

	case *ImportDecl:
		p.printf("ImportDecl %s %s\n", n.pos, n.Path)

	case *FuncDecl:
		p.printf("FuncDecl %s\n", n.pos)
		p.indent++
		if n.Annotation != nil {
			p.printf("Annotation: @%s(%q)\n", n.Annotation.Name.Value, n.Annotation.Target)
		}
		p.printf("Access: %s\n", n.Access)
		p.printf("Result: %s\n", n.Result)
		p.printf("Name: %s\n", n.Name.Value)
		for _, prm := range n.Params {
			p.printf("Param: %s %s\n", prm.Type, prm.Name.Value)
		}
		p.block("Body", n.Body)
		p.indent--

	case *VarDecl:
		p.printf("VarDecl %s\n", n.pos)
		p.indent++
		p.printf("Type: %s\n", n.Type)
		p.printf("Name: %s\n", n.Name.Value)
		if n.Value != nil {
			p.field("Value", n.Value)
		}
		p.indent--

	case *ConstDecl:
		p.printf("ConstDecl %s\n", n.pos)
		p.indent++
		p.printf("Type: %s\n", n.Type)
		p.printf("Name: %s\n", n.Name.Value)
		p.field("Value", n.Value)
		p.indent--

	case *AssignStmt:
		p.printf("AssignStmt %s\n", n.pos)
		p.indent++
		p.field("Target", n.Target)
		p.field("Value", n.Value)
		p.indent--

	case *ExprStmt:
		p.printf("ExprStmt %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *BlockStmt:
		p.printf("BlockStmt %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *WhileStmt:
		p.printf("WhileStmt %s\n", n.pos)
		p.indent++
		p.field("Cond", n.Cond)
		p.block("Body", n.Body)
		p.indent--

	case *DecisionStmt:
		p.printf("DecisionStmt %s\n", n.pos)
		p.indent++
		p.field("Cond", n.Cond)
		p.block("Then", n.Then)
		for _, c := range n.Otherwise {
			p.print(c)
		}
		p.block("Afterall", n.Afterall)
		p.indent--

	case *OtherwiseClause:
		p.printf("Otherwise %s\n", n.pos)
		p.indent++
		p.field("Cond", n.Cond)
		if n.Reason != "" {
			p.printf("Because: %q\n", n.Reason)
		}
		p.block("Body", n.Body)
		p.indent--

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", n.pos)
		if n.Result != nil {
			p.indent++
			p.print(n.Result)
			p.indent--
		}

	case *Name:
		p.printf("Name %s %q\n", n.pos, n.Value)

	case *BasicLit:
		p.printf("BasicLit %s %s %q\n", n.pos, n.Kind, n.Value)

	case *Operation:
		if n.Y == nil {
			p.printf("UnaryOp %s %s\n", n.pos, n.Op)
			p.indent++
			p.print(n.X)
			p.indent--
		} else {
			p.printf("BinaryOp %s %s\n", n.pos, n.Op)
			p.indent++
			p.field("X", n.X)
			p.field("Y", n.Y)
			p.indent--
		}

	case *CallExpr:
		p.printf("CallExpr %s %s\n", n.pos, n.Fun.Value)
		if len(n.Args) > 0 {
			p.indent++
			p.printf("Args:\n")
			p.indent++
			for _, a := range n.Args {
				p.print(a)
			}
			p.indent -= 2
		}

	case *IndexExpr:
		p.printf("IndexExpr %s\n", n.pos)
		p.indent++
		p.field("X", n.X)
		p.field("Index", n.Index)
		p.indent--

	case *ParenExpr:
		p.printf("ParenExpr %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *NewArrayExpr:
		p.printf("NewArrayExpr %s %s\n", n.pos, n.Elem)
		p.indent++
		p.field("Size", n.Size)
		if n.HasInit {
			p.printf("Init: %d element(s)\n", len(n.Init))
			p.indent++
			for _, e := range n.Init {
				p.print(e)
			}
			p.indent--
		}
		p.indent--

	default:
		p.printf("<%T>\n", node)
	}
}

// ExprString returns the Klar source form of an expression.
func ExprString(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch x := e.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Name:
		b.WriteString(x.Value)
	case *BasicLit:
		switch x.Kind {
		case StringLit:
			b.WriteString(strconv.Quote(x.Value))
		case CharLit:
			b.WriteString(strconv.QuoteRune([]rune(x.Value)[0]))
		default:
			b.WriteString(x.Value)
		}
	case *Operation:
		if x.Y == nil {
			b.WriteString(x.Op.String())
			writeExpr(b, x.X)
			return
		}
		writeExpr(b, x.X)
		fmt.Fprintf(b, " %s ", x.Op)
		writeExpr(b, x.Y)
	case *CallExpr:
		b.WriteString(x.Fun.Value)
		b.WriteByte('(')
		for i, a := range x.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	case *IndexExpr:
		writeExpr(b, x.X)
		b.WriteByte('[')
		writeExpr(b, x.Index)
		b.WriteByte(']')
	case *ParenExpr:
		b.WriteByte('(')
		writeExpr(b, x.X)
		b.WriteByte(')')
	case *NewArrayExpr:
		fmt.Fprintf(b, "new %s[", x.Elem.Name)
		writeExpr(b, x.Size)
		b.WriteByte(']')
		if x.HasInit {
			b.WriteString(" {")
			for i, el := range x.Init {
				if i > 0 {
					b.WriteString(", ")
				}
				writeExpr(b, el)
			}
			b.WriteByte('}')
		}
	default:
		fmt.Fprintf(b, "<%T>", e)
	}
}
