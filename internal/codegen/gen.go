// Package codegen lowers a type-checked Klar file to Java source text.
//
// The output is a single public class holding one static method per Klar
// function and one static field per top-level variable or constant:
//
//	// module app.core
//
//	public class Main {
//	    static final int LIMIT = 10;
//
//	    public static void main(String[] args) {
//	        ...
//	    }
//	}
package codegen

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/klar/internal/syntax"
	"github.com/you-not-fish/klar/internal/types2"
)

// ErrUnsupportedNode is returned when the generator meets a node it has no
// lowering for. It indicates a compiler defect, not a user error.
var ErrUnsupportedNode = errors.New("codegen: unsupported node")

// generator holds the state for lowering one file.
type generator struct {
	e       emitter
	info    *types2.Info
	fields  members
	methods members
	vars    locals // locals of the method being emitted
	void    bool   // the method being emitted returns void

	// member bookkeeping for blank lines between class members
	emitted  int
	lastFunc bool
}

// Generate writes the Java translation of file as class className to w.
// file must have passed type checking with info.
func Generate(w io.Writer, file *syntax.File, info *types2.Info, className string) error {
	g := &generator{
		e:    emitter{w: w},
		info: info,
	}
	g.vars.fields = &g.fields
	if err := g.file(file, className); err != nil {
		return err
	}
	return g.e.err
}

func (g *generator) file(file *syntax.File, className string) error {
	header := false
	for _, s := range file.Stmts {
		switch s := s.(type) {
		case *syntax.ModuleDecl:
			g.e.emitComment("module " + s.Path)
			header = true
		case *syntax.ImportDecl:
			g.e.emitComment("import " + s.Path)
			header = true
		}
	}
	if header {
		g.e.emitLine()
	}

	// Functions and initializers may refer to members declared later.
	for _, s := range file.Stmts {
		switch s := s.(type) {
		case *syntax.VarDecl:
			g.fields.declare(s.Name.Value)
		case *syntax.ConstDecl:
			g.fields.declare(s.Name.Value)
		case *syntax.FuncDecl:
			g.methods.declare(s.Name.Value)
		}
	}

	g.e.open("public class %s", className)
	for _, s := range file.Stmts {
		if err := g.member(s); err != nil {
			return err
		}
	}
	g.e.close()
	return nil
}

// member lowers a top-level statement to a class member.
func (g *generator) member(s syntax.Stmt) error {
	switch s := s.(type) {
	case *syntax.ModuleDecl, *syntax.ImportDecl:
		return nil

	case *syntax.VarDecl:
		g.separate(false)
		return g.field("static", s.Type, s.Name, s.Value)

	case *syntax.ConstDecl:
		g.separate(false)
		return g.field("static final", s.Type, s.Name, s.Value)

	case *syntax.FuncDecl:
		g.separate(true)
		return g.funcDecl(s)
	}
	return fmt.Errorf("%w: top-level %T", ErrUnsupportedNode, s)
}

// separate writes a blank line before a function and before the first field
// following a function.
func (g *generator) separate(fn bool) {
	if g.emitted > 0 && (fn || g.lastFunc) {
		g.e.emitLine()
	}
	g.emitted++
	g.lastFunc = fn
}

func (g *generator) field(mods string, t *syntax.TypeRef, name *syntax.Name, value syntax.Expr) error {
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
	g.e.emit("%s %s %s = %s;", mods, typ, g.fields.lookup(name.Value), init)
	return nil
}

// funcDecl lowers a function to a static method.
func (g *generator) funcDecl(fd *syntax.FuncDecl) error {
	g.vars = locals{fields: &g.fields}
	g.vars.push()
	defer g.vars.pop()
	g.void = fd.Result.Name == "void" && !fd.Result.Array

	if fd.Name.Value == "main" {
		g.e.open("public static void main(String[] args)")
	} else {
		result, err := javaType(fd.Result)
		if err != nil {
			return err
		}
		params := make([]string, len(fd.Params))
		for i, p := range fd.Params {
			typ, err := javaType(p.Type)
			if err != nil {
				return err
			}
			params[i] = typ + " " + g.vars.declare(p.Name.Value)
		}
		g.e.open("%sstatic %s %s(%s)", accessPrefix(fd.Access), result, g.methods.lookup(fd.Name.Value), strings.Join(params, ", "))
	}

	if err := g.stmts(fd.Body.Stmts); err != nil {
		return err
	}
	g.e.close()
	return nil
}

// accessPrefix returns the Java modifier for a Klar access modifier.
// internal maps to package-private.
func accessPrefix(a syntax.AccessModifier) string {
	switch a {
	case syntax.Public:
		return "public "
	case syntax.Protected:
		return "protected "
	}
	return ""
}
