package types2

import (
	"errors"
	"strings"
	"testing"

	"github.com/you-not-fish/klar/internal/diag"
	"github.com/you-not-fish/klar/internal/syntax"
	"github.com/you-not-fish/klar/internal/types"
)

// parseAndCheck parses and type-checks src, failing the test on parse errors.
func parseAndCheck(t *testing.T, src string) (*syntax.File, *Info, error) {
	t.Helper()
	f, err := syntax.Parse("test.kl", []byte(src))
	if err != nil {
		t.Fatalf("parse error: %v\nsource:\n%s", err, src)
	}
	info := &Info{}
	conf := &Config{Source: diag.Lines([]byte(src))}
	return f, info, Check(f, conf, info)
}

// expectNoErrors checks that src type-checks.
func expectNoErrors(t *testing.T, src string) (*syntax.File, *Info) {
	t.Helper()
	f, info, err := parseAndCheck(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v\nsource:\n%s", err, src)
	}
	return f, info
}

// expectErrors checks that src fails with the given code and returns the
// diagnostic.
func expectErrors(t *testing.T, src string, code diag.Code) *diag.Diagnostic {
	t.Helper()
	_, _, err := parseAndCheck(t, src)
	if err == nil {
		t.Fatalf("expected %s, got no error\nsource:\n%s", code, src)
	}
	var d *diag.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("error %v is not a *diag.Diagnostic", err)
	}
	if d.Code != code {
		t.Fatalf("got %s (%s), want %s\nsource:\n%s", d.Code, d.Cause, code, src)
	}
	if d.Phase != diag.Semantic {
		t.Errorf("phase = %s, want SEMANTIC", d.Phase)
	}
	return d
}

// mainWith wraps body lines in main. The first body line is line 3.
func mainWith(body string) string {
	return "@Use(\"java\")\npublic void main() {\n" + body + "\n    return;\n}\n"
}

// ----------------------------------------------------------------------------
// Valid programs

func TestCheckValidPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty main", mainWith("")},
		{"integer initializer", mainWith("integer x = 42;")},
		{"widening", mainWith("integer x = 3;\ndouble y = x;")},
		{"double literal initializer", mainWith("double ratio = 2.5;")},
		{"array round trip", mainWith("integer[] a = new integer[5];\na[0] = 1;\ninteger v = a[0];")},
		{"array initializer", mainWith("integer[] a = new integer[3] {1, 2, 3};")},
		{"array widening elements", mainWith("double[] d = new double[2] {1, 2.5};")},
		{"null string", mainWith("String s = null;")},
		{"null array", mainWith("integer[] a = null;")},
		{"string concat", mainWith("String s = \"n = \" + 3;")},
		{"char", mainWith("character c = 'k';")},
		{"zero and one anywhere", mainWith("integer i = 0;\nwhile (i < 1) {\n    i = i + 1;\n}")},
		{"println string", mainWith("println(\"hi\");")},
		{"print any", mainWith("print(true);\nprint('c');")},
		{"decision chain", mainWith("integer x = 5;\nif (x > 0) {\n    println(x);\n} otherwise (x < 0) because \"negative\" {\n    println(0);\n} afterall {\n    println(1);\n}")},
		{"logical ops", mainWith("boolean a = true;\nboolean b = !a && (a || false);")},
		{"unary minus", mainWith("integer x = -5;\ndouble y = -x;")},
		{"comparison of strings", mainWith("String s = \"a\";\nboolean b = s == \"a\";")},
		{"compare string with null", mainWith("String s = \"a\";\nboolean b = s != null;")},
		{"global constant", "constant integer LIMIT = 60 * 60;\n" + mainWith("integer i = 0;\nwhile (i < LIMIT) {\n    i = i + 1;\n}")},
		{"global variable", "integer total = 0;\n" + mainWith("total = total + 1;")},
		{"shadowing in block", mainWith("integer x = 0;\nwhile (x < 1) {\n    integer x = 1;\n}")},
		{"forward call", mainWith("integer s = add(1, 0);") + "@Use(\"java\")\npublic integer add(integer a, integer b) {\n    return a + b;\n}\n"},
		{"double result from integer", "@Use(\"java\")\npublic double half(integer n) {\n    return n / 2.0;\n}\n" + mainWith("")},
		{"module and import", "module app.core;\nimport app.util;\n" + mainWith("")},
		{"void returns null", "@Use(\"java\")\npublic void f() {\n    return null;\n}\n" + mainWith("")},
		{"index with variable", mainWith("integer[] a = new integer[3];\ninteger i = 1;\ninteger v = a[i];")},
		{"size from variable", mainWith("integer n = 4;\nString[] names = new String[n];")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectNoErrors(t, tt.src)
		})
	}
}

// ----------------------------------------------------------------------------
// Semantic errors

func TestCheckErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		// E201
		{"void variable", mainWith("void x;"), diag.UnknownType},
		{"void parameter", "@Use(\"java\")\npublic void f(void x) {\n    return;\n}\n" + mainWith(""), diag.UnknownType},
		{"void array", mainWith("void[] x;"), diag.UnknownType},

		// E206
		{"duplicate local", mainWith("integer x = 0;\ninteger x = 1;"), diag.SymbolRedeclaration},
		{"duplicate function", mainWith("") + mainWith(""), diag.SymbolRedeclaration},
		{"redeclared builtin", "@Use(\"java\")\npublic void println(String s) {\n    return;\n}\n" + mainWith(""), diag.SymbolRedeclaration},
		{"local shadows parameter", "@Use(\"java\")\npublic void f(integer a) {\n    integer a = 0;\n    return;\n}\n" + mainWith(""), diag.SymbolRedeclaration},
		{"duplicate global", "integer g = 0;\ninteger g = 1;\n" + mainWith(""), diag.SymbolRedeclaration},

		// E207
		{"double to integer", mainWith("double y = 3.5;\ninteger x = y;"), diag.TypeMismatch},
		{"array to integer", mainWith("integer[] a = new integer[5];\ninteger v = a;"), diag.TypeMismatch},
		{"string to integer", mainWith("integer x = \"a\";"), diag.TypeMismatch},
		{"null to integer", mainWith("integer x = null;"), diag.TypeMismatch},
		{"void value", "@Use(\"java\")\npublic void f() {\n    return;\n}\n" + mainWith("integer x = f();"), diag.TypeMismatch},
		{"argument type", "@Use(\"java\")\npublic void f(integer a) {\n    return;\n}\n" + mainWith("f(\"s\");"), diag.TypeMismatch},
		{"return type", "@Use(\"java\")\npublic integer f() {\n    return \"s\";\n}\n" + mainWith(""), diag.TypeMismatch},
		{"void returns value", "@Use(\"java\")\npublic void f() {\n    return true;\n}\n" + mainWith(""), diag.TypeMismatch},
		{"compare mismatch", mainWith("boolean b = 1 == \"a\";"), diag.TypeMismatch},
		{"index type", mainWith("integer[] a = new integer[3];\ninteger v = a[true];"), diag.TypeMismatch},
		{"size type", mainWith("integer[] a = new integer[true];"), diag.TypeMismatch},
		{"element type", mainWith("integer[] a = new integer[2] {1, \"x\"};"), diag.TypeMismatch},
		{"array element mismatch", mainWith("integer[] a = new integer[2];\ndouble[] d = a;"), diag.TypeMismatch},

		// E208
		{"too many arguments", "@Use(\"java\")\npublic void f(integer a) {\n    return;\n}\n" + mainWith("f(1, 0);"), diag.ArgumentCountMismatch},
		{"too few arguments", "@Use(\"java\")\npublic void f(integer a) {\n    return;\n}\n" + mainWith("f();"), diag.ArgumentCountMismatch},
		{"println arity", mainWith("println();"), diag.ArgumentCountMismatch},

		// E209
		{"assign constant", "constant integer LIMIT = 10;\n" + mainWith("LIMIT = 0;"), diag.InvalidAssignment},

		// E210
		{"main parameters", "@Use(\"java\")\npublic void main(integer a) {\n    return;\n}\n", diag.InvalidMainSignature},
		{"main result", "@Use(\"java\")\npublic integer main() {\n    return 0;\n}\n", diag.InvalidMainSignature},

		// E211
		{"integer condition", mainWith("integer x = 0;\nif (x) {\n    println(x);\n} afterall;"), diag.InvalidConditionType},
		{"string while", mainWith("while (\"yes\") {\n    println(0);\n}"), diag.InvalidConditionType},
		{"otherwise condition", mainWith("boolean b = true;\nif (b) {\n    println(0);\n} otherwise (0) because \"never\" {\n    println(1);\n} afterall;"), diag.InvalidConditionType},

		// E212
		{"magic in condition", mainWith("integer x = 0;\nif (x > 42) {\n    println(x);\n} afterall;"), diag.MagicNumberViolation},
		{"magic in argument", mainWith("print(add(2));") + "@Use(\"java\")\npublic integer add(integer a) {\n    return a;\n}\n", diag.MagicNumberViolation},
		{"magic in index", mainWith("integer[] a = new integer[5];\ninteger v = a[3];"), diag.MagicNumberViolation},
		{"magic in return", "@Use(\"java\")\npublic integer f() {\n    return 42;\n}\n" + mainWith(""), diag.MagicNumberViolation},
		{"double in condition", mainWith("double d = 0.5;\nwhile (d < 0.9) {\n    d = d + 0.1;\n}"), diag.MagicNumberViolation},
		{"double in argument", mainWith("println(2.5);"), diag.MagicNumberViolation},

		// E213
		{"constant from variable", mainWith("integer x = 0;\nconstant integer C = x;"), diag.NonConstantExpression},
		{"constant from call", "@Use(\"java\")\npublic integer f() {\n    return 0;\n}\nconstant integer C = f();\n" + mainWith(""), diag.NonConstantExpression},

		// E214
		{"negate boolean", mainWith("integer x = -true;"), diag.InvalidOperation},
		{"not integer", mainWith("boolean b = !0;"), diag.InvalidOperation},
		{"subtract strings", mainWith("String s = \"a\" - \"b\";"), diag.InvalidOperation},
		{"add booleans", mainWith("boolean b = true + false;"), diag.InvalidOperation},
		{"and integers", mainWith("boolean b = 0 && 1;"), diag.InvalidOperation},
		{"compare strings", mainWith("boolean b = \"a\" < \"b\";"), diag.InvalidOperation},
		{"void operand", "@Use(\"java\")\npublic void f() {\n    return;\n}\n" + mainWith("integer x = f() + 1;"), diag.InvalidOperation},

		// E215
		{"index integer", mainWith("integer x = 0;\ninteger v = x[0];"), diag.NotAnArray},

		// E216
		{"too many elements", mainWith("integer[] a = new integer[2] {1, 2, 3};"), diag.ArraySizeMismatch},

		// E217
		{"undeclared variable", mainWith("integer x = y;"), diag.UnresolvedSymbol},
		{"undeclared function", mainWith("foo();"), diag.UnresolvedSymbol},
		{"assign undeclared", mainWith("y = 0;"), diag.UnresolvedSymbol},
		{"out of scope", mainWith("boolean b = true;\nwhile (b) {\n    integer inner = 0;\n    b = false;\n}\ninteger v = inner;"), diag.UnresolvedSymbol},
		{"global declared later", mainWith("integer v = late;") + "integer late = 0;\n", diag.UnresolvedSymbol},
		{"function as variable", "@Use(\"java\")\npublic integer f() {\n    return 0;\n}\n" + mainWith("integer v = f;"), diag.UnresolvedSymbol},

		// E218
		{"bare return in integer function", "@Use(\"java\")\npublic integer f() {\n    return;\n}\n" + mainWith(""), diag.MissingReturnValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectErrors(t, tt.src, tt.code)
		})
	}
}

func TestCheckErrorPositions(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		line, col int
		span      int
	}{
		{"magic literal", mainWith("integer x = 0;\nif (x > 42) {\n    println(x);\n} afterall;"), 4, 9, 2},
		{"redeclared name", mainWith("integer x = 0;\ninteger x = 1;"), 4, 9, 1},
		{"unresolved name", mainWith("integer v = total;"), 3, 13, 5},
		{"main name", "@Use(\"java\")\npublic integer main() {\n    return 0;\n}\n", 2, 16, 4},
		{"bare return", "@Use(\"java\")\npublic integer f() {\n    return;\n}\n" + mainWith(""), 3, 5, 6},
		{"binary operator", mainWith("boolean b = true + false;"), 3, 18, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseAndCheck(t, tt.src)
			var d *diag.Diagnostic
			if !errors.As(err, &d) {
				t.Fatalf("got %v, want a diagnostic", err)
			}
			if d.Location.Line != tt.line || d.Location.Column != tt.col {
				t.Errorf("location = %d:%d, want %d:%d", d.Location.Line, d.Location.Column, tt.line, tt.col)
			}
			if d.Span != tt.span {
				t.Errorf("span = %d, want %d", d.Span, tt.span)
			}
			if d.Location.File != "test.kl" {
				t.Errorf("file = %q, want test.kl", d.Location.File)
			}
		})
	}
}

func TestCheckErrorDetail(t *testing.T) {
	d := expectErrors(t, mainWith("integer x = 0;\nif (x > 42) {\n    println(x);\n} afterall;"), diag.MagicNumberViolation)
	if !strings.Contains(d.Cause, "42") || !strings.Contains(d.Cause, "condition") {
		t.Errorf("cause %q does not name the literal and its context", d.Cause)
	}
	if !strings.Contains(d.Example, "constant integer LIMIT = 42;") {
		t.Errorf("example %q does not declare a constant", d.Example)
	}
	if len(d.ContextLines) == 0 {
		t.Error("no context lines")
	}

	d = expectErrors(t, "@Use(\"java\")\npublic integer f() {\n    return 0;\n}\n"+mainWith("integer v = f;"), diag.UnresolvedSymbol)
	if !strings.Contains(d.Cause, "is a function") {
		t.Errorf("cause %q does not mention the function", d.Cause)
	}

	d = expectErrors(t, mainWith("double y = 3.5;\ninteger x = y;"), diag.TypeMismatch)
	if d.Expected != "integer" {
		t.Errorf("expected = %q, want integer", d.Expected)
	}
}

func TestCheckFirstErrorWins(t *testing.T) {
	// Both lines are wrong; only the first is reported.
	d := expectErrors(t, mainWith("integer x = y;\ninteger x = 0;"), diag.UnresolvedSymbol)
	if d.Location.Line != 3 {
		t.Errorf("line = %d, want 3", d.Location.Line)
	}
}

// ----------------------------------------------------------------------------
// Recorded information

func TestCheckRecordsTypes(t *testing.T) {
	src := mainWith("integer x = 3;\ndouble y = x * 2.0;\nString s = \"v\" + y;\ninteger[] a = new integer[2];\ninteger e = a[0];")
	f, info := expectNoErrors(t, src)

	want := map[string]string{
		"3":              "integer",
		"x * 2.0":        "double",
		"\"v\" + y":      "String",
		"new integer[2]": "integer[]",
		"a[0]":           "integer",
		"a":              "integer[]",
		"x":              "integer",
		"2.0":            "double",
		"y":              "double",
	}
	seen := make(map[string]bool)
	syntax.Walk(f, func(n syntax.Node) bool {
		e, ok := n.(syntax.Expr)
		if !ok {
			return true
		}
		got, ok := info.Types[e]
		if !ok {
			return true
		}
		s := syntax.ExprString(e)
		if w, ok := want[s]; ok {
			seen[s] = true
			if got.String() != w {
				t.Errorf("TypeOf(%s) = %s, want %s", s, got, w)
			}
		}
		return true
	})
	for s := range want {
		if !seen[s] {
			t.Errorf("expression %s not found", s)
		}
	}
}

func TestCheckLiteralBit(t *testing.T) {
	f, info := expectNoErrors(t, mainWith("integer x = 3;\ninteger y = x;"))
	fd := f.Stmts[0].(*syntax.FuncDecl)
	lit := fd.Body.Stmts[0].(*syntax.VarDecl).Value
	ref := fd.Body.Stmts[1].(*syntax.VarDecl).Value
	if !info.TypeOf(lit).IsLiteral() {
		t.Errorf("literal 3 is not marked literal")
	}
	if info.TypeOf(ref).IsLiteral() {
		t.Errorf("variable x is marked literal")
	}
}

func TestCheckDefsAndScopes(t *testing.T) {
	src := "constant integer LIMIT = 10;\n@Use(\"java\")\npublic integer add(integer a, integer b) {\n    return a + b;\n}\n" +
		mainWith("boolean go = true;\nwhile (go) {\n    integer inner = 0;\n    go = false;\n}")
	f, info := expectNoErrors(t, src)

	defs := make(map[string]types.Symbol)
	for n, sym := range info.Defs {
		defs[n.Value] = sym
	}
	for name, want := range map[string]string{
		"LIMIT": "constant integer",
		"a":     "integer",
		"b":     "integer",
		"go":    "boolean",
		"inner": "integer",
	} {
		if got, ok := defs[name]; !ok || got.String() != want {
			t.Errorf("Defs[%s] = %v, want %s", name, got, want)
		}
	}

	global, ok := info.Scopes[f]
	if !ok {
		t.Fatal("no scope recorded for the file")
	}
	if info.ScopeTable.Parent(global) != types.NoScope {
		t.Errorf("global scope has a parent")
	}
	add := f.Stmts[1].(*syntax.FuncDecl)
	if info.Scopes[add] != info.Scopes[add.Body] {
		t.Errorf("function and body scopes differ")
	}
	if names := info.ScopeTable.Names(info.Scopes[add]); strings.Join(names, ",") != "a,b" {
		t.Errorf("add scope names = %v, want [a b]", names)
	}
	if info.Funcs.Lookup("add") == nil || info.Funcs.Lookup("println") == nil {
		t.Errorf("function table is missing entries")
	}
}

func TestCheckNilInfo(t *testing.T) {
	f, err := syntax.Parse("test.kl", []byte(mainWith("integer x = 0;")))
	if err != nil {
		t.Fatal(err)
	}
	if err := Check(f, nil, nil); err != nil {
		t.Fatalf("Check with nil config and info: %v", err)
	}
}

func TestTypeOfUnknown(t *testing.T) {
	var info *Info
	if !info.TypeOf(nil).IsUnknown() {
		t.Error("nil Info should report unknown")
	}
}

// The checker is deterministic: checking the same file twice yields the
// same diagnostic.
func TestCheckDeterministic(t *testing.T) {
	src := mainWith("integer x = 0;\nif (x > 42) {\n    println(x);\n} afterall;")
	_, _, err1 := parseAndCheck(t, src)
	_, _, err2 := parseAndCheck(t, src)
	if err1 == nil || err2 == nil || err1.Error() != err2.Error() {
		t.Errorf("results differ: %v vs %v", err1, err2)
	}
}
