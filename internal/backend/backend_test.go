package backend

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/you-not-fish/klar/internal/codegen"
	"github.com/you-not-fish/klar/internal/diag"
	"github.com/you-not-fish/klar/internal/syntax"
	"github.com/you-not-fish/klar/internal/types2"
)

func parse(t *testing.T, src string) *syntax.File {
	t.Helper()
	f, err := syntax.Parse("test.kl", []byte(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return f
}

func function(target, name string) string {
	return "@Use(\"" + target + "\")\npublic void " + name + "() {\n    return;\n}\n"
}

// fakeRun records probe invocations and answers from a table.
type fakeRun struct {
	calls []string
	fail  map[string]error
	block map[string]bool
}

func (f *fakeRun) run(ctx context.Context, name string, args ...string) error {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	if f.block[name] {
		<-ctx.Done()
		return errors.New("signal: killed")
	}
	return f.fail[name]
}

func resolveErr(t *testing.T, r *Resolver, src string) *diag.Diagnostic {
	t.Helper()
	err := r.Resolve(context.Background(), parse(t, src))
	var d *diag.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("Resolve: got %v, want a diagnostic", err)
	}
	if d.Phase != diag.Backend {
		t.Errorf("phase = %s, want BACKEND", d.Phase)
	}
	return d
}

func TestResolveTargets(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code // 0 means success
	}{
		{"java", function("java", "main"), 0},
		{"java upper case", function("Java", "main"), 0},
		{"java with spaces", function(" java ", "main"), 0},
		{"empty", function("", "main"), diag.MissingBackendTarget},
		{"blank", function("   ", "main"), diag.MissingBackendTarget},
		{"unsupported", function("python", "main"), diag.InvalidBackendBinding},
		{"second function", function("java", "main") + function("c", "helper"), diag.InvalidBackendBinding},
		{"no functions", "integer x = 0;\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resolver{}
			if tt.code == 0 {
				if err := r.Resolve(context.Background(), parse(t, tt.src)); err != nil {
					t.Fatalf("Resolve: %v", err)
				}
				return
			}
			if d := resolveErr(t, r, tt.src); d.Code != tt.code {
				t.Errorf("code = %s, want %s", d.Code, tt.code)
			}
		})
	}
}

// Missing annotations are syntax errors; an unsupported target is a backend
// error. The two are never confused.
func TestMissingAnnotationVersusUnsupportedTarget(t *testing.T) {
	_, err := syntax.Parse("test.kl", []byte("public void main() {\n    return;\n}\n"))
	var d *diag.Diagnostic
	if !errors.As(err, &d) || d.Code != diag.MissingAnnotation {
		t.Fatalf("missing annotation: got %v, want E113", err)
	}
	if d := resolveErr(t, &Resolver{}, function("rust", "main")); d.Code != diag.InvalidBackendBinding {
		t.Errorf("unsupported target: got %s, want E402", d.Code)
	}
}

func TestResolveLocation(t *testing.T) {
	src := function("java", "main") + function("cobol", "legacy")
	r := &Resolver{Source: diag.Lines([]byte(src))}
	d := resolveErr(t, r, src)
	if d.Location.Line != 5 || d.Location.Column != 6 {
		t.Errorf("location = %d:%d, want 5:6", d.Location.Line, d.Location.Column)
	}
	if d.Span != len(`"cobol"`) {
		t.Errorf("span = %d, want %d", d.Span, len(`"cobol"`))
	}
	if !strings.Contains(d.Cause, "cobol") {
		t.Errorf("cause %q does not name the target", d.Cause)
	}
	if len(d.ContextLines) == 0 || d.Example == "" {
		t.Errorf("diagnostic lacks context or example: %+v", d)
	}
}

func TestResolveProbe(t *testing.T) {
	src := function("java", "main") + function("java", "helper")

	t.Run("disabled", func(t *testing.T) {
		f := &fakeRun{}
		r := &Resolver{run: f.run}
		if err := r.Resolve(context.Background(), parse(t, src)); err != nil {
			t.Fatal(err)
		}
		if len(f.calls) != 0 {
			t.Errorf("probes ran without Probe: %v", f.calls)
		}
	})

	t.Run("success once", func(t *testing.T) {
		f := &fakeRun{}
		r := &Resolver{Probe: true, run: f.run}
		if err := r.Resolve(context.Background(), parse(t, src)); err != nil {
			t.Fatal(err)
		}
		want := []string{"java --version", "javac -version"}
		if strings.Join(f.calls, ";") != strings.Join(want, ";") {
			t.Errorf("calls = %v, want %v", f.calls, want)
		}
	})

	t.Run("missing tool", func(t *testing.T) {
		f := &fakeRun{fail: map[string]error{"javac": exec.ErrNotFound}}
		r := &Resolver{Probe: true, run: f.run}
		d := resolveErr(t, r, src)
		if d.Code != diag.BackendToolchainFailure {
			t.Fatalf("code = %s, want E404", d.Code)
		}
		if !strings.Contains(d.Fix, "javac -version") || strings.Contains(d.Fix, "java --version") {
			t.Errorf("fix %q should list only the failed probe", d.Fix)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		f := &fakeRun{block: map[string]bool{"java": true}}
		r := &Resolver{Probe: true, Timeout: 10 * time.Millisecond, run: f.run}
		d := resolveErr(t, r, src)
		if d.Code != diag.BackendProbeTimeout {
			t.Fatalf("code = %s, want E400", d.Code)
		}
		if !strings.Contains(d.Cause, "java --version") {
			t.Errorf("cause %q does not name the probe", d.Cause)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		f := &fakeRun{block: map[string]bool{"java": true}}
		r := &Resolver{Probe: true, run: f.run}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := r.Resolve(ctx, parse(t, src))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want context.Canceled", err)
		}
	})

	t.Run("bad target skips probe", func(t *testing.T) {
		f := &fakeRun{}
		r := &Resolver{Probe: true, run: f.run}
		resolveErr(t, r, function("go", "main"))
		if len(f.calls) != 0 {
			t.Errorf("probes ran for an invalid target: %v", f.calls)
		}
	})
}

// ----------------------------------------------------------------------------
// Java tokenizer

func TestTokenizeJava(t *testing.T) {
	src := `// header
public class Main { /* block
comment */
    static final int LIMIT = 10;
    double d = 3.5e2 + .5 + 1L;
    char c = '\'';
    char z = '\0';
    String s = "a \"quoted\" \\ string";
    boolean b = x >>>= 2 && y != z || !w;
    int[] v = java.util.Arrays.copyOf(new int[]{1, 2}, 3);
    String $名前 = null;
}`
	toks, err := TokenizeJava(src)
	if err != nil {
		t.Fatal(err)
	}
	find := func(text string) *JavaToken {
		for i := range toks {
			if toks[i].Text == text {
				return &toks[i]
			}
		}
		return nil
	}
	for text, kind := range map[string]JavaKind{
		"public":                     JavaIdent,
		"LIMIT":                      JavaIdent,
		"10":                         JavaNumber,
		"3.5e2":                      JavaNumber,
		".5":                         JavaNumber,
		"1L":                         JavaNumber,
		`'\''`:                       JavaChar,
		`'\0'`:                       JavaChar,
		`"a \"quoted\" \\ string"`: JavaString,
		">>>=":                       JavaOperator,
		"&&":                         JavaOperator,
		"!=":                         JavaOperator,
		"!":                          JavaOperator,
		"{":                          JavaSeparator,
		";":                          JavaSeparator,
		"$名前":                        JavaIdent,
	} {
		tok := find(text)
		if tok == nil {
			t.Errorf("token %s not found", text)
			continue
		}
		if tok.Kind != kind {
			t.Errorf("token %s has kind %s, want %s", text, tok.Kind, kind)
		}
	}
	for _, tok := range toks {
		if strings.Contains(tok.Text, "comment") || strings.Contains(tok.Text, "header") {
			t.Errorf("comment leaked into tokens: %q", tok.Text)
		}
	}
	if toks[0].Text != "public" || toks[0].Offset != len("// header\n") {
		t.Errorf("first token = %+v", toks[0])
	}
}

func TestTokenizeJavaErrors(t *testing.T) {
	for _, src := range []string{
		`String s = "unterminated;`,
		"String s = \"line\nbreak\";",
		"int x = 1abc;",
		"char c = '';",
		"int # = 0;",
	} {
		if _, err := TokenizeJava(src); err == nil {
			t.Errorf("TokenizeJava(%q) succeeded, want an error", src)
		}
	}
}

// Generated Java re-lexes as Java, and every Klar identifier survives in the
// token stream.
func TestGeneratedJavaRoundTrip(t *testing.T) {
	src := `module demo;
constant double RATE = 1.5;
String greeting = "héllo \"world\"\n";

@Use("java")
public double scale(integer n, double factor) {
    return n * factor;
}

@Use("java")
public void main() {
    integer[] values = new integer[4] {1, 0, 1};
    character c = '\'';
    integer class = 0;
    while (class < 1) {
        integer class = 1;
        values[class] = values[0] - -1;
    }
    if (greeting == null) {
        println(null);
    } otherwise (greeting != "x") because "not x" {
        print(scale(class, RATE));
    } afterall;
    return;
}
`
	f := parse(t, src)
	info := &types2.Info{}
	if err := types2.Check(f, nil, info); err != nil {
		t.Fatalf("check: %v", err)
	}
	var java bytes.Buffer
	if err := codegen.Generate(&java, f, info, "Demo"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	toks, err := TokenizeJava(java.String())
	if err != nil {
		t.Fatalf("generated Java does not re-lex: %v\n%s", err, java.String())
	}

	idents := make(map[string]bool)
	for _, tok := range toks {
		if tok.Kind == JavaIdent {
			idents[tok.Text] = true
		}
	}
	for _, want := range []string{"Demo", "RATE", "greeting", "scale", "values", "c", "class_", "main", "System"} {
		if !idents[want] {
			t.Errorf("identifier %s missing from generated Java:\n%s", want, java.String())
		}
	}
	var braces int
	for _, tok := range toks {
		switch tok.Text {
		case "{":
			braces++
		case "}":
			braces--
		}
		if braces < 0 {
			t.Fatalf("unbalanced braces in:\n%s", java.String())
		}
	}
	if braces != 0 {
		t.Errorf("unbalanced braces (%d) in:\n%s", braces, java.String())
	}
}

// ----------------------------------------------------------------------------
// Toolchain

func TestToolErrorMessage(t *testing.T) {
	err := &ToolError{Cmd: "javac -d out Main.java", Output: "Main.java:1: error\n", Err: errors.New("exit status 1")}
	want := "javac -d out Main.java: exit status 1\nMain.java:1: error"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, err.Err) {
		t.Error("ToolError does not unwrap")
	}
}

func TestToolchainMissingBinary(t *testing.T) {
	tc := &Toolchain{Javac: "klar-no-such-javac", Java: "klar-no-such-java"}
	err := tc.Build(context.Background(), "Main.java", t.TempDir())
	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("Build: got %v, want *ToolError", err)
	}
	code, err := tc.Run(context.Background(), t.TempDir(), "Main")
	if err == nil || code != -1 {
		t.Errorf("Run = %d, %v; want -1 and an error", code, err)
	}
}

func TestToolchainBuildAndRun(t *testing.T) {
	for _, tool := range []string{"javac", "java"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not found", tool)
		}
	}
	if testing.Short() {
		t.Skip("skipping toolchain test in short mode")
	}

	dir := t.TempDir()
	f := parse(t, function("java", "main"))
	info := &types2.Info{}
	if err := types2.Check(f, nil, info); err != nil {
		t.Fatal(err)
	}
	var java bytes.Buffer
	if err := codegen.Generate(&java, f, info, "Main"); err != nil {
		t.Fatal(err)
	}
	javaFile := filepath.Join(dir, "Main.java")
	if err := os.WriteFile(javaFile, java.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	tc := &Toolchain{Stdout: &out, Stderr: &out}
	if err := tc.Build(context.Background(), javaFile, dir); err != nil {
		t.Fatalf("Build: %v", err)
	}
	code, err := tc.Run(context.Background(), dir, "Main")
	if err != nil || code != 0 {
		t.Fatalf("Run = %d, %v; output:\n%s", code, err, out.String())
	}
}
