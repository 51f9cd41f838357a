package e2e

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/you-not-fish/klar/internal/backend"
	"github.com/you-not-fish/klar/internal/compiler"
)

// testFiles returns the .kl programs in testdata.
func testFiles(t *testing.T) []string {
	t.Helper()
	files, err := filepath.Glob("testdata/*.kl")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no .kl test files found in testdata/")
	}
	return files
}

// compileFile runs the pipeline in-process.
func compileFile(t *testing.T, klFile string) *compiler.Result {
	t.Helper()
	src, err := compiler.LoadSource(klFile)
	if err != nil {
		t.Fatal(err)
	}
	res, err := compiler.Compile(context.Background(), src, klFile, compiler.Options{})
	if err != nil {
		t.Fatalf("compile:\n%v", err)
	}
	return res
}

// TestE2ECompiles checks that every test program translates to Java that
// re-tokenizes cleanly. It needs no JDK.
func TestE2ECompiles(t *testing.T) {
	for _, klFile := range testFiles(t) {
		name := strings.TrimSuffix(filepath.Base(klFile), ".kl")
		t.Run(name, func(t *testing.T) {
			res := compileFile(t, klFile)
			if res.ClassName != name {
				t.Errorf("class name = %s, want %s", res.ClassName, name)
			}
			if _, err := backend.TokenizeJava(res.Java); err != nil {
				t.Errorf("generated Java does not tokenize: %v\n%s", err, res.Java)
			}
		})
	}
}

// TestE2E runs end-to-end tests for all .kl files in testdata/.
// Each test:
//  1. Runs the full pipeline: lex → parse → check → resolve → generate
//  2. Writes the Java source to a temp directory
//  3. Compiles it with javac
//  4. Runs the class and captures stdout
//  5. Compares output against the .golden file
func TestE2E(t *testing.T) {
	files := testFiles(t)

	for _, tool := range []string{"javac", "java"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not found, skipping E2E tests", tool)
		}
	}
	if testing.Short() {
		t.Skip("skipping E2E tests in short mode")
	}

	for _, klFile := range files {
		name := strings.TrimSuffix(filepath.Base(klFile), ".kl")
		t.Run(name, func(t *testing.T) {
			runE2ETest(t, klFile)
		})
	}
}

// runE2ETest runs a single end-to-end test.
func runE2ETest(t *testing.T, klFile string) {
	t.Helper()

	goldenFile := strings.TrimSuffix(klFile, ".kl") + ".golden"
	expected, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}

	res := compileFile(t, klFile)

	tmpDir := t.TempDir()
	javaFile := filepath.Join(tmpDir, res.ClassName+".java")
	classDir := filepath.Join(tmpDir, "class")
	if err := os.WriteFile(javaFile, []byte(res.Java), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	tc := &backend.Toolchain{
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
	}
	ctx := context.Background()
	if err := tc.Build(ctx, javaFile, classDir); err != nil {
		t.Fatalf("javac failed:\n%v\n%s", err, res.Java)
	}
	code, err := tc.Run(ctx, classDir, res.ClassName)
	if err != nil {
		t.Fatalf("java failed: %v", err)
	}
	if code != 0 {
		t.Fatalf("program exited with code %d\nstderr:\n%s", code, stderr.String())
	}

	got := stdout.String()
	want := string(expected)
	if got != want {
		t.Errorf("output mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}
