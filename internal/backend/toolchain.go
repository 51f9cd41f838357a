package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Toolchain invokes javac and java. The zero value uses the tools on PATH
// and the process's standard streams.
type Toolchain struct {
	Javac string // default "javac"
	Java  string // default "java"

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// ToolError reports a failed toolchain command together with its output.
type ToolError struct {
	Cmd    string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Cmd, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

func (tc *Toolchain) javac() string {
	if tc.Javac != "" {
		return tc.Javac
	}
	return "javac"
}

func (tc *Toolchain) java() string {
	if tc.Java != "" {
		return tc.Java
	}
	return "java"
}

// Build compiles javaFile into classDir with javac. On failure the returned
// *ToolError carries the compiler output.
func (tc *Toolchain) Build(ctx context.Context, javaFile, classDir string) error {
	args := []string{"-encoding", "UTF-8", "-d", classDir, javaFile}
	cmd := exec.CommandContext(ctx, tc.javac(), args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return &ToolError{
			Cmd:    tc.javac() + " " + strings.Join(args, " "),
			Output: out.String(),
			Err:    err,
		}
	}
	return nil
}

// Run executes className from classDir with inherited streams and returns
// the program's exit code. A non-zero exit is not an error; err is set only
// when the program could not be started or was interrupted.
func (tc *Toolchain) Run(ctx context.Context, classDir, className string) (int, error) {
	args := []string{"-cp", classDir, className}
	cmd := exec.CommandContext(ctx, tc.java(), args...)
	cmd.Stdin = orDefault(tc.Stdin, os.Stdin)
	cmd.Stdout = orDefaultW(tc.Stdout, os.Stdout)
	cmd.Stderr = orDefaultW(tc.Stderr, os.Stderr)

	err := cmd.Run()
	var exit *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case ctx.Err() != nil:
		return -1, ctx.Err()
	case errors.As(err, &exit):
		return exit.ExitCode(), nil
	}
	return -1, &ToolError{Cmd: tc.java() + " " + strings.Join(args, " "), Err: err}
}

func orDefault(r, def io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return def
}

func orDefaultW(w, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}
