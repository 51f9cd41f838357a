// Package backend resolves the backend target of each Klar function and
// drives the Java toolchain.
package backend

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/you-not-fish/klar/internal/diag"
	"github.com/you-not-fish/klar/internal/syntax"
)

// TargetJava is the only supported backend target.
const TargetJava = "java"

// DefaultProbeTimeout bounds each toolchain probe when a Resolver is built by
// the command line.
const DefaultProbeTimeout = 2 * time.Second

// exampleUse is the example attached to every backend diagnostic.
const exampleUse = "@Use(\"java\")\npublic void main() {\n    return;\n}"

// probe is a command whose successful exit shows that a tool works.
type probe struct {
	tool string
	args []string
}

var javaProbes = []probe{
	{"java", []string{"--version"}},
	{"javac", []string{"-version"}},
}

// runFunc runs a command to completion, discarding its output.
type runFunc func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Resolver checks the @Use target of every function and, with Probe set,
// that the Java toolchain is installed and responds.
type Resolver struct {
	// Probe enables running java --version and javac -version.
	Probe bool

	// Timeout bounds each probe. Zero waits indefinitely.
	Timeout time.Duration

	// Source supplies diagnostic context lines.
	Source diag.SourceLines

	run runFunc // nil means runCommand
}

// Resolve validates the backend target of every function in file. The first
// failure is returned as a *diag.Diagnostic. The toolchain is probed at most
// once per call.
func (r *Resolver) Resolve(ctx context.Context, file *syntax.File) error {
	probed := false
	for _, s := range file.Stmts {
		fd, ok := s.(*syntax.FuncDecl)
		if !ok || fd.Annotation == nil {
			continue
		}
		a := fd.Annotation
		target := strings.TrimSpace(a.Target)
		switch {
		case target == "":
			return r.errorAt(a, diag.MissingBackendTarget, diag.Detail{
				Cause: fmt.Sprintf("function %s has an empty backend target", fd.Name.Value),
				Fix:   "use a supported backend (currently only \"java\")",
			})
		case !strings.EqualFold(target, TargetJava):
			return r.errorAt(a, diag.InvalidBackendBinding, diag.Detail{
				Cause: fmt.Sprintf("unsupported backend target %q", target),
				Fix:   "use a supported backend (currently only \"java\")",
			})
		}
		if r.Probe && !probed {
			if err := r.probe(ctx, a); err != nil {
				return err
			}
			probed = true
		}
	}
	return nil
}

// probe runs every Java probe and reports the first timeout, or all failed
// probes together.
func (r *Resolver) probe(ctx context.Context, a *syntax.Annotation) error {
	run := r.run
	if run == nil {
		run = runCommand
	}

	var failed []string
	for _, p := range javaProbes {
		cmd := p.tool + " " + strings.Join(p.args, " ")
		err := r.runProbe(ctx, run, p)
		switch {
		case err == nil:
			continue
		case errors.Is(err, context.DeadlineExceeded):
			return r.errorAt(a, diag.BackendProbeTimeout, diag.Detail{
				Cause: fmt.Sprintf("backend toolchain probe timed out: %s", cmd),
				Fix:   fmt.Sprintf("make sure the tool is installed and responsive; try running %s manually", cmd),
				Note:  "Klar requires a responsive java and javac",
			})
		case ctx.Err() != nil:
			return ctx.Err()
		}
		failed = append(failed, fmt.Sprintf("%s (%v)", cmd, err))
	}
	if len(failed) > 0 {
		return r.errorAt(a, diag.BackendToolchainFailure, diag.Detail{
			Cause: "backend toolchain verification failed for target java",
			Fix:   "install or repair the missing tools and retry; failed checks: " + strings.Join(failed, ", "),
			Note:  "Klar requires a working java and javac on PATH",
		})
	}
	return nil
}

func (r *Resolver) runProbe(ctx context.Context, run runFunc, p probe) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	err := run(ctx, p.tool, p.args...)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return err
}

// errorAt builds a backend diagnostic pointing at the annotation's target.
func (r *Resolver) errorAt(a *syntax.Annotation, code diag.Code, d diag.Detail) error {
	pos := a.TargetPos
	if !pos.IsValid() {
		pos = a.Pos()
	}
	d.Example = exampleUse
	d.Span = utf8.RuneCountInString(a.Target) + 2
	return diag.New(code, pos.Location(), r.Source, d)
}
