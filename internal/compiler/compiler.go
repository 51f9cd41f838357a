// Package compiler drives the Klar pipeline: lexing, parsing, type
// checking, backend target resolution and Java generation.
package compiler

import (
	"bytes"
	"context"
	"time"

	"github.com/you-not-fish/klar/internal/backend"
	"github.com/you-not-fish/klar/internal/codegen"
	"github.com/you-not-fish/klar/internal/diag"
	"github.com/you-not-fish/klar/internal/syntax"
	"github.com/you-not-fish/klar/internal/types2"
)

// Options configures a compilation.
type Options struct {
	// ClassName is the generated Java class. If empty it is derived from
	// the file name.
	ClassName string

	// Probe makes target resolution check that java and javac respond.
	Probe bool

	// ProbeTimeout bounds each probe. Zero waits indefinitely.
	ProbeTimeout time.Duration
}

// PhaseTime is the wall time spent in one phase.
type PhaseTime struct {
	Phase    string
	Duration time.Duration
}

// Result holds the output of every completed phase.
type Result struct {
	Java      string
	ClassName string
	Tokens    []syntax.Token
	File      *syntax.File
	Info      *types2.Info
	Trace     []PhaseTime
}

// Compile translates src to Java. User errors are returned as
// *diag.Diagnostic. On error the Result still holds the outputs and
// timings of the phases that completed.
func Compile(ctx context.Context, src []byte, filename string, opts Options) (*Result, error) {
	res := &Result{ClassName: opts.ClassName}
	if res.ClassName == "" {
		res.ClassName = codegen.ClassName(Stem(filename))
	}
	lines := diag.Lines(src)

	err := res.phase("lex", func() (err error) {
		res.Tokens, err = syntax.Tokenize(filename, src)
		return err
	})
	if err != nil {
		return res, err
	}

	err = res.phase("parse", func() (err error) {
		res.File, err = syntax.NewParser(filename, res.Tokens, src).Parse()
		return err
	})
	if err != nil {
		return res, err
	}

	err = res.phase("check", func() error {
		info := new(types2.Info)
		if err := types2.Check(res.File, &types2.Config{Source: lines}, info); err != nil {
			return err
		}
		res.Info = info
		return nil
	})
	if err != nil {
		return res, err
	}

	err = res.phase("resolve", func() error {
		r := &backend.Resolver{Probe: opts.Probe, Timeout: opts.ProbeTimeout, Source: lines}
		return r.Resolve(ctx, res.File)
	})
	if err != nil {
		return res, err
	}

	err = res.phase("generate", func() error {
		var buf bytes.Buffer
		if err := codegen.Generate(&buf, res.File, res.Info, res.ClassName); err != nil {
			return err
		}
		res.Java = buf.String()
		return nil
	})
	return res, err
}

// phase runs fn and records its duration, including on failure.
func (res *Result) phase(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	res.Trace = append(res.Trace, PhaseTime{Phase: name, Duration: time.Since(start)})
	return err
}
