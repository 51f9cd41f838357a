package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/you-not-fish/klar/internal/backend"
	"github.com/you-not-fish/klar/internal/compiler"
	"github.com/you-not-fish/klar/internal/diag"
)

// options holds the flags shared by the subcommands.
type options struct {
	out          string
	clean        bool
	probe        bool
	probeTimeout time.Duration
	color        string
	trace        bool

	colorOn bool // resolved from color by setup
}

// defaultOut returns $KLAR_OUT, or "out".
func defaultOut() string {
	if dir := os.Getenv("KLAR_OUT"); dir != "" {
		return dir
	}
	return "out"
}

// newFlagSet returns a flag set for cmd with the diagnostic flags
// registered.
func (o *options) newFlagSet(cmd, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: kc %s [options] %s\n\nOptions:\n", cmd, args)
		fs.PrintDefaults()
	}
	fs.StringVar(&o.color, "color", "auto", "colour diagnostics: auto, always or never")
	return fs
}

// compileFlags registers the flags that control compilation.
func (o *options) compileFlags(fs *flag.FlagSet, probe bool) {
	fs.BoolVar(&o.probe, "probe", probe, "check that java and javac respond before generating code")
	fs.DurationVar(&o.probeTimeout, "probe-timeout", backend.DefaultProbeTimeout, "time limit for each toolchain probe (0 waits indefinitely)")
	fs.BoolVar(&o.trace, "trace", false, "print the time spent in each phase")
}

// outputFlags registers the output directory flags.
func (o *options) outputFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.out, "o", defaultOut(), "output directory")
	fs.BoolVar(&o.clean, "clean", false, "remove the output directory first")
}

// parse parses args and resolves the colour mode. It returns false after
// printing an error.
func (o *options) parse(fs *flag.FlagSet, args []string) bool {
	if err := fs.Parse(args); err != nil {
		return false
	}
	on, err := useColor(o.color, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kc %s: %v\n", fs.Name(), err)
		return false
	}
	o.colorOn = on
	return true
}

func (o *options) compilerOptions(className string) compiler.Options {
	return compiler.Options{
		ClassName:    className,
		Probe:        o.probe,
		ProbeTimeout: o.probeTimeout,
	}
}

// layout returns the directories under the output directory.
func (o *options) layout() (javaDir, classDir, cacheDir string) {
	javaDir = filepath.Join(o.out, "java")
	return javaDir, filepath.Join(javaDir, "class"), filepath.Join(o.out, ".cache")
}

// report prints err to stderr, rendering diagnostics in full.
func (o *options) report(err error) {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		_ = diag.Renderer{Color: o.colorOn}.Render(os.Stderr, d)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

// printTrace prints per-phase timings for one file.
func (o *options) printTrace(name string, res *compiler.Result) {
	if !o.trace || res == nil {
		return
	}
	var total time.Duration
	fmt.Fprintf(os.Stderr, "trace %s\n", name)
	for _, p := range res.Trace {
		fmt.Fprintf(os.Stderr, "  %-10s %v\n", p.Phase, p.Duration)
		total += p.Duration
	}
	fmt.Fprintf(os.Stderr, "  %-10s %v\n", "total", total)
}

// useColor resolves a -color mode. In auto mode colour is used when f is a
// terminal and NO_COLOR is unset or empty.
func useColor(mode string, f *os.File) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		return isTerminal(f.Fd()), nil
	}
	return false, fmt.Errorf("invalid -color value %q (want auto, always or never)", mode)
}
