package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/you-not-fish/klar/internal/backend"
	"github.com/you-not-fish/klar/internal/buildcache"
	"github.com/you-not-fish/klar/internal/codegen"
	"github.com/you-not-fish/klar/internal/compiler"
)

// unit is one source file going through check or build.
type unit struct {
	path     string
	class    string
	javaFile string
	upToDate bool
	res      *compiler.Result
	err      error
}

func newUnits(paths []string) ([]*unit, error) {
	units := make([]*unit, len(paths))
	seen := make(map[string]string)
	for i, p := range paths {
		class := codegen.ClassName(compiler.Stem(p))
		if prev, ok := seen[class]; ok {
			return nil, fmt.Errorf("%s and %s both produce class %s", prev, p, class)
		}
		seen[class] = p
		units[i] = &unit{path: p, class: class}
	}
	return units, nil
}

// forEach runs fn for every unit in parallel. fn records failures in the
// unit, so one failing file does not stop the others.
func forEach(ctx context.Context, units []*unit, fn func(context.Context, *unit)) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, u := range units {
		u := u
		g.Go(func() error {
			fn(ctx, u)
			return nil
		})
	}
	_ = g.Wait()
}

// finish reports every unit in input order and returns the exit code.
func (o *options) finish(units []*unit, ok func(*unit)) int {
	code := 0
	for _, u := range units {
		o.printTrace(u.path, u.res)
		if u.err != nil {
			o.report(u.err)
			code = 1
			continue
		}
		if ok != nil {
			ok(u)
		}
	}
	return code
}

// cmdCheck runs the whole pipeline on each file without writing output.
func cmdCheck(args []string) int {
	var o options
	fs := o.newFlagSet("check", "<file.kl>...")
	o.compileFlags(fs, false)
	verify := fs.Bool("verify", false, "re-tokenize the generated Java")
	if !o.parse(fs, args) {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	units, err := newUnits(fs.Args())
	if err != nil {
		o.report(err)
		return 2
	}

	forEach(context.Background(), units, func(ctx context.Context, u *unit) {
		src, err := compiler.LoadSource(u.path)
		if err != nil {
			u.err = err
			return
		}
		u.res, u.err = compiler.Compile(ctx, src, u.path, o.compilerOptions(u.class))
		if u.err == nil && *verify {
			if _, err := backend.TokenizeJava(u.res.Java); err != nil {
				u.err = fmt.Errorf("%s: generated Java: %w", u.path, err)
			}
		}
	})
	return o.finish(units, func(u *unit) {
		fmt.Printf("ok   %s\n", u.path)
	})
}

// builder translates and compiles units into the output layout.
type builder struct {
	o         *options
	tc        backend.Toolchain
	cache     buildcache.Cache
	javaDir   string
	classDir  string
	skipJavac bool
}

func (o *options) newBuilder(skipJavac bool) (*builder, error) {
	if o.clean {
		if err := os.RemoveAll(o.out); err != nil {
			return nil, err
		}
	}
	javaDir, classDir, cacheDir := o.layout()
	for _, dir := range []string{javaDir, classDir, cacheDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &builder{
		o:         o,
		cache:     buildcache.Cache{Dir: cacheDir},
		javaDir:   javaDir,
		classDir:  classDir,
		skipJavac: skipJavac,
	}, nil
}

// build brings the Java source and class file of u up to date.
func (b *builder) build(ctx context.Context, u *unit) {
	u.err = b.buildUnit(ctx, u)
}

func (b *builder) buildUnit(ctx context.Context, u *unit) error {
	src, err := compiler.LoadSource(u.path)
	if err != nil {
		return err
	}
	u.javaFile = filepath.Join(b.javaDir, u.class+".java")

	rebuild, err := b.cache.NeedsRebuild(u.class, src)
	if err != nil {
		return err
	}
	if !rebuild && exists(u.javaFile) && (b.skipJavac || exists(filepath.Join(b.classDir, u.class+".class"))) {
		log.Printf("%s.java is up to date (skipping build)", u.class)
		u.upToDate = true
		return nil
	}

	u.res, err = compiler.Compile(ctx, src, u.path, b.o.compilerOptions(u.class))
	if err != nil {
		return err
	}
	if err := os.WriteFile(u.javaFile, []byte(u.res.Java), 0o644); err != nil {
		return err
	}
	if !b.skipJavac {
		if err := b.tc.Build(ctx, u.javaFile, b.classDir); err != nil {
			return err
		}
	}
	return b.cache.Save(u.class, src)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

// cmdBuild translates each file to Java and compiles it with javac.
func cmdBuild(args []string) int {
	var o options
	fs := o.newFlagSet("build", "<file.kl>...")
	o.compileFlags(fs, true)
	o.outputFlags(fs)
	skipJavac := fs.Bool("skip-javac", false, "write Java source only")
	if !o.parse(fs, args) {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	units, err := newUnits(fs.Args())
	if err != nil {
		o.report(err)
		return 2
	}
	b, err := o.newBuilder(*skipJavac)
	if err != nil {
		o.report(err)
		return 1
	}

	forEach(context.Background(), units, b.build)
	return o.finish(units, func(u *unit) {
		if !u.upToDate {
			fmt.Printf("✓ Build successful → %s\n", u.javaFile)
		}
	})
}

// cmdRun builds one file and runs it. The program's exit code is reported
// but does not affect the exit code of kc.
func cmdRun(args []string) int {
	var o options
	fs := o.newFlagSet("run", "<file.kl>")
	o.compileFlags(fs, true)
	o.outputFlags(fs)
	if !o.parse(fs, args) {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	units, err := newUnits(fs.Args())
	if err != nil {
		o.report(err)
		return 2
	}
	b, err := o.newBuilder(false)
	if err != nil {
		o.report(err)
		return 1
	}

	u := units[0]
	b.build(context.Background(), u)
	if code := o.finish(units, nil); code != 0 {
		return code
	}

	log.Printf("running %s", u.class)
	exit, err := b.tc.Run(context.Background(), b.classDir, u.class)
	if err != nil {
		o.report(err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "\nProgram exited with code: %d\n", exit)
	return 0
}

// cmdClean removes the output directory.
func cmdClean(args []string) int {
	var o options
	fs := o.newFlagSet("clean", "")
	fs.StringVar(&o.out, "o", defaultOut(), "output directory")
	if !o.parse(fs, args) {
		return 2
	}
	if err := os.RemoveAll(o.out); err != nil {
		o.report(err)
		return 1
	}
	fmt.Println("✓ Clean successful")
	return 0
}
