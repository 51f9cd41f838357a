package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/you-not-fish/klar/internal/compiler"
	"github.com/you-not-fish/klar/internal/diag"
	"github.com/you-not-fish/klar/internal/syntax"
)

const (
	historyFile = ".klar_history"
	promptMain  = "klar> "
	promptCont  = "....> "

	shellFile  = "<shell>"
	shellClass = "Shell"
	shellFunc  = "__shell"
)

const shellHelp = `Enter declarations to keep them for the session, or statements to see
their Java translation.
  :java   print the Java class for the session
  :reset  forget all declarations
  :quit   leave the shell`

// session holds the declarations entered so far.
type session struct {
	ctx   context.Context
	opts  compiler.Options
	decls []string
}

func (s *session) source(extra ...string) []byte {
	parts := append(append([]string(nil), s.decls...), extra...)
	return []byte(strings.Join(parts, "\n") + "\n")
}

// eval checks entry against the session. A declaration is kept and yields
// no output; statements are wrapped in a function and their Java
// translation is returned.
func (s *session) eval(entry string) (string, error) {
	opts := s.opts
	opts.ClassName = shellClass
	_, err := compiler.Compile(s.ctx, s.source(entry), shellFile, opts)
	if err == nil {
		s.decls = append(s.decls, entry)
		return "", nil
	}
	var d *diag.Diagnostic
	if !errors.As(err, &d) || d.Code != diag.StatementOutsideFunction {
		return "", err
	}

	wrapped := "@Use(\"java\")\ninternal void " + shellFunc + "() {\n" + entry + "\n    return;\n}"
	res, err := compiler.Compile(s.ctx, s.source(wrapped), shellFile, opts)
	if err != nil {
		return "", err
	}
	return methodBody(res.Java, shellFunc), nil
}

// java returns the Java class for the session's declarations.
func (s *session) java() (string, error) {
	opts := s.opts
	opts.ClassName = shellClass
	res, err := compiler.Compile(s.ctx, s.source(), shellFile, opts)
	if err != nil {
		return "", err
	}
	return res.Java, nil
}

// methodBody extracts the statements of the generated method name,
// dedented and without the trailing return.
func methodBody(java, name string) string {
	lines := strings.Split(java, "\n")
	var body []string
	in := false
	for _, l := range lines {
		switch {
		case !in && strings.HasSuffix(l, " "+name+"() {"):
			in = true
		case in && l == "    }":
			in = false
		case in:
			body = append(body, strings.TrimPrefix(l, "        "))
		}
	}
	if n := len(body); n > 0 && body[n-1] == "return;" {
		body = body[:n-1]
	}
	return strings.Join(body, "\n")
}

// incomplete reports whether src has unclosed brackets and should keep
// reading lines.
func incomplete(src string) bool {
	toks, err := syntax.Tokenize(shellFile, []byte(src))
	if err != nil {
		return false
	}
	depth := 0
	for _, t := range toks {
		switch t.Kind {
		case syntax.Lparen, syntax.Lbrack, syntax.Lbrace:
			depth++
		case syntax.Rparen, syntax.Rbrack, syntax.Rbrace:
			depth--
		}
	}
	return depth > 0
}

// cmdShell starts an interactive session.
func cmdShell(args []string) int {
	var o options
	fs := o.newFlagSet("shell", "")
	o.compileFlags(fs, false)
	if !o.parse(fs, args) {
		return 2
	}

	fmt.Printf("Klar %s shell. Type :help for help.\n", Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := &session{ctx: context.Background(), opts: o.compilerOptions("")}
	for {
		entry, ok := readEntry(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(entry, "\n", " "))

		if strings.HasPrefix(entry, ":") {
			switch strings.ToLower(entry) {
			case ":quit", ":q":
				return 0
			case ":help":
				fmt.Println(shellHelp)
			case ":reset":
				s.decls = nil
			case ":java":
				java, err := s.java()
				if err != nil {
					o.report(err)
					continue
				}
				fmt.Print(java)
			default:
				fmt.Println("unknown command. Type :help for help.")
			}
			continue
		}

		out, err := s.eval(entry)
		if err != nil {
			o.report(err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}

// readEntry reads lines until the brackets balance. It returns false at
// end of input.
func readEntry(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !incomplete(b.String()) {
			return b.String(), true
		}
	}
}
