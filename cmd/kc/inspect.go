package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/you-not-fish/klar/internal/compiler"
	"github.com/you-not-fish/klar/internal/syntax"
)

// cmdLex prints every token of a file with its position.
func cmdLex(args []string) int {
	var o options
	fs := o.newFlagSet("lex", "<file.kl>")
	if !o.parse(fs, args) {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	filename := fs.Arg(0)
	src, err := compiler.LoadSource(filename)
	if err != nil {
		o.report(err)
		return 1
	}
	toks, err := syntax.Tokenize(filename, src)

	fmt.Printf("%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Printf("%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))
	for _, tok := range toks {
		kind := tok.Kind.String()
		if tok.Kind == syntax.Literal {
			kind = tok.LitKind.String()
		}
		fmt.Printf("%-20s %-12s %s\n", tok.Pos, kind, formatLiteral(tok.Lit))
	}

	if err != nil {
		fmt.Println()
		o.report(err)
		return 1
	}
	return 0
}

// formatLiteral quotes lit with control characters escaped.
func formatLiteral(lit string) string {
	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

// cmdParse prints the syntax tree of a file.
func cmdParse(args []string) int {
	var o options
	fs := o.newFlagSet("parse", "<file.kl>")
	asJSON := fs.Bool("json", false, "print the tree as JSON")
	if !o.parse(fs, args) {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	filename := fs.Arg(0)
	src, err := compiler.LoadSource(filename)
	if err != nil {
		o.report(err)
		return 1
	}
	file, err := syntax.Parse(filename, src)
	if err != nil {
		o.report(err)
		return 1
	}

	if *asJSON {
		if err := syntax.FprintJSON(os.Stdout, file); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}
	syntax.Fprint(os.Stdout, file)
	return 0
}
