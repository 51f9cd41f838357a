package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/you-not-fish/klar/internal/diag"
)

// Parser performs syntax analysis on a Klar token stream.
// It is a recursive-descent parser over a token cursor and stops at the
// first error.
type Parser struct {
	filename string
	toks     []Token
	p        int // index of the current token
	lines    diag.SourceLines

	// Context tracking
	fnest int // function nesting depth (0 = top-level)
	cnest int // if/while/block nesting inside the current function body
}

// Parse tokenizes and parses a complete source file.
func Parse(filename string, src []byte) (*File, error) {
	toks, err := Tokenize(filename, src)
	if err != nil {
		return nil, err
	}
	return NewParser(filename, toks, src).Parse()
}

// NewParser creates a Parser over toks. src is used only for the context
// lines of diagnostics.
func NewParser(filename string, toks []Token, src []byte) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Kind != _EOF {
		var end Pos
		if len(toks) > 0 {
			end = toks[len(toks)-1].End
		} else {
			end = NewPos(filename, 1, 1)
		}
		toks = append(toks[:len(toks):len(toks)], Token{Kind: _EOF, Pos: end, End: end})
	}
	return &Parser{
		filename: filename,
		toks:     toks,
		lines:    diag.Lines(src),
	}
}

// ----------------------------------------------------------------------------
// Token navigation

// current returns the token under the cursor.
func (p *Parser) current() Token {
	return p.toks[p.p]
}

// peek returns the token n positions after the cursor; past the end it
// returns the EOF token.
func (p *Parser) peek(n int) Token {
	i := p.p + n
	if i >= len(p.toks) {
		i = len(p.toks) - 1
	}
	return p.toks[i]
}

// previous returns the most recently consumed token.
func (p *Parser) previous() Token {
	if p.p == 0 {
		return p.toks[0]
	}
	return p.toks[p.p-1]
}

// consume returns the current token and advances. EOF is never consumed.
func (p *Parser) consume() Token {
	t := p.toks[p.p]
	if t.Kind != _EOF {
		p.p++
	}
	return t
}

// check reports whether the current token has kind k.
func (p *Parser) check(k Kind) bool {
	return p.toks[p.p].Kind == k
}

// match consumes the current token if it has kind k.
func (p *Parser) match(k Kind) bool {
	if p.check(k) {
		p.consume()
		return true
	}
	return false
}

// expect consumes a token of kind k or reports an error bound to the
// offending token. example is shown in the diagnostic.
func (p *Parser) expect(k Kind, example string) (Token, error) {
	if p.check(k) {
		return p.consume(), nil
	}
	if k == _Semi {
		return Token{}, p.missingSemi(example)
	}
	cur := p.current()
	return Token{}, p.errorAt(cur, diag.UnexpectedToken, diag.Detail{
		Cause:    fmt.Sprintf("expected %q but found %s", k.String(), cur),
		Expected: k.String(),
		Fix:      fmt.Sprintf("insert %q here", k.String()),
		Example:  example,
	})
}

// ----------------------------------------------------------------------------
// Error handling

// errorAt builds a syntax diagnostic whose caret covers tok.
func (p *Parser) errorAt(tok Token, code diag.Code, d diag.Detail) error {
	if d.Span == 0 {
		d.Span = tokenSpan(tok)
	}
	return diag.New(code, tok.Pos.Location(), p.lines, d)
}

// errorAtPos builds a syntax diagnostic at pos.
func (p *Parser) errorAtPos(pos Pos, code diag.Code, d diag.Detail) error {
	return diag.New(code, pos.Location(), p.lines, d)
}

// missingSemi reports a missing statement terminator. When the offending
// token starts a new line the caret is placed right after the previous
// token, where the ';' was omitted.
func (p *Parser) missingSemi(example string) error {
	cur, prev := p.current(), p.previous()
	d := diag.Detail{
		Cause:    fmt.Sprintf("missing ';' before %s", cur),
		Expected: ";",
		Fix:      "terminate the statement with ';'",
		Example:  example,
	}
	if p.p > 0 && (cur.Kind == _EOF || cur.Pos.Line() > prev.End.Line()) {
		d.Cause = "missing ';' at the end of the statement"
		return p.errorAtPos(prev.End, diag.MissingSemicolon, d)
	}
	return p.errorAt(cur, diag.MissingSemicolon, d)
}

// tokenSpan returns the caret width for tok.
func tokenSpan(tok Token) int {
	if tok.End.Line() == tok.Pos.Line() && tok.End.Col() > tok.Pos.Col() {
		return int(tok.End.Col() - tok.Pos.Col())
	}
	return 1
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses a complete source file and returns the AST.
func (p *Parser) Parse() (*File, error) {
	f := &File{Filename: p.filename}
	f.pos = p.current().Pos

	for !p.check(_EOF) {
		s, err := p.topLevelStmt()
		if err != nil {
			return nil, err
		}
		f.Stmts = append(f.Stmts, s)
	}
	return f, nil
}

// ----------------------------------------------------------------------------
// Lookahead helpers

// typeEnd returns the offset just past a type written at offset i
// (a type keyword with an optional []), or -1.
func (p *Parser) typeEnd(i int) int {
	if !p.peek(i).Kind.IsTypeKeyword() {
		return -1
	}
	i++
	if p.peek(i).Kind == _Lbrack && p.peek(i+1).Kind == _Rbrack {
		i += 2
	}
	return i
}

// looksLikeSignature reports whether the tokens at offset i read
// Type IDENT '(' without consuming anything.
func (p *Parser) looksLikeSignature(i int) bool {
	j := p.typeEnd(i)
	return j >= 0 && p.peek(j).Kind == _Name && p.peek(j+1).Kind == _Lparen
}

// looksLikeFunction reports whether the tokens at the cursor read
// modifier Type IDENT '('.
func (p *Parser) looksLikeFunction() bool {
	return p.current().Kind.IsAccessModifier() && p.looksLikeSignature(1)
}

// ----------------------------------------------------------------------------
// Top-level statements

const (
	exFunc     = "@Use(\"java\")\npublic integer add(integer a, integer b) {\n    return a + b;\n}"
	exMain     = "@Use(\"java\")\npublic void main() {\n    println(\"hi\");\n    return;\n}"
	exVar      = "integer count = 0;"
	exConst    = "constant integer LIMIT = 10;"
	exDecision = "if (x == 0) {\n    println(x);\n} otherwise (x > 0) because \"positive\" {\n    println(1);\n} afterall;"
	exWhile    = "while (i < LIMIT) {\n    i = i + 1;\n}"
	exArray    = "integer[] values = new integer[3] {1, 2, 3};"
	exCall     = "println(\"hello\");"
)

// topLevelStmt parses a statement that may appear outside any function.
func (p *Parser) topLevelStmt() (Stmt, error) {
	tok := p.current()
	switch tok.Kind {
	case _Module:
		return p.moduleDecl()
	case _Import:
		return p.importDecl()
	case _At:
		return p.funcDecl()
	case _Constant:
		return p.constDecl()
	case _Public, _Protected, _Internal:
		if p.looksLikeFunction() {
			return nil, p.errorAt(tok, diag.MissingAnnotation, diag.Detail{
				Cause:   "function declaration is missing its backend annotation",
				Fix:     "annotate the function with @Use(\"java\")",
				Example: exFunc,
			})
		}
		return nil, p.errorAt(tok, diag.UnexpectedToken, diag.Detail{
			Cause:   fmt.Sprintf("access modifier %q must be followed by a function declaration", tok.Lit),
			Fix:     "remove the modifier or complete the function declaration",
			Example: exFunc,
		})
	case _Return:
		return nil, p.errorAt(tok, diag.InvalidReturnPlacement, diag.Detail{
			Cause:   "return statement outside of a function",
			Fix:     "move the return into a function body",
			Example: exMain,
		})
	case _Afterall, _Otherwise:
		return nil, p.misplacedDecisionPart(tok)
	}

	if tok.Kind.IsTypeKeyword() {
		if p.looksLikeSignature(0) {
			return nil, p.errorAt(tok, diag.MissingAccessModifier, diag.Detail{
				Cause:   "function declaration is missing an access modifier",
				Fix:     "start the declaration with public, protected or internal",
				Example: exFunc,
			})
		}
		return p.varDecl()
	}

	return nil, p.errorAt(tok, diag.StatementOutsideFunction, diag.Detail{
		Cause:   fmt.Sprintf("%s cannot start a top-level statement", tok),
		Fix:     "only module, import, constant, variable and function declarations may appear at the top level",
		Example: exMain,
	})
}

// moduleDecl parses: module a.b;
func (p *Parser) moduleDecl() (*ModuleDecl, error) {
	d := &ModuleDecl{}
	d.pos = p.consume().Pos

	path, err := p.qualifiedName("module app.core;")
	if err != nil {
		return nil, err
	}
	d.Path = path

	if _, err := p.expect(_Semi, "module app.core;"); err != nil {
		return nil, err
	}
	return d, nil
}

// importDecl parses: import a.b;
func (p *Parser) importDecl() (*ImportDecl, error) {
	d := &ImportDecl{}
	d.pos = p.consume().Pos

	path, err := p.qualifiedName("import app.util;")
	if err != nil {
		return nil, err
	}
	d.Path = path

	if _, err := p.expect(_Semi, "import app.util;"); err != nil {
		return nil, err
	}
	return d, nil
}

// qualifiedName parses NAME ('.' NAME)*.
func (p *Parser) qualifiedName(example string) (string, error) {
	var parts []string
	for {
		n, err := p.name(example)
		if err != nil {
			return "", err
		}
		parts = append(parts, n.Value)
		if !p.match(_Dot) {
			return strings.Join(parts, "."), nil
		}
	}
}

// ----------------------------------------------------------------------------
// Declarations

// name parses an identifier and returns a Name node.
func (p *Parser) name(example string) (*Name, error) {
	tok := p.current()
	if tok.Kind != _Name {
		cause := fmt.Sprintf("expected an identifier but found %s", tok)
		if tok.Kind.IsKeyword() {
			cause = fmt.Sprintf("%q is a reserved word and cannot be used as a name", tok.Lit)
		}
		return nil, p.errorAt(tok, diag.UnexpectedToken, diag.Detail{
			Cause:    cause,
			Expected: "identifier",
			Fix:      "use a valid identifier",
			Example:  example,
		})
	}
	p.consume()
	n := &Name{Value: tok.Lit}
	n.pos = tok.Pos
	return n, nil
}

// typeRef parses a type keyword with an optional [].
func (p *Parser) typeRef(example string) (*TypeRef, error) {
	tok := p.current()
	if !tok.Kind.IsTypeKeyword() {
		return nil, p.errorAt(tok, diag.ExpectedType, diag.Detail{
			Cause:    fmt.Sprintf("expected a type but found %s", tok),
			Expected: "integer, double, boolean, character, String or void",
			Fix:      "write the type before the name",
			Example:  example,
		})
	}
	p.consume()
	t := &TypeRef{Name: tok.Lit}
	t.pos = tok.Pos
	if p.match(_Lbrack) {
		if _, err := p.expect(_Rbrack, exArray); err != nil {
			return nil, err
		}
		t.Array = true
	}
	return t, nil
}

// varDecl parses: Type Name [= Value];
func (p *Parser) varDecl() (*VarDecl, error) {
	d := &VarDecl{}
	d.pos = p.current().Pos

	var err error
	if d.Type, err = p.typeRef(exVar); err != nil {
		return nil, err
	}
	if d.Name, err = p.name(exVar); err != nil {
		return nil, err
	}
	if p.match(_Assign) {
		if d.Value, err = p.expr(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(_Semi, exVar); err != nil {
		return nil, err
	}
	return d, nil
}

// constDecl parses: constant Type Name = Value;
func (p *Parser) constDecl() (*ConstDecl, error) {
	d := &ConstDecl{}
	d.pos = p.consume().Pos

	var err error
	if d.Type, err = p.typeRef(exConst); err != nil {
		return nil, err
	}
	if d.Name, err = p.name(exConst); err != nil {
		return nil, err
	}
	if !p.check(_Assign) {
		return nil, p.errorAt(p.current(), diag.UnexpectedToken, diag.Detail{
			Cause:    fmt.Sprintf("constant %s must be initialized", d.Name.Value),
			Expected: "=",
			Fix:      "give the constant a value",
			Example:  exConst,
		})
	}
	p.consume()
	if d.Value, err = p.expr(); err != nil {
		return nil, err
	}
	if _, err := p.expect(_Semi, exConst); err != nil {
		return nil, err
	}
	return d, nil
}

// ----------------------------------------------------------------------------
// Function declarations

// funcDecl parses an annotated function declaration starting at '@'.
func (p *Parser) funcDecl() (*FuncDecl, error) {
	d := &FuncDecl{}
	d.pos = p.current().Pos

	ann, err := p.annotation()
	if err != nil {
		return nil, err
	}
	d.Annotation = ann

	tok := p.current()
	switch tok.Kind {
	case _Public:
		d.Access = Public
	case _Protected:
		d.Access = Protected
	case _Internal:
		d.Access = Internal
	default:
		if p.looksLikeSignature(0) {
			return nil, p.errorAt(tok, diag.MissingAccessModifier, diag.Detail{
				Cause:   "function declaration is missing an access modifier",
				Fix:     "write public, protected or internal before the return type",
				Example: exFunc,
			})
		}
		return nil, p.errorAt(tok, diag.MissingAnnotation, diag.Detail{
			Cause:   "annotation @Use must be followed by a function declaration",
			Fix:     "place the annotation directly above a function",
			Example: exFunc,
		})
	}
	p.consume()

	if p.check(_Name) && p.peek(1).Kind == _Lparen {
		return nil, p.errorAt(p.current(), diag.MissingReturnType, diag.Detail{
			Cause:   fmt.Sprintf("function %s has no return type", p.current().Lit),
			Fix:     "write the return type before the function name, or void",
			Example: exFunc,
		})
	}
	if d.Result, err = p.typeRef(exFunc); err != nil {
		return nil, err
	}
	if d.Name, err = p.name(exFunc); err != nil {
		return nil, err
	}
	if _, err := p.expect(_Lparen, exFunc); err != nil {
		return nil, err
	}
	if d.Params, err = p.paramList(); err != nil {
		return nil, err
	}
	if d.Body, err = p.funcBody(); err != nil {
		return nil, err
	}
	return d, nil
}

// annotation parses: @Use("target")
func (p *Parser) annotation() (*Annotation, error) {
	a := &Annotation{}
	a.pos = p.consume().Pos // '@'

	n, err := p.name("@Use(\"java\")")
	if err != nil {
		return nil, err
	}
	if n.Value != "Use" {
		return nil, p.errorAt(p.previous(), diag.UnknownAnnotation, diag.Detail{
			Cause:   fmt.Sprintf("unknown annotation @%s", n.Value),
			Fix:     "functions are bound to a backend with @Use",
			Example: "@Use(\"java\")",
		})
	}
	a.Name = n

	if _, err := p.expect(_Lparen, "@Use(\"java\")"); err != nil {
		return nil, err
	}
	tok := p.current()
	if tok.Kind != _Literal || tok.LitKind != StringLit {
		return nil, p.errorAt(tok, diag.UnexpectedToken, diag.Detail{
			Cause:    fmt.Sprintf("expected the backend target as a string but found %s", tok),
			Expected: "string literal",
			Fix:      "name the backend target in double quotes",
			Example:  "@Use(\"java\")",
		})
	}
	p.consume()
	a.Target = tok.Lit
	a.TargetPos = tok.Pos
	if _, err := p.expect(_Rparen, "@Use(\"java\")"); err != nil {
		return nil, err
	}
	return a, nil
}

// paramList parses parameters after '(' up to and including ')'.
func (p *Parser) paramList() ([]*Param, error) {
	var params []*Param
	if p.match(_Rparen) {
		return params, nil
	}
	for {
		if tok := p.current(); tok.Kind == _Name {
			return nil, p.errorAt(tok, diag.MissingParameterType, diag.Detail{
				Cause:   fmt.Sprintf("parameter %s has no type", tok.Lit),
				Fix:     "write the parameter type before its name",
				Example: exFunc,
			})
		}
		prm := &Param{}
		prm.pos = p.current().Pos
		var err error
		if prm.Type, err = p.typeRef(exFunc); err != nil {
			return nil, err
		}
		if prm.Name, err = p.name(exFunc); err != nil {
			return nil, err
		}
		params = append(params, prm)
		if p.match(_Comma) {
			continue
		}
		if _, err := p.expect(_Rparen, exFunc); err != nil {
			return nil, err
		}
		return params, nil
	}
}

// funcBody parses a function body and enforces the return rules: exactly
// one return, and it is the last statement of the body.
func (p *Parser) funcBody() (*BlockStmt, error) {
	lbrace, err := p.expect(_Lbrace, exFunc)
	if err != nil {
		return nil, err
	}

	p.fnest++
	outer := p.cnest
	p.cnest = 0
	defer func() {
		p.fnest--
		p.cnest = outer
	}()

	b := &BlockStmt{}
	b.pos = lbrace.Pos

	var ret *ReturnStmt
	for !p.check(_Rbrace) && !p.check(_EOF) {
		if ret != nil {
			if tok := p.current(); tok.Kind == _Return {
				return nil, p.errorAt(tok, diag.MultipleReturnStatements, diag.Detail{
					Cause:   "function has more than one return statement",
					Fix:     "keep a single return as the last statement",
					Example: exFunc,
				})
			}
			return nil, p.errorAtPos(ret.Pos(), diag.InvalidReturnPlacement, diag.Detail{
				Cause:   "return must be the last statement of the function body",
				Fix:     "move the statements after the return before it",
				Example: exFunc,
				Span:    len("return"),
			})
		}
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		if r, ok := s.(*ReturnStmt); ok {
			ret = r
		}
		b.Stmts = append(b.Stmts, s)
	}

	rbrace, err := p.expect(_Rbrace, exFunc)
	if err != nil {
		return nil, err
	}
	b.Rbrace = rbrace.Pos

	if ret == nil {
		return nil, p.errorAt(rbrace, diag.MissingReturnStatement, diag.Detail{
			Cause:   "function body does not end with a return statement",
			Fix:     "end the function with return; (or return a value)",
			Example: exMain,
		})
	}
	return b, nil
}

// ----------------------------------------------------------------------------
// Statements

// stmt parses a statement inside a function body.
func (p *Parser) stmt() (Stmt, error) {
	tok := p.current()
	switch tok.Kind {
	case _Lbrace:
		return p.nestedBlock()
	case _If:
		return p.decisionStmt()
	case _While:
		return p.whileStmt()
	case _Return:
		return p.returnStmt()
	case _Constant:
		return p.constDecl()
	case _Afterall, _Otherwise:
		return nil, p.misplacedDecisionPart(tok)
	case _At, _Public, _Protected, _Internal:
		return nil, p.nestedFunc(tok)
	case _Module, _Import:
		return nil, p.errorAt(tok, diag.UnexpectedToken, diag.Detail{
			Cause:   fmt.Sprintf("%s declarations are only allowed at the top level", tok.Lit),
			Fix:     "move the declaration to the start of the file",
			Example: "module app;\nimport app.util;",
		})
	}

	if tok.Kind.IsTypeKeyword() {
		if p.looksLikeSignature(0) {
			return nil, p.nestedFunc(tok)
		}
		return p.varDecl()
	}
	return p.simpleStmt()
}

func (p *Parser) nestedFunc(tok Token) error {
	return p.errorAt(tok, diag.NestedFunctionDeclaration, diag.Detail{
		Cause:   "functions cannot be declared inside another function",
		Fix:     "move the function declaration to the top level",
		Example: exFunc,
	})
}

func (p *Parser) misplacedDecisionPart(tok Token) error {
	return p.errorAt(tok, diag.MisplacedAfterall, diag.Detail{
		Cause:   fmt.Sprintf("%q without a preceding if", tok.Lit),
		Fix:     "otherwise and afterall may only continue an if decision",
		Example: exDecision,
	})
}

// simpleStmt parses an assignment or a call statement.
func (p *Parser) simpleStmt() (Stmt, error) {
	start := p.current()
	x, err := p.expr()
	if err != nil {
		return nil, err
	}

	if p.check(_Assign) {
		switch x.(type) {
		case *Name, *IndexExpr:
		default:
			return nil, p.errorAt(start, diag.UnexpectedToken, diag.Detail{
				Cause:   "left side of an assignment must be a variable or an array element",
				Fix:     "assign to a variable",
				Example: "total = total + 1;",
			})
		}
		p.consume()
		s := &AssignStmt{Target: x}
		s.pos = x.Pos()
		if s.Value, err = p.expr(); err != nil {
			return nil, err
		}
		if _, err := p.expect(_Semi, "total = total + 1;"); err != nil {
			return nil, err
		}
		return s, nil
	}

	if _, ok := x.(*CallExpr); !ok {
		return nil, p.errorAt(start, diag.InvalidExpressionStatement, diag.Detail{
			Cause:   "expression result is not used",
			Fix:     "only function calls may be used as statements; assign the value or remove it",
			Example: exCall,
		})
	}
	s := &ExprStmt{X: x}
	s.pos = x.Pos()
	if _, err := p.expect(_Semi, exCall); err != nil {
		return nil, err
	}
	return s, nil
}

// block parses { Stmts... }.
func (p *Parser) block(example string) (*BlockStmt, error) {
	lbrace, err := p.expect(_Lbrace, example)
	if err != nil {
		return nil, err
	}
	b := &BlockStmt{}
	b.pos = lbrace.Pos

	for !p.check(_Rbrace) && !p.check(_EOF) {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}

	rbrace, err := p.expect(_Rbrace, example)
	if err != nil {
		return nil, err
	}
	b.Rbrace = rbrace.Pos
	return b, nil
}

// controlBlock parses a block nested one level deeper than the current one.
func (p *Parser) controlBlock(example string) (*BlockStmt, error) {
	p.cnest++
	defer func() { p.cnest-- }()
	return p.block(example)
}

// nestedBlock parses a bare block statement inside a function.
func (p *Parser) nestedBlock() (*BlockStmt, error) {
	return p.controlBlock("{\n    integer tmp = 0;\n}")
}

// condition parses '(' expr ')'.
func (p *Parser) condition(example string) (Expr, error) {
	if _, err := p.expect(_Lparen, example); err != nil {
		return nil, err
	}
	x, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(_Rparen, example); err != nil {
		return nil, err
	}
	return x, nil
}

// decisionStmt parses:
//
//	if (cond) block (otherwise (cond) (because "reason")? block)* afterall (block | ';')
func (p *Parser) decisionStmt() (*DecisionStmt, error) {
	ifTok := p.consume()
	s := &DecisionStmt{}
	s.pos = ifTok.Pos

	var err error
	if s.Cond, err = p.condition(exDecision); err != nil {
		return nil, err
	}
	if s.Then, err = p.controlBlock(exDecision); err != nil {
		return nil, err
	}

	for p.check(_Otherwise) {
		c := &OtherwiseClause{}
		c.pos = p.consume().Pos
		if c.Cond, err = p.condition(exDecision); err != nil {
			return nil, err
		}
		if p.match(_Because) {
			tok := p.current()
			if tok.Kind != _Literal || tok.LitKind != StringLit {
				return nil, p.errorAt(tok, diag.UnexpectedToken, diag.Detail{
					Cause:    fmt.Sprintf("expected the reason as a string but found %s", tok),
					Expected: "string literal",
					Fix:      "write the reason in double quotes",
					Example:  exDecision,
				})
			}
			p.consume()
			c.Reason = tok.Lit
		}
		if c.Body, err = p.controlBlock(exDecision); err != nil {
			return nil, err
		}
		s.Otherwise = append(s.Otherwise, c)
	}

	if !p.check(_Afterall) {
		return nil, p.errorAt(p.current(), diag.MissingAfterall, diag.Detail{
			Cause:    fmt.Sprintf("decision started at line %d is not closed with afterall", ifTok.Pos.Line()),
			Expected: "afterall",
			Fix:      "close the decision with afterall; or an afterall block",
			Example:  exDecision,
		})
	}
	p.consume()

	if p.match(_Semi) {
		return s, nil
	}
	if !p.check(_Lbrace) {
		return nil, p.errorAt(p.current(), diag.UnexpectedToken, diag.Detail{
			Cause:    fmt.Sprintf("expected a block or ';' after afterall but found %s", p.current()),
			Expected: "{ or ;",
			Fix:      "write afterall; for an empty default branch",
			Example:  exDecision,
		})
	}
	if s.Afterall, err = p.controlBlock(exDecision); err != nil {
		return nil, err
	}
	return s, nil
}

// whileStmt parses: while (cond) block
func (p *Parser) whileStmt() (*WhileStmt, error) {
	s := &WhileStmt{}
	s.pos = p.consume().Pos

	var err error
	if s.Cond, err = p.condition(exWhile); err != nil {
		return nil, err
	}
	if s.Body, err = p.controlBlock(exWhile); err != nil {
		return nil, err
	}
	return s, nil
}

// returnStmt parses: return [expr];
func (p *Parser) returnStmt() (*ReturnStmt, error) {
	tok := p.consume()
	if p.fnest == 0 {
		return nil, p.errorAt(tok, diag.InvalidReturnPlacement, diag.Detail{
			Cause:   "return statement outside of a function",
			Fix:     "move the return into a function body",
			Example: exMain,
		})
	}
	if p.cnest > 0 {
		return nil, p.errorAt(tok, diag.InvalidReturnPlacement, diag.Detail{
			Cause:   "return is not allowed inside a nested block",
			Fix:     "store the result in a variable and return it at the end of the function",
			Example: "integer result = 0;\nif (x > 0) {\n    result = 1;\n} afterall;\nreturn result;",
		})
	}

	s := &ReturnStmt{}
	s.pos = tok.Pos
	if p.match(_Semi) {
		return s, nil
	}
	var err error
	if s.Result, err = p.expr(); err != nil {
		return nil, err
	}
	if _, err := p.expect(_Semi, "return total;"); err != nil {
		return nil, err
	}
	return s, nil
}

// ----------------------------------------------------------------------------
// Expressions

// expr parses an expression.
func (p *Parser) expr() (Expr, error) {
	return p.binaryExpr(1)
}

// binaryExpr parses a binary expression using precedence climbing.
func (p *Parser) binaryExpr(prec int) (Expr, error) {
	x, err := p.unaryExpr()
	if err != nil {
		return nil, err
	}

	for {
		op := p.current()
		oprec := op.Kind.Precedence()
		if oprec < prec {
			return x, nil
		}
		p.consume()

		y, err := p.binaryExpr(oprec + 1)
		if err != nil {
			return nil, err
		}
		t := &Operation{Op: op.Kind, X: x, Y: y}
		t.pos = op.Pos
		x = t
	}
}

// unaryExpr parses: ('!' | '-') unaryExpr | postfixExpr
func (p *Parser) unaryExpr() (Expr, error) {
	if tok := p.current(); tok.Kind == _Not || tok.Kind == _Sub {
		p.consume()
		x, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		t := &Operation{Op: tok.Kind, X: x}
		t.pos = tok.Pos
		return t, nil
	}
	return p.postfixExpr()
}

// postfixExpr parses: primaryExpr ('[' expr ']')*
func (p *Parser) postfixExpr() (Expr, error) {
	x, err := p.primaryExpr()
	if err != nil {
		return nil, err
	}
	for p.check(_Lbrack) {
		p.consume()
		ix := &IndexExpr{X: x}
		ix.pos = x.Pos()
		if ix.Index, err = p.expr(); err != nil {
			return nil, err
		}
		if _, err := p.expect(_Rbrack, "integer first = values[0];"); err != nil {
			return nil, err
		}
		x = ix
	}
	return x, nil
}

// primaryExpr parses literals, names, calls, parenthesized expressions and
// array allocations.
func (p *Parser) primaryExpr() (Expr, error) {
	tok := p.current()
	switch tok.Kind {
	case _Literal:
		p.consume()
		if err := p.checkNumber(tok); err != nil {
			return nil, err
		}
		return p.basicLit(tok, tok.LitKind), nil

	case _True, _False:
		p.consume()
		return p.basicLit(tok, BoolLit), nil

	case _Null:
		p.consume()
		return p.basicLit(tok, NullLit), nil

	case _Lparen:
		p.consume()
		x := &ParenExpr{}
		x.pos = tok.Pos
		var err error
		if x.X, err = p.expr(); err != nil {
			return nil, err
		}
		if _, err := p.expect(_Rparen, "integer y = (a + b) * 2;"); err != nil {
			return nil, err
		}
		return x, nil

	case _Name:
		p.consume()
		n := &Name{Value: tok.Lit}
		n.pos = tok.Pos
		if p.check(_Lparen) {
			return p.callExpr(n)
		}
		return n, nil

	case _New:
		return p.newArrayExpr()
	}

	return nil, p.errorAt(tok, diag.ExpectedExpression, diag.Detail{
		Cause:   fmt.Sprintf("expected an expression but found %s", tok),
		Fix:     "write a value, variable, call or parenthesized expression",
		Example: "integer total = count + 1;",
	})
}

func (p *Parser) basicLit(tok Token, kind LitKind) *BasicLit {
	x := &BasicLit{Value: tok.Lit, Kind: kind}
	x.pos = tok.Pos
	return x
}

// checkNumber validates integer and double literals: integers must fit in
// 32 bits and doubles must read digits '.' digits.
func (p *Parser) checkNumber(tok Token) error {
	var cause string
	switch tok.LitKind {
	case IntLit:
		if !allDigits(tok.Lit) {
			cause = fmt.Sprintf("%q is not a valid number", tok.Lit)
		} else if _, err := strconv.ParseInt(tok.Lit, 10, 32); err != nil {
			cause = fmt.Sprintf("integer literal %s does not fit in 32 bits", tok.Lit)
		}
	case DoubleLit:
		whole, frac, ok := strings.Cut(tok.Lit, ".")
		if !ok || !allDigits(whole) || !allDigits(frac) {
			cause = fmt.Sprintf("%q is not a valid number", tok.Lit)
		} else if _, err := strconv.ParseFloat(tok.Lit, 64); err != nil {
			cause = fmt.Sprintf("double literal %s is out of range", tok.Lit)
		}
	default:
		return nil
	}
	if cause == "" {
		return nil
	}
	return p.errorAt(tok, diag.InvalidNumericLiteral, diag.Detail{
		Cause:   cause,
		Fix:     "write an integer like 42 or a double like 3.14",
		Example: "double ratio = 0.75;",
	})
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(rune(s[i])) {
			return false
		}
	}
	return true
}

// callExpr parses the argument list of a call to fun.
func (p *Parser) callExpr(fun *Name) (*CallExpr, error) {
	c := &CallExpr{Fun: fun}
	c.pos = fun.Pos()
	p.consume() // '('

	if p.match(_Rparen) {
		return c, nil
	}
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		c.Args = append(c.Args, arg)
		if p.match(_Comma) {
			continue
		}
		if _, err := p.expect(_Rparen, exCall); err != nil {
			return nil, err
		}
		return c, nil
	}
}

// newArrayExpr parses: new Type '[' size ']' ('{' list '}')?
func (p *Parser) newArrayExpr() (*NewArrayExpr, error) {
	x := &NewArrayExpr{}
	x.pos = p.consume().Pos // new

	tok := p.current()
	if !tok.Kind.IsTypeKeyword() {
		return nil, p.errorAt(tok, diag.ExpectedType, diag.Detail{
			Cause:    fmt.Sprintf("expected an element type after new but found %s", tok),
			Expected: "integer, double, boolean, character or String",
			Fix:      "name the element type of the array",
			Example:  exArray,
		})
	}
	p.consume()
	x.Elem = &TypeRef{Name: tok.Lit}
	x.Elem.pos = tok.Pos

	if !p.check(_Lbrack) {
		return nil, p.errorAt(p.current(), diag.MissingArrayBracket, diag.Detail{
			Cause:    fmt.Sprintf("expected '[' after new %s", tok.Lit),
			Expected: "[",
			Fix:      "give the array size in brackets",
			Example:  exArray,
		})
	}
	p.consume()

	if p.check(_Rbrack) {
		return nil, p.errorAt(p.current(), diag.MissingArraySize, diag.Detail{
			Cause:    "array allocation has no size",
			Expected: "size expression",
			Fix:      "write the number of elements between the brackets",
			Example:  exArray,
		})
	}
	var err error
	if x.Size, err = p.expr(); err != nil {
		return nil, err
	}
	if !p.check(_Rbrack) {
		return nil, p.errorAt(p.current(), diag.MissingArrayBracket, diag.Detail{
			Cause:    "array size is not closed with ']'",
			Expected: "]",
			Fix:      "close the size with ']'",
			Example:  exArray,
		})
	}
	p.consume()

	if !p.check(_Lbrace) {
		return x, nil
	}
	p.consume()
	x.HasInit = true
	if p.match(_Rbrace) {
		return x, nil
	}
	for {
		if tok := p.current(); tok.Kind == _Comma || tok.Kind == _Rbrace || tok.Kind == _EOF {
			return nil, p.malformedInit(tok)
		}
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		x.Init = append(x.Init, e)
		if p.match(_Comma) {
			continue
		}
		if p.match(_Rbrace) {
			return x, nil
		}
		return nil, p.malformedInit(p.current())
	}
}

func (p *Parser) malformedInit(tok Token) error {
	return p.errorAt(tok, diag.MalformedArrayInitializer, diag.Detail{
		Cause:    fmt.Sprintf("unexpected %s in array initializer", tok),
		Expected: "element, ',' or '}'",
		Fix:      "separate the elements with commas and close the list with '}'",
		Example:  exArray,
	})
}
