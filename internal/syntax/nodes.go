package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 2 main classes of nodes: Expressions and Statements. Declarations
// are statements in Klar. All nodes implement the Node interface.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// stmt is embedded in all statement nodes.
type stmt struct{ node }

func (*stmt) aStmt() {}

// ----------------------------------------------------------------------------
// Files and supporting nodes

// File represents a complete source file.
type File struct {
	node
	Filename string
	Stmts    []Stmt // top-level statements in source order
}

// TypeRef is a written type: a type keyword, optionally followed by [].
type TypeRef struct {
	node
	Name  string // integer, double, boolean, character, String, void
	Array bool   // one-dimensional array of Name
}

// String returns the type as written in source.
func (t *TypeRef) String() string {
	if t.Array {
		return t.Name + "[]"
	}
	return t.Name
}

// Annotation is a backend binding: @Use("java").
type Annotation struct {
	node
	Name      *Name  // annotation name; always "Use" after parsing
	Target    string // backend target string, possibly empty
	TargetPos Pos    // position of the target string literal
}

// Param is a function parameter: Type Name.
type Param struct {
	node
	Type *TypeRef
	Name *Name
}

// AccessModifier is the visibility of a function.
type AccessModifier uint8

const (
	Public AccessModifier = iota
	Protected
	Internal
)

func (a AccessModifier) String() string {
	switch a {
	case Public:
		return "public"
	case Protected:
		return "protected"
	}
	return "internal"
}

// ----------------------------------------------------------------------------
// Expressions

// Name represents an identifier.
type Name struct {
	expr
	Value string
}

// BasicLit represents a literal value.
type BasicLit struct {
	expr
	Value string  // literal text (decoded for strings and characters)
	Kind  LitKind // IntLit, DoubleLit, StringLit, CharLit, BoolLit, NullLit
}

// Operation represents a unary or binary operation.
// For unary operations, Y is nil.
type Operation struct {
	expr
	Op Kind // operator token
	X  Expr // left operand (or only operand for unary)
	Y  Expr // right operand (nil for unary)
}

// CallExpr represents a function call: Fun(Args...)
type CallExpr struct {
	expr
	Fun  *Name
	Args []Expr
}

// IndexExpr represents an index expression: X[Index]
type IndexExpr struct {
	expr
	X     Expr
	Index Expr
}

// ParenExpr represents a parenthesized expression: (X)
type ParenExpr struct {
	expr
	X Expr
}

// NewArrayExpr represents array allocation: new Elem[Size] {Init...}
type NewArrayExpr struct {
	expr
	Elem    *TypeRef // element type (never an array)
	Size    Expr
	Init    []Expr
	HasInit bool // an initializer list was written, possibly empty
}

// ----------------------------------------------------------------------------
// Statements

// ModuleDecl represents: module a.b;
type ModuleDecl struct {
	stmt
	Path string
}

// ImportDecl represents: import a.b;
type ImportDecl struct {
	stmt
	Path string
}

// VarDecl represents: Type Name [= Value];
type VarDecl struct {
	stmt
	Type  *TypeRef
	Name  *Name
	Value Expr // nil if no initializer
}

// ConstDecl represents: constant Type Name = Value;
type ConstDecl struct {
	stmt
	Type  *TypeRef
	Name  *Name
	Value Expr
}

// AssignStmt represents: Target = Value;
// Target is a *Name or an *IndexExpr.
type AssignStmt struct {
	stmt
	Target Expr
	Value  Expr
}

// ExprStmt represents a call used as a statement.
type ExprStmt struct {
	stmt
	X Expr
}

// BlockStmt represents a block statement: { Stmts... }
type BlockStmt struct {
	stmt
	Stmts  []Stmt
	Rbrace Pos // position of closing brace
}

// FuncDecl represents an annotated function declaration:
//
//	@Use("java")
//	public integer name(integer a) { ... return a; }
type FuncDecl struct {
	stmt
	Annotation *Annotation
	Access     AccessModifier
	Result     *TypeRef
	Name       *Name
	Params     []*Param
	Body       *BlockStmt
}

// WhileStmt represents: while (Cond) Body
type WhileStmt struct {
	stmt
	Cond Expr
	Body *BlockStmt
}

// DecisionStmt represents a decision chain:
//
//	if (Cond) Then
//	otherwise (Cond) because "reason" Body
//	afterall Afterall | afterall;
type DecisionStmt struct {
	stmt
	Cond      Expr
	Then      *BlockStmt
	Otherwise []*OtherwiseClause
	Afterall  *BlockStmt // nil for "afterall;"
}

// OtherwiseClause is one otherwise branch of a decision.
type OtherwiseClause struct {
	node
	Cond   Expr
	Reason string // text of the because clause, empty if absent
	Body   *BlockStmt
}

// ReturnStmt represents a return statement: return [Result];
type ReturnStmt struct {
	stmt
	Result Expr // nil for bare return
}
