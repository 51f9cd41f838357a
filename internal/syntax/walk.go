package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if isNil(node) || !v(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		for _, s := range n.Stmts {
			Walk(s, v)
		}

	case *FuncDecl:
		if n.Annotation != nil {
			Walk(n.Annotation, v)
		}
		Walk(n.Result, v)
		Walk(n.Name, v)
		for _, p := range n.Params {
			Walk(p, v)
		}
		Walk(n.Body, v)

	case *Annotation:
		Walk(n.Name, v)

	case *Param:
		Walk(n.Type, v)
		Walk(n.Name, v)

	case *VarDecl:
		Walk(n.Type, v)
		Walk(n.Name, v)
		if n.Value != nil {
			Walk(n.Value, v)
		}

	case *ConstDecl:
		Walk(n.Type, v)
		Walk(n.Name, v)
		Walk(n.Value, v)

	case *AssignStmt:
		Walk(n.Target, v)
		Walk(n.Value, v)

	case *ExprStmt:
		Walk(n.X, v)

	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(s, v)
		}

	case *WhileStmt:
		Walk(n.Cond, v)
		Walk(n.Body, v)

	case *DecisionStmt:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		for _, c := range n.Otherwise {
			Walk(c, v)
		}
		if n.Afterall != nil {
			Walk(n.Afterall, v)
		}

	case *OtherwiseClause:
		Walk(n.Cond, v)
		Walk(n.Body, v)

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, v)
		}

	case *Operation:
		Walk(n.X, v)
		if n.Y != nil {
			Walk(n.Y, v)
		}

	case *CallExpr:
		Walk(n.Fun, v)
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *IndexExpr:
		Walk(n.X, v)
		Walk(n.Index, v)

	case *ParenExpr:
		Walk(n.X, v)

	case *NewArrayExpr:
		Walk(n.Elem, v)
		Walk(n.Size, v)
		for _, e := range n.Init {
			Walk(e, v)
		}

	case *ModuleDecl, *ImportDecl, *TypeRef, *Name, *BasicLit:
		// leaves
	}
}

// isNil reports whether node is nil, including typed nil pointers of the
// optional child fields.
func isNil(node Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *BlockStmt:
		return n == nil
	case *TypeRef:
		return n == nil
	case *Name:
		return n == nil
	}
	return false
}
