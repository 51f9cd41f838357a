package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

type object = map[string]interface{}

func toJSON(node Node) interface{} {
	if isNil(node) {
		return nil
	}

	switch n := node.(type) {
	case *File:
		return object{
			"type":  "File",
			"pos":   n.pos.String(),
			"file":  n.Filename,
			"stmts": mapSlice(n.Stmts, stmtJSON),
		}

	case *ModuleDecl:
		return object{"type": "ModuleDecl", "pos": n.pos.String(), "path": n.Path}

	case *ImportDecl:
		return object{"type": "ImportDecl", "pos": n.pos.String(), "path": n.Path}

	case *FuncDecl:
		m := object{
			"type":   "FuncDecl",
			"pos":    n.pos.String(),
			"access": n.Access.String(),
			"result": n.Result.String(),
			"name":   n.Name.Value,
			"params": mapSlice(n.Params, func(p *Param) interface{} {
				return object{"type": p.Type.String(), "name": p.Name.Value}
			}),
			"body": toJSON(n.Body),
		}
		if n.Annotation != nil {
			m["annotation"] = object{"name": n.Annotation.Name.Value, "target": n.Annotation.Target}
		}
		return m

	case *VarDecl:
		m := object{
			"type":    "VarDecl",
			"pos":     n.pos.String(),
			"vartype": n.Type.String(),
			"name":    n.Name.Value,
		}
		if n.Value != nil {
			m["value"] = toJSON(n.Value)
		}
		return m

	case *ConstDecl:
		return object{
			"type":    "ConstDecl",
			"pos":     n.pos.String(),
			"vartype": n.Type.String(),
			"name":    n.Name.Value,
			"value":   toJSON(n.Value),
		}

	case *AssignStmt:
		return object{
			"type":   "AssignStmt",
			"pos":    n.pos.String(),
			"target": toJSON(n.Target),
			"value":  toJSON(n.Value),
		}

	case *ExprStmt:
		return object{"type": "ExprStmt", "pos": n.pos.String(), "x": toJSON(n.X)}

	case *BlockStmt:
		return object{
			"type":  "BlockStmt",
			"pos":   n.pos.String(),
			"stmts": mapSlice(n.Stmts, stmtJSON),
		}

	case *WhileStmt:
		return object{
			"type": "WhileStmt",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"body": toJSON(n.Body),
		}

	case *DecisionStmt:
		return object{
			"type": "DecisionStmt",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"then": toJSON(n.Then),
			"otherwise": mapSlice(n.Otherwise, func(c *OtherwiseClause) interface{} {
				return toJSON(c)
			}),
			"afterall": toJSON(n.Afterall),
		}

	case *OtherwiseClause:
		m := object{
			"type": "Otherwise",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"body": toJSON(n.Body),
		}
		if n.Reason != "" {
			m["because"] = n.Reason
		}
		return m

	case *ReturnStmt:
		m := object{"type": "ReturnStmt", "pos": n.pos.String()}
		if n.Result != nil {
			m["result"] = toJSON(n.Result)
		}
		return m

	case *Name:
		return object{"type": "Name", "pos": n.pos.String(), "value": n.Value}

	case *BasicLit:
		return object{
			"type":  "BasicLit",
			"pos":   n.pos.String(),
			"kind":  n.Kind.String(),
			"value": n.Value,
		}

	case *Operation:
		m := object{
			"type": "Operation",
			"pos":  n.pos.String(),
			"op":   n.Op.String(),
			"x":    toJSON(n.X),
		}
		if n.Y != nil {
			m["y"] = toJSON(n.Y)
		}
		return m

	case *CallExpr:
		return object{
			"type": "CallExpr",
			"pos":  n.pos.String(),
			"fun":  n.Fun.Value,
			"args": mapSlice(n.Args, exprJSON),
		}

	case *IndexExpr:
		return object{
			"type":  "IndexExpr",
			"pos":   n.pos.String(),
			"x":     toJSON(n.X),
			"index": toJSON(n.Index),
		}

	case *ParenExpr:
		return object{"type": "ParenExpr", "pos": n.pos.String(), "x": toJSON(n.X)}

	case *NewArrayExpr:
		m := object{
			"type": "NewArrayExpr",
			"pos":  n.pos.String(),
			"elem": n.Elem.Name,
			"size": toJSON(n.Size),
		}
		if n.HasInit {
			m["init"] = mapSlice(n.Init, exprJSON)
		}
		return m

	default:
		return object{"type": "Unknown"}
	}
}

func stmtJSON(s Stmt) interface{} { return toJSON(s) }
func exprJSON(e Expr) interface{} { return toJSON(e) }

// mapSlice maps s through f.
func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}
