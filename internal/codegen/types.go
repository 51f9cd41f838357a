package codegen

import (
	"fmt"

	"github.com/you-not-fish/klar/internal/syntax"
)

// javaPrims maps Klar primitive type names to Java.
var javaPrims = map[string]string{
	"integer":   "int",
	"double":    "double",
	"boolean":   "boolean",
	"character": "char",
	"String":    "String",
	"void":      "void",
}

// javaType maps a written Klar type to its Java spelling.
func javaType(t *syntax.TypeRef) (string, error) {
	s, ok := javaPrims[t.Name]
	if !ok {
		return "", fmt.Errorf("%w: type %s", ErrUnsupportedNode, t)
	}
	if t.Array {
		s += "[]"
	}
	return s, nil
}

// zeroValue returns the Java default value for a variable of type t. Java
// requires locals to be definitely assigned; Klar variables start at zero.
func zeroValue(t *syntax.TypeRef) string {
	if t.Array {
		return "null"
	}
	switch t.Name {
	case "integer":
		return "0"
	case "double":
		return "0.0"
	case "boolean":
		return "false"
	case "character":
		return "'\\0'"
	}
	return "null"
}
