package codegen

import (
	"fmt"
	"strings"
	"unicode"
)

// javaReserved holds Java keywords and literals, plus names the generated
// code refers to and must not be obscured by a user variable.
var javaReserved = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true,
	"class": true, "const": true, "continue": true, "default": true,
	"do": true, "double": true, "else": true, "enum": true,
	"exports": true, "extends": true, "final": true, "finally": true,
	"float": true, "for": true, "goto": true, "if": true,
	"implements": true, "import": true, "instanceof": true, "int": true,
	"interface": true, "long": true, "module": true, "native": true,
	"new": true, "open": true, "opens": true,
	"package": true, "permits": true, "private": true, "protected": true,
	"provides": true, "public": true, "record": true, "requires": true,
	"return": true, "sealed": true, "short": true, "static": true,
	"strictfp": true, "super": true, "switch": true, "synchronized": true,
	"this": true, "throw": true, "throws": true, "to": true,
	"transient": true, "transitive": true, "try": true, "uses": true,
	"var": true, "void": true, "volatile": true, "when": true,
	"while": true, "with": true, "yield": true,
	"true": true, "false": true, "null": true, "_": true,

	"args": true, "java": true, "Object": true, "System": true,
}

// mangle returns a Java identifier for a Klar identifier.
func mangle(name string) string {
	if javaReserved[name] {
		return name + "_"
	}
	return name
}

// ClassName derives a Java class name from a file name stem. Characters
// that cannot appear in a Java identifier become '_'; a leading digit gets a
// '_' prefix.
func ClassName(stem string) string {
	var b strings.Builder
	for i, r := range stem {
		switch {
		case r == '_' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "Main"
	}
	return mangle(b.String())
}

// members assigns Java names to the top-level variables or the functions of
// a file. Two Klar names that mangle to the same Java name, such as class
// and class_, are told apart with a '$' suffix. A nil *members mangles
// without renaming.
type members struct {
	java  map[string]string // Klar name -> Java name
	taken map[string]bool
}

func (m *members) declare(name string) string {
	if m.java == nil {
		m.java = make(map[string]string)
		m.taken = make(map[string]bool)
	}
	base := mangle(name)
	java := base
	for i := 1; m.taken[java]; i++ {
		java = fmt.Sprintf("%s$%d", base, i)
	}
	m.java[name] = java
	m.taken[java] = true
	return java
}

func (m *members) lookup(name string) string {
	if m != nil {
		if java, ok := m.java[name]; ok {
			return java
		}
	}
	return mangle(name)
}

func (m *members) has(java string) bool { return m != nil && m.taken[java] }

// locals tracks the Java names of the local variables of one method.
// Java rejects a local that shadows another local, so a Klar variable that
// shadows one in an enclosing block is renamed with a '$' suffix, which no
// Klar identifier can contain. Locals never take a field's name either: Java
// puts a local in scope inside its own initializer, where Klar still sees
// the global.
type locals struct {
	fields *members
	scopes []map[string]string // Klar name -> Java name, innermost last
}

func (l *locals) push() { l.scopes = append(l.scopes, make(map[string]string)) }
func (l *locals) pop()  { l.scopes = l.scopes[:len(l.scopes)-1] }

// declare enters name into the innermost scope and returns its Java name.
func (l *locals) declare(name string) string {
	base := mangle(name)
	java := base
	for i := 1; l.live(java) || l.fields.has(java); i++ {
		java = fmt.Sprintf("%s$%d", base, i)
	}
	l.scopes[len(l.scopes)-1][name] = java
	return java
}

// live reports whether a local with Java name java is in scope.
func (l *locals) live(java string) bool {
	for _, s := range l.scopes {
		for _, v := range s {
			if v == java {
				return true
			}
		}
	}
	return false
}

// resolve returns the Java name of a Klar variable reference. Names not
// declared locally refer to static fields.
func (l *locals) resolve(name string) string {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if java, ok := l.scopes[i][name]; ok {
			return java
		}
	}
	return l.fields.lookup(name)
}
