package backend

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// JavaKind classifies a Java token.
type JavaKind uint8

const (
	JavaIdent JavaKind = iota // identifiers and keywords
	JavaNumber
	JavaString
	JavaChar
	JavaOperator
	JavaSeparator
)

var javaKindNames = [...]string{
	JavaIdent:     "ident",
	JavaNumber:    "number",
	JavaString:    "string",
	JavaChar:      "char",
	JavaOperator:  "operator",
	JavaSeparator: "separator",
}

func (k JavaKind) String() string {
	if int(k) < len(javaKindNames) {
		return javaKindNames[k]
	}
	return fmt.Sprintf("JavaKind(%d)", k)
}

// JavaToken is a token of Java source. Offset counts runes from the start
// of the input.
type JavaToken struct {
	Kind   JavaKind
	Text   string
	Offset int
}

// javaLexer matches one token, comment or whitespace run at the start
// position. The lookahead on numbers rejects "1abc".
var javaLexer = func() *regexp2.Regexp {
	re := regexp2.MustCompile(`\G(?:`+
		`(?<ws>\s+)|`+
		`(?<comment>//[^\n]*|/\*[\s\S]*?\*/)|`+
		`(?<string>"(?:\\.|[^"\\\n])*")|`+
		`(?<char>'(?:\\(?:u[0-9a-fA-F]{4}|[0-7]{1,3}|.)|[^'\\\n])')|`+
		`(?<number>(?:\d+\.\d*|\.\d+|\d+)(?:[eE][+-]?\d+)?[lLfFdD]?(?![\p{L}\p{N}_$]))|`+
		`(?<ident>[\p{L}_$][\p{L}\p{N}_$]*)|`+
		`(?<op>>>>=|<<=|>>=|>>>|->|::|\+\+|--|&&|\|\||==|!=|<=|>=|\+=|-=|\*=|/=|%=|&=|\|=|\^=|<<|>>|[-+*/%=<>!~?:&|^])|`+
		`(?<sep>\.\.\.|[(){}\[\];,.@])`+
		`)`, regexp2.None)
	re.MatchTimeout = time.Second
	return re
}()

var javaGroups = []struct {
	name string
	kind JavaKind
	skip bool
}{
	{"ws", 0, true},
	{"comment", 0, true},
	{"string", JavaString, false},
	{"char", JavaChar, false},
	{"number", JavaNumber, false},
	{"ident", JavaIdent, false},
	{"op", JavaOperator, false},
	{"sep", JavaSeparator, false},
}

// TokenizeJava splits Java source into tokens, dropping whitespace and
// comments. It is a lexical check only: it reports text no Java token can
// start with, such as an unterminated string literal.
func TokenizeJava(src string) ([]JavaToken, error) {
	runes := []rune(src)
	var toks []JavaToken
	for pos := 0; pos < len(runes); {
		m, err := javaLexer.FindRunesMatchStartingAt(runes, pos)
		if err != nil {
			return nil, fmt.Errorf("backend: tokenizing Java: %w", err)
		}
		if m == nil || m.Index != pos || m.Length == 0 {
			return nil, fmt.Errorf("backend: invalid Java at offset %d: %q", pos, excerpt(runes, pos))
		}
		for _, g := range javaGroups {
			grp := m.GroupByName(g.name)
			if grp == nil || len(grp.Captures) == 0 {
				continue
			}
			if !g.skip {
				toks = append(toks, JavaToken{Kind: g.kind, Text: grp.String(), Offset: pos})
			}
			break
		}
		pos += m.Length
	}
	return toks, nil
}

func excerpt(runes []rune, pos int) string {
	end := pos + 10
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[pos:end])
}
