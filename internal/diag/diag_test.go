package diag

import (
	"strings"
	"testing"
)

func TestCodeStrings(t *testing.T) {
	tests := []struct {
		code  Code
		str   string
		name  string
		phase Phase
	}{
		{UnexpectedCharacter, "E001", "UnexpectedCharacter", Lexical},
		{MissingSemicolon, "E102", "MissingSemicolon", Syntax},
		{MagicNumberViolation, "E212", "MagicNumberViolation", Semantic},
		{InvalidBackendBinding, "E402", "InvalidBackendBinding", Backend},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if got := tt.code.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if got := tt.code.Name(); got != tt.name {
				t.Errorf("Name() = %q, want %q", got, tt.name)
			}
			if got := tt.code.Phase(); got != tt.phase {
				t.Errorf("Phase() = %v, want %v", got, tt.phase)
			}
			if !tt.code.Known() {
				t.Errorf("%s not registered", tt.str)
			}
		})
	}
	if Code(999).Known() {
		t.Error("E999 should not be registered")
	}
}

func TestContext(t *testing.T) {
	src := Lines([]byte("a\r\nb\nc\nd\n"))
	tests := []struct {
		line, before int
		want         []string
	}{
		{1, 2, []string{"a"}},
		{2, 2, []string{"a", "b"}},
		{4, 2, []string{"b", "c", "d"}},
		{3, 0, []string{"c"}},
		{0, 2, nil},
		{99, 2, nil},
	}
	for _, tt := range tests {
		got := src.Context(tt.line, tt.before)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("Context(%d, %d) = %q, want %q", tt.line, tt.before, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	src := Lines([]byte("integer x = 0;\nwhile (x > 0) {\n    if (x > 42) {\n"))
	d := New(MagicNumberViolation, Location{File: "m.kl", Line: 3, Column: 13}, src, Detail{
		Cause:   "magic number 42 used in a condition",
		Fix:     "declare a named constant",
		Example: "constant integer LIMIT = 42;",
		Span:    2,
	})

	want := `[K:E212] MagicNumberViolation
ERROR (SEMANTIC)
at m.kl:3:13

1 | integer x = 0;
2 | while (x > 0) {
3 |     if (x > 42) {
  |             ^^

Cause:
  magic number 42 used in a condition

Fix:
  declare a named constant

Example:
  constant integer LIMIT = 42;
`
	if got := d.Format(); got != want {
		t.Errorf("Format() mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
	if d.Format() != d.Format() {
		t.Error("Format() should be stable")
	}
	if !strings.Contains(d.Error(), "m.kl:3:13: [K:E212] MagicNumberViolation") {
		t.Errorf("Error() = %q", d.Error())
	}
}

func TestRenderColor(t *testing.T) {
	d := New(UnexpectedCharacter, Location{File: "x.kl", Line: 1, Column: 1}, Lines([]byte("#")), Detail{Cause: "bad"})
	var b strings.Builder
	if err := (Renderer{Color: true}).Render(&b, d); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), ansiRed) || !strings.Contains(b.String(), ansiReset) {
		t.Errorf("colour output missing ANSI sequences: %q", b.String())
	}
	if strings.Contains(d.Format(), "\x1b[") {
		t.Error("Format() must be plain text")
	}
}
