package diag

import "strings"

// SourceLines is a source file split into lines, without line terminators.
type SourceLines []string

// Lines splits src into lines. A trailing "\r" is removed from each line.
func Lines(src []byte) SourceLines {
	if len(src) == 0 {
		return nil
	}
	parts := strings.Split(string(src), "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}

// Context returns up to before lines preceding line followed by line itself.
// Lines are 1-based; an out-of-range line yields nil.
func (s SourceLines) Context(line, before int) []string {
	if line < 1 || line > len(s) {
		return nil
	}
	start := line - before
	if start < 1 {
		start = 1
	}
	out := make([]string, line-start+1)
	copy(out, s[start-1:line])
	return out
}
