package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Extensions lists the accepted source file extensions.
var Extensions = []string{".kl", ".klar"}

// ErrFileType is returned for a source path without a Klar extension.
var ErrFileType = errors.New("not a Klar source file")

var bom = []byte{0xEF, 0xBB, 0xBF}

// LoadSource reads a source file, drops a leading UTF-8 byte order mark
// and normalizes the text to NFC, so identifiers typed with combining
// marks compare equal to their precomposed spelling.
func LoadSource(path string) ([]byte, error) {
	if err := CheckExtension(path); err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Normalize(src), nil
}

// Normalize strips a byte order mark and applies NFC.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bom)
	if norm.NFC.IsNormal(src) {
		return src
	}
	return norm.NFC.Bytes(src)
}

// CheckExtension reports ErrFileType unless path ends in .kl or .klar.
func CheckExtension(path string) error {
	ext := filepath.Ext(path)
	for _, e := range Extensions {
		if ext == e {
			return nil
		}
	}
	return fmt.Errorf("%s: %w (expected %s)", filepath.Base(path), ErrFileType, strings.Join(Extensions, " or "))
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
