// Package buildcache records a content hash per compiled source so that
// unchanged sources are not rebuilt.
package buildcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Cache stores one <name>.hash file per source in Dir.
type Cache struct {
	Dir string
}

// Hash returns the lowercase hex SHA-256 of src.
func Hash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

func (c *Cache) path(name string) string {
	return filepath.Join(c.Dir, name+".hash")
}

// NeedsRebuild reports whether src differs from the content last saved
// under name. A missing entry needs a rebuild.
func (c *Cache) NeedsRebuild(name string, src []byte) (bool, error) {
	data, err := os.ReadFile(c.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return true, fmt.Errorf("buildcache: %w", err)
	}
	return strings.TrimSpace(string(data)) != Hash(src), nil
}

// Save records the hash of src under name, creating Dir if needed.
func (c *Cache) Save(name string, src []byte) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("buildcache: %w", err)
	}
	if err := os.WriteFile(c.path(name), []byte(Hash(src)), 0o644); err != nil {
		return fmt.Errorf("buildcache: %w", err)
	}
	return nil
}

// Remove deletes the entry for name. A missing entry is not an error.
func (c *Cache) Remove(name string) error {
	err := os.Remove(c.path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("buildcache: %w", err)
	}
	return nil
}
