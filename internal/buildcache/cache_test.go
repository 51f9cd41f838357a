package buildcache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHash(t *testing.T) {
	// SHA-256 of the empty input.
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Hash(nil); got != empty {
		t.Errorf("Hash(nil) = %s, want %s", got, empty)
	}
	if Hash([]byte("a")) == Hash([]byte("b")) {
		t.Error("different inputs hash equal")
	}
}

func TestNeedsRebuild(t *testing.T) {
	c := &Cache{Dir: filepath.Join(t.TempDir(), ".cache")}
	src := []byte("public void main() {}")

	rebuild, err := c.NeedsRebuild("Main", src)
	if err != nil {
		t.Fatal(err)
	}
	if !rebuild {
		t.Fatal("missing entry should need a rebuild")
	}

	if err := c.Save("Main", src); err != nil {
		t.Fatal(err)
	}
	rebuild, err = c.NeedsRebuild("Main", src)
	if err != nil {
		t.Fatal(err)
	}
	if rebuild {
		t.Error("unchanged source should not need a rebuild")
	}

	rebuild, err = c.NeedsRebuild("Main", append(src, '\n'))
	if err != nil {
		t.Fatal(err)
	}
	if !rebuild {
		t.Error("changed source should need a rebuild")
	}

	// Entries are independent per name.
	rebuild, err = c.NeedsRebuild("Other", src)
	if err != nil {
		t.Fatal(err)
	}
	if !rebuild {
		t.Error("other name should need a rebuild")
	}
}

func TestSaveWritesHexHash(t *testing.T) {
	dir := t.TempDir()
	c := &Cache{Dir: dir}
	if err := c.Save("Hello", []byte("x")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "Hello.hash"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != Hash([]byte("x")) {
		t.Errorf("hash file = %q", data)
	}
}

func TestNeedsRebuildTrimsStoredHash(t *testing.T) {
	dir := t.TempDir()
	c := &Cache{Dir: dir}
	src := []byte("x")
	if err := os.WriteFile(filepath.Join(dir, "A.hash"), []byte(Hash(src)+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rebuild, err := c.NeedsRebuild("A", src)
	if err != nil {
		t.Fatal(err)
	}
	if rebuild {
		t.Error("trailing newline in stored hash should be ignored")
	}
}

func TestRemove(t *testing.T) {
	c := &Cache{Dir: t.TempDir()}
	if err := c.Remove("Nothing"); err != nil {
		t.Fatalf("Remove of missing entry: %v", err)
	}
	if err := c.Save("A", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := c.Remove("A"); err != nil {
		t.Fatal(err)
	}
	rebuild, err := c.NeedsRebuild("A", []byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	if !rebuild {
		t.Error("removed entry should need a rebuild")
	}
}

func TestNeedsRebuildReadError(t *testing.T) {
	dir := t.TempDir()
	// A directory where the hash file should be makes ReadFile fail.
	if err := os.Mkdir(filepath.Join(dir, "A.hash"), 0o755); err != nil {
		t.Fatal(err)
	}
	c := &Cache{Dir: dir}
	if _, err := c.NeedsRebuild("A", nil); err == nil {
		t.Error("expected an error")
	}
}
