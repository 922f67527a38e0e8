package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDirHashDeterministic(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	for _, dir := range []string{a, b} {
		writeFile(t, filepath.Join(dir, "base.txt"), "django==1.11\n")
		writeFile(t, filepath.Join(dir, "extra.txt"), "requests\n")
	}

	hashA, err := DirHash(a)
	if err != nil {
		t.Fatalf("hash a: %v", err)
	}
	hashB, err := DirHash(b)
	if err != nil {
		t.Fatalf("hash b: %v", err)
	}
	if hashA != hashB {
		t.Fatalf("identical content produced different digests: %s vs %s", hashA, hashB)
	}

	again, err := DirHash(a)
	if err != nil {
		t.Fatalf("rehash: %v", err)
	}
	if again != hashA {
		t.Fatalf("re-run over unchanged content changed the digest")
	}
}

func TestDirHashSensitiveToContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.txt"), "django==1.11\n")

	before, err := DirHash(dir)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	writeFile(t, filepath.Join(dir, "base.txt"), "django==1.12\n")
	after, err := DirHash(dir)
	if err != nil {
		t.Fatalf("rehash: %v", err)
	}
	if before == after {
		t.Fatalf("single-byte change did not change the digest")
	}
}

func TestDirHashSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.txt"), "django==1.11\n")

	before, err := DirHash(dir)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	writeFile(t, filepath.Join(dir, "nested", "ignored.txt"), "not hashed\n")
	after, err := DirHash(dir)
	if err != nil {
		t.Fatalf("rehash: %v", err)
	}
	if before != after {
		t.Fatalf("nested file contents leaked into the digest")
	}
}

func TestDirHashMissingDir(t *testing.T) {
	if _, err := DirHash(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
