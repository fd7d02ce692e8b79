package modules

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveAddsExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "helpers.ry"), "")

	r := NewResolver(dir)
	got, err := r.Resolve("helpers")
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	want, _ := filepath.Abs(filepath.Join(dir, "helpers.ry"))
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveLiteralPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "helpers.ry"), "")

	r := NewResolver(dir)
	if _, err := r.Resolve("helpers.ry"); err != nil {
		t.Errorf("Resolve with extension: %s", err)
	}
}

func TestResolveSubdirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lib", "util.ry"), "")

	r := NewResolver(dir)
	if _, err := r.Resolve("lib/util"); err != nil {
		t.Errorf("Resolve subdirectory path: %s", err)
	}
}

func TestResolveMissing(t *testing.T) {
	r := NewResolver(t.TempDir())
	if _, err := r.Resolve("nope"); err == nil {
		t.Error("expected an error for a missing module")
	}
}

func TestResolveDoesNotMatchDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "helpers"), 0o755); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(dir)
	if _, err := r.Resolve("helpers"); err == nil {
		t.Error("a directory must not resolve as a module")
	}
}

func TestResolveSearchPathsFromProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ry.yaml"), "module_paths:\n  - vendor\n")
	writeFile(t, filepath.Join(dir, "vendor", "dep.ry"), "")

	r := NewResolver(dir)
	got, err := r.Resolve("dep")
	if err != nil {
		t.Fatalf("Resolve via module path: %s", err)
	}
	want, _ := filepath.Abs(filepath.Join(dir, "vendor", "dep.ry"))
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBaseDirWinsOverSearchPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ry.yaml"), "module_paths:\n  - vendor\n")
	writeFile(t, filepath.Join(dir, "dep.ry"), "")
	writeFile(t, filepath.Join(dir, "vendor", "dep.ry"), "")

	r := NewResolver(dir)
	got, err := r.Resolve("dep")
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	want, _ := filepath.Abs(filepath.Join(dir, "dep.ry"))
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abs.ry")
	writeFile(t, path, "")

	r := NewResolver(t.TempDir()) // unrelated base dir
	got, err := r.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve absolute: %s", err)
	}
	if got != path {
		t.Errorf("got %q, want %q", got, path)
	}
}
