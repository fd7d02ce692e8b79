package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectMissingFile(t *testing.T) {
	project, err := LoadProject(t.TempDir())
	if err != nil {
		t.Fatalf("missing ry.yaml must not error: %s", err)
	}
	if len(project.ModulePaths) != 0 {
		t.Errorf("module paths = %v, want none", project.ModulePaths)
	}
}

func TestLoadProjectAnchorsRelativePaths(t *testing.T) {
	dir := t.TempDir()
	content := "module_paths:\n  - vendor\n  - /abs/lib\n"
	if err := os.WriteFile(filepath.Join(dir, ProjectFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	project, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject: %s", err)
	}
	if len(project.ModulePaths) != 2 {
		t.Fatalf("got %d module paths, want 2", len(project.ModulePaths))
	}
	if want := filepath.Join(dir, "vendor"); project.ModulePaths[0] != want {
		t.Errorf("relative path = %q, want %q", project.ModulePaths[0], want)
	}
	if project.ModulePaths[1] != "/abs/lib" {
		t.Errorf("absolute path = %q, want /abs/lib", project.ModulePaths[1])
	}
}

func TestLoadProjectWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ProjectFileName), []byte("module_paths: [lib]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	project, err := LoadProject(nested)
	if err != nil {
		t.Fatalf("LoadProject: %s", err)
	}
	if want := filepath.Join(root, "lib"); len(project.ModulePaths) != 1 || project.ModulePaths[0] != want {
		t.Errorf("module paths = %v, want [%s]", project.ModulePaths, want)
	}
}

func TestLoadProjectBadYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ProjectFileName), []byte("module_paths: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProject(dir); err == nil {
		t.Error("expected an error for malformed yaml")
	}
}
