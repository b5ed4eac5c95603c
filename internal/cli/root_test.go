package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetVersion(t *testing.T) {
	SetVersion("1.0.0", "abc123", "2026-01-01")

	if version != "1.0.0" {
		t.Errorf("version = %q, want %q", version, "1.0.0")
	}
	if commit != "abc123" {
		t.Errorf("commit = %q, want %q", commit, "abc123")
	}
	if date != "2026-01-01" {
		t.Errorf("date = %q, want %q", date, "2026-01-01")
	}
}

func TestManifestPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, defaultManifest), []byte("[project]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no args defaults to cwd manifest", nil, defaultManifest},
		{"file path passes through", []string{"other/pyproject.toml"}, "other/pyproject.toml"},
		{"directory resolves to its manifest", []string{dir}, filepath.Join(dir, defaultManifest)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := manifestPath(tt.args)
			if err != nil {
				t.Fatalf("manifestPath(%v) error = %v", tt.args, err)
			}
			if got != tt.want {
				t.Errorf("manifestPath(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestManifestPathRejectsHiddenFile(t *testing.T) {
	if _, err := manifestPath([]string{"project/.pyproject.toml"}); err == nil {
		t.Error("hidden manifest filename accepted")
	}
}

func TestOpenOutputRejectsTraversal(t *testing.T) {
	if _, err := openOutput("../../etc/report.json"); err == nil {
		t.Error("path traversal accepted")
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-test")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error = %v", err)
	}
	want := filepath.Join("/tmp/xdg-test", appName)
	if dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestOpenOutputStdout(t *testing.T) {
	out, err := openOutput("")
	if err != nil {
		t.Fatalf("openOutput(\"\") error = %v", err)
	}
	if err := out.Close(); err != nil {
		t.Errorf("Close() on stdout wrapper should be a no-op, got %v", err)
	}
}

func TestOpenOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	out, err := openOutput(path)
	if err != nil {
		t.Fatalf("openOutput(%q) error = %v", path, err)
	}
	if _, err := out.Write([]byte("{}")); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("file content = %q, want %q", data, "{}")
	}
}
