package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/pyrite/pkg/cache"
	"github.com/matzehuels/pyrite/pkg/manifest"
	"github.com/matzehuels/pyrite/pkg/render"
)

func runGraphCmd(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newGraphCmd()
	cmd.SetArgs(args)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return cmd.ExecuteContext(context.Background())
}

func TestGraphDOTOutput(t *testing.T) {
	path := writeManifest(t, cleanManifest)
	out := filepath.Join(t.TempDir(), "deps.dot")

	if err := runGraphCmd(t, path, "-o", out); err != nil {
		t.Fatalf("graph failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "digraph") {
		t.Errorf("output is not DOT:\n%s", data)
	}
}

func TestGraphSVGCacheHit(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	path := writeManifest(t, cleanManifest)
	out := filepath.Join(t.TempDir(), "deps.svg")

	// Seed the artifact cache with the SVG for this exact render request;
	// the command must serve it instead of rendering again.
	m, err := manifest.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	dot := render.ToDOT(m, render.Options{})
	key := renderCacheKey(cache.NewDefaultKeyer(), dot, &graphOpts{format: "svg"})

	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	seeded := []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	if err := c.Set(context.Background(), key, seeded, cache.TTLArtifact); err != nil {
		t.Fatal(err)
	}

	if err := runGraphCmd(t, path, "-f", "svg", "-o", out); err != nil {
		t.Fatalf("graph -f svg failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, seeded) {
		t.Errorf("output does not match the cached artifact:\n%s", data)
	}
}
