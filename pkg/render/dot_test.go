package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/pyrite/pkg/manifest"
)

func renderManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Project: manifest.Project{Name: "prune-lab", Version: "0.4.2"},
		Groups: []manifest.Group{
			{Name: manifest.MainGroup, Dependencies: []manifest.Dependency{
				{Name: "torch", Raw: "^2.2.0"},
				{Name: "torchmetrics", Raw: "^1.3.1"},
				{Name: "internal-utils", NonRegistry: true},
			}},
			{Name: "dev", Dependencies: []manifest.Dependency{
				{Name: "pytest", Raw: "^8.0"},
				{Name: "torch", Raw: "^2.2.0"}, // shared with main
			}},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(renderManifest(), Options{})

	if !strings.HasPrefix(dot, "digraph manifest {") {
		t.Errorf("unexpected header:\n%s", dot)
	}
	for _, want := range []string{
		`"prune-lab\n0.4.2"`,
		`"group:main"`,
		`"group:dev"`,
		`"pkg:torchmetrics"`,
		`"__project__" -> "group:main";`,
		`"group:main" -> "pkg:torch";`,
		`"group:dev" -> "pkg:torch";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s:\n%s", want, dot)
		}
	}

	// Shared dependencies collapse to a single node.
	if strings.Count(dot, `"pkg:torch" [`) != 1 {
		t.Errorf("torch node declared more than once:\n%s", dot)
	}

	// Non-registry dependencies are dashed.
	if !strings.Contains(dot, `"pkg:internal-utils" [label="internal-utils", style="rounded,filled,dashed"`) {
		t.Errorf("non-registry style missing:\n%s", dot)
	}
}

func TestToDOTShowConstraints(t *testing.T) {
	dot := ToDOT(renderManifest(), Options{ShowConstraints: true})
	if !strings.Contains(dot, `"torchmetrics\n^1.3.1"`) {
		t.Errorf("constraint label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `"internal-utils\n(git/url/path)"`) {
		t.Errorf("non-registry label missing:\n%s", dot)
	}
}

func TestToDOTGroupFilter(t *testing.T) {
	dot := ToDOT(renderManifest(), Options{Groups: []string{"dev"}})
	if strings.Contains(dot, `"group:main"`) {
		t.Errorf("filtered group still rendered:\n%s", dot)
	}
	if !strings.Contains(dot, `"group:dev"`) {
		t.Errorf("requested group missing:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="10.00 5.00 200.00 100.00" xmlns="http://www.w3.org/2000/svg">`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 200.00 100.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="200" height="100"`) {
		t.Errorf("dimensions not rewritten: %s", out)
	}

	// No viewBox passes through untouched.
	plain := []byte(`<svg xmlns="http://www.w3.org/2000/svg">`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox was modified")
	}
}
