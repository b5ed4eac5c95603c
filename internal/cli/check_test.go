package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/pyrite/pkg/manifest"
	"github.com/matzehuels/pyrite/pkg/report"
)

const cleanManifest = `[tool.poetry]
name = "prune-lab"
version = "0.4.2"
description = "Pruning experiments"
authors = ["Dev <dev@example.com>"]

[tool.poetry.dependencies]
python = "^3.11"
torch = "^2.2.0"
torchmetrics = "^1.3.1"

[build-system]
requires = ["poetry-core"]
build-backend = "poetry.core.masonry.api"
`

const brokenManifest = `[tool.poetry]
name = "prune-lab"
version = "0.4.2"
description = "Pruning experiments"
authors = ["Dev <dev@example.com>"]

[tool.poetry.dependencies]
python = "^3.11"
torchmetrics = "^1.3.1, not-a-version"

[build-system]
requires = ["poetry-core"]
build-backend = "poetry.core.masonry.api"
`

// writeManifest puts content into a temp pyproject.toml and returns its path.
func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), defaultManifest)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCheckCmd(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newCheckCmd()
	cmd.SetArgs(args)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return cmd.ExecuteContext(context.Background())
}

func TestCheckCleanManifest(t *testing.T) {
	path := writeManifest(t, cleanManifest)

	if err := runCheckCmd(t, path); err != nil {
		t.Errorf("check on clean manifest should succeed, got %v", err)
	}
}

func TestCheckBrokenConstraint(t *testing.T) {
	path := writeManifest(t, brokenManifest)

	if err := runCheckCmd(t, path); err == nil {
		t.Error("check should fail on a malformed constraint")
	}
}

func TestCheckJSONOutput(t *testing.T) {
	path := writeManifest(t, cleanManifest)
	out := filepath.Join(t.TempDir(), "report.json")

	if err := runCheckCmd(t, path, "--format", "json", "--output", out); err != nil {
		t.Fatalf("check --format json failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var r report.Report
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("report output is not valid JSON: %v", err)
	}
	if r.Kind != report.KindCheck {
		t.Errorf("report kind = %q, want %q", r.Kind, report.KindCheck)
	}
	if r.Project != "prune-lab" {
		t.Errorf("report project = %q, want %q", r.Project, "prune-lab")
	}
}

func TestCheckUnknownFormat(t *testing.T) {
	path := writeManifest(t, cleanManifest)
	out := filepath.Join(t.TempDir(), "report.txt")

	if err := runCheckCmd(t, path, "--format", "xml", "--output", out); err == nil {
		t.Error("check should reject unknown formats")
	}
}

func TestFindingsExitError(t *testing.T) {
	errFinding := manifest.Finding{Severity: manifest.SeverityError, Code: "INVALID_CONSTRAINT", Message: "bad"}
	warnFinding := manifest.Finding{Severity: manifest.SeverityWarning, Code: "DUPLICATE_PACKAGE", Message: "dup"}

	tests := []struct {
		name     string
		findings manifest.Findings
		strict   bool
		wantErr  bool
	}{
		{"clean", nil, false, false},
		{"clean strict", nil, true, false},
		{"errors fail", manifest.Findings{errFinding}, false, true},
		{"warnings pass", manifest.Findings{warnFinding}, false, false},
		{"warnings fail strict", manifest.Findings{warnFinding}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := findingsExitError(tt.findings, tt.strict)
			if (err != nil) != tt.wantErr {
				t.Errorf("findingsExitError() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
