package manifest

import (
	"strings"
	"testing"

	"github.com/matzehuels/pyrite/pkg/errors"
)

func findingWithCode(fs Findings, code errors.Code) (Finding, bool) {
	for _, f := range fs {
		if f.Code == code {
			return f, true
		}
	}
	return Finding{}, false
}

func TestValidateCleanManifest(t *testing.T) {
	m, err := Parse([]byte(poetryFixture))
	if err != nil {
		t.Fatal(err)
	}
	fs := Validate(m)
	if fs.HasErrors() {
		t.Errorf("Validate() reported errors on a clean manifest:\n%v", fs.Errors())
	}
}

func TestValidateConstraints(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		wantCode   errors.Code // "" means the constraint must be accepted
	}{
		{"caret range", "^1.3.1", ""},
		{"pep440 set", ">=1.3.1,<2", ""},
		{"wildcard", "*", ""},
		{"union", ">=1.0,<2 || >=3.0", ""},
		{"garbage clause", "^1.3.1, not-a-version", errors.ErrCodeInvalidConstraint},
		{"bare words", "latest", errors.ErrCodeInvalidConstraint},
		{"contradiction", ">=2.0,<1.0", errors.ErrCodeEmptyRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manifest{
				Layout:      LayoutPoetry,
				Project:     Project{Name: "prune-lab", Version: "0.1.0", Authors: []string{"a"}},
				PythonRange: "^3.11",
				Build:       &BuildSystem{Requires: []string{"poetry-core"}, Backend: "poetry.core.masonry.api"},
				Groups: []Group{{Name: MainGroup, Dependencies: []Dependency{
					{Name: "torchmetrics", Raw: tt.constraint},
				}}},
			}
			fs := Validate(m)
			if tt.wantCode == "" {
				if fs.HasErrors() {
					t.Fatalf("constraint %q rejected:\n%v", tt.constraint, fs.Errors())
				}
				return
			}
			f, ok := findingWithCode(fs, tt.wantCode)
			if !ok {
				t.Fatalf("constraint %q: no %s finding, got %v", tt.constraint, tt.wantCode, fs)
			}
			if f.Severity != SeverityError {
				t.Errorf("severity = %s, want error", f.Severity)
			}
			if f.Package != "torchmetrics" {
				t.Errorf("finding package = %q, want torchmetrics", f.Package)
			}
		})
	}
}

func TestValidateDuplicateDependencies(t *testing.T) {
	base := func() *Manifest {
		return &Manifest{
			Layout:      LayoutPoetry,
			Project:     Project{Name: "prune-lab", Version: "0.1.0", Authors: []string{"a"}},
			PythonRange: "^3.11",
			Build:       &BuildSystem{Requires: []string{"poetry-core"}, Backend: "poetry.core.masonry.api"},
		}
	}

	t.Run("same group is an error", func(t *testing.T) {
		m := base()
		// Distinct written names that normalize to the same package:
		// "torch-metrics", "Torch_Metrics", and "torch.metrics" all
		// collapse to "torch-metrics".
		m.Groups = []Group{{Name: MainGroup, Dependencies: []Dependency{
			{Name: "torch-metrics", Raw: "^1.3.1"},
			{Name: "Torch_Metrics", Raw: "^1.4.0"},
			{Name: "torch.metrics", Raw: "^1.5.0"},
		}}}
		fs := Validate(m)
		f, ok := findingWithCode(fs, errors.ErrCodeDuplicatePackage)
		if !ok {
			t.Fatalf("no DUPLICATE_PACKAGE finding, got %v", fs)
		}
		if f.Severity != SeverityError {
			t.Errorf("severity = %s, want error", f.Severity)
		}
		if f.Group != MainGroup {
			t.Errorf("group = %q, want %q", f.Group, MainGroup)
		}
	})

	t.Run("across groups is a warning", func(t *testing.T) {
		m := base()
		m.Groups = []Group{
			{Name: MainGroup, Dependencies: []Dependency{{Name: "numpy", Raw: "^1.26"}}},
			{Name: "dev", Dependencies: []Dependency{{Name: "numpy", Raw: "^1.26"}}},
		}
		fs := Validate(m)
		if fs.HasErrors() {
			t.Fatalf("cross-group duplicate escalated to error:\n%v", fs.Errors())
		}
		f, ok := findingWithCode(fs.Warnings(), errors.ErrCodeDuplicatePackage)
		if !ok {
			t.Fatalf("no DUPLICATE_PACKAGE warning, got %v", fs)
		}
		if f.Group != "dev" {
			t.Errorf("warning group = %q, want dev", f.Group)
		}
	})
}

func TestValidateMissingFields(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Manifest)
		wantCode errors.Code
		wantMsg  string
	}{
		{
			name:     "missing name",
			mutate:   func(m *Manifest) { m.Project.Name = "" },
			wantCode: errors.ErrCodeMissingField,
			wantMsg:  "name",
		},
		{
			name:     "missing version",
			mutate:   func(m *Manifest) { m.Project.Version = "" },
			wantCode: errors.ErrCodeMissingField,
			wantMsg:  "version",
		},
		{
			name:     "bad version",
			mutate:   func(m *Manifest) { m.Project.Version = "not.a.version" },
			wantCode: errors.ErrCodeInvalidInput,
			wantMsg:  "version",
		},
		{
			name:     "missing build-system",
			mutate:   func(m *Manifest) { m.Build = nil },
			wantCode: errors.ErrCodeMissingBuildSystem,
			wantMsg:  "build-system",
		},
		{
			name:     "missing requires",
			mutate:   func(m *Manifest) { m.Build.Requires = nil },
			wantCode: errors.ErrCodeMissingBuildSystem,
			wantMsg:  "requires",
		},
		{
			name:     "missing backend",
			mutate:   func(m *Manifest) { m.Build.Backend = "" },
			wantCode: errors.ErrCodeMissingBuildSystem,
			wantMsg:  "build-backend",
		},
		{
			name:     "missing dependency table",
			mutate:   func(m *Manifest) { m.Groups = nil; m.PythonRange = "" },
			wantCode: errors.ErrCodeMissingField,
			wantMsg:  "dependency table",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(poetryFixture))
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(m)
			fs := Validate(m)
			if !fs.HasErrors() {
				t.Fatal("Validate() reported no errors")
			}
			found := false
			for _, f := range fs.Errors() {
				if f.Code == tt.wantCode && strings.Contains(f.Message, tt.wantMsg) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("no %s finding mentioning %q, got %v", tt.wantCode, tt.wantMsg, fs.Errors())
			}
		})
	}
}

func TestValidatePythonRange(t *testing.T) {
	tests := []struct {
		name     string
		pyRange  string
		wantCode errors.Code
		severity Severity
	}{
		{"declared", "^3.11", "", ""},
		{"absent", "", errors.ErrCodeMissingField, SeverityWarning},
		{"garbage", "three-point-eleven", errors.ErrCodeInvalidConstraint, SeverityError},
		{"empty range", ">=3.12,<3.10", errors.ErrCodeEmptyRange, SeverityError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manifest{
				Layout:      LayoutPoetry,
				Project:     Project{Name: "prune-lab", Version: "0.1.0", Authors: []string{"a"}},
				PythonRange: tt.pyRange,
				Build:       &BuildSystem{Requires: []string{"poetry-core"}, Backend: "poetry.core.masonry.api"},
				Groups: []Group{{Name: MainGroup, Dependencies: []Dependency{
					{Name: "torchmetrics", Raw: "^1.3.1"},
				}}},
			}
			fs := Validate(m)
			if tt.wantCode == "" {
				if fs.HasErrors() {
					t.Fatalf("unexpected errors: %v", fs.Errors())
				}
				return
			}
			f, ok := findingWithCode(fs, tt.wantCode)
			if !ok {
				t.Fatalf("no %s finding, got %v", tt.wantCode, fs)
			}
			if f.Severity != tt.severity {
				t.Errorf("severity = %s, want %s", f.Severity, tt.severity)
			}
		})
	}
}

func TestValidateBuildBackendProvider(t *testing.T) {
	m := &Manifest{
		Layout:      LayoutPoetry,
		Project:     Project{Name: "prune-lab", Version: "0.1.0", Authors: []string{"a"}},
		PythonRange: "^3.11",
		Build:       &BuildSystem{Requires: []string{"setuptools>=61"}, Backend: "poetry.core.masonry.api"},
		Groups:      []Group{{Name: MainGroup, Dependencies: []Dependency{{Name: "torch", Raw: "^2.2"}}}},
	}
	fs := Validate(m)
	if fs.HasErrors() {
		t.Fatalf("provider mismatch escalated to error:\n%v", fs.Errors())
	}
	if _, ok := findingWithCode(fs.Warnings(), errors.ErrCodeUnknownBackend); !ok {
		t.Errorf("no UNKNOWN_BACKEND warning, got %v", fs)
	}
}

func TestNonRegistryDependenciesSkipConstraintChecks(t *testing.T) {
	m := &Manifest{
		Layout:      LayoutPoetry,
		Project:     Project{Name: "prune-lab", Version: "0.1.0", Authors: []string{"a"}},
		PythonRange: "^3.11",
		Build:       &BuildSystem{Requires: []string{"poetry-core"}, Backend: "poetry.core.masonry.api"},
		Groups: []Group{{Name: MainGroup, Dependencies: []Dependency{
			{Name: "internal-utils", NonRegistry: true},
		}}},
	}
	if fs := Validate(m); fs.HasErrors() {
		t.Errorf("non-registry dependency produced errors:\n%v", fs.Errors())
	}
}
