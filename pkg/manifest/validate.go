package manifest

import (
	"fmt"

	"github.com/matzehuels/pyrite/pkg/errors"
	"github.com/matzehuels/pyrite/pkg/pep440"
)

// Severity classifies a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is a single validation result.
type Finding struct {
	Severity Severity    `json:"severity" yaml:"severity"`
	Code     errors.Code `json:"code" yaml:"code"`
	Message  string      `json:"message" yaml:"message"`
	Group    string      `json:"group,omitempty" yaml:"group,omitempty"`
	Package  string      `json:"package,omitempty" yaml:"package,omitempty"`
}

func (f Finding) String() string {
	where := ""
	switch {
	case f.Group != "" && f.Package != "":
		where = fmt.Sprintf(" [%s/%s]", f.Group, f.Package)
	case f.Group != "":
		where = fmt.Sprintf(" [%s]", f.Group)
	}
	return fmt.Sprintf("%s %s: %s%s", f.Severity, f.Code, f.Message, where)
}

// Findings is an ordered list of validation results.
type Findings []Finding

// HasErrors reports whether any finding has error severity.
func (fs Findings) HasErrors() bool {
	for _, f := range fs {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity findings.
func (fs Findings) Errors() Findings {
	var out Findings
	for _, f := range fs {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}

// Warnings returns only the warning-severity findings.
func (fs Findings) Warnings() Findings {
	var out Findings
	for _, f := range fs {
		if f.Severity == SeverityWarning {
			out = append(out, f)
		}
	}
	return out
}

// backendProviders maps known build-backend identifiers to the normalized
// name of the distribution that provides them. Used for the best-effort
// check that the backend appears in the build requirements.
var backendProviders = map[string]string{
	"poetry.core.masonry.api": "poetry-core",
	"setuptools.build_meta":   "setuptools",
	"hatchling.build":         "hatchling",
	"flit_core.buildapi":      "flit-core",
	"pdm.backend":             "pdm-backend",
	"maturin":                 "maturin",
}

// Validate checks the manifest's structural invariants and returns the
// ordered findings. An empty result means the manifest is clean.
//
// Error-severity findings correspond to conditions a consuming tool must
// reject the manifest for: missing required keys, unparsable constraints,
// duplicate names within a group, and an unsatisfiable interpreter range.
func Validate(m *Manifest) Findings {
	var fs Findings

	fs = append(fs, validateIdentity(m)...)
	fs = append(fs, validateBuildSystem(m)...)
	fs = append(fs, validateGroups(m)...)
	fs = append(fs, validatePythonRange(m)...)

	return fs
}

func validateIdentity(m *Manifest) Findings {
	var fs Findings
	if m.Project.Name == "" {
		fs = append(fs, Finding{
			Severity: SeverityError,
			Code:     errors.ErrCodeMissingField,
			Message:  "project name is required",
		})
	} else if err := errors.ValidatePythonPackageName(m.Project.Name); err != nil {
		fs = append(fs, Finding{
			Severity: SeverityError,
			Code:     errors.ErrCodeInvalidPackage,
			Message:  fmt.Sprintf("project name: %s", errors.UserMessage(err)),
		})
	}

	switch {
	case m.Project.Version == "":
		fs = append(fs, Finding{
			Severity: SeverityError,
			Code:     errors.ErrCodeMissingField,
			Message:  "project version is required",
		})
	default:
		if _, err := pep440.Parse(m.Project.Version); err != nil {
			fs = append(fs, Finding{
				Severity: SeverityError,
				Code:     errors.ErrCodeInvalidInput,
				Message:  fmt.Sprintf("project version %q is not a valid version", m.Project.Version),
			})
		}
	}

	if len(m.Project.Authors) == 0 {
		fs = append(fs, Finding{
			Severity: SeverityWarning,
			Code:     errors.ErrCodeMissingField,
			Message:  "no authors declared",
		})
	}
	return fs
}

func validateBuildSystem(m *Manifest) Findings {
	if m.Build == nil {
		return Findings{{
			Severity: SeverityError,
			Code:     errors.ErrCodeMissingBuildSystem,
			Message:  "missing [build-system] table",
		}}
	}

	var fs Findings
	if len(m.Build.Requires) == 0 {
		fs = append(fs, Finding{
			Severity: SeverityError,
			Code:     errors.ErrCodeMissingBuildSystem,
			Message:  "build-system.requires is required",
		})
	}
	if m.Build.Backend == "" {
		fs = append(fs, Finding{
			Severity: SeverityError,
			Code:     errors.ErrCodeMissingBuildSystem,
			Message:  "build-system.build-backend is required",
		})
	}

	for _, spec := range m.Build.Requires {
		dep := ParsePEP508(spec)
		if err := errors.ValidatePythonPackageName(dep.Name); err != nil {
			fs = append(fs, Finding{
				Severity: SeverityError,
				Code:     errors.ErrCodeInvalidPackage,
				Message:  fmt.Sprintf("build requirement %q: %s", spec, errors.UserMessage(err)),
			})
			continue
		}
		if dep.Raw != "" {
			if _, err := dep.Constraint(); err != nil {
				fs = append(fs, Finding{
					Severity: SeverityError,
					Code:     errors.ErrCodeInvalidConstraint,
					Message:  fmt.Sprintf("build requirement %q: unparsable constraint", spec),
				})
			}
		}
	}

	// Best-effort backend check: only known backends are verified against
	// the declared requirements.
	if provider, known := backendProviders[m.Build.Backend]; known && len(m.Build.Requires) > 0 {
		found := false
		for _, spec := range m.Build.Requires {
			if NormalizeName(ParsePEP508(spec).Name) == provider {
				found = true
				break
			}
		}
		if !found {
			fs = append(fs, Finding{
				Severity: SeverityWarning,
				Code:     errors.ErrCodeUnknownBackend,
				Message:  fmt.Sprintf("backend %q expects %q in build-system.requires", m.Build.Backend, provider),
			})
		}
	}
	return fs
}

func validateGroups(m *Manifest) Findings {
	var fs Findings

	main, ok := m.Group(MainGroup)
	if !ok || (len(main.Dependencies) == 0 && m.PythonRange == "") {
		fs = append(fs, Finding{
			Severity: SeverityError,
			Code:     errors.ErrCodeMissingField,
			Message:  "missing dependency table",
		})
	}

	groupOf := make(map[string]string) // normalized name -> first group seen
	for _, g := range m.Groups {
		seen := make(map[string]string) // normalized -> declared name
		for _, dep := range g.Dependencies {
			norm := dep.Normalized()

			if err := errors.ValidatePythonPackageName(dep.Name); err != nil {
				fs = append(fs, Finding{
					Severity: SeverityError,
					Code:     errors.ErrCodeInvalidPackage,
					Message:  errors.UserMessage(err),
					Group:    g.Name,
					Package:  dep.Name,
				})
				continue
			}

			if prev, dup := seen[norm]; dup {
				fs = append(fs, Finding{
					Severity: SeverityError,
					Code:     errors.ErrCodeDuplicatePackage,
					Message:  fmt.Sprintf("duplicate dependency %q (also declared as %q)", dep.Name, prev),
					Group:    g.Name,
					Package:  norm,
				})
			} else {
				seen[norm] = dep.Name
				if other, cross := groupOf[norm]; cross && other != g.Name {
					fs = append(fs, Finding{
						Severity: SeverityWarning,
						Code:     errors.ErrCodeDuplicatePackage,
						Message:  fmt.Sprintf("dependency also declared in group %q", other),
						Group:    g.Name,
						Package:  norm,
					})
				} else {
					groupOf[norm] = g.Name
				}
			}

			if dep.NonRegistry {
				continue
			}
			c, err := dep.Constraint()
			if err != nil {
				fs = append(fs, Finding{
					Severity: SeverityError,
					Code:     errors.ErrCodeInvalidConstraint,
					Message:  fmt.Sprintf("invalid constraint %q", dep.Raw),
					Group:    g.Name,
					Package:  norm,
				})
				continue
			}
			if !c.Satisfiable() {
				fs = append(fs, Finding{
					Severity: SeverityError,
					Code:     errors.ErrCodeEmptyRange,
					Message:  fmt.Sprintf("constraint %q admits no version", dep.Raw),
					Group:    g.Name,
					Package:  norm,
				})
			}
		}
	}
	return fs
}

func validatePythonRange(m *Manifest) Findings {
	if m.PythonRange == "" {
		return Findings{{
			Severity: SeverityWarning,
			Code:     errors.ErrCodeMissingField,
			Message:  "no python version range declared",
		}}
	}

	c, err := pep440.ParseConstraint(m.PythonRange)
	if err != nil {
		return Findings{{
			Severity: SeverityError,
			Code:     errors.ErrCodeInvalidConstraint,
			Message:  fmt.Sprintf("invalid python range %q", m.PythonRange),
		}}
	}
	if !c.Satisfiable() {
		return Findings{{
			Severity: SeverityError,
			Code:     errors.ErrCodeEmptyRange,
			Message:  fmt.Sprintf("python range %q is empty", m.PythonRange),
		}}
	}
	return nil
}
