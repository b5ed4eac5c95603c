package lockfile

import (
	"fmt"

	"github.com/matzehuels/pyrite/pkg/errors"
	"github.com/matzehuels/pyrite/pkg/manifest"
)

// Verify checks a lockfile against the manifest it was resolved from:
// every registry dependency the manifest declares must be present in the
// lock, and the pinned version must satisfy the declared constraint.
//
// Transitive lock entries with no manifest counterpart are expected and
// not reported.
func Verify(m *manifest.Manifest, l *Lockfile) manifest.Findings {
	var fs manifest.Findings

	for _, g := range m.Groups {
		for _, dep := range g.Dependencies {
			if dep.NonRegistry {
				continue
			}

			pkg, ok := l.Package(dep.Name)
			if !ok {
				fs = append(fs, manifest.Finding{
					Severity: manifest.SeverityError,
					Code:     errors.ErrCodePackageNotFound,
					Message:  "dependency missing from lockfile",
					Group:    g.Name,
					Package:  dep.Normalized(),
				})
				continue
			}

			pinned, err := pkg.PinnedVersion()
			if err != nil {
				fs = append(fs, manifest.Finding{
					Severity: manifest.SeverityError,
					Code:     errors.ErrCodeInvalidInput,
					Message:  fmt.Sprintf("locked version %q is not a valid version", pkg.Version),
					Group:    g.Name,
					Package:  dep.Normalized(),
				})
				continue
			}

			c, err := dep.Constraint()
			if err != nil {
				// The constraint itself is a manifest defect; Validate
				// reports it, verification cannot judge the pin.
				continue
			}
			if !c.Check(pinned) {
				fs = append(fs, manifest.Finding{
					Severity: manifest.SeverityError,
					Code:     errors.ErrCodeInvalidConstraint,
					Message:  fmt.Sprintf("locked version %s does not satisfy %q", pkg.Version, dep.Raw),
					Group:    g.Name,
					Package:  dep.Normalized(),
				})
			}
		}
	}

	if m.PythonRange != "" && l.Metadata.PythonVersions != "" &&
		m.PythonRange != l.Metadata.PythonVersions {
		fs = append(fs, manifest.Finding{
			Severity: manifest.SeverityWarning,
			Code:     errors.ErrCodeInvalidInput,
			Message: fmt.Sprintf("lock python range %q differs from manifest %q; the lock may be stale",
				l.Metadata.PythonVersions, m.PythonRange),
		})
	}

	return fs
}
