// Package audit compares manifest constraints against the latest
// releases published on the package registry.
package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/pyrite/pkg/manifest"
	"github.com/matzehuels/pyrite/pkg/pep440"
	"github.com/matzehuels/pyrite/pkg/registry"
	"github.com/matzehuels/pyrite/pkg/registry/pypi"
)

// Fetcher is the registry lookup the audit needs. *pypi.Client satisfies it.
type Fetcher interface {
	FetchPackage(ctx context.Context, pkg string, refresh bool) (*pypi.PackageInfo, error)
}

// Status classifies a single dependency's audit outcome.
type Status string

const (
	// StatusCurrent means the constraint admits the latest release.
	StatusCurrent Status = "current"
	// StatusOutdated means the latest release falls outside the constraint.
	StatusOutdated Status = "outdated"
	// StatusNotFound means the registry has no such package.
	StatusNotFound Status = "not-found"
	// StatusSkipped marks non-registry (git/url/path) dependencies.
	StatusSkipped Status = "skipped"
	// StatusError covers unparsable constraints and registry failures.
	StatusError Status = "error"
)

// Result is the audit outcome for one dependency.
type Result struct {
	Package    string `json:"package" yaml:"package"`
	Group      string `json:"group" yaml:"group"`
	Constraint string `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	Latest     string `json:"latest,omitempty" yaml:"latest,omitempty"`
	Status     Status `json:"status" yaml:"status"`
	Detail     string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Run audits every dependency in the manifest against the registry,
// group by group. Registry failures degrade to per-dependency results
// rather than aborting the run; only context cancellation stops it.
func Run(ctx context.Context, f Fetcher, m *manifest.Manifest, refresh bool) ([]Result, error) {
	var results []Result

	for _, g := range m.Groups {
		for _, dep := range g.Dependencies {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			results = append(results, auditOne(ctx, f, g.Name, dep, refresh))
		}
	}
	return results, nil
}

func auditOne(ctx context.Context, f Fetcher, group string, dep manifest.Dependency, refresh bool) Result {
	r := Result{
		Package:    dep.Normalized(),
		Group:      group,
		Constraint: dep.Raw,
	}

	if dep.NonRegistry {
		r.Status = StatusSkipped
		r.Detail = "git/url/path dependency"
		return r
	}

	c, err := dep.Constraint()
	if err != nil {
		r.Status = StatusError
		r.Detail = fmt.Sprintf("invalid constraint %q", dep.Raw)
		return r
	}

	info, err := f.FetchPackage(ctx, dep.Name, refresh)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			r.Status = StatusNotFound
			return r
		}
		r.Status = StatusError
		r.Detail = err.Error()
		return r
	}
	r.Latest = info.Version

	latest, err := pep440.Parse(info.Version)
	if err != nil {
		r.Status = StatusError
		r.Detail = fmt.Sprintf("registry reported unparsable version %q", info.Version)
		return r
	}

	if c.Check(latest) {
		r.Status = StatusCurrent
	} else {
		r.Status = StatusOutdated
		r.Detail = fmt.Sprintf("latest release %s is outside %q", info.Version, dep.Raw)
	}
	return r
}

// Outdated filters results down to the ones needing attention.
func Outdated(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Status == StatusOutdated || r.Status == StatusNotFound || r.Status == StatusError {
			out = append(out, r)
		}
	}
	return out
}
