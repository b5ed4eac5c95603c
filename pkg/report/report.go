// Package report defines the result document produced by validation,
// lock verification, and registry audits, with pluggable persistence.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pyrite/pkg/audit"
	"github.com/matzehuels/pyrite/pkg/manifest"
)

// Kind names the operation that produced a report.
type Kind string

const (
	KindCheck      Kind = "check"
	KindLockVerify Kind = "lock-verify"
	KindAudit      Kind = "audit"
)

// Report is one run's outcome: the findings for check/lock-verify runs,
// the per-dependency results for audit runs.
type Report struct {
	ID        string            `json:"id" yaml:"id" bson:"_id"`
	Kind      Kind              `json:"kind" yaml:"kind" bson:"kind"`
	Project   string            `json:"project,omitempty" yaml:"project,omitempty" bson:"project,omitempty"`
	Source    string            `json:"source,omitempty" yaml:"source,omitempty" bson:"source,omitempty"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at" bson:"created_at"`
	Findings  manifest.Findings `json:"findings,omitempty" yaml:"findings,omitempty" bson:"findings,omitempty"`
	Audit     []audit.Result    `json:"audit,omitempty" yaml:"audit,omitempty" bson:"audit,omitempty"`
}

// New creates a report for m with a fresh run ID.
func New(kind Kind, m *manifest.Manifest) *Report {
	r := &Report{
		ID:        uuid.NewString(),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
	if m != nil {
		r.Project = m.Project.Name
		r.Source = m.Source
	}
	return r
}

// HasErrors reports whether the run found anything a consumer must reject.
func (r *Report) HasErrors() bool {
	if r.Findings.HasErrors() {
		return true
	}
	return len(audit.Outdated(r.Audit)) > 0
}

// EncodeJSON writes the report as indented JSON.
func (r *Report) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// EncodeYAML writes the report as YAML.
func (r *Report) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(r)
}

// EncodeText writes a human-readable summary, one line per finding or
// audit result.
func (r *Report) EncodeText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s %s (%s)\n", r.Kind, r.Project, r.ID); err != nil {
		return err
	}
	for _, f := range r.Findings {
		if _, err := fmt.Fprintf(w, "  %s\n", f); err != nil {
			return err
		}
	}
	for _, a := range r.Audit {
		line := fmt.Sprintf("  %s %s/%s", a.Status, a.Group, a.Package)
		if a.Detail != "" {
			line += ": " + a.Detail
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
