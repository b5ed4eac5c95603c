package manifest

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pyrite/pkg/errors"
	"github.com/matzehuels/pyrite/pkg/pep440"
)

// MainGroup is the name of the runtime dependency group.
const MainGroup = "main"

// Layout identifies which manifest dialect declared the project metadata.
type Layout string

const (
	LayoutPoetry Layout = "poetry"
	LayoutPEP621 Layout = "pep621"
)

// Manifest is a parsed pyproject.toml.
//
// Parsing is permissive: structurally valid TOML always produces a Manifest,
// even when required fields are missing or constraints are malformed. Those
// conditions are reported by [Validate], mirroring how packaging tools
// separate reading a manifest from rejecting it.
type Manifest struct {
	Source  string // path the manifest was loaded from, "" for readers
	Layout  Layout
	Project Project
	Groups  []Group // main first, then named groups in declaration order
	Build   *BuildSystem
	Pytest  *PytestConfig

	// PythonRange is the declared interpreter version range
	// (Poetry "python" entry or PEP 621 requires-python), "" if absent.
	PythonRange string
}

// Project holds the package identity fields.
type Project struct {
	Name          string
	Version       string
	Description   string
	Authors       []string
	Readme        string
	License       string
	Classifiers   []string
	Keywords      []string
	Homepage      string
	Repository    string
	Documentation string
}

// Group is a named dependency group. The runtime group is named "main";
// Poetry dev groups and PEP 621 optional-dependency extras keep their
// declared names.
type Group struct {
	Name         string
	Dependencies []Dependency
}

// Dependency is a single entry in a dependency group.
type Dependency struct {
	Name       string   // as written in the manifest
	Raw        string   // raw version-constraint string, "" when unconstrained
	Extras     []string // requested extras, e.g. ["full"] from taker[full]
	Python     string   // per-dependency interpreter marker (Poetry), optional
	Optional   bool
	NonRegistry bool // git/url/path dependency: no registry constraint applies

	// origin preserves the raw TOML value for lossless re-serialization.
	origin any
}

// Normalized returns the PEP 503 normalized form of the dependency name.
func (d Dependency) Normalized() string { return NormalizeName(d.Name) }

// Constraint parses the dependency's version-constraint string.
func (d Dependency) Constraint() (pep440.Constraint, error) {
	if d.Raw == "" {
		return pep440.ParseConstraint("*")
	}
	return pep440.ParseConstraint(d.Raw)
}

// BuildSystem is the [build-system] table.
type BuildSystem struct {
	Requires []string // PEP 508 requirement strings
	Backend  string   // build-backend identifier
}

// PytestConfig is the [tool.pytest.ini_options] table, the test-runner
// configuration the manifest carries.
type PytestConfig struct {
	PythonPath []string
	AddOpts    string
	TestPaths  []string
}

var normalizeRE = regexp.MustCompile(`[-_.]+`)

// NormalizeName converts a package name to its PEP 503 canonical form:
// lowercase with runs of hyphens, underscores, and dots collapsed to a
// single hyphen.
func NormalizeName(name string) string {
	return normalizeRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// Load reads and parses the manifest file at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m.Source = path
	return m, nil
}

// Parse decodes a pyproject.toml document. It returns an error only for
// malformed TOML (including literal duplicate keys, which the decoder
// rejects); structural problems are left to [Validate].
func Parse(data []byte) (*Manifest, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "malformed manifest")
	}

	m := &Manifest{}
	if doc.Tool.Poetry != nil {
		m.Layout = LayoutPoetry
		decodePoetry(m, doc.Tool.Poetry)
	} else {
		m.Layout = LayoutPEP621
		decodePEP621(m, &doc.Project)
	}

	if doc.BuildSystem != nil {
		m.Build = &BuildSystem{
			Requires: doc.BuildSystem.Requires,
			Backend:  doc.BuildSystem.Backend,
		}
	}
	if doc.Tool.Pytest != nil {
		m.Pytest = &PytestConfig{
			PythonPath: doc.Tool.Pytest.IniOptions.PythonPath,
			AddOpts:    doc.Tool.Pytest.IniOptions.AddOpts,
			TestPaths:  doc.Tool.Pytest.IniOptions.TestPaths,
		}
	}
	return m, nil
}

// Group returns the named dependency group, or false if absent.
func (m *Manifest) Group(name string) (*Group, bool) {
	for i := range m.Groups {
		if m.Groups[i].Name == name {
			return &m.Groups[i], true
		}
	}
	return nil, false
}

// AllDependencies returns every dependency across groups, main group first,
// sorted by normalized name within each group.
func (m *Manifest) AllDependencies() []Dependency {
	var out []Dependency
	for _, g := range m.Groups {
		deps := make([]Dependency, len(g.Dependencies))
		copy(deps, g.Dependencies)
		sort.Slice(deps, func(i, j int) bool {
			return deps[i].Normalized() < deps[j].Normalized()
		})
		out = append(out, deps...)
	}
	return out
}

// DependencyCount returns the total number of dependency entries.
func (m *Manifest) DependencyCount() int {
	n := 0
	for _, g := range m.Groups {
		n += len(g.Dependencies)
	}
	return n
}

// document mirrors the top-level pyproject.toml tables.
type document struct {
	Project     pep621Project `toml:"project"`
	BuildSystem *buildSystem  `toml:"build-system"`
	Tool        struct {
		Poetry *poetryTable `toml:"poetry"`
		Pytest *pytestTable `toml:"pytest"`
	} `toml:"tool"`
}

type buildSystem struct {
	Requires []string `toml:"requires"`
	Backend  string   `toml:"build-backend"`
}

type pytestTable struct {
	IniOptions struct {
		PythonPath []string `toml:"pythonpath,omitempty"`
		AddOpts    string   `toml:"addopts,omitempty"`
		TestPaths  []string `toml:"testpaths,omitempty"`
	} `toml:"ini_options"`
}
