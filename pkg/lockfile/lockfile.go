// Package lockfile reads poetry.lock files and checks them against the
// manifest they were resolved from.
package lockfile

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pyrite/pkg/errors"
	"github.com/matzehuels/pyrite/pkg/manifest"
	"github.com/matzehuels/pyrite/pkg/pep440"
)

// Lockfile is a parsed poetry.lock.
type Lockfile struct {
	Source   string // path the lock was loaded from, "" for readers
	Packages []Package
	Metadata Metadata
}

// Package is one [[package]] entry: a resolved distribution pinned to an
// exact version. Dependencies lists the package's own requirements, so a
// lockfile carries the full transitive closure.
type Package struct {
	Name           string
	Version        string
	Description    string
	Optional       bool
	PythonVersions string
	Groups         []string
	Dependencies   map[string]any
}

// Metadata is the trailing [metadata] table.
type Metadata struct {
	LockVersion    string
	PythonVersions string
	ContentHash    string
}

// Normalized returns the PEP 503 normalized form of the package name.
func (p Package) Normalized() string { return manifest.NormalizeName(p.Name) }

// PinnedVersion parses the locked version.
func (p Package) PinnedVersion() (pep440.Version, error) {
	return pep440.Parse(p.Version)
}

// Load reads and parses the lockfile at path.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "lockfile not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, err
	}
	l.Source = path
	return l, nil
}

// Parse decodes a poetry.lock document.
func Parse(data []byte) (*Lockfile, error) {
	var doc lockDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "malformed lockfile")
	}

	l := &Lockfile{
		Metadata: Metadata{
			LockVersion:    doc.Metadata.LockVersion,
			PythonVersions: doc.Metadata.PythonVersions,
			ContentHash:    doc.Metadata.ContentHash,
		},
	}
	for _, pkg := range doc.Packages {
		l.Packages = append(l.Packages, Package{
			Name:           pkg.Name,
			Version:        pkg.Version,
			Description:    pkg.Description,
			Optional:       pkg.Optional,
			PythonVersions: pkg.PythonVersions,
			Groups:         pkg.Groups,
			Dependencies:   pkg.Dependencies,
		})
	}
	return l, nil
}

// Package returns the locked entry for name (normalized lookup).
func (l *Lockfile) Package(name string) (Package, bool) {
	norm := manifest.NormalizeName(name)
	for _, pkg := range l.Packages {
		if pkg.Normalized() == norm {
			return pkg, true
		}
	}
	return Package{}, false
}

type lockDocument struct {
	Packages []lockPackage `toml:"package"`
	Metadata struct {
		LockVersion    string `toml:"lock-version"`
		PythonVersions string `toml:"python-versions"`
		ContentHash    string `toml:"content-hash"`
	} `toml:"metadata"`
}

type lockPackage struct {
	Name           string         `toml:"name"`
	Version        string         `toml:"version"`
	Description    string         `toml:"description"`
	Optional       bool           `toml:"optional"`
	PythonVersions string         `toml:"python-versions"`
	Groups         []string       `toml:"groups"`
	Dependencies   map[string]any `toml:"dependencies"`
}
