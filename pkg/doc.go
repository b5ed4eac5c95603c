// Package pkg provides the core libraries for Pyrite manifest tooling.
//
// # Overview
//
// Pyrite reads, validates, and audits Python project manifests
// (pyproject.toml). The pkg directory is organized into these areas:
//
//  1. [pep440] - Version and constraint parsing (PEP 440 plus Poetry shorthand)
//  2. [manifest] - pyproject.toml parsing, validation, and canonical encoding
//  3. [lockfile] - poetry.lock parsing and manifest verification
//  4. [audit] - Constraint freshness checks against a package registry
//  5. [registry] - HTTP registry clients with response caching
//  6. [report] - Run result documents with pluggable persistence
//  7. [render] - Dependency-group graphs as DOT and SVG
//  8. [cache] - File, Redis, and null cache backends
//
// # Architecture
//
// The typical data flow through Pyrite:
//
//	pyproject.toml
//	         ↓
//	    [manifest] package (parse + validate)
//	         ↓
//	    [lockfile] / [audit] / [render] (verify, compare, draw)
//	         ↓
//	    [report] package (persist + serialize)
//
// # Quick Start
//
// Load and validate a manifest:
//
//	import (
//	    "github.com/matzehuels/pyrite/pkg/manifest"
//	)
//
//	m, err := manifest.Load("pyproject.toml")
//	if err != nil {
//	    return err
//	}
//	findings := manifest.Validate(m)
//	if findings.HasErrors() {
//	    // reject the manifest
//	}
//
// Check a single constraint:
//
//	c, err := pep440.ParseConstraint("^1.3.1")
//	v, _ := pep440.Parse("1.4.0")
//	ok := c.Check(v)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/pep440/...    # Specific package
//
// [pep440]: https://pkg.go.dev/github.com/matzehuels/pyrite/pkg/pep440
// [manifest]: https://pkg.go.dev/github.com/matzehuels/pyrite/pkg/manifest
// [lockfile]: https://pkg.go.dev/github.com/matzehuels/pyrite/pkg/lockfile
// [audit]: https://pkg.go.dev/github.com/matzehuels/pyrite/pkg/audit
// [registry]: https://pkg.go.dev/github.com/matzehuels/pyrite/pkg/registry
// [report]: https://pkg.go.dev/github.com/matzehuels/pyrite/pkg/report
// [render]: https://pkg.go.dev/github.com/matzehuels/pyrite/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/pyrite/pkg/cache
package pkg
