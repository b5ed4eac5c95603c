// Package render draws the project → group → dependency structure of a
// manifest as Graphviz DOT and SVG.
package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/pyrite/pkg/manifest"
)

// Options configures graph rendering.
type Options struct {
	// ShowConstraints includes the version constraint in dependency labels.
	ShowConstraints bool
	// Groups restricts rendering to the named groups; empty means all.
	Groups []string
}

// ToDOT converts a manifest to Graphviz DOT format. The project is the
// root, each dependency group a cluster child, and shared dependencies
// collapse to one node with an edge from every declaring group.
//
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(m *manifest.Manifest, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph manifest {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.7;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	rootLabel := m.Project.Name
	if rootLabel == "" {
		rootLabel = "project"
	}
	if m.Project.Version != "" {
		rootLabel += "\n" + m.Project.Version
	}
	fmt.Fprintf(&buf, "  %q [label=%q, style=\"bold,filled\", fillcolor=lightyellow];\n", rootID, rootLabel)

	include := groupFilter(opts.Groups)
	pkgSeen := make(map[string]bool)

	for _, g := range m.Groups {
		if !include(g.Name) {
			continue
		}
		gid := "group:" + g.Name
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightblue];\n", gid, g.Name)
		fmt.Fprintf(&buf, "  %q -> %q;\n", rootID, gid)

		deps := make([]manifest.Dependency, len(g.Dependencies))
		copy(deps, g.Dependencies)
		sort.Slice(deps, func(i, j int) bool { return deps[i].Normalized() < deps[j].Normalized() })

		for _, dep := range deps {
			pid := "pkg:" + dep.Normalized()
			if !pkgSeen[pid] {
				pkgSeen[pid] = true
				fmt.Fprintf(&buf, "  %q [label=%q%s];\n", pid, depLabel(dep, opts), depStyle(dep))
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", gid, pid)
		}
		buf.WriteString("\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

const rootID = "__project__"

func depLabel(dep manifest.Dependency, opts Options) string {
	label := dep.Normalized()
	if opts.ShowConstraints {
		switch {
		case dep.NonRegistry:
			label += "\n(git/url/path)"
		case dep.Raw != "":
			label += "\n" + dep.Raw
		}
	}
	return label
}

func depStyle(dep manifest.Dependency) string {
	if dep.NonRegistry {
		return ", style=\"rounded,filled,dashed\", fillcolor=lightgrey"
	}
	return ""
}

func groupFilter(names []string) func(string) bool {
	if len(names) == 0 {
		return func(string) bool { return true }
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.TrimSpace(n)] = true
	}
	return func(name string) bool { return set[name] }
}
