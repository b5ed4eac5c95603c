package manifest

import (
	"fmt"
	"sort"
)

// poetryTable mirrors [tool.poetry] and its nested dependency tables.
// Dependency values are left as raw TOML values since Poetry allows a
// plain constraint string or an inline table per entry.
type poetryTable struct {
	Name          string         `toml:"name"`
	Version       string         `toml:"version"`
	Description   string         `toml:"description"`
	Authors       []string       `toml:"authors"`
	Readme        string         `toml:"readme"`
	License       string         `toml:"license"`
	Classifiers   []string       `toml:"classifiers"`
	Keywords      []string       `toml:"keywords"`
	Homepage      string         `toml:"homepage"`
	Repository    string         `toml:"repository"`
	Documentation string         `toml:"documentation"`
	Dependencies  map[string]any `toml:"dependencies"`

	// Legacy [tool.poetry.dev-dependencies] table, still common in
	// manifests authored before Poetry 1.2 groups.
	DevDependencies map[string]any `toml:"dev-dependencies"`

	Group map[string]struct {
		Optional     bool           `toml:"optional"`
		Dependencies map[string]any `toml:"dependencies"`
	} `toml:"group"`
}

func decodePoetry(m *Manifest, p *poetryTable) {
	m.Project = Project{
		Name:          p.Name,
		Version:       p.Version,
		Description:   p.Description,
		Authors:       p.Authors,
		Readme:        p.Readme,
		License:       p.License,
		Classifiers:   p.Classifiers,
		Keywords:      p.Keywords,
		Homepage:      p.Homepage,
		Repository:    p.Repository,
		Documentation: p.Documentation,
	}

	main := Group{Name: MainGroup}
	for _, name := range sortedKeys(p.Dependencies) {
		dep := decodePoetryDep(name, p.Dependencies[name])
		if dep.Normalized() == "python" {
			m.PythonRange = dep.Raw
			continue
		}
		main.Dependencies = append(main.Dependencies, dep)
	}
	m.Groups = append(m.Groups, main)

	if len(p.DevDependencies) > 0 {
		dev := Group{Name: "dev"}
		for _, name := range sortedKeys(p.DevDependencies) {
			dev.Dependencies = append(dev.Dependencies, decodePoetryDep(name, p.DevDependencies[name]))
		}
		m.Groups = append(m.Groups, dev)
	}

	for _, groupName := range sortedKeys(p.Group) {
		g := Group{Name: groupName}
		table := p.Group[groupName]
		for _, name := range sortedKeys(table.Dependencies) {
			g.Dependencies = append(g.Dependencies, decodePoetryDep(name, table.Dependencies[name]))
		}
		m.Groups = append(m.Groups, g)
	}
}

// decodePoetryDep interprets a single Poetry dependency value: either a
// constraint string, an inline table with version/extras/python/optional
// keys, or a git/url/path source table.
func decodePoetryDep(name string, value any) Dependency {
	dep := Dependency{Name: name, origin: value}

	switch v := value.(type) {
	case string:
		dep.Raw = v

	case map[string]any:
		if ver, ok := v["version"].(string); ok {
			dep.Raw = ver
		}
		if py, ok := v["python"].(string); ok {
			dep.Python = py
		}
		if opt, ok := v["optional"].(bool); ok {
			dep.Optional = opt
		}
		if extras, ok := v["extras"].([]any); ok {
			for _, e := range extras {
				if s, ok := e.(string); ok {
					dep.Extras = append(dep.Extras, s)
				}
			}
		}
		for _, key := range []string{"git", "url", "path"} {
			if _, ok := v[key]; ok {
				dep.NonRegistry = true
			}
		}

	case []any:
		// Multiple-constraint dependency: one entry per environment.
		// Keep the first constraint for constraint-level checks.
		if len(v) > 0 {
			if table, ok := v[0].(map[string]any); ok {
				first := decodePoetryDep(name, table)
				first.origin = value
				return first
			}
		}

	default:
		dep.Raw = fmt.Sprintf("%v", value)
	}

	return dep
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
