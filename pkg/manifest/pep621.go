package manifest

import (
	"strings"
)

// pep621Project mirrors the [project] table (PEP 621).
type pep621Project struct {
	Name          string   `toml:"name"`
	Version       string   `toml:"version"`
	Description   string   `toml:"description"`
	Readme        string   `toml:"readme"`
	RequiresSpec  string   `toml:"requires-python"`
	Keywords      []string `toml:"keywords"`
	Classifiers   []string `toml:"classifiers"`
	Dependencies  []string `toml:"dependencies"`
	License       struct {
		Text string `toml:"text"`
		File string `toml:"file"`
	} `toml:"license"`
	Authors []struct {
		Name  string `toml:"name"`
		Email string `toml:"email"`
	} `toml:"authors"`
	OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	URLs                 map[string]string   `toml:"urls"`
}

func decodePEP621(m *Manifest, p *pep621Project) {
	m.Project = Project{
		Name:        p.Name,
		Version:     p.Version,
		Description: p.Description,
		Readme:      p.Readme,
		Keywords:    p.Keywords,
		Classifiers: p.Classifiers,
		License:     p.License.Text,
	}
	for _, a := range p.Authors {
		switch {
		case a.Name != "" && a.Email != "":
			m.Project.Authors = append(m.Project.Authors, a.Name+" <"+a.Email+">")
		case a.Name != "":
			m.Project.Authors = append(m.Project.Authors, a.Name)
		case a.Email != "":
			m.Project.Authors = append(m.Project.Authors, a.Email)
		}
	}
	for key, url := range p.URLs {
		switch strings.ToLower(key) {
		case "homepage":
			m.Project.Homepage = url
		case "repository", "source":
			m.Project.Repository = url
		case "documentation":
			m.Project.Documentation = url
		}
	}

	m.PythonRange = p.RequiresSpec

	main := Group{Name: MainGroup}
	for _, spec := range p.Dependencies {
		main.Dependencies = append(main.Dependencies, ParsePEP508(spec))
	}
	m.Groups = append(m.Groups, main)

	for _, groupName := range sortedKeys(p.OptionalDependencies) {
		g := Group{Name: groupName}
		for _, spec := range p.OptionalDependencies[groupName] {
			dep := ParsePEP508(spec)
			dep.Optional = true
			g.Dependencies = append(g.Dependencies, dep)
		}
		m.Groups = append(m.Groups, g)
	}
}

// ParsePEP508 splits a PEP 508 requirement string into name, extras, and
// the trailing version-constraint expression. Environment markers (after
// ";") are dropped; direct references ("name @ url") are flagged as
// non-registry dependencies.
//
// Splitting is lexical only: a garbage requirement still yields a
// Dependency whose Name or Raw fail validation later.
func ParsePEP508(spec string) Dependency {
	s := strings.TrimSpace(spec)

	// Drop environment markers.
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}

	// Direct URL reference.
	if i := strings.Index(s, "@"); i >= 0 {
		return Dependency{Name: strings.TrimSpace(s[:i]), NonRegistry: true}
	}

	dep := Dependency{}

	// Extras between brackets.
	if open := strings.IndexByte(s, '['); open >= 0 {
		if end := strings.IndexByte(s, ']'); end > open {
			for _, e := range strings.Split(s[open+1:end], ",") {
				if e = strings.TrimSpace(e); e != "" {
					dep.Extras = append(dep.Extras, e)
				}
			}
			s = s[:open] + s[end+1:]
		}
	}

	// The name ends at the first operator character.
	if i := strings.IndexAny(s, "><=!~("); i >= 0 {
		dep.Name = strings.TrimSpace(s[:i])
		dep.Raw = strings.TrimSpace(strings.Trim(strings.TrimSpace(s[i:]), "()"))
	} else {
		dep.Name = strings.TrimSpace(s)
	}
	return dep
}
