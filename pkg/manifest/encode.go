package manifest

import (
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// Encode writes the manifest back out as canonical TOML. The output is
// semantically equivalent to the parsed input: the same keys and values,
// with table keys in sorted order. Comments and key ordering from the
// source document are not preserved.
func Encode(m *Manifest, w io.Writer) error {
	doc := encodeDocument(m)
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	return enc.Encode(doc)
}

// encDocument mirrors the pyproject.toml layout for encoding. Pointer
// fields with omitempty keep absent tables out of the output.
type encDocument struct {
	Project     *pep621Project `toml:"project,omitempty"`
	BuildSystem *buildSystem   `toml:"build-system,omitempty"`
	Tool        *encTool       `toml:"tool,omitempty"`
}

type encTool struct {
	Poetry *encPoetry   `toml:"poetry,omitempty"`
	Pytest *pytestTable `toml:"pytest,omitempty"`
}

type encPoetry struct {
	Name          string         `toml:"name,omitempty"`
	Version       string         `toml:"version,omitempty"`
	Description   string         `toml:"description,omitempty"`
	Authors       []string       `toml:"authors,omitempty"`
	Readme        string         `toml:"readme,omitempty"`
	License       string         `toml:"license,omitempty"`
	Classifiers   []string       `toml:"classifiers,omitempty"`
	Keywords      []string       `toml:"keywords,omitempty"`
	Homepage      string         `toml:"homepage,omitempty"`
	Repository    string         `toml:"repository,omitempty"`
	Documentation string         `toml:"documentation,omitempty"`
	Dependencies  map[string]any `toml:"dependencies,omitempty"`
	Group         map[string]encGroup `toml:"group,omitempty"`
}

type encGroup struct {
	Dependencies map[string]any `toml:"dependencies,omitempty"`
}

func encodeDocument(m *Manifest) encDocument {
	doc := encDocument{}

	if m.Build != nil {
		doc.BuildSystem = &buildSystem{Requires: m.Build.Requires, Backend: m.Build.Backend}
	}

	var tool encTool
	if m.Pytest != nil {
		pt := &pytestTable{}
		pt.IniOptions.PythonPath = m.Pytest.PythonPath
		pt.IniOptions.AddOpts = m.Pytest.AddOpts
		pt.IniOptions.TestPaths = m.Pytest.TestPaths
		tool.Pytest = pt
	}

	switch m.Layout {
	case LayoutPoetry:
		tool.Poetry = encodePoetry(m)
	default:
		doc.Project = encodePEP621(m)
	}

	if tool.Poetry != nil || tool.Pytest != nil {
		doc.Tool = &tool
	}
	return doc
}

func encodePoetry(m *Manifest) *encPoetry {
	p := &encPoetry{
		Name:          m.Project.Name,
		Version:       m.Project.Version,
		Description:   m.Project.Description,
		Authors:       m.Project.Authors,
		Readme:        m.Project.Readme,
		License:       m.Project.License,
		Classifiers:   m.Project.Classifiers,
		Keywords:      m.Project.Keywords,
		Homepage:      m.Project.Homepage,
		Repository:    m.Project.Repository,
		Documentation: m.Project.Documentation,
	}

	for _, g := range m.Groups {
		deps := make(map[string]any, len(g.Dependencies))
		for _, dep := range g.Dependencies {
			deps[dep.Name] = encodePoetryDep(dep)
		}
		if g.Name == MainGroup {
			if m.PythonRange != "" {
				deps["python"] = m.PythonRange
			}
			if len(deps) > 0 {
				p.Dependencies = deps
			}
			continue
		}
		if p.Group == nil {
			p.Group = make(map[string]encGroup)
		}
		p.Group[g.Name] = encGroup{Dependencies: deps}
	}
	return p
}

func encodePoetryDep(dep Dependency) any {
	if dep.origin != nil {
		return dep.origin
	}
	if dep.Python == "" && len(dep.Extras) == 0 && !dep.Optional {
		return dep.Raw
	}
	table := map[string]any{}
	if dep.Raw != "" {
		table["version"] = dep.Raw
	}
	if dep.Python != "" {
		table["python"] = dep.Python
	}
	if len(dep.Extras) > 0 {
		table["extras"] = dep.Extras
	}
	if dep.Optional {
		table["optional"] = true
	}
	return table
}

func encodePEP621(m *Manifest) *pep621Project {
	p := &pep621Project{
		Name:         m.Project.Name,
		Version:      m.Project.Version,
		Description:  m.Project.Description,
		Readme:       m.Project.Readme,
		RequiresSpec: m.PythonRange,
		Keywords:     m.Project.Keywords,
		Classifiers:  m.Project.Classifiers,
	}
	p.License.Text = m.Project.License

	for _, author := range m.Project.Authors {
		entry := struct {
			Name  string `toml:"name"`
			Email string `toml:"email"`
		}{}
		if open := strings.IndexByte(author, '<'); open >= 0 && strings.HasSuffix(author, ">") {
			entry.Name = strings.TrimSpace(author[:open])
			entry.Email = strings.TrimSuffix(author[open+1:], ">")
		} else {
			entry.Name = author
		}
		p.Authors = append(p.Authors, entry)
	}

	for _, g := range m.Groups {
		specs := make([]string, 0, len(g.Dependencies))
		for _, dep := range g.Dependencies {
			specs = append(specs, formatPEP508(dep))
		}
		if g.Name == MainGroup {
			p.Dependencies = specs
			continue
		}
		if p.OptionalDependencies == nil {
			p.OptionalDependencies = make(map[string][]string)
		}
		p.OptionalDependencies[g.Name] = specs
	}

	urls := map[string]string{}
	if m.Project.Homepage != "" {
		urls["Homepage"] = m.Project.Homepage
	}
	if m.Project.Repository != "" {
		urls["Repository"] = m.Project.Repository
	}
	if m.Project.Documentation != "" {
		urls["Documentation"] = m.Project.Documentation
	}
	if len(urls) > 0 {
		p.URLs = urls
	}
	return p
}

func formatPEP508(dep Dependency) string {
	s := dep.Name
	if len(dep.Extras) > 0 {
		s += "[" + strings.Join(dep.Extras, ",") + "]"
	}
	if dep.Raw != "" {
		s += dep.Raw
	}
	return s
}
