package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyrite/pkg/manifest"
)

// newShowCmd creates the "show" command, which prints a manifest summary.
func newShowCmd() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "show [pyproject.toml]",
		Short: "Inspect a manifest's identity, groups, and build system",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := manifestPath(args)
			if err != nil {
				return err
			}
			m, err := manifest.Load(path)
			if err != nil {
				return err
			}
			if interactive {
				return runBrowser(m)
			}
			printManifest(m)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse dependencies in an interactive TUI")

	return cmd
}

func printManifest(m *manifest.Manifest) {
	fmt.Println(StyleTitle.Render(m.Project.Name) + " " + StyleHighlight.Render(m.Project.Version))
	if m.Project.Description != "" {
		printDetail("%s", m.Project.Description)
	}
	printNewline()

	printKeyValue("layout", string(m.Layout))
	if m.PythonRange != "" {
		printKeyValue("python", m.PythonRange)
	}
	if m.Project.License != "" {
		printKeyValue("license", m.Project.License)
	}
	if len(m.Project.Authors) > 0 {
		printKeyValue("authors", strings.Join(m.Project.Authors, ", "))
	}
	if m.Project.Homepage != "" {
		printKeyValue("homepage", m.Project.Homepage)
	}
	if m.Project.Repository != "" {
		printKeyValue("repository", m.Project.Repository)
	}
	if m.Build != nil {
		printKeyValue("backend", m.Build.Backend)
		printKeyValue("requires", strings.Join(m.Build.Requires, ", "))
	}

	for _, g := range m.Groups {
		printNewline()
		fmt.Println(StyleTitle.Render("[" + g.Name + "]"))
		for _, dep := range g.Dependencies {
			label := dep.Raw
			if dep.NonRegistry {
				label = "(git/url/path)"
			}
			if label == "" {
				label = "*"
			}
			if len(dep.Extras) > 0 {
				label += "  extras: " + strings.Join(dep.Extras, ",")
			}
			fmt.Println("  " + StyleValue.Render(dep.Name) + " " + StyleDim.Render(label))
		}
	}

	if m.Pytest != nil {
		printNewline()
		fmt.Println(StyleTitle.Render("[pytest]"))
		if len(m.Pytest.TestPaths) > 0 {
			printKeyValue("testpaths", strings.Join(m.Pytest.TestPaths, ", "))
		}
		if len(m.Pytest.PythonPath) > 0 {
			printKeyValue("pythonpath", strings.Join(m.Pytest.PythonPath, ", "))
		}
		if m.Pytest.AddOpts != "" {
			printKeyValue("addopts", m.Pytest.AddOpts)
		}
	}

	printNewline()
	printStats(len(m.Groups), m.DependencyCount(), false)
	printNextStep("Validate it", "pyrite check "+displaySource(m))
}

// displaySource returns the manifest path for next-step hints, falling
// back to the default filename for manifests parsed from readers.
func displaySource(m *manifest.Manifest) string {
	if m.Source == "" {
		return defaultManifest
	}
	return m.Source
}
