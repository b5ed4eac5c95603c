package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyrite/pkg/manifest"
)

// newFmtCmd creates the "fmt" command, which re-serializes a manifest in
// canonical form.
func newFmtCmd() *cobra.Command {
	var write bool
	var output string

	cmd := &cobra.Command{
		Use:   "fmt [pyproject.toml]",
		Short: "Canonicalize a manifest's TOML serialization",
		Long: `Fmt parses a pyproject.toml manifest and re-serializes it with sorted
tables and consistent formatting. Dependency declarations keep their
original shape (string constraints stay strings, tables stay tables).
The legacy [tool.poetry.dev-dependencies] table is rewritten to its
modern equivalent, [tool.poetry.group.dev.dependencies].

By default the canonical form is printed to stdout. With --write the
manifest file is rewritten in place.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := manifestPath(args)
			if err != nil {
				return err
			}

			m, err := manifest.Load(path)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := manifest.Encode(m, &buf); err != nil {
				return fmt.Errorf("encode manifest: %w", err)
			}

			if write {
				original, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if bytes.Equal(original, buf.Bytes()) {
					printInfo("%s is already canonical", path)
					return nil
				}
				if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write manifest: %w", err)
				}
				printSuccess("Formatted %s", path)
				return nil
			}

			out, err := openOutput(output)
			if err != nil {
				return fmt.Errorf("open output: %w", err)
			}
			defer out.Close()
			_, err = out.Write(buf.Bytes())
			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the manifest file in place")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the canonical form to a file instead of stdout")
	cmd.MarkFlagsMutuallyExclusive("write", "output")

	return cmd
}
