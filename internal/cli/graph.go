package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyrite/pkg/cache"
	"github.com/matzehuels/pyrite/pkg/manifest"
	"github.com/matzehuels/pyrite/pkg/render"
)

// graphOpts holds flags for the graph command.
type graphOpts struct {
	format      string   // dot or svg
	output      string   // output file ("" = stdout)
	constraints bool     // include constraints in edge labels
	groups      []string // restrict to named groups
	noCache     bool     // disable the rendered-artifact cache
}

// newGraphCmd creates the "graph" command, which renders the project's
// dependency-group structure.
func newGraphCmd() *cobra.Command {
	opts := &graphOpts{}

	cmd := &cobra.Command{
		Use:   "graph [pyproject.toml]",
		Short: "Render the dependency-group structure as DOT or SVG",
		Long: `Graph renders the manifest's project, groups, and dependencies as a
directed graph. Packages shared across groups appear once with edges from
each declaring group; git/url/path dependencies are drawn dashed.

The DOT output can be piped to any Graphviz tool; SVG output is rendered
in-process. Rendered SVGs are cached under the XDG cache directory and
reused while the manifest is unchanged; use --no-cache to disable this.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := manifestPath(args)
			if err != nil {
				return err
			}
			return runGraph(cmd, opts, path)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "dot", "output format: dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write output to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.constraints, "constraints", false, "include version constraints in labels")
	cmd.Flags().StringSliceVar(&opts.groups, "groups", nil, "restrict to the named dependency groups")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the rendered-artifact cache")

	return cmd
}

func runGraph(cmd *cobra.Command, opts *graphOpts, path string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	m, err := manifest.Load(path)
	if err != nil {
		return err
	}

	dot := render.ToDOT(m, render.Options{
		ShowConstraints: opts.constraints,
		Groups:          opts.groups,
	})

	out, err := openOutput(opts.output)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Close()

	switch opts.format {
	case "dot":
		if _, err := out.Write([]byte(dot)); err != nil {
			return err
		}
	case "svg":
		prog := newProgress(logger)

		c, err := newCache(ctx, opts.noCache)
		if err != nil {
			logger.Warnf("artifact cache unavailable: %v", err)
			c = cache.NewNullCache()
		}
		defer c.Close()

		key := renderCacheKey(cache.NewDefaultKeyer(), dot, opts)
		svg, hit, err := c.Get(ctx, key)
		if err != nil {
			logger.Debugf("artifact cache read: %v", err)
		}
		if hit {
			prog.done("Rendered SVG (cached)")
		} else {
			svg, err = render.RenderSVG(ctx, dot)
			if err != nil {
				return fmt.Errorf("render svg: %w", err)
			}
			if err := c.Set(ctx, key, svg, cache.TTLArtifact); err != nil {
				logger.Debugf("artifact cache write: %v", err)
			}
			prog.done("Rendered SVG")
		}
		if _, err := out.Write(svg); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want dot or svg)", opts.format)
	}

	if opts.output != "" {
		printSuccess("Rendered %s graph", opts.format)
		printFile(opts.output)
	}
	return nil
}

// renderCacheKey derives the artifact cache key for one render request.
// The DOT source already reflects group filtering and constraint labels,
// so its hash identifies the drawing; format and groups are kept in the
// key options for readability of keyer implementations.
func renderCacheKey(keyer cache.Keyer, dot string, opts *graphOpts) string {
	return keyer.RenderKey(cache.Hash([]byte(dot)), cache.RenderKeyOpts{
		Format: opts.format,
		Groups: strings.Join(opts.groups, ","),
	})
}
