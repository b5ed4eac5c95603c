package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyrite/pkg/audit"
	"github.com/matzehuels/pyrite/pkg/cache"
	"github.com/matzehuels/pyrite/pkg/manifest"
	"github.com/matzehuels/pyrite/pkg/registry/pypi"
	"github.com/matzehuels/pyrite/pkg/report"
)

// auditOpts holds flags for the audit command.
type auditOpts struct {
	format  string
	output  string
	refresh bool // bypass cached registry responses
	noCache bool // disable the response cache entirely
	all     bool // show current dependencies too, not just outdated ones
}

// newAuditCmd creates the "audit" command, which compares every registry
// dependency's constraint against the latest PyPI release.
func newAuditCmd() *cobra.Command {
	opts := &auditOpts{}

	cmd := &cobra.Command{
		Use:   "audit [pyproject.toml]",
		Short: "Check dependency constraints against the latest PyPI releases",
		Long: `Audit fetches the latest release of every registry dependency from PyPI
and reports constraints that no longer admit it. Git, URL, and path
dependencies are skipped.

Registry responses are cached under the XDG cache directory; use
--refresh to bypass cached entries or --no-cache to disable caching.

The command exits non-zero when any dependency is outdated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := manifestPath(args)
			if err != nil {
				return err
			}
			return runAudit(cmd, opts, path)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text, json, or yaml")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached registry responses")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the response cache")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "list current dependencies too")

	return cmd
}

func runAudit(cmd *cobra.Command, opts *auditOpts, path string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	m, err := manifest.Load(path)
	if err != nil {
		return err
	}

	backend, err := newCache(ctx, opts.noCache)
	if err != nil {
		logger.Warnf("cache unavailable, continuing without: %v", err)
		backend = cache.NewNullCache()
	}
	defer backend.Close()

	client := pypi.NewClient(backend, cache.TTLRelease)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Auditing %d dependencies against PyPI", m.DependencyCount()))
	spinner.Start()

	results, err := audit.Run(ctx, client, m, opts.refresh)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return err
		}
		spinner.StopWithError(fmt.Sprintf("Audit failed: %v", err))
		return err
	}

	outdated := audit.Outdated(results)
	if len(outdated) == 0 {
		spinner.StopWithSuccess(fmt.Sprintf("%s: all %d dependencies admit the latest release", m.Project.Name, m.DependencyCount()))
	} else {
		spinner.StopWithError(fmt.Sprintf("%s: %d outdated dependencies", m.Project.Name, len(outdated)))
	}
	prog.done(fmt.Sprintf("Audited %d dependencies", len(results)))

	r := report.New(report.KindAudit, m)
	r.Audit = results

	if err := emitReport(r, opts.format, opts.output); err != nil {
		return err
	}

	if opts.format == "text" {
		printAuditResults(results, opts.all)
	}

	if len(outdated) > 0 {
		return fmt.Errorf("%d outdated dependencies", len(outdated))
	}
	return nil
}

// printAuditResults renders per-dependency audit lines. Current and skipped
// dependencies are only listed with all set.
func printAuditResults(results []audit.Result, all bool) {
	for _, res := range results {
		switch res.Status {
		case audit.StatusOutdated:
			printError("%s/%s %s: latest is %s", res.Group, res.Package, res.Constraint, res.Latest)
		case audit.StatusNotFound:
			printWarning("%s/%s: not on PyPI", res.Group, res.Package)
		case audit.StatusError:
			printWarning("%s/%s: %s", res.Group, res.Package, res.Detail)
		case audit.StatusCurrent:
			if all {
				printSuccess("%s/%s %s (latest %s)", res.Group, res.Package, res.Constraint, res.Latest)
			}
		case audit.StatusSkipped:
			if all {
				printDetail("%s/%s: %s", res.Group, res.Package, res.Detail)
			}
		}
	}
}
