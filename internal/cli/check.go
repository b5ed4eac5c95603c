package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyrite/pkg/manifest"
	"github.com/matzehuels/pyrite/pkg/report"
)

// checkOpts holds flags shared by check and lock verify.
type checkOpts struct {
	format string // text, json, or yaml
	strict bool   // treat warnings as errors
	output string // output file ("" = stdout)
}

// newCheckCmd creates the "check" command, which validates a manifest and
// reports findings.
func newCheckCmd() *cobra.Command {
	opts := &checkOpts{}

	cmd := &cobra.Command{
		Use:   "check [pyproject.toml]",
		Short: "Validate a pyproject.toml manifest",
		Long: `Check parses a pyproject.toml manifest and validates its identity fields,
build-system declaration, dependency groups, and version constraints.

Errors are structural problems a packaging tool would reject: missing
required fields, malformed constraints, duplicate packages within a group.
Warnings flag suspicious but tolerated declarations, such as the same
package pinned in two different groups.

The command exits non-zero when any error is found (or any warning with
--strict).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := manifestPath(args)
			if err != nil {
				return err
			}
			return runCheck(cmd, opts, path)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text, json, or yaml")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "treat warnings as errors")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to a file instead of stdout")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOpts, path string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	logger.Debugf("parsed %s layout manifest from %s", m.Layout, path)

	r := report.New(report.KindCheck, m)
	r.Findings = manifest.Validate(m)
	prog.done(fmt.Sprintf("Checked %d dependencies in %d groups", m.DependencyCount(), len(m.Groups)))

	if err := emitReport(r, opts.format, opts.output); err != nil {
		return err
	}

	if opts.format == "text" {
		printCheckSummary(r, opts.strict)
	}

	return findingsExitError(r.Findings, opts.strict)
}

// emitReport writes r in the requested format to output (stdout if empty).
// The text format is only written to files; terminal text output goes
// through the styled summary instead.
func emitReport(r *report.Report, format, output string) error {
	if format == "text" && output == "" {
		return nil
	}
	out, err := openOutput(output)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Close()

	switch format {
	case "json":
		return r.EncodeJSON(out)
	case "yaml":
		return r.EncodeYAML(out)
	case "text":
		return r.EncodeText(out)
	default:
		return fmt.Errorf("unknown format %q (want text, json, or yaml)", format)
	}
}

// printCheckSummary renders findings as styled terminal output.
func printCheckSummary(r *report.Report, strict bool) {
	errs := r.Findings.Errors()
	warns := r.Findings.Warnings()

	for _, f := range errs {
		printError("%s", f)
	}
	for _, f := range warns {
		printWarning("%s", f)
	}

	switch {
	case len(errs) > 0:
		printNewline()
		printError("%s: %d error(s), %d warning(s)", r.Project, len(errs), len(warns))
	case len(warns) > 0 && strict:
		printNewline()
		printError("%s: %d warning(s) (strict)", r.Project, len(warns))
	case len(warns) > 0:
		printNewline()
		printWarning("%s: valid with %d warning(s)", r.Project, len(warns))
	default:
		printSuccess("%s: manifest is valid", r.Project)
	}
}

// findingsExitError converts findings into a command error so the process
// exits non-zero. Under strict mode warnings fail too.
func findingsExitError(fs manifest.Findings, strict bool) error {
	if fs.HasErrors() {
		return fmt.Errorf("%d validation error(s)", len(fs.Errors()))
	}
	if strict && len(fs.Warnings()) > 0 {
		return fmt.Errorf("%d warning(s) in strict mode", len(fs.Warnings()))
	}
	return nil
}
