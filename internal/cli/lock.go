package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyrite/pkg/lockfile"
	"github.com/matzehuels/pyrite/pkg/manifest"
	"github.com/matzehuels/pyrite/pkg/report"
)

// defaultLockfile is the filename looked up next to the manifest.
const defaultLockfile = "poetry.lock"

// newLockCmd creates the "lock" command group.
func newLockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Work with poetry.lock files",
	}

	cmd.AddCommand(newLockVerifyCmd())

	return cmd
}

// newLockVerifyCmd creates the "lock verify" subcommand, which checks that
// every manifest dependency has a lockfile pin inside its constraint.
func newLockVerifyCmd() *cobra.Command {
	opts := &checkOpts{}

	cmd := &cobra.Command{
		Use:   "verify [dir]",
		Short: "Verify poetry.lock against the manifest",
		Long: `Verify loads pyproject.toml and poetry.lock from the given directory
(default: the working directory) and checks that every registry dependency
declared in the manifest has a locked package whose pinned version
satisfies the declared constraint.

Missing packages and pins outside their constraint are errors; a lockfile
recorded against a different python range is a warning.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runLockVerify(cmd, opts, dir)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text, json, or yaml")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "treat warnings as errors")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to a file instead of stdout")

	return cmd
}

func runLockVerify(cmd *cobra.Command, opts *checkOpts, dir string) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	manifestFile := filepath.Join(dir, defaultManifest)
	lockFile := filepath.Join(dir, defaultLockfile)

	m, err := manifest.Load(manifestFile)
	if err != nil {
		return err
	}
	if _, err := os.Stat(lockFile); err != nil {
		return fmt.Errorf("no %s next to %s (run your package manager's lock first)", defaultLockfile, manifestFile)
	}
	l, err := lockfile.Load(lockFile)
	if err != nil {
		return err
	}
	logger.Debugf("lockfile: %d packages, lock-version %s", len(l.Packages), l.Metadata.LockVersion)

	r := report.New(report.KindLockVerify, m)
	r.Findings = lockfile.Verify(m, l)
	prog.done(fmt.Sprintf("Verified %d dependencies against %d locked packages", m.DependencyCount(), len(l.Packages)))

	if err := emitReport(r, opts.format, opts.output); err != nil {
		return err
	}

	if opts.format == "text" {
		errs := r.Findings.Errors()
		warns := r.Findings.Warnings()
		for _, f := range errs {
			printError("%s", f)
		}
		for _, f := range warns {
			printWarning("%s", f)
		}
		if len(errs) == 0 && (!opts.strict || len(warns) == 0) {
			printSuccess("%s: lockfile satisfies the manifest", m.Project.Name)
		}
	}

	return findingsExitError(r.Findings, opts.strict)
}
