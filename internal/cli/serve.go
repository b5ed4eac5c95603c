package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyrite/internal/api"
	pyerrors "github.com/matzehuels/pyrite/pkg/errors"
	"github.com/matzehuels/pyrite/pkg/report"
)

// serveOpts holds flags for the serve command.
type serveOpts struct {
	addr     string
	storeDir string // file-backed report store directory
	mongoURI string // MongoDB report store connection string
	mongoDB  string
}

// newServeCmd creates the "serve" command, which runs the validation HTTP API.
func newServeCmd() *cobra.Command {
	opts := &serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the manifest validation HTTP API",
		Long: `Serve starts an HTTP server exposing manifest validation as an API:

  GET  /healthz          liveness and version
  POST /v1/validate      validate a pyproject.toml body, returns a report
  GET  /v1/reports       list persisted reports
  GET  /v1/reports/{id}  fetch one persisted report

Reports are persisted when a store is configured (--store-dir for a
file-backed store, --mongo-uri for MongoDB); without one the report
endpoints return 404 and validation results are not retained.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.storeDir, "store-dir", "", "directory for the file-backed report store")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB connection string for the report store")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", "pyrite", "MongoDB database name")
	cmd.MarkFlagsMutuallyExclusive("store-dir", "mongo-uri")

	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	store, err := newReportStore(ctx, opts)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close(context.Background())
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           api.NewServer(logger, store).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newReportStore builds the configured report store, or nil when
// persistence is disabled.
func newReportStore(ctx context.Context, opts *serveOpts) (report.Store, error) {
	switch {
	case opts.mongoURI != "":
		store, err := report.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB, "reports")
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		return store, nil
	case opts.storeDir != "":
		if err := pyerrors.ValidatePath(opts.storeDir); err != nil {
			return nil, err
		}
		store, err := report.NewFileStore(opts.storeDir)
		if err != nil {
			return nil, fmt.Errorf("open report store: %w", err)
		}
		return store, nil
	default:
		return nil, nil
	}
}
