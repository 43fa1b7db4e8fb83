package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/soyunomas/folderly/internal/api"
	"github.com/soyunomas/folderly/internal/engine"
	"github.com/soyunomas/folderly/internal/hasher"
	"github.com/soyunomas/folderly/internal/mutator"
	"github.com/soyunomas/folderly/internal/report"
	"github.com/spf13/cobra"
)

var (
	serveAddr      string
	serveNoArchive bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve listing, duplicate detection, mutations and the run archive
over HTTP.

Routes:
  GET  /api/roots
  GET  /api/files?root=&type=files|dirs&recursive=&suffix=
  GET  /api/duplicates?root=&by=&algorithm=&keep=&recursive=&prefilter=&suffix=&save=
  POST /api/mutations
  GET  /api/reports
  GET  /api/reports/:id`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "address to listen on")
	serveCmd.Flags().BoolVar(&serveNoArchive, "no-archive", false, "serve without the run archive")
}

func runServe(cmd *cobra.Command, args []string) error {
	alg, err := hasher.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return err
	}

	var archive *report.Archive
	if !serveNoArchive {
		if archive, err = openArchive(); err != nil {
			return err
		}
		defer archive.Close()
	}

	h := api.NewHandler(api.Config{
		Roots: named,
		Detect: engine.Options{
			Recursive: true,
			Prefilter: true,
			Algorithm: alg,
			Workers:   cfg.Workers,
		},
		Mutate: mutator.Options{
			Workers: cfg.Workers,
			Timeout: cfg.OpTimeout,
		},
		Archive: archive,
		Logger:  logger,
	})
	e := api.NewServer(h)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", serveAddr, "archive", archive != nil)
		errCh <- e.Start(serveAddr)
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", serveAddr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
