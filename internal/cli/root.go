// Package cli provides the command-line interface for folderly.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/soyunomas/folderly/internal/config"
	"github.com/soyunomas/folderly/internal/engine"
	"github.com/soyunomas/folderly/internal/hasher"
	"github.com/soyunomas/folderly/internal/mutator"
	"github.com/soyunomas/folderly/internal/report"
	"github.com/soyunomas/folderly/internal/roots"
	"github.com/soyunomas/folderly/internal/telemetry"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose     bool
	traceSpans  bool
	format      string
	archivePath string

	// Set up once per invocation by the root command
	cfg    config.Config
	logger *slog.Logger
	named  roots.Roots

	closeLog      func() error
	shutdownTrace func(context.Context) error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "folderly",
	Short: "Find duplicate files and copy, move or delete in bulk",
	Long: `Folderly finds duplicate files by name, size or content digest and
copies, moves or deletes files and folders in batches, with explicit
overwrite and confirmation rules.

Folders may be given as paths or as named roots such as Desktop,
Downloads or Documents.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Nothing to set up for version and help
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		switch format {
		case "text", "json", "yaml":
		default:
			return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
		}

		cfg = config.Load()
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}
		if traceSpans {
			cfg.Trace = true
		}
		if archivePath != "" {
			cfg.Archive = archivePath
		}

		logger, closeLog = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)

		if cfg.Trace {
			shutdown, err := telemetry.Init(cmd.ErrOrStderr(), Version)
			if err != nil {
				return fmt.Errorf("init tracing: %w", err)
			}
			shutdownTrace = shutdown
		}

		named = roots.UserDirs(cfg.Home)
		logger.Debug("configured", "home", named.Home(), "roots", named.Len(), "workers", cfg.Workers)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer cleanup()
	return rootCmd.ExecuteContext(ctx)
}

// cleanup flushes spans and closes the log file. It is safe to call twice.
func cleanup() {
	if shutdownTrace != nil {
		if err := shutdownTrace(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to flush traces: %v\n", err)
		}
		shutdownTrace = nil
	}
	if closeLog != nil {
		if err := closeLog(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
		closeLog = nil
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&traceSpans, "trace", false, "print OpenTelemetry spans to stderr")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "o", "text", "output format: text, json or yaml")
	rootCmd.PersistentFlags().StringVar(&archivePath, "archive", "", "run archive database (default $FOLDERLY_ARCHIVE)")

	// Add subcommands
	rootCmd.AddCommand(rootsCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dupesCmd)
	rootCmd.AddCommand(dedupeCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(versionCmd)
}

// detectOptions builds detector options from configuration and flags. An
// empty algorithm falls back to $FOLDERLY_ALGORITHM.
func detectOptions(f detectFlags) (engine.Options, error) {
	name := f.algorithm
	if name == "" {
		name = cfg.Algorithm
	}
	alg, err := hasher.ParseAlgorithm(name)
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{
		Recursive: f.recursive,
		Suffix:    f.suffix,
		Algorithm: alg,
		Workers:   cfg.Workers,
		Prefilter: f.prefilter,
		Logger:    logger,
	}, nil
}

// newMutator returns a mutator using the configured timeout. Zero workers
// means the configured worker count.
func newMutator(confirm mutator.Confirmer, workers int) *mutator.Mutator {
	if workers <= 0 {
		workers = cfg.Workers
	}
	return mutator.New(mutator.Options{
		Confirm: confirm,
		Workers: workers,
		Timeout: cfg.OpTimeout,
		Logger:  logger,
	})
}

// openArchive opens the run archive named by --archive or $FOLDERLY_ARCHIVE.
func openArchive() (*report.Archive, error) {
	archive, err := report.Open(cfg.Archive)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return archive, nil
}
