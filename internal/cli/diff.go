package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/diffnorris/internal/platform"
	"github.com/sdejongh/diffnorris/pkg/config"
	"github.com/sdejongh/diffnorris/pkg/diff"
	"github.com/sdejongh/diffnorris/pkg/logging"
	"github.com/sdejongh/diffnorris/pkg/output"
	"github.com/sdejongh/diffnorris/pkg/ratelimit"
	"github.com/sdejongh/diffnorris/pkg/storage"
)

// NewRootCommand creates the root command, which runs the comparison
func NewRootCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diffnorris <left> <right>",
		Short: "Structural and content-level diff for files, directories and NIfTI images",
		Long: `diffnorris compares two filesystem objects and reports where they
diverge. Directories are reconciled entry by entry, regular files are
streamed through a byte-level similarity scan, and NIfTI-1 images are
compared voxel-by-voxel with type-correct, tolerance-aware numeric
semantics.

Exit codes: 0 when the objects match, 1 when differences were found,
2 when the comparison could not run.`,
		Version:       version,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDiff,
	}

	AddGlobalFlags(cmd)
	AddDiffFlags(cmd)

	cmd.AddCommand(NewConfigCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	left := platform.Normalize(args[0])
	right := platform.Normalize(args[1])

	if err := validateArgs(left, right); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagsToConfig(cmd, cfg)

	logger, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logger.Close()

	backend := storage.NewLocal()
	defer backend.Close()

	opts := diff.Options{
		ChunkSize:       cfg.Compare.ChunkSize,
		FloatTolerance:  cfg.Compare.FloatTolerance,
		MaxWorkers:      cfg.Performance.MaxWorkers,
		Exclude:         cfg.Exclude,
		ContinueOnError: cfg.Compare.ContinueOnError,
		Logger:          logger,
	}

	if limiter := ratelimit.NewLimiter(cfg.Performance.BandwidthLimit); limiter != nil {
		opts.ReaderWrapper = func(r io.Reader) io.Reader {
			return ratelimit.NewReader(ctx, r, limiter)
		}
	}

	var reporter *output.ProgressReporter
	if cfg.Output.Progress && cfg.Output.Format == "human" && !cfg.Output.Quiet {
		reporter = output.NewProgressReporter(os.Stderr)
		opts.Progress = reporter.Callback()
	}

	session := diff.NewSession(left, right)
	result, err := diff.New(backend, opts).Diff(ctx, left, right)
	session.Finish(result, err)

	if reporter != nil {
		reporter.Stop()
	}

	if err != nil {
		logger.Error(ctx, "comparison failed", err, logging.Fields{
			"left":  left,
			"right": right,
		})
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(diff.StatusFailed.ExitCode())
	}

	formatter := output.New(cfg.Output.Format, output.Options{
		Color: cfg.Output.Color,
		Quiet: cfg.Output.Quiet,
		Debug: diffFlags.Debug,
	})
	if err := formatter.Render(os.Stdout, session); err != nil {
		return err
	}

	os.Exit(session.Status.ExitCode())
	return nil
}

// loadConfig loads the configured or default config file
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with explicit flags
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config) {
	if diffFlags.Workers > 0 {
		cfg.Performance.MaxWorkers = diffFlags.Workers
	}
	if diffFlags.ChunkSize > 0 {
		cfg.Compare.ChunkSize = diffFlags.ChunkSize
	}
	if len(diffFlags.Exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, diffFlags.Exclude...)
	}
	if diffFlags.BandwidthLimit > 0 {
		cfg.Performance.BandwidthLimit = diffFlags.BandwidthLimit
	}
	if diffFlags.FailFast {
		cfg.Compare.ContinueOnError = false
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Format = diffFlags.Output
	}
	if diffFlags.NoProgress {
		cfg.Output.Progress = false
	}
	if globalFlags.Quiet {
		cfg.Output.Quiet = true
	}
	if globalFlags.Verbose && cfg.Logging.Enabled {
		cfg.Logging.Level = "debug"
	}
}

// buildLogger creates the logger configured in cfg
func buildLogger(cfg *config.Config) (logging.Logger, error) {
	if !cfg.Logging.Enabled || cfg.Logging.File == "" {
		return logging.NewNullLogger(), nil
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:   cfg.Logging.File,
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})
}
