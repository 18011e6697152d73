package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"affected/internal/config"
	"affected/internal/diff"
	"affected/internal/errors"
	"affected/internal/git"
	"affected/internal/impact"
	"affected/internal/paths"
	"affected/internal/slogutil"
)

// runAnalyze wires configuration, diff source, and analyzer for one run.
// Configuration and pattern problems are reported before git or the
// filesystem scan is touched.
func runAnalyze(cmd *cobra.Command, opts *rootOptions) error {
	format, err := ParseFormat(opts.format)
	if err != nil {
		return err
	}

	repoRoot, cfg, err := loadRunConfig(cmd, opts)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := newLogger(cmd.ErrOrStderr(), cfg, opts).With("runId", runID)

	summarizer, err := impact.NewSummarizer(cfg.FilterPattern)
	if err != nil {
		return err
	}

	scanner, err := impact.NewTreeScanner(impact.ScannerOptions{
		Exclude:     cfg.Exclude,
		Concurrency: cfg.Concurrency,
		MaxFileSize: cfg.MaxFileSizeBytes,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	diffText, err := readDiff(ctx, cmd.InOrStdin(), repoRoot, cfg, opts, logger)
	if err != nil {
		return err
	}

	files, err := diff.Parse(diffText)
	if err != nil {
		return err
	}
	for _, f := range files {
		logger.Debug("Changed file", "path", diff.EffectivePath(f), "hunks", len(f.Hunks))
	}

	sourceRoot := paths.SourceRoot(repoRoot, cfg.SourceDir)
	logger.Info("Starting impact analysis",
		"repoRoot", repoRoot,
		"sourceRoot", sourceRoot,
		"changedFiles", len(files),
		"filterPattern", cfg.FilterPattern,
	)

	analyzer := impact.NewAnalyzer(scanner, summarizer, logger)
	result, err := analyzer.Analyze(ctx, impact.AnalyzeRequest{
		Files:      files,
		SourceRoot: sourceRoot,
	})
	if err != nil {
		return err
	}

	report := buildReport(reportInput{
		RunID:      runID,
		RepoRoot:   repoRoot,
		SourceRoot: sourceRoot,
		Ref:        opts.commitToCompare,
		Pattern:    summarizer.Pattern(),
		Relative:   opts.relative,
		Stats:      diff.ComputeStats(files),
		Result:     result,
		Summarizer: summarizer,
	})

	return WriteReport(cmd.OutOrStdout(), report, format)
}

// loadRunConfig resolves the repository root, loads its configuration, and
// applies explicitly set flags on top.
func loadRunConfig(cmd *cobra.Command, opts *rootOptions) (string, *config.Config, error) {
	if opts.repositoryPath == "" {
		return "", nil, errors.New(errors.ConfigurationError, "--repositoryPath is required", nil)
	}

	repoRoot, err := paths.ResolveRepoRoot(opts.repositoryPath)
	if err != nil {
		return "", nil, err
	}

	cfg, err := config.LoadConfig(repoRoot)
	if err != nil {
		return "", nil, errors.New(errors.ConfigurationError, "failed to load "+config.FileName, err)
	}

	applyFlagOverrides(cmd, opts, cfg)

	if err := cfg.Validate(); err != nil {
		detail := map[string]string{}
		if ce, ok := err.(*config.ConfigError); ok {
			detail["field"] = ce.Field
		}
		return "", nil, errors.New(errors.ConfigurationError, "invalid configuration", err).WithDetails(detail)
	}

	return repoRoot, cfg, nil
}

// applyFlagOverrides copies flags the user set onto cfg. Exclude globs from
// flags are added to the configured ones.
func applyFlagOverrides(cmd *cobra.Command, opts *rootOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("filterPattern") {
		cfg.FilterPattern = opts.filterPattern
	}
	if flags.Changed("source-dir") {
		cfg.SourceDir = opts.sourceDir
	}
	if flags.Changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, opts.exclude...)
	}
	if flags.Changed("staged") {
		cfg.Git.Staged = opts.staged
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = opts.concurrency
	}
	if flags.Changed("git-timeout") {
		cfg.Git.TimeoutMs = int(opts.gitTimeout / time.Millisecond)
	}
}

func newLogger(w io.Writer, cfg *config.Config, opts *rootOptions) *slog.Logger {
	return slogutil.FromConfig(w, cfg.Logging, slogutil.Settings{
		Verbosity: opts.verbosity,
		Quiet:     opts.quiet,
		Format:    opts.logFormat,
	})
}

// readDiff returns the diff text from --diff-file when given, otherwise from git.
func readDiff(ctx context.Context, stdin io.Reader, repoRoot string, cfg *config.Config, opts *rootOptions, logger *slog.Logger) (string, error) {
	switch opts.diffFile {
	case "":
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.New(errors.ConfigurationError, "failed to read diff from stdin", err)
		}
		logger.Debug("Read diff from stdin", "bytes", len(data))
		return string(data), nil
	default:
		data, err := os.ReadFile(opts.diffFile)
		if err != nil {
			return "", errors.New(errors.ConfigurationError, "failed to read diff file "+opts.diffFile, err)
		}
		logger.Debug("Read diff file", "path", opts.diffFile, "bytes", len(data))
		return string(data), nil
	}

	adapter, err := git.NewAdapter(repoRoot, git.Options{
		Timeout: cfg.Git.Timeout(),
		Staged:  cfg.Git.Staged,
	}, logger)
	if err != nil {
		return "", err
	}

	// Ranges are left to git; single revisions are checked up front
	if ref := opts.commitToCompare; ref != "" && !git.IsRange(ref) {
		hash, err := adapter.ResolveRef(ctx, ref)
		if err != nil {
			return "", err
		}
		logger.Debug("Resolved revision", "ref", ref, "hash", hash)
	}

	text, err := adapter.DiffText(ctx, opts.commitToCompare)
	if err != nil {
		return "", fmt.Errorf("collect diff: %w", err)
	}
	return text, nil
}
