package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"heiconv/internal/codec"
	"heiconv/internal/config"
	"heiconv/internal/convert"
	"heiconv/internal/discover"
	"heiconv/internal/history"
	"heiconv/internal/logging"
	"heiconv/internal/preflight"
	"heiconv/internal/runlock"
	"heiconv/internal/staging"
)

type runOptions struct {
	inputs     []string
	outputDir  string
	format     string
	quality    float64
	qualitySet bool
	workers    int
	logLevel   string
}

func runConvert(cmd *cobra.Command, ctx *commandContext, opts *runOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	formatValue := opts.format
	if formatValue == "" {
		formatValue = cfg.Convert.DefaultFormat
	}
	format, err := codec.ParseFormat(formatValue)
	if err != nil {
		return err
	}

	outputDir, err := config.ExpandPath(opts.outputDir)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	logger, logPath, err := buildRunLogger(cfg, opts.logLevel)
	if err != nil {
		return err
	}
	if logPath != "" {
		logger.Info("run log", logging.String("path", logPath))
	}

	quality := codec.UnsetQuality()
	if opts.qualitySet {
		parsed, ok := codec.QualityFromPercent(opts.quality)
		if !ok {
			logger.Warn("ignoring out-of-range quality",
				logging.String(logging.FieldEventType, "quality_rejected"),
				logging.Float64("quality", opts.quality))
		}
		quality = parsed
	}

	files, err := discover.Inputs(opts.inputs, format, logger)
	if err != nil {
		return err
	}
	tasks := discover.BuildTasks(files, outputDir, format, logger)
	if len(tasks) == 0 {
		return fmt.Errorf("no convertible inputs for target format %s", format)
	}

	lock, err := runlock.Acquire(outputDir)
	if err != nil {
		if errors.Is(err, runlock.ErrHeld) {
			return fmt.Errorf("another heiconv run is writing to %s", outputDir)
		}
		return err
	}
	defer func() { _ = lock.Release() }()

	staleAge := time.Duration(cfg.Convert.StaleTmpAgeHours) * time.Hour
	staging.CleanStaleTmp(outputDir, staleAge, logger)

	extraArgs, err := codec.ParseExtraArgs(cfg.Codec.ExtraArgs)
	if err != nil {
		return fmt.Errorf("codec extra_args: %w", err)
	}
	gateway := codec.NewCLI(
		codec.WithBinary(cfg.Codec.Binary),
		codec.WithExtraArgs(extraArgs),
		codec.WithTimeouts(
			time.Duration(cfg.Codec.ProbeTimeoutSeconds)*time.Second,
			time.Duration(cfg.Codec.ConvertTimeoutSeconds)*time.Second,
		),
		codec.WithLogger(logger),
	)

	out := cmd.OutOrStdout()
	results := preflight.RunAll(cmd.Context(), preflight.Checks{
		OutputDir:  outputDir,
		MinFreeMiB: cfg.Convert.MinFreeMiB,
		Gateway:    gateway,
		Format:     format,
	})
	for _, result := range results {
		if !result.Passed {
			fmt.Fprintf(out, "Preflight: %s failed: %s\n", result.Name, result.Detail)
		}
	}
	if failed := preflight.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d preflight check(s) failed", len(failed))
	}

	workers := opts.workers
	if workers <= 0 {
		workers = cfg.Convert.Workers
	}
	queue := convert.NewQueue(tasks)

	color := writerIsTerminal(out)
	reporter := convert.NewReporter(out, queue.Len(), color)

	observer, finish := buildHistoryRecorder(cmd, cfg, history.RunInfo{
		OutputDir: outputDir,
		Format:    format,
		Quality:   quality,
		Workers:   workers,
		Total:     queue.Len(),
	}, logger)

	pool := convert.NewPool(queue, convert.PoolConfig{
		Gateway:  gateway,
		Format:   format,
		Quality:  quality,
		Workers:  workers,
		Reporter: reporter,
		Observer: observer,
		Logger:   logger,
	})

	fmt.Fprintf(out, "Converting %d file(s) to %s with %d worker(s)\n", queue.Len(), format, pool.Workers())
	summary := pool.Run(cmd.Context())
	finish(summary)

	printSummary(out, summary, color)
	return nil
}

// writerIsTerminal reports whether the progress stream is an interactive
// terminal. The check must follow the writer actually in use, not os.Stdout;
// cobra redirects output in tests and when composed.
func writerIsTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	return ok && isatty.IsTerminal(file.Fd())
}

func buildRunLogger(cfg *config.Config, levelOverride string) (*slog.Logger, string, error) {
	level := cfg.Logging.Level
	if levelOverride != "" {
		level = levelOverride
	}

	outputs := []string{"stderr"}
	logPath := ""
	if cfg.Paths.LogDir != "" {
		logPath = filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("heiconv-%s.log", time.Now().UTC().Format("20060102T150405Z")))
		outputs = append(outputs, logPath)
	}

	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
	if err != nil {
		return nil, "", fmt.Errorf("init logger: %w", err)
	}
	return logger, logPath, nil
}

// buildHistoryRecorder returns the pool observer and a finish callback.
// History is best effort; any setup failure degrades to no-ops with a
// warning instead of blocking the run.
func buildHistoryRecorder(cmd *cobra.Command, cfg *config.Config, info history.RunInfo, logger *slog.Logger) (func(convert.Outcome), func(convert.Summary)) {
	noopFinish := func(convert.Summary) {}
	if !cfg.History.Enabled {
		return nil, noopFinish
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Warn("run history unavailable",
			logging.String(logging.FieldEventType, "history_open_failed"),
			logging.Error(err))
		return nil, noopFinish
	}

	recorder, err := history.NewRecorder(cmd.Context(), store, info, logger)
	if err != nil {
		logger.Warn("run history unavailable",
			logging.String(logging.FieldEventType, "history_open_failed"),
			logging.Error(err))
		_ = store.Close()
		return nil, noopFinish
	}

	finish := func(summary convert.Summary) {
		recorder.Finish(cmd.Context(), summary)
		_ = store.Close()
	}
	return recorder.Observe, finish
}

func printSummary(out io.Writer, summary convert.Summary, color bool) {
	succeeded := fmt.Sprintf("%d succeeded", summary.Succeeded)
	failed := fmt.Sprintf("%d failed", summary.Failed)
	if color {
		if summary.Succeeded > 0 {
			succeeded = text.FgGreen.Sprint(succeeded)
		}
		if summary.Failed > 0 {
			failed = text.FgRed.Sprint(failed)
		}
	}
	fmt.Fprintf(out, "\nCompleted %d file(s) in %s: %s, %s\n",
		summary.Total, summary.Elapsed.Round(time.Millisecond), succeeded, failed)

	if color {
		fmt.Fprintln(out, renderTable(
			table.Row{"Total", "Succeeded", "Failed", "Workers", "Elapsed"},
			[]table.Row{{
				summary.Total,
				summary.Succeeded,
				summary.Failed,
				summary.Workers,
				summary.Elapsed.Round(time.Millisecond).String(),
			}},
			1, 2, 3, 4, 5,
		))
	}
}
