// Package orchestrator runs one refinement: it resolves the input, streams it
// through the refiner with progress reporting, and hands the result to the
// configured sink.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/L0g0rhythm/URL-Refiner/internal/common/errorwrapper"
	"github.com/L0g0rhythm/URL-Refiner/internal/config"
	"github.com/L0g0rhythm/URL-Refiner/internal/progress"
	"github.com/L0g0rhythm/URL-Refiner/internal/refiner"
	"github.com/L0g0rhythm/URL-Refiner/internal/reporter"
	"github.com/L0g0rhythm/URL-Refiner/internal/urlhandler"
	"github.com/rs/zerolog"
)

// RunSummary describes a finished run.
type RunSummary struct {
	RunID      string
	InputName  string
	OutputPath string // empty when printed to stdout or nothing was written
	Result     *refiner.Result
	Duration   time.Duration
}

// RefineOrchestrator handles the refine workflow of the command line.
type RefineOrchestrator struct {
	globalConfig *config.GlobalConfig
	logger       zerolog.Logger
	resolver     *urlhandler.InputResolver
	stdout       io.Writer
	messages     io.Writer
	runID        string
	now          func() time.Time
}

// NewRefineOrchestrator creates an orchestrator writing data to os.Stdout and
// user-facing messages to os.Stderr.
func NewRefineOrchestrator(cfg *config.GlobalConfig, logger zerolog.Logger) *RefineOrchestrator {
	componentLogger := logger.With().Str("component", "RefineOrchestrator").Logger()
	return &RefineOrchestrator{
		globalConfig: cfg,
		logger:       componentLogger,
		resolver:     urlhandler.NewInputResolver(cfg.InputConfig, logger),
		stdout:       os.Stdout,
		messages:     os.Stderr,
		now:          time.Now,
	}
}

// WithStdin replaces standard input and its terminal check.
func (ro *RefineOrchestrator) WithStdin(r io.Reader, isTerminal func() bool) *RefineOrchestrator {
	ro.resolver.WithStdin(r, isTerminal)
	return ro
}

// WithOutput replaces the data and message writers.
func (ro *RefineOrchestrator) WithOutput(stdout, messages io.Writer) *RefineOrchestrator {
	ro.stdout = stdout
	ro.messages = messages
	return ro
}

// WithRunID fixes the run ID instead of generating one per Run.
func (ro *RefineOrchestrator) WithRunID(runID string) *RefineOrchestrator {
	ro.runID = runID
	return ro
}

// Run executes one refinement. When ctx is cancelled mid-run the partial
// summary is returned together with the error and no output is written.
func (ro *RefineOrchestrator) Run(ctx context.Context) (*RunSummary, error) {
	start := ro.now()
	runID := ro.runID
	if runID == "" {
		runID = NewRunID(start)
	}
	runLogger := ro.logger.With().Str("run_id", runID).Logger()

	refinerCfg, err := ro.globalConfig.RefinerConfig.ToRefinerConfig()
	if err != nil {
		return nil, err
	}

	source, err := ro.resolver.Open(ro.globalConfig.InputConfig.InputFile)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	runLogger.Info().
		Str("input", source.Name()).
		Str("mode", refinerCfg.Mode.String()).
		Str("value", refinerCfg.Value).
		Strs("exclude_params", refinerCfg.ExcludeParams).
		Bool("ignore_path", refinerCfg.IgnorePath).
		Msg("Starting refinement")

	display := progress.NewProgressDisplayManager(runLogger, progress.NewProgressDisplayConfig(ro.globalConfig.ProgressConfig))
	observe := display.Observer()
	var keys []string
	observer := func(event refiner.Event) {
		observe(event)
		if event.Outcome == refiner.OutcomeKept {
			keys = append(keys, event.Key)
		}
	}

	display.Start()
	result, err := refiner.ProcessContext(ctx, source.Lines(), refinerCfg, refiner.WithObserver(observer))
	if err == nil {
		err = source.Err()
	}
	if err != nil {
		display.Stop(statusFor(err), err.Error())
		wrapped := errorwrapper.WrapErrorf(err, "refinement of %s failed", source.Name())
		if result == nil {
			return nil, wrapped
		}

		// Interrupted between lines: the partial result is consistent and
		// nothing is written.
		s := result.Stats
		runLogger.Warn().
			Int("total_input", s.TotalInput).
			Int("total_output", s.TotalOutput).
			Int("duplicates_removed", s.DuplicatesRemoved).
			Int("invalid_dropped", s.InvalidDropped).
			Int("duplicate_dropped", s.DuplicateDropped).
			Msg("Refinement interrupted")
		return &RunSummary{
			RunID:     runID,
			InputName: source.Name(),
			Result:    result,
			Duration:  ro.now().Sub(start),
		}, wrapped
	}
	display.Stop(progress.ProgressStatusComplete, "")

	summary := &RunSummary{
		RunID:     runID,
		InputName: source.Name(),
		Result:    result,
	}

	if result.Stats.TotalInput == 0 {
		runLogger.Warn().Msg("Input is empty, nothing to refine")
		ro.printMessage(reporter.WarningEmptyInput)
		summary.Duration = ro.now().Sub(start)
		return summary, nil
	}

	if len(result.Data) == 0 {
		runLogger.Warn().Int("total_input", result.Stats.TotalInput).Msg("No unique URLs were produced")
		ro.printMessage(reporter.WarningNoUnique)
		summary.Duration = ro.now().Sub(start)
		return summary, nil
	}

	sink, err := reporter.NewSink(ro.globalConfig.OutputConfig, ro.globalConfig.StorageConfig, ro.stdout, runLogger)
	if err != nil {
		return nil, err
	}

	report := &reporter.Report{
		RunID:       runID,
		ProcessedAt: start,
		Result:      result,
		Keys:        keys,
	}
	path, err := sink.Write(ctx, report)
	if err != nil {
		return nil, err
	}

	reporter.LogSummary(runLogger, report, path)
	if path != "" {
		ro.printMessage(reporter.SuccessMessage(result.Stats, path))
	}

	summary.OutputPath = path
	summary.Duration = ro.now().Sub(start)
	return summary, nil
}

func (ro *RefineOrchestrator) printMessage(msg string) {
	if ro.messages == nil {
		return
	}
	if _, err := fmt.Fprintln(ro.messages, msg); err != nil {
		ro.logger.Debug().Err(err).Msg("Failed to print message")
	}
}

func statusFor(err error) progress.ProgressStatus {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return progress.ProgressStatusCancelled
	}
	return progress.ProgressStatusError
}
