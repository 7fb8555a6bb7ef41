package reporter

import (
	"fmt"

	"github.com/L0g0rhythm/URL-Refiner/internal/refiner"
	"github.com/rs/zerolog"
)

// User-facing warnings of a run.
const (
	WarningEmptyInput = "Warning: Input is empty. No URLs to process."
	WarningNoUnique   = "Warning: No unique URLs were produced."
)

// SuccessMessage is printed after the refined list has been saved to path.
func SuccessMessage(stats refiner.Stats, path string) string {
	return fmt.Sprintf("Success! Processed %d URLs. Found %d duplicates. Saved %d unique URLs to '%s'.",
		stats.TotalInput, stats.DuplicatesRemoved, stats.TotalOutput, path)
}

// LogSummary records the run statistics.
func LogSummary(logger zerolog.Logger, report *Report, destination string) {
	if destination == "" {
		destination = "stdout"
	}
	s := report.Result.Stats
	logger.Info().
		Str("run_id", report.RunID).
		Int("total_input", s.TotalInput).
		Int("total_output", s.TotalOutput).
		Int("duplicates_removed", s.DuplicatesRemoved).
		Int("invalid_dropped", s.InvalidDropped).
		Int("duplicate_dropped", s.DuplicateDropped).
		Str("destination", destination).
		Msg("Refinement summary")
}
