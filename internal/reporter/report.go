// Package reporter writes the refined URL list of a run to its destination:
// stdout, or a timestamped text, JSON or Parquet file.
package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/L0g0rhythm/URL-Refiner/internal/config"
	"github.com/L0g0rhythm/URL-Refiner/internal/refiner"
	"github.com/rs/zerolog"
)

// Report is everything a sink may emit for one run.
type Report struct {
	RunID       string
	ProcessedAt time.Time
	Result      *refiner.Result
	// Keys holds the deduplication key of each entry of Result.Data, in the
	// same order. It may be nil when the caller did not collect keys.
	Keys []string
}

// Sink emits a report. Write returns the file path written, or "" for stdout.
type Sink interface {
	Write(ctx context.Context, report *Report) (string, error)
}

// NewSink returns the sink selected by the output section. When SaveToFile
// is off the report goes to stdout regardless of Format.
func NewSink(outCfg config.OutputConfig, storageCfg config.StorageConfig, stdout io.Writer, logger zerolog.Logger) (Sink, error) {
	if !outCfg.SaveToFile {
		return NewStdoutSink(stdout), nil
	}

	paths := NewOutputPathBuilder(outCfg)
	switch strings.ToLower(outCfg.Format) {
	case config.OutputFormatText, "":
		return NewTextFileSink(paths, logger), nil
	case config.OutputFormatJSON:
		return NewJSONFileSink(paths, logger), nil
	case config.OutputFormatParquet:
		sink, err := NewParquetSinkBuilder(logger).
			WithPathBuilder(paths).
			WithStorageConfig(storageCfg).
			Build()
		if err != nil {
			return nil, err
		}
		return sink, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (expected one of %s)", outCfg.Format, strings.Join(config.OutputFormats(), ", "))
	}
}

func joinLines(data []string) string {
	return strings.Join(data, "\n")
}
