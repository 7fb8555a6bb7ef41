package reporter

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/L0g0rhythm/URL-Refiner/internal/common/errorwrapper"
	"github.com/L0g0rhythm/URL-Refiner/internal/common/filemanager"
	"github.com/L0g0rhythm/URL-Refiner/internal/config"
	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

// RefinedURLRecord is one row of the Parquet output.
type RefinedURLRecord struct {
	Position    int64  `parquet:"position"`
	URL         string `parquet:"url"`
	DedupKey    string `parquet:"dedup_key"`
	RunID       string `parquet:"run_id"`
	ProcessedAt int64  `parquet:"processed_at"` // Unix milliseconds
}

// ParquetSink writes one row per refined URL.
type ParquetSink struct {
	paths       *OutputPathBuilder
	compression string
	batchSize   int
	fileManager *filemanager.FileManager
	logger      zerolog.Logger
}

// ParquetSinkBuilder provides a fluent interface for creating ParquetSink
type ParquetSinkBuilder struct {
	paths       *OutputPathBuilder
	compression string
	batchSize   int
	logger      zerolog.Logger
}

func NewParquetSinkBuilder(logger zerolog.Logger) *ParquetSinkBuilder {
	return &ParquetSinkBuilder{
		compression: config.DefaultStorageCompressionCodec,
		batchSize:   1000,
		logger:      logger.With().Str("component", "ParquetSink").Logger(),
	}
}

func (b *ParquetSinkBuilder) WithPathBuilder(paths *OutputPathBuilder) *ParquetSinkBuilder {
	b.paths = paths
	return b
}

func (b *ParquetSinkBuilder) WithStorageConfig(cfg config.StorageConfig) *ParquetSinkBuilder {
	if cfg.CompressionCodec != "" {
		b.compression = strings.ToLower(cfg.CompressionCodec)
	}
	return b
}

func (b *ParquetSinkBuilder) WithBatchSize(n int) *ParquetSinkBuilder {
	b.batchSize = n
	return b
}

func (b *ParquetSinkBuilder) Build() (*ParquetSink, error) {
	if b.paths == nil {
		return nil, errorwrapper.NewValidationError("paths", nil, "output path builder cannot be nil")
	}
	if b.batchSize <= 0 {
		return nil, errorwrapper.NewValidationError("batch_size", b.batchSize, "batch size must be positive")
	}

	return &ParquetSink{
		paths:       b.paths,
		compression: b.compression,
		batchSize:   b.batchSize,
		fileManager: filemanager.NewFileManager(b.logger),
		logger:      b.logger,
	}, nil
}

func (s *ParquetSink) Write(ctx context.Context, report *Report) (string, error) {
	start := time.Now()
	path := s.paths.Build("parquet")

	var written int
	err := s.fileManager.WriteStream(path, filemanager.DefaultFileWriteOptions(), func(w io.Writer) error {
		n, err := s.writeRecords(ctx, w, report)
		written = n
		return err
	})
	if err != nil {
		return "", errorwrapper.WrapErrorf(err, "could not write to file '%s'", path)
	}

	s.logger.Info().
		Str("path", path).
		Int("records_written", written).
		Str("compression", s.compression).
		Dur("write_time", time.Since(start)).
		Msg("Refined URLs saved as Parquet")
	return path, nil
}

func (s *ParquetSink) writeRecords(ctx context.Context, w io.Writer, report *Report) (int, error) {
	writer := parquet.NewGenericWriter[RefinedURLRecord](w, s.compressionOption())

	processedAt := report.ProcessedAt.UnixMilli()
	data := report.Result.Data
	batch := make([]RefinedURLRecord, 0, min(s.batchSize, len(data)))
	written := 0

	flush := func() error {
		n, err := writer.Write(batch)
		written += n
		batch = batch[:0]
		return err
	}

	for i, u := range data {
		if err := ctx.Err(); err != nil {
			_ = writer.Close()
			return written, err
		}

		record := RefinedURLRecord{
			Position:    int64(i),
			URL:         u,
			RunID:       report.RunID,
			ProcessedAt: processedAt,
		}
		if i < len(report.Keys) {
			record.DedupKey = report.Keys[i]
		}
		batch = append(batch, record)

		if len(batch) == s.batchSize {
			if err := flush(); err != nil {
				_ = writer.Close()
				return written, err
			}
		}
	}

	if len(batch) > 0 {
		if err := flush(); err != nil {
			_ = writer.Close()
			return written, err
		}
	}

	return written, writer.Close()
}

func (s *ParquetSink) compressionOption() parquet.WriterOption {
	switch s.compression {
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	case "none":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		return parquet.Compression(&parquet.Zstd)
	}
}

// ReadParquetRecords loads every row of a file written by ParquetSink.
func ReadParquetRecords(path string) ([]RefinedURLRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errorwrapper.WrapErrorf(err, "failed to open parquet file '%s'", path)
	}
	defer file.Close()

	reader := parquet.NewGenericReader[RefinedURLRecord](file)
	defer reader.Close()

	records := make([]RefinedURLRecord, reader.NumRows())
	n, err := reader.Read(records)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errorwrapper.WrapErrorf(err, "failed to read parquet file '%s'", path)
	}
	return records[:n], nil
}
