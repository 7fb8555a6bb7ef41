package reporter

import (
	"context"
	"encoding/json"

	"github.com/L0g0rhythm/URL-Refiner/internal/common/errorwrapper"
	"github.com/L0g0rhythm/URL-Refiner/internal/common/filemanager"
	"github.com/rs/zerolog"
)

// TextFileSink writes the refined URLs one per line with a trailing newline.
type TextFileSink struct {
	paths       *OutputPathBuilder
	fileManager *filemanager.FileManager
	logger      zerolog.Logger
}

func NewTextFileSink(paths *OutputPathBuilder, logger zerolog.Logger) *TextFileSink {
	componentLogger := logger.With().Str("component", "TextFileSink").Logger()
	return &TextFileSink{
		paths:       paths,
		fileManager: filemanager.NewFileManager(componentLogger),
		logger:      componentLogger,
	}
}

func (s *TextFileSink) Write(ctx context.Context, report *Report) (string, error) {
	path := s.paths.Build("txt")
	opts := filemanager.DefaultFileWriteOptions()
	opts.Context = ctx

	if err := s.fileManager.WriteFile(path, []byte(joinLines(report.Result.Data)+"\n"), opts); err != nil {
		return "", errorwrapper.WrapErrorf(err, "could not write to file '%s'", path)
	}

	s.logger.Info().Str("path", path).Int("urls", len(report.Result.Data)).Msg("Refined URLs saved")
	return path, nil
}

// JSONFileSink writes {"data": [...], "stats": {...}} indented.
type JSONFileSink struct {
	paths       *OutputPathBuilder
	fileManager *filemanager.FileManager
	logger      zerolog.Logger
}

func NewJSONFileSink(paths *OutputPathBuilder, logger zerolog.Logger) *JSONFileSink {
	componentLogger := logger.With().Str("component", "JSONFileSink").Logger()
	return &JSONFileSink{
		paths:       paths,
		fileManager: filemanager.NewFileManager(componentLogger),
		logger:      componentLogger,
	}
}

func (s *JSONFileSink) Write(ctx context.Context, report *Report) (string, error) {
	payload, err := json.MarshalIndent(report.Result, "", "  ")
	if err != nil {
		return "", errorwrapper.WrapError(err, "failed to encode result as JSON")
	}

	path := s.paths.Build("json")
	opts := filemanager.DefaultFileWriteOptions()
	opts.Context = ctx

	if err := s.fileManager.WriteFile(path, append(payload, '\n'), opts); err != nil {
		return "", errorwrapper.WrapErrorf(err, "could not write to file '%s'", path)
	}

	s.logger.Info().Str("path", path).Int("urls", len(report.Result.Data)).Msg("Refined URLs saved as JSON")
	return path, nil
}
