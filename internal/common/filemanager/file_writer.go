package filemanager

import (
	"fmt"
	"io"
	"os"

	"github.com/L0g0rhythm/URL-Refiner/internal/common/errorwrapper"
	"github.com/rs/zerolog"
)

// FileWriter handles file writing operations
type FileWriter struct {
	logger zerolog.Logger
}

// NewFileWriter creates a new FileWriter instance
func NewFileWriter(logger zerolog.Logger) *FileWriter {
	return &FileWriter{
		logger: logger.With().Str("component", "FileWriter").Logger(),
	}
}

// WriteFile writes data to a file with the given options
func (fw *FileWriter) WriteFile(path string, data []byte, opts FileWriteOptions) error {
	ctx, cancel := contextWithTimeout(opts.Context, opts.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fw.WriteStream(path, opts, func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		})
	}()

	select {
	case <-ctx.Done():
		fw.logger.Warn().Str("path", path).Msg("File write cancelled due to context timeout")
		return errorwrapper.WrapError(ctx.Err(), "file write operation cancelled")
	case err := <-done:
		if err != nil {
			return err
		}
	}

	fw.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("File written successfully")
	return nil
}

// WriteStream truncates or creates path and hands it to fn.
func (fw *FileWriter) WriteStream(path string, opts FileWriteOptions, fn func(w io.Writer) error) error {
	perm := opts.Permissions
	if perm == 0 {
		perm = 0644
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return errorwrapper.WrapError(err, fmt.Sprintf("failed to open file for writing: %s", path))
	}

	writeErr := fn(file)
	closeErr := file.Close()
	if writeErr == nil && closeErr != nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			fw.logger.Error().Err(rmErr).Str("path", path).Msg("Failed to remove partially written file")
		}
		return errorwrapper.WrapError(writeErr, fmt.Sprintf("failed to write file: %s", path))
	}

	return nil
}
