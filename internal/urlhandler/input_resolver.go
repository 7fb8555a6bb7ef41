// Package urlhandler locates the raw URL input (a file, a file in the
// fallback directory, or piped stdin) and exposes it as a lazy line sequence.
package urlhandler

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/L0g0rhythm/URL-Refiner/internal/common/errorwrapper"
	"github.com/L0g0rhythm/URL-Refiner/internal/common/filemanager"
	"github.com/L0g0rhythm/URL-Refiner/internal/config"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const stdinName = "stdin"

// InputResolver picks the input source for a run
type InputResolver struct {
	cfg         config.InputConfig
	logger      zerolog.Logger
	fileManager *filemanager.FileManager
	stdin       io.Reader
	isTerminal  func() bool
}

// NewInputResolver creates a resolver reading os.Stdin when no file is given.
func NewInputResolver(cfg config.InputConfig, logger zerolog.Logger) *InputResolver {
	componentLogger := logger.With().Str("component", "InputResolver").Logger()
	return &InputResolver{
		cfg:         cfg,
		logger:      componentLogger,
		fileManager: filemanager.NewFileManager(componentLogger),
		stdin:       os.Stdin,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// WithStdin replaces the standard input and its terminal check.
func (ir *InputResolver) WithStdin(r io.Reader, isTerminal func() bool) *InputResolver {
	ir.stdin = r
	ir.isTerminal = isTerminal
	return ir
}

// ResolveInputPath returns inputPath when it is a file, otherwise the file
// with the same base name inside the fallback directory.
func (ir *InputResolver) ResolveInputPath(inputPath string) (string, error) {
	if ir.fileManager.FileExists(inputPath) {
		return inputPath, nil
	}

	if ir.cfg.FallbackDir != "" {
		candidate := filepath.Join(ir.cfg.FallbackDir, filepath.Base(inputPath))
		if ir.fileManager.FileExists(candidate) {
			ir.logger.Debug().Str("requested", inputPath).Str("resolved", candidate).Msg("Input found in fallback directory")
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: '%s' (also looked in '%s')", ErrFileNotFound, inputPath, ir.cfg.FallbackDir)
}

// Open returns the line source for inputPath, or for stdin when inputPath is
// empty and stdin is not a terminal. The caller closes the source.
func (ir *InputResolver) Open(inputPath string) (*LineSource, error) {
	if inputPath == "" {
		if ir.stdin == nil || ir.isTerminal() {
			return nil, errorwrapper.WrapError(errorwrapper.ErrNoInput,
				"no input file provided via --input and no data from stdin")
		}
		ir.logger.Info().Msg("Reading URLs from stdin")
		return NewLineSource(stdinName, io.NopCloser(ir.stdin), ir.cfg.MaxLineBytes, ir.logger), nil
	}

	resolved, err := ir.ResolveInputPath(inputPath)
	if err != nil {
		return nil, err
	}

	file, err := ir.fileManager.OpenFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrFilePermission, resolved)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrReadingFile, resolved, err)
	}

	ir.logger.Info().Str("file", resolved).Msg("Reading URLs from file")
	return NewLineSource(resolved, file, ir.cfg.MaxLineBytes, ir.logger), nil
}
