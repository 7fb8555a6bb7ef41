package urlhandler

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/rs/zerolog"
)

// LineSource yields the non-blank, trimmed lines of a reader one at a time.
// It is single-use: Lines may be ranged over once.
type LineSource struct {
	name         string
	reader       io.Reader
	closer       io.Closer
	maxLineBytes int
	logger       zerolog.Logger

	err          error
	linesRead    int
	blankSkipped int
}

// NewLineSource wraps r. name identifies the source in logs and errors.
func NewLineSource(name string, r io.Reader, maxLineBytes int, logger zerolog.Logger) *LineSource {
	src := &LineSource{
		name:         name,
		reader:       r,
		maxLineBytes: maxLineBytes,
		logger:       logger.With().Str("component", "LineSource").Str("source", name).Logger(),
	}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	return src
}

// Name returns the file path or "stdin".
func (s *LineSource) Name() string {
	return s.name
}

// Lines returns a lazy sequence of trimmed, non-blank lines. A read failure
// ends the sequence early; check Err afterwards.
func (s *LineSource) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		scanner := bufio.NewScanner(s.reader)
		if s.maxLineBytes > 0 {
			scanner.Buffer(make([]byte, 0, min(64*1024, s.maxLineBytes)), s.maxLineBytes)
		}

		for scanner.Scan() {
			s.linesRead++
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				s.blankSkipped++
				continue
			}
			if !yield(line) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			s.logger.Error().Err(err).Int("line", s.linesRead+1).Msg("Error while reading input")
			s.err = fmt.Errorf("%w: %s: %v", ErrReadingFile, s.name, err)
			return
		}

		s.logger.Debug().
			Int("lines_read", s.linesRead).
			Int("blank_skipped", s.blankSkipped).
			Msg("Finished reading input")
	}
}

// Err reports the read error that ended Lines, if any.
func (s *LineSource) Err() error {
	return s.err
}

// LinesRead returns how many raw lines were read, blank ones included.
func (s *LineSource) LinesRead() int {
	return s.linesRead
}

// Close closes the underlying file. Stdin is never closed.
func (s *LineSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
