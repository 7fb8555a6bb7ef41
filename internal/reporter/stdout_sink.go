package reporter

import (
	"context"
	"io"
)

// StdoutSink prints the refined URLs one per line.
type StdoutSink struct {
	out io.Writer
}

func NewStdoutSink(out io.Writer) *StdoutSink {
	return &StdoutSink{out: out}
}

func (s *StdoutSink) Write(ctx context.Context, report *Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(report.Result.Data) == 0 {
		return "", nil
	}
	_, err := io.WriteString(s.out, joinLines(report.Result.Data)+"\n")
	return "", err
}
