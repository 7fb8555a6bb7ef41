// Package refiner validates, rewrites and deduplicates a stream of URLs in a
// single ordered pass. It performs no I/O; callers feed it any iter.Seq of raw
// lines and receive the refined URLs together with run statistics.
package refiner

import (
	"context"
	"fmt"
	"iter"
)

// DefaultValue is the replacement/append value used when none is configured.
const DefaultValue = "FUZZ"

// Config controls a refinement run.
type Config struct {
	Mode          Mode     `json:"mode"`
	Value         string   `json:"value"`
	ExcludeParams []string `json:"exclude_params"`
	IgnorePath    bool     `json:"ignore_path"`
}

// DefaultConfig returns replace mode with the "FUZZ" value, no exclusions and
// path-aware deduplication.
func DefaultConfig() Config {
	return Config{
		Mode:          ModeReplace,
		Value:         DefaultValue,
		ExcludeParams: []string{},
		IgnorePath:    false,
	}
}

// Validate fails fast on a mode outside the closed set.
func (c Config) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(c.Mode))
	}
	return nil
}

func (c Config) excludedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.ExcludeParams))
	for _, name := range c.ExcludeParams {
		set[name] = struct{}{}
	}
	return set
}

// Stats summarizes a run. DuplicatesRemoved counts every consumed line that
// was not retained, invalid lines included; InvalidDropped and
// DuplicateDropped break that figure down.
type Stats struct {
	TotalInput        int `json:"total_input"`
	TotalOutput       int `json:"total_output"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	InvalidDropped    int `json:"invalid_dropped"`
	DuplicateDropped  int `json:"duplicate_dropped"`
}

// Result holds the refined URLs in first-seen order and the run statistics.
type Result struct {
	Data  []string `json:"data"`
	Stats Stats    `json:"stats"`
}

// Outcome tells an observer what happened to a consumed line.
type Outcome int

const (
	OutcomeKept Outcome = iota
	OutcomeInvalid
	OutcomeDuplicate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeKept:
		return "kept"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeDuplicate:
		return "duplicate"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Event describes one consumed line. Index is zero-based in input order.
// Key is empty for invalid lines; Refined is set only when Outcome is
// OutcomeKept.
type Event struct {
	Index   int
	Raw     string
	Outcome Outcome
	Key     string
	Refined string
}

// Observer is notified after each line is fully processed. It cannot affect
// the result.
type Observer func(Event)

// Option customizes a run.
type Option func(*options)

type options struct {
	observer Observer
}

// WithObserver registers fn to be called once per consumed line.
func WithObserver(fn Observer) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// Process refines urls according to cfg. See ProcessContext.
func Process(urls iter.Seq[string], cfg Config, opts ...Option) (*Result, error) {
	return ProcessContext(context.Background(), urls, cfg, opts...)
}

// ProcessContext refines urls according to cfg in a single pass.
//
// Cancellation is checked between lines: when ctx is done the result built so
// far is returned together with ctx.Err(), its stats consistent with the
// lines already processed. A contract violation returns a nil result.
func ProcessContext(ctx context.Context, urls iter.Seq[string], cfg Config, opts ...Option) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	run := newRun(cfg)
	for raw := range urls {
		if err := ctx.Err(); err != nil {
			return run.result(), err
		}

		event, err := run.consume(raw)
		if err != nil {
			return nil, err
		}
		if o.observer != nil {
			o.observer(event)
		}
	}

	return run.result(), nil
}

// run owns the seen-set and output accumulator of one Process call.
type run struct {
	cfg      Config
	excluded map[string]struct{}
	seen     map[string]struct{}
	data     []string
	stats    Stats
}

func newRun(cfg Config) *run {
	return &run{
		cfg:      cfg,
		excluded: cfg.excludedSet(),
		seen:     make(map[string]struct{}),
		data:     []string{},
	}
}

func (r *run) consume(raw string) (Event, error) {
	event := Event{Index: r.stats.TotalInput, Raw: raw}
	r.stats.TotalInput++

	if !IsValidURL(raw) {
		r.stats.InvalidDropped++
		event.Outcome = OutcomeInvalid
		return event, nil
	}

	parsed, err := ParseURL(raw)
	if err != nil {
		return event, fmt.Errorf("%w: %q: %v", ErrContractViolation, raw, err)
	}

	key := DedupKey(parsed, r.cfg.IgnorePath)
	event.Key = key
	if _, dup := r.seen[key]; dup {
		r.stats.DuplicateDropped++
		event.Outcome = OutcomeDuplicate
		return event, nil
	}

	rewritten, err := Rewrite(parsed.Params, r.cfg.Mode, r.cfg.Value, r.excluded)
	if err != nil {
		return event, err
	}

	refined := parsed.WithParams(rewritten)
	r.data = append(r.data, refined)
	r.seen[key] = struct{}{}

	event.Outcome = OutcomeKept
	event.Refined = refined
	return event, nil
}

func (r *run) result() *Result {
	stats := r.stats
	stats.TotalOutput = len(r.data)
	stats.DuplicatesRemoved = stats.TotalInput - stats.TotalOutput
	return &Result{Data: r.data, Stats: stats}
}
