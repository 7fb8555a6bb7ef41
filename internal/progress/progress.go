package progress

import (
	"sync"
	"time"

	"github.com/L0g0rhythm/URL-Refiner/internal/refiner"
)

// Progress accumulates refiner events into a snapshot readable from other
// goroutines.
type Progress struct {
	mu   sync.RWMutex
	info ProgressInfo
	now  func() time.Time
}

// NewProgress creates an idle Progress.
func NewProgress() *Progress {
	return &Progress{
		info: ProgressInfo{Status: ProgressStatusIdle},
		now:  time.Now,
	}
}

// Info returns a copy of the ProgressInfo.
func (p *Progress) Info() ProgressInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.info
}

// Observe records one refiner event. It is a refiner.Observer.
func (p *Progress) Observe(event refiner.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.info.Status == ProgressStatusIdle {
		p.info.Status = ProgressStatusRunning
		p.info.StartTime = now
	}

	p.info.Processed++
	switch event.Outcome {
	case refiner.OutcomeKept:
		p.info.Kept++
	case refiner.OutcomeInvalid:
		p.info.Invalid++
	case refiner.OutcomeDuplicate:
		p.info.Duplicate++
	}
	p.info.LastUpdateTime = now
}

// SetStage labels the current phase of the run.
func (p *Progress) SetStage(stage string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.info.Status == ProgressStatusIdle {
		p.info.Status = ProgressStatusRunning
		p.info.StartTime = p.now()
	}
	p.info.Stage = stage
	p.info.LastUpdateTime = p.now()
}

// SetStatus sets the progress status.
func (p *Progress) SetStatus(status ProgressStatus, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.info.Status = status
	p.info.Message = message
	p.info.LastUpdateTime = p.now()
}
