package progress

import (
	"context"
	"sync"
	"time"

	"github.com/L0g0rhythm/URL-Refiner/internal/config"
	"github.com/L0g0rhythm/URL-Refiner/internal/refiner"
	"github.com/rs/zerolog"
)

// ProgressDisplayConfig holds the display settings.
type ProgressDisplayConfig struct {
	DisplayInterval time.Duration
	EnableProgress  bool
	ShowMemoryUsage bool
}

// NewProgressDisplayConfig converts the progress section of the global config.
func NewProgressDisplayConfig(cfg config.ProgressConfig) *ProgressDisplayConfig {
	interval := cfg.GetDisplayIntervalDuration()
	if interval <= 0 {
		interval = time.Duration(config.DefaultProgressDisplayInterval) * time.Second
	}
	return &ProgressDisplayConfig{
		DisplayInterval: interval,
		EnableProgress:  cfg.EnableProgress,
		ShowMemoryUsage: cfg.ShowMemoryUsage,
	}
}

// ProgressDisplayManager periodically logs the progress of a run. It only
// reads snapshots of Progress and never blocks the refiner.
type ProgressDisplayManager struct {
	progress      *Progress
	mutex         sync.Mutex
	logger        zerolog.Logger
	displayTicker *time.Ticker
	isRunning     bool
	stopChan      chan struct{}
	loopDone      chan struct{}
	ctx           context.Context
	cancel        context.CancelFunc
	config        *ProgressDisplayConfig

	displayMu     sync.Mutex
	lastDisplayed string
	memoryReader  func() (MemoryUsage, bool)
}

// NewProgressDisplayManager creates a display manager. A nil config uses
// the defaults of the progress section.
func NewProgressDisplayManager(logger zerolog.Logger, cfg *ProgressDisplayConfig) *ProgressDisplayManager {
	ctx, cancel := context.WithCancel(context.Background())

	if cfg == nil {
		cfg = NewProgressDisplayConfig(config.NewDefaultProgressConfig())
	}

	return &ProgressDisplayManager{
		progress:     NewProgress(),
		logger:       logger.With().Str("component", "ProgressDisplay").Logger(),
		stopChan:     make(chan struct{}),
		loopDone:     make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
		config:       cfg,
		memoryReader: GetMemoryUsage,
	}
}

// Observer returns the hook to pass to refiner.WithObserver.
func (pdm *ProgressDisplayManager) Observer() refiner.Observer {
	return pdm.progress.Observe
}

// Info returns the current snapshot.
func (pdm *ProgressDisplayManager) Info() ProgressInfo {
	return pdm.progress.Info()
}

// Start begins the periodic display. It is a no-op when progress is disabled
// or the loop is already running.
func (pdm *ProgressDisplayManager) Start() {
	pdm.mutex.Lock()
	defer pdm.mutex.Unlock()

	if pdm.isRunning {
		return
	}

	if !pdm.config.EnableProgress {
		pdm.logger.Debug().Msg("Progress display disabled in configuration")
		return
	}

	pdm.isRunning = true
	pdm.progress.SetStage("refining")
	pdm.displayTicker = time.NewTicker(pdm.config.DisplayInterval)

	go pdm.displayLoop()
}

// Stop ends the display loop and logs the final state once.
func (pdm *ProgressDisplayManager) Stop(status ProgressStatus, message string) {
	pdm.mutex.Lock()
	if !pdm.isRunning {
		pdm.mutex.Unlock()
		return
	}
	pdm.isRunning = false
	pdm.cancel()
	pdm.displayTicker.Stop()
	close(pdm.stopChan)
	pdm.mutex.Unlock()

	<-pdm.loopDone

	pdm.progress.SetStatus(status, message)
	pdm.displayProgress()
}
