package config

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/L0g0rhythm/URL-Refiner/internal/common/errorwrapper"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ConfigManager holds the active configuration of a long-running process and
// optionally reloads it when the file changes on disk.
type ConfigManager struct {
	mu           sync.RWMutex
	config       *GlobalConfig
	configPath   string
	logger       zerolog.Logger
	watcher      *fsnotify.Watcher
	stopChan     chan struct{}
	stopOnce     sync.Once
	lastModified time.Time

	hotReloadEnabled bool
	reloadDelay      time.Duration
}

// ConfigManagerOptions holds options for creating a ConfigManager
type ConfigManagerOptions struct {
	Logger           zerolog.Logger
	HotReloadEnabled bool
	ReloadDelay      time.Duration
}

// DefaultConfigManagerOptions returns default options for ConfigManager
func DefaultConfigManagerOptions() ConfigManagerOptions {
	return ConfigManagerOptions{
		Logger:           zerolog.Nop(),
		HotReloadEnabled: false,
		ReloadDelay:      500 * time.Millisecond,
	}
}

// NewConfigManager loads and validates the configuration at configPath.
// Passing a nil initial config reads it from disk; otherwise initial is used
// as-is and configPath is only watched.
func NewConfigManager(configPath string, initial *GlobalConfig, opts ConfigManagerOptions) (*ConfigManager, error) {
	cm := &ConfigManager{
		configPath:       configPath,
		logger:           opts.Logger.With().Str("component", "ConfigManager").Logger(),
		stopChan:         make(chan struct{}),
		hotReloadEnabled: opts.HotReloadEnabled,
		reloadDelay:      opts.ReloadDelay,
	}

	if initial != nil {
		if err := ValidateConfig(initial); err != nil {
			return nil, err
		}
		cm.config = copyConfig(initial)
		cm.touchModTime()
	} else if err := cm.loadConfig(); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to load initial configuration")
	}

	if cm.hotReloadEnabled && cm.configPath != "" {
		if err := cm.setupFileWatcher(); err != nil {
			cm.logger.Warn().Err(err).Msg("Failed to setup file watcher, hot-reload disabled")
			cm.hotReloadEnabled = false
		}
	} else {
		cm.hotReloadEnabled = false
	}

	return cm, nil
}

// GetConfig returns a copy of the active configuration.
func (cm *ConfigManager) GetConfig() *GlobalConfig {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.config == nil {
		return NewDefaultGlobalConfig()
	}
	return copyConfig(cm.config)
}

// ReloadConfig re-reads the configuration file. The active configuration is
// kept when the new one fails to load or validate.
func (cm *ConfigManager) ReloadConfig() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	return cm.loadConfig()
}

// GetConfigPath returns the current configuration file path
func (cm *ConfigManager) GetConfigPath() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.configPath
}

// IsHotReloadEnabled returns whether hot-reload is enabled
func (cm *ConfigManager) IsHotReloadEnabled() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.hotReloadEnabled
}

// Close stops the hot-reload loop and the file watcher.
func (cm *ConfigManager) Close() error {
	var err error
	cm.stopOnce.Do(func() {
		close(cm.stopChan)
		if cm.watcher != nil {
			err = cm.watcher.Close()
		}
	})
	return err
}

// StartHotReload starts the hot-reload goroutine (non-blocking)
func (cm *ConfigManager) StartHotReload(ctx context.Context) {
	if !cm.IsHotReloadEnabled() {
		return
	}

	go cm.hotReloadLoop(ctx)
}

// loadConfig assumes cm.mu is held.
func (cm *ConfigManager) loadConfig() error {
	cfg, err := LoadGlobalConfig(cm.configPath, cm.logger)
	if err != nil {
		return err
	}

	if err := ValidateConfig(cfg); err != nil {
		return err
	}

	cm.config = cfg
	cm.touchModTime()
	cm.logger.Info().Str("path", cm.configPath).Msg("Configuration loaded")
	return nil
}

func (cm *ConfigManager) touchModTime() {
	if cm.configPath == "" {
		return
	}
	if stat, err := os.Stat(cm.configPath); err == nil {
		cm.lastModified = stat.ModTime()
	}
}

func (cm *ConfigManager) setupFileWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errorwrapper.WrapError(err, "failed to create file watcher")
	}

	// Editors often replace the file, so the directory is watched rather than the file.
	configDir := filepath.Dir(cm.configPath)
	if err := watcher.Add(configDir); err != nil {
		_ = watcher.Close()
		return errorwrapper.WrapErrorf(err, "failed to watch config directory '%s'", configDir)
	}

	cm.watcher = watcher
	cm.logger.Info().Str("directory", configDir).Msg("File watcher setup for hot-reload")
	return nil
}

func (cm *ConfigManager) hotReloadLoop(ctx context.Context) {
	reloadTimer := time.NewTimer(cm.reloadDelay)
	reloadTimer.Stop()
	defer reloadTimer.Stop()

	target := filepath.Clean(cm.configPath)

	for {
		select {
		case <-ctx.Done():
			cm.logger.Debug().Msg("Hot-reload loop stopped due to context cancellation")
			return

		case <-cm.stopChan:
			cm.logger.Debug().Msg("Hot-reload loop stopped")
			return

		case event, ok := <-cm.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) == target && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				cm.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Config file change detected")
				reloadTimer.Reset(cm.reloadDelay)
			}

		case err, ok := <-cm.watcher.Errors:
			if !ok {
				return
			}
			cm.logger.Error().Err(err).Msg("File watcher error")

		case <-reloadTimer.C:
			cm.reloadIfModified()
		}
	}
}

func (cm *ConfigManager) reloadIfModified() {
	stat, err := os.Stat(cm.configPath)
	if err != nil {
		return
	}

	cm.mu.RLock()
	changed := stat.ModTime().After(cm.lastModified)
	cm.mu.RUnlock()
	if !changed {
		return
	}

	if err := cm.ReloadConfig(); err != nil {
		cm.logger.Error().Err(err).Msg("Failed to reload configuration, keeping the previous one")
		return
	}
	cm.logger.Info().Msg("Configuration reloaded")
}

func copyConfig(src *GlobalConfig) *GlobalConfig {
	dst := *src
	dst.RefinerConfig.ExcludeParams = slices.Clone(src.RefinerConfig.ExcludeParams)
	return &dst
}
