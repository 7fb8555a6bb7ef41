package config

import "time"

// ServerConfig configures the HTTP front-end started by the serve command
type ServerConfig struct {
	Address          string `json:"address,omitempty" yaml:"address,omitempty" validate:"required"`
	MaxBodyBytes     int64  `json:"max_body_bytes,omitempty" yaml:"max_body_bytes,omitempty" validate:"min=1"`
	ReadTimeoutSecs  int    `json:"read_timeout_secs,omitempty" yaml:"read_timeout_secs,omitempty" validate:"min=1"`
	WriteTimeoutSecs int    `json:"write_timeout_secs,omitempty" yaml:"write_timeout_secs,omitempty" validate:"min=1"`
	ShutdownSecs     int    `json:"shutdown_secs,omitempty" yaml:"shutdown_secs,omitempty" validate:"min=1"`
	// HotReload re-reads the config file while serving so refiner defaults can change without a restart.
	HotReload bool `json:"hot_reload,omitempty" yaml:"hot_reload,omitempty"`
}

// NewDefaultServerConfig creates default server configuration
func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:          DefaultServerAddress,
		MaxBodyBytes:     DefaultServerMaxBodyBytes,
		ReadTimeoutSecs:  DefaultServerReadTimeoutSecs,
		WriteTimeoutSecs: DefaultServerWriteTimeoutSecs,
		ShutdownSecs:     DefaultServerShutdownSecs,
		HotReload:        false,
	}
}

func (sc ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(sc.ReadTimeoutSecs) * time.Second
}

func (sc ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(sc.WriteTimeoutSecs) * time.Second
}

func (sc ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(sc.ShutdownSecs) * time.Second
}
