package config

const (
	// ConfigPathEnv names the environment variable consulted by GetConfigPath.
	ConfigPathEnv = "URLREFINER_CONFIG_PATH"

	// Refiner Defaults
	DefaultRefinerMode  = "replace"
	DefaultRefinerValue = "FUZZ"

	// Input Defaults
	DefaultInputFallbackDir = "Inputs"
	DefaultMaxLineBytes     = 1024 * 1024

	// Output Defaults
	DefaultOutputDir             = "output"
	DefaultOutputFormat          = "text"
	DefaultOutputFilePrefix      = "refined"
	DefaultOutputTimestampLayout = "2006-01-02_150405"

	// Storage Defaults
	DefaultStorageCompressionCodec = "zstd"

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Progress Defaults
	DefaultProgressDisplayInterval = 1

	// Server Defaults
	DefaultServerAddress          = ":8080"
	DefaultServerMaxBodyBytes     = 10 * 1024 * 1024
	DefaultServerReadTimeoutSecs  = 30
	DefaultServerWriteTimeoutSecs = 60
	DefaultServerShutdownSecs     = 10

	// Config file limits
	maxConfigFileBytes = 10 * 1024 * 1024
)
