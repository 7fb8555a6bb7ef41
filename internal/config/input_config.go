package config

// InputConfig defines where raw URLs are read from
type InputConfig struct {
	// InputFile is the path of a newline-separated URL list. Empty means stdin.
	InputFile string `json:"input_file,omitempty" yaml:"input_file,omitempty"`

	// FallbackDir is searched for the input file's base name when InputFile does not exist.
	FallbackDir string `json:"fallback_dir,omitempty" yaml:"fallback_dir,omitempty"`

	// MaxLineBytes bounds the length of a single input line.
	MaxLineBytes int `json:"max_line_bytes,omitempty" yaml:"max_line_bytes,omitempty" validate:"min=1024"`
}

// NewDefaultInputConfig creates default input configuration
func NewDefaultInputConfig() InputConfig {
	return InputConfig{
		InputFile:    "",
		FallbackDir:  DefaultInputFallbackDir,
		MaxLineBytes: DefaultMaxLineBytes,
	}
}
