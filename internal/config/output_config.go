package config

// OutputConfig defines how refined URLs are emitted
type OutputConfig struct {
	// SaveToFile writes a timestamped file under OutputDir instead of printing to stdout.
	SaveToFile      bool   `json:"save_to_file,omitempty" yaml:"save_to_file,omitempty"`
	OutputDir       string `json:"output_dir,omitempty" yaml:"output_dir,omitempty" validate:"required"`
	Format          string `json:"format,omitempty" yaml:"format,omitempty" validate:"required,outputformat"`
	FilePrefix      string `json:"file_prefix,omitempty" yaml:"file_prefix,omitempty" validate:"required"`
	TimestampLayout string `json:"timestamp_layout,omitempty" yaml:"timestamp_layout,omitempty" validate:"required"`
}

// NewDefaultOutputConfig creates default output configuration
func NewDefaultOutputConfig() OutputConfig {
	return OutputConfig{
		SaveToFile:      false,
		OutputDir:       DefaultOutputDir,
		Format:          DefaultOutputFormat,
		FilePrefix:      DefaultOutputFilePrefix,
		TimestampLayout: DefaultOutputTimestampLayout,
	}
}
