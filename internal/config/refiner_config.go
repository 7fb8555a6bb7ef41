package config

import (
	"slices"

	"github.com/L0g0rhythm/URL-Refiner/internal/common/errorwrapper"
	"github.com/L0g0rhythm/URL-Refiner/internal/refiner"
)

// RefinerConfig holds the rewrite and deduplication settings of a run.
type RefinerConfig struct {
	Mode          string   `json:"mode,omitempty" yaml:"mode,omitempty" validate:"required,refinemode"`
	Value         string   `json:"value" yaml:"value"`
	ExcludeParams []string `json:"exclude_params,omitempty" yaml:"exclude_params,omitempty" validate:"dive,required"`
	IgnorePath    bool     `json:"ignore_path,omitempty" yaml:"ignore_path,omitempty"`
}

// NewDefaultRefinerConfig creates default refiner configuration
func NewDefaultRefinerConfig() RefinerConfig {
	return RefinerConfig{
		Mode:          DefaultRefinerMode,
		Value:         DefaultRefinerValue,
		ExcludeParams: []string{},
		IgnorePath:    false,
	}
}

// ToRefinerConfig converts the file representation into the engine's Config.
func (rc RefinerConfig) ToRefinerConfig() (refiner.Config, error) {
	mode, err := refiner.ParseMode(rc.Mode)
	if err != nil {
		return refiner.Config{}, errorwrapper.WrapError(
			errorwrapper.NewConfigurationError("refiner_config", "mode", err.Error()),
			"failed to convert refiner config",
		)
	}

	return refiner.Config{
		Mode:          mode,
		Value:         rc.Value,
		ExcludeParams: slices.Clone(rc.ExcludeParams),
		IgnorePath:    rc.IgnorePath,
	}, nil
}
