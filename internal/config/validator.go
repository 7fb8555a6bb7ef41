package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/L0g0rhythm/URL-Refiner/internal/common/errorwrapper"
	"github.com/L0g0rhythm/URL-Refiner/internal/refiner"
	"github.com/go-playground/validator/v10"
)

// Output formats accepted by output_config.format.
const (
	OutputFormatText    = "text"
	OutputFormatJSON    = "json"
	OutputFormatParquet = "parquet"
)

// OutputFormats lists every supported output format.
func OutputFormats() []string {
	return []string{OutputFormatText, OutputFormatJSON, OutputFormatParquet}
}

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return errorwrapper.NewConfigurationError("", "", "configuration is nil")
	}

	validate := newValidator()

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return errorwrapper.WrapError(err, "configuration validation error")
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		fieldName := strings.TrimPrefix(e.StructNamespace(), "GlobalConfig.")
		msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", fieldName, e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (expected: %s)", e.Param())
		}
		if e.Value() != nil && e.Value() != "" {
			msg += fmt.Sprintf(", actual: '%v'", e.Value())
		}
		messages = append(messages, msg)
	}
	return errorwrapper.NewError("%w:\n  %s", errorwrapper.ErrInvalidConfiguration, strings.Join(messages, "\n  "))
}

func newValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("refinemode", func(fl validator.FieldLevel) bool {
		_, err := refiner.ParseMode(fl.Field().String())
		return err == nil
	})

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "trace", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("outputformat", func(fl validator.FieldLevel) bool {
		format := strings.ToLower(fl.Field().String())
		for _, known := range OutputFormats() {
			if format == known {
				return true
			}
		}
		return false
	})

	_ = validate.RegisterValidation("compression", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "none", "gzip", "snappy", "zstd":
			return true
		default:
			return false
		}
	})

	return validate
}
