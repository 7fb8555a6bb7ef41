package errorwrapper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapError(t *testing.T) {
	base := errors.New("boom")

	wrapped := WrapError(base, "reading input")
	require.Error(t, wrapped)
	assert.Equal(t, "reading input: boom", wrapped.Error())
	assert.True(t, errors.Is(wrapped, base))

	assert.NoError(t, WrapError(nil, "nothing"))
}

func TestWrapErrorf(t *testing.T) {
	base := errors.New("denied")

	wrapped := WrapErrorf(base, "writing %s", "out.txt")
	assert.Equal(t, "writing out.txt: denied", wrapped.Error())
	assert.True(t, errors.Is(wrapped, base))
	assert.NoError(t, WrapErrorf(nil, "writing %s", "out.txt"))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("mode", "sideways", "unknown mode")

	assert.Equal(t, "validation error: field 'mode' with value 'sideways': unknown mode", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var target *ValidationError
	require.True(t, errors.As(WrapError(err, "config"), &target))
	assert.Equal(t, "mode", target.Field)
}

func TestConfigurationError(t *testing.T) {
	testCases := []struct {
		name     string
		err      *ConfigurationError
		expected string
	}{
		{"section and field", NewConfigurationError("refiner_config", "mode", "bad"), "configuration error in section 'refiner_config', field 'mode': bad"},
		{"section only", NewConfigurationError("refiner_config", "", "bad"), "configuration error in section 'refiner_config': bad"},
		{"reason only", NewConfigurationError("", "", "bad"), "configuration error: bad"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
			assert.True(t, errors.Is(tc.err, ErrInvalidConfiguration))
		})
	}
}
