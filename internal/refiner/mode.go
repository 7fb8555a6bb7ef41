package refiner

import (
	"fmt"
	"strings"
)

// Mode selects how non-excluded query parameter values are rewritten.
type Mode int

const (
	// ModeReplace overwrites every value of a parameter with a single fixed value.
	ModeReplace Mode = iota
	// ModeAppend concatenates the fixed value onto each existing value.
	ModeAppend
)

const (
	modeReplaceName = "replace"
	modeAppendName  = "append"
)

// Modes lists every supported mode name, in declaration order.
func Modes() []string {
	return []string{modeReplaceName, modeAppendName}
}

// ParseMode converts a mode name to a Mode. Matching is case-insensitive.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case modeReplaceName:
		return ModeReplace, nil
	case modeAppendName:
		return ModeAppend, nil
	default:
		return 0, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownMode, name, strings.Join(Modes(), ", "))
	}
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	return m == ModeReplace || m == ModeAppend
}

func (m Mode) String() string {
	switch m {
	case ModeReplace:
		return modeReplaceName
	case ModeAppend:
		return modeAppendName
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so that JSON, YAML and
// flag values decode straight into a Mode.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
