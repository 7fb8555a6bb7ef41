package refiner

import "errors"

var (
	// ErrUnknownMode is returned when a mode is neither replace nor append.
	ErrUnknownMode = errors.New("unknown processing mode")
	// ErrInvalidURL is returned by ParseURL for input without a scheme or authority.
	ErrInvalidURL = errors.New("invalid url")
	// ErrContractViolation marks a URL that passed IsValidURL but could not be
	// parsed afterwards. It is fatal for the run.
	ErrContractViolation = errors.New("url passed validation but failed to parse")
)
