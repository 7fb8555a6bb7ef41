package urlhandler

import "errors"

// Input errors. ErrFileNotFound and ErrNoInput are user errors; the others
// come from the operating system.
var (
	ErrFileNotFound   = errors.New("input file not found")
	ErrFilePermission = errors.New("permission denied reading input file")
	ErrReadingFile    = errors.New("error reading input")
)
