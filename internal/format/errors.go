package format

import "errors"

var (
	// ErrSignatureMismatch indicates a structure had an unexpected magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrChecksum indicates the region header sum did not match its fields.
	ErrChecksum = errors.New("format: header sum mismatch")
	// ErrMisaligned indicates an offset or size was off its 8-byte boundary.
	ErrMisaligned = errors.New("format: misaligned value")
)
