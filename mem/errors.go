package mem

import "errors"

var (
	// ErrTooSmall indicates a region cannot hold even one block.
	ErrTooSmall = errors.New("mem: region too small")
	// ErrTooLarge indicates a region exceeds the 32-bit offset space.
	ErrTooLarge = errors.New("mem: region too large")
	// ErrMisaligned indicates a region base was off its 8-byte boundary.
	ErrMisaligned = errors.New("mem: region base misaligned")
	// ErrBadSize indicates a non-positive allocation size.
	ErrBadSize = errors.New("mem: invalid allocation size")
)
