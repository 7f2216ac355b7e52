package arena

import "errors"

var (
	// ErrNotReady indicates the arena was never successfully constructed.
	ErrNotReady = errors.New("arena: not constructed")

	// ErrLayout indicates the header layout constants lost their 8-byte sizing.
	ErrLayout = errors.New("arena: layout constants misaligned")

	// ErrSelfTest indicates the region failed the memory pattern test.
	ErrSelfTest = errors.New("arena: memory self-test failed")

	// ErrBadSize indicates a non-positive allocation size.
	ErrBadSize = errors.New("arena: invalid allocation size")

	// ErrNoSpace indicates that no free block large enough was found.
	ErrNoSpace = errors.New("arena: no free block large enough")

	// ErrBadRef indicates an invalid or out-of-bounds block reference.
	ErrBadRef = errors.New("arena: bad block reference")

	// ErrDoubleFree indicates an attempt to free a block that is already free.
	ErrDoubleFree = errors.New("arena: block already free")
)
