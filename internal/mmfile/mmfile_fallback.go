//go:build !unix

package mmfile

import (
	"errors"
	"fmt"
)

// ErrUnsupported indicates the platform cannot provide a shared mapping.
var ErrUnsupported = errors.New("mmfile: shared mappings unsupported on this platform")

// MapAnon falls back to a heap-backed region when mmap is not available.
// The locked flag is ignored; there are no pages to pin.
func MapAnon(size int, _ bool) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmfile: invalid mapping size %d", size)
	}
	return make([]byte, size), func() error { return nil }, nil
}

// Map cannot be emulated without mmap: a heap copy of the file would detach
// the region from the memory it is meant to occupy.
func Map(string) ([]byte, func() error, error) {
	return nil, nil, ErrUnsupported
}
