package mem

import (
	"fmt"

	"github.com/memkit/memkit/internal/format"
	"github.com/memkit/memkit/internal/mmfile"
)

// MaxRegionSize bounds a region to the 32-bit offset space block links use.
const MaxRegionSize = 1<<32 - format.Alignment

// Region is one contiguous byte region, backed by the Go heap (NewRegion)
// or by storage the caller controls (AttachRegion, MapRegion, AnonRegion).
// A Region is passive: formatting and allocation belong to the arena built
// over it, and a Region must not be closed while such an arena is in use.
type Region struct {
	data    []byte
	cleanup func() error
}

// NewRegion allocates a heap-backed region of at least size bytes, rounded
// up to the next 8-byte boundary. This is the default safe path.
func NewRegion(size int) (*Region, error) {
	if size < format.MinRegionSize {
		return nil, fmt.Errorf("mem: region of %d bytes: %w", size, ErrTooSmall)
	}
	if size > MaxRegionSize {
		return nil, fmt.Errorf("mem: region of %d bytes: %w", size, ErrTooLarge)
	}
	return &Region{data: make([]byte, format.Align8(size))}, nil
}

// AttachRegion wraps caller-supplied storage, the entry point for placing
// an arena onto memory the caller already controls. The base must sit on
// an 8-byte boundary and the buffer must have room for at least one block.
func AttachRegion(buf []byte) (*Region, error) {
	if len(buf) < format.MinRegionSize {
		return nil, fmt.Errorf("mem: attached region of %d bytes: %w", len(buf), ErrTooSmall)
	}
	if len(buf) > MaxRegionSize {
		return nil, fmt.Errorf("mem: attached region of %d bytes: %w", len(buf), ErrTooLarge)
	}
	if !baseAligned(buf) {
		return nil, ErrMisaligned
	}
	return &Region{data: buf}, nil
}

// MapRegion attaches to the file or shm object at path through a shared
// read-write mapping. Close releases the mapping.
func MapRegion(path string) (*Region, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, err
	}
	r, err := AttachRegion(data)
	if err != nil {
		_ = cleanup()
		return nil, err
	}
	r.cleanup = cleanup
	return r, nil
}

// AnonRegion attaches to a fresh anonymous mapping of size bytes. When
// locked is true the pages are pinned resident. Close releases the mapping.
func AnonRegion(size int, locked bool) (*Region, error) {
	data, cleanup, err := mmfile.MapAnon(size, locked)
	if err != nil {
		return nil, err
	}
	r, err := AttachRegion(data)
	if err != nil {
		_ = cleanup()
		return nil, err
	}
	r.cleanup = cleanup
	return r, nil
}

// Bytes returns the region's storage. The slice aliases the region; it is
// not a copy.
func (r *Region) Bytes() []byte {
	if r == nil {
		return nil
	}
	return r.data
}

// Size returns the region length in bytes.
func (r *Region) Size() int {
	if r == nil {
		return 0
	}
	return len(r.data)
}

// Close detaches the region and releases any mapping behind it. Views and
// arenas holding the region's bytes must not be used afterwards. Close is
// idempotent.
func (r *Region) Close() error {
	if r == nil {
		return nil
	}
	cleanup := r.cleanup
	r.cleanup = nil
	r.data = nil
	if cleanup == nil {
		return nil
	}
	return cleanup()
}
