package mem

import (
	"unsafe"

	"github.com/memkit/memkit/internal/format"
)

// Address-sensitive helpers. This file holds the only unsafe in the module:
// attached regions must prove their base alignment, and the arena's
// allocator adaptation must recover a region offset from a payload slice.

// baseAligned reports whether the first byte of b sits on an 8-byte boundary.
func baseAligned(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	return uintptr(unsafe.Pointer(&b[0]))&uintptr(format.AlignmentMask) == 0
}

// Aligned reports whether the region base sits on an 8-byte boundary.
func (r *Region) Aligned() bool {
	if r == nil {
		return false
	}
	return baseAligned(r.data)
}

// OffsetOf recovers the region offset of buf, which must alias the region's
// storage. ok is false when buf does not point inside the region.
func (r *Region) OffsetOf(buf []byte) (uint32, bool) {
	if r == nil || len(r.data) == 0 || len(buf) == 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(&r.data[0]))
	p := uintptr(unsafe.Pointer(&buf[0]))
	if p < base || p >= base+uintptr(len(r.data)) {
		return 0, false
	}
	return uint32(p - base), true
}
