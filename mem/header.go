package mem

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/memkit/memkit/internal/format"
)

// Header represents the 32-byte region header at the start of a formatted
// region. Zero-copy: all accessors read directly from h.raw.
type Header struct {
	raw []byte // len >= format.RegionHeaderSize
}

// isFormatted is a fast, zero-alloc check for the region signature.
func isFormatted(b []byte) bool {
	const off = format.RegionSignatureOffset
	const n = format.RegionSignatureSize
	if len(b) < off+n {
		return false
	}
	return bytes.Equal(b[off:off+n], format.RegionSignature)
}

// ParseHeader validates the signature and returns a header view.
func ParseHeader(b []byte) (*Header, error) {
	if len(b) < format.RegionHeaderSize {
		return nil, fmt.Errorf("mem: buffer too small for region header (%d)", len(b))
	}
	if !isFormatted(b) {
		return nil, errors.New("mem: bad region signature")
	}

	return &Header{raw: b[:format.RegionHeaderSize]}, nil
}

// ---- Primitive field readers (no alloc) ----

// Raw returns the raw bytes of the header.
func (h *Header) Raw() []byte { return h.raw }

// Signature returns the "mem1" signature bytes.
func (h *Header) Signature() []byte {
	return h.raw[format.RegionSignatureOffset : format.RegionSignatureOffset+format.RegionSignatureSize]
}

// Head returns the offset of the first block header.
func (h *Header) Head() uint32 { return format.ReadU32(h.raw, format.RegionHeadOffset) }

// Capacity returns the usable byte count past the region header.
func (h *Header) Capacity() uint64 { return format.ReadU64(h.raw, format.RegionCapacityOffset) }

// StoredSum returns the integrity sum stored in the header.
func (h *Header) StoredSum() uint64 { return format.ReadU64(h.raw, format.RegionSumOffset) }

// SumOK recomputes the integrity sum over the sealed fields and compares it
// to the stored value.
func (h *Header) SumOK() bool { return format.HeaderSum(h.raw) == h.StoredSum() }

// Validate performs a thorough header validation with descriptive errors.
// It does not walk blocks; it checks only the header against a provided
// regionSize (the full region length).
//
// Policy choices:
//   - Signature must be "mem1"
//   - Stored sum must match the sealed fields
//   - Head must point directly past the header
//   - Capacity must be 8-byte aligned, non-zero, and fit inside regionSize
func (h *Header) Validate(regionSize int) error {
	if len(h.raw) < format.RegionHeaderSize {
		return fmt.Errorf("mem: header truncated: have=%d need=%d", len(h.raw), format.RegionHeaderSize)
	}
	if !isFormatted(h.raw) {
		return errors.New("mem: bad region signature")
	}
	if !h.SumOK() {
		return fmt.Errorf("mem: header sum mismatch: stored=0x%016X computed=0x%016X",
			h.StoredSum(), format.HeaderSum(h.raw))
	}
	if h.Head() != format.RegionHeaderSize {
		return fmt.Errorf("mem: head offset 0x%X, want 0x%X", h.Head(), format.RegionHeaderSize)
	}
	capacity := h.Capacity()
	if capacity == 0 || !format.Aligned8(int(capacity)) {
		return fmt.Errorf("mem: capacity %d not 8-byte aligned", capacity)
	}
	if regionSize < format.RegionHeaderSize || capacity > uint64(regionSize-format.RegionHeaderSize) {
		return fmt.Errorf("mem: capacity %d exceeds region size %d", capacity, regionSize)
	}
	return nil
}
