package format

import (
	"bytes"
	"fmt"

	"github.com/zeebo/xxh3"

	"github.com/memkit/memkit/internal/buf"
)

// Header captures the region header written at offset 0 of every formatted
// arena region. The diagram below shows the full layout.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x00    4    'm' 'e' 'm' '1'
//	 0x04    4    Offset of the first block header (RegionHeaderSize)
//	 0x08    8    Usable capacity past the region header, 8-byte aligned
//	 0x10    8    xxh3 sum of bytes [0x00, 0x10)
//	 0x18    8    Reserved, zero
//
// The summed fields are fixed at format time; only block headers mutate
// afterwards, so the sum stays valid for the life of the arena and any
// mismatch means the header bytes were clobbered or misdecoded.
type Header struct {
	Head     uint32
	Capacity uint64
}

// HeaderSum computes the integrity sum over the sealed header fields.
func HeaderSum(b []byte) uint64 {
	return xxh3.Hash(b[:RegionSummedLen])
}

// ParseHeader validates and extracts the region header from b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < RegionHeaderSize {
		return Header{}, fmt.Errorf("region header: %w", ErrTruncated)
	}
	if !bytes.Equal(b[:RegionSignatureSize], RegionSignature) {
		return Header{}, fmt.Errorf("region header: %w", ErrSignatureMismatch)
	}
	if HeaderSum(b) != buf.U64LE(b[RegionSumOffset:]) {
		return Header{}, fmt.Errorf("region header: %w", ErrChecksum)
	}
	head := buf.U32LE(b[RegionHeadOffset:])
	capacity := buf.U64LE(b[RegionCapacityOffset:])
	if capacity > uint64(len(b)-RegionHeaderSize) {
		return Header{}, fmt.Errorf("region header: capacity %d exceeds region: %w", capacity, ErrTruncated)
	}
	if !Aligned8(int(capacity)) {
		return Header{}, fmt.Errorf("region header: capacity %d: %w", capacity, ErrMisaligned)
	}
	return Header{Head: head, Capacity: capacity}, nil
}

// WriteHeader formats the region header at the start of b and seals it with
// its integrity sum.
func WriteHeader(b []byte, h Header) error {
	if len(b) < RegionHeaderSize {
		return fmt.Errorf("region header: %w", ErrTruncated)
	}
	copy(b[RegionSignatureOffset:], RegionSignature)
	PutU32(b, RegionHeadOffset, h.Head)
	PutU64(b, RegionCapacityOffset, h.Capacity)
	PutU64(b, RegionSumOffset, HeaderSum(b))
	PutU64(b, RegionReservedOffset, 0)
	return nil
}
