// Package verify provides validation functions for formatted arena regions.
// These helpers are used in tests and tools to ensure region invariants are
// maintained.
package verify

import (
	"bytes"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/memkit/memkit/internal/format"
)

// ValidationError describes one failed check.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Region validates all region invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func Region(data []byte) error {
	if err := Header(data); err != nil {
		return err
	}
	if err := Blocks(data); err != nil {
		return err
	}
	if err := Accounting(data); err != nil {
		return err
	}
	return Occupancy(data)
}

// Header validates the region header structure and invariants.
func Header(data []byte) error {
	if len(data) < format.RegionHeaderSize {
		return &ValidationError{
			Type:    "Header",
			Message: fmt.Sprintf("region too small: %d bytes (need %d)", len(data), format.RegionHeaderSize),
			Offset:  -1,
		}
	}

	// Check signature
	sig := data[format.RegionSignatureOffset : format.RegionSignatureOffset+format.RegionSignatureSize]
	if !bytes.Equal(sig, format.RegionSignature) {
		return &ValidationError{
			Type:    "Header",
			Message: fmt.Sprintf("invalid signature: got %q, expected %q", sig, format.RegionSignature),
			Offset:  format.RegionSignatureOffset,
		}
	}

	// Check the sealed sum over the header prefix
	calculated := format.HeaderSum(data)
	stored := format.ReadU64(data, format.RegionSumOffset)
	if calculated != stored {
		return &ValidationError{
			Type:    "Header",
			Message: fmt.Sprintf("header sum mismatch: calculated=0x%016X, stored=0x%016X", calculated, stored),
			Offset:  format.RegionSumOffset,
			Details: map[string]interface{}{
				"calculated": calculated,
				"stored":     stored,
			},
		}
	}

	// The head must point at the first byte past the region header
	head := format.ReadU32(data, format.RegionHeadOffset)
	if head != format.RegionHeaderSize {
		return &ValidationError{
			Type:    "Header",
			Message: fmt.Sprintf("head offset mismatch: got 0x%X, expected 0x%X", head, format.RegionHeaderSize),
			Offset:  format.RegionHeadOffset,
		}
	}

	// Check capacity is positive, 8-byte aligned, and fits the region
	capacity := format.ReadU64(data, format.RegionCapacityOffset)
	if capacity == 0 || capacity%format.Alignment != 0 {
		return &ValidationError{
			Type:    "Header",
			Message: fmt.Sprintf("invalid capacity: 0x%X (must be positive and 8-byte aligned)", capacity),
			Offset:  format.RegionCapacityOffset,
		}
	}
	if capacity > uint64(len(data)-format.RegionHeaderSize) {
		return &ValidationError{
			Type:    "Header",
			Message: fmt.Sprintf("capacity exceeds region: capacity=0x%X, available=0x%X", capacity, len(data)-format.RegionHeaderSize),
			Offset:  format.RegionCapacityOffset,
		}
	}

	return nil
}

// Blocks validates the block list: every header carries the block
// signature, sizes are aligned and in bounds, the list order is the
// physical order with no gaps, links are symmetric, and no two free blocks
// are adjacent.
func Blocks(data []byte) error {
	if len(data) < format.MinRegionSize {
		return &ValidationError{
			Type:    "Blocks",
			Message: "region too small for block data",
			Offset:  -1,
		}
	}

	end := format.RegionHeaderSize + int(format.ReadU64(data, format.RegionCapacityOffset))
	if end > len(data) {
		end = len(data)
	}

	pos := int(format.ReadU32(data, format.RegionHeadOffset))
	prev := uint32(format.NoBlock)
	prevFree := false
	blockCount := 0

	for pos != format.NoBlock {
		if pos+format.BlockHeaderSize > end {
			return &ValidationError{
				Type:    "Blocks",
				Message: fmt.Sprintf("block header extends beyond capacity: end=0x%X", end),
				Offset:  pos,
			}
		}

		sig := data[pos : pos+format.BlockSignatureSize]
		if !bytes.Equal(sig, format.BlockSignature) {
			return &ValidationError{
				Type:    "Blocks",
				Message: fmt.Sprintf("invalid block signature: got %q, expected %q", sig, format.BlockSignature),
				Offset:  pos,
			}
		}

		if got := format.ReadU32(data, pos+format.BlockPrevOffset); got != prev {
			return &ValidationError{
				Type:    "Blocks",
				Message: fmt.Sprintf("prev link mismatch: field=0x%X, expected=0x%X", got, prev),
				Offset:  pos,
			}
		}

		size := int(format.ReadU32(data, pos+format.BlockSizeOffset))
		if size < format.MinPayload || size%format.Alignment != 0 {
			return &ValidationError{
				Type:    "Blocks",
				Message: fmt.Sprintf("invalid block size: %d (must be >= %d and 8-byte aligned)", size, format.MinPayload),
				Offset:  pos,
			}
		}

		blockEnd := pos + format.BlockHeaderSize + size
		if blockEnd > end {
			return &ValidationError{
				Type:    "Blocks",
				Message: fmt.Sprintf("block crosses capacity boundary: block_end=0x%X, capacity_end=0x%X", blockEnd, end),
				Offset:  pos,
			}
		}

		free := format.ReadU32(data, pos+format.BlockAttrOffset)&format.AttrUsed == 0
		if prev != format.NoBlock && prevFree && free {
			return &ValidationError{
				Type:    "Blocks",
				Message: fmt.Sprintf("adjacent free blocks: previous at 0x%X", prev),
				Offset:  pos,
			}
		}

		next := format.ReadU32(data, pos+format.BlockNextOffset)
		if next != format.NoBlock && int(next) != blockEnd {
			return &ValidationError{
				Type:    "Blocks",
				Message: fmt.Sprintf("gap or overlap: next=0x%X, block_end=0x%X", next, blockEnd),
				Offset:  pos,
			}
		}

		prev, prevFree = uint32(pos), free
		pos = int(next)
		blockCount++
	}

	if blockCount == 0 {
		return &ValidationError{
			Type:    "Blocks",
			Message: "no valid blocks found",
			Offset:  -1,
		}
	}

	return nil
}

// Accounting validates that the block sizes sum exactly to the header's
// capacity field: every managed byte belongs to exactly one header or
// payload.
func Accounting(data []byte) error {
	if len(data) < format.MinRegionSize {
		return &ValidationError{
			Type:    "Accounting",
			Message: fmt.Sprintf("region too small: %d bytes", len(data)),
			Offset:  -1,
		}
	}

	capacity := int(format.ReadU64(data, format.RegionCapacityOffset))
	sum := 0
	pos := int(format.ReadU32(data, format.RegionHeadOffset))
	for pos != format.NoBlock {
		if pos+format.BlockHeaderSize > len(data) {
			break
		}
		size := int(format.ReadU32(data, pos+format.BlockSizeOffset))
		sum += format.BlockHeaderSize + size

		next := int(format.ReadU32(data, pos+format.BlockNextOffset))
		if next != format.NoBlock && next <= pos {
			break
		}
		pos = next
	}

	if sum != capacity {
		return &ValidationError{
			Type:    "Accounting",
			Message: fmt.Sprintf("blocks do not tile capacity: sum=0x%X, capacity=0x%X", sum, capacity),
			Offset:  -1,
			Details: map[string]interface{}{
				"sum":      sum,
				"capacity": capacity,
			},
		}
	}

	return nil
}

// Occupancy validates byte coverage with a bitmap instead of link
// arithmetic: every block claims its header and payload bytes, claims must
// never overlap, and together they must cover the managed capacity
// exactly.
func Occupancy(data []byte) error {
	if len(data) < format.MinRegionSize {
		return &ValidationError{
			Type:    "Occupancy",
			Message: fmt.Sprintf("region too small: %d bytes", len(data)),
			Offset:  -1,
		}
	}

	capacity := format.ReadU64(data, format.RegionCapacityOffset)
	claimed := roaring.New()

	pos := int(format.ReadU32(data, format.RegionHeadOffset))
	for pos != format.NoBlock {
		if pos+format.BlockHeaderSize > len(data) {
			break
		}
		size := int(format.ReadU32(data, pos+format.BlockSizeOffset))
		blockEnd := pos + format.BlockHeaderSize + size

		span := roaring.New()
		span.AddRange(uint64(pos), uint64(blockEnd))
		if claimed.Intersects(span) {
			return &ValidationError{
				Type:    "Occupancy",
				Message: fmt.Sprintf("block bytes claimed twice: [0x%X, 0x%X)", pos, blockEnd),
				Offset:  pos,
			}
		}
		claimed.Or(span)

		next := int(format.ReadU32(data, pos+format.BlockNextOffset))
		if next == pos {
			break
		}
		pos = next
	}

	expected := roaring.New()
	expected.AddRange(format.RegionHeaderSize, uint64(format.RegionHeaderSize)+capacity)
	if !claimed.Equals(expected) {
		missing := roaring.AndNot(expected, claimed)
		stray := roaring.AndNot(claimed, expected)
		return &ValidationError{
			Type:    "Occupancy",
			Message: fmt.Sprintf("coverage mismatch: %d bytes unclaimed, %d bytes out of range", missing.GetCardinality(), stray.GetCardinality()),
			Offset:  -1,
			Details: map[string]interface{}{
				"unclaimed":    missing.GetCardinality(),
				"out_of_range": stray.GetCardinality(),
			},
		}
	}

	return nil
}
