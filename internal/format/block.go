package format

import (
	"bytes"
	"fmt"

	"github.com/memkit/memkit/internal/buf"
)

// Block represents a single span (free or in use) within a formatted region.
//
// Block header layout (little-endian):
//
//	Offset  Size  Description
//	0x00    4     'b' 'l' 'k' '1'
//	0x04    4     Attribute bits; bit 0 set => payload in use
//	0x08    4     Header offset of the previous block (NoBlock = none)
//	0x0C    4     Header offset of the next block (NoBlock = none)
//	0x10    4     Payload size in bytes, 8-byte multiple
//	0x14    4     Reserved, zero
//	0x18    ...   Payload
type Block struct {
	Offset uint32 // Header offset relative to the region base
	Prev   uint32 // Header offset of the previous block, NoBlock when first
	Next   uint32 // Header offset of the next block, NoBlock when last
	Size   int    // Payload size in bytes
	Used   bool   // True when the payload is allocated
	Data   []byte // Payload bytes (alias of the underlying buffer)
}

// ParseBlock decodes the block header at off within the region bytes. The
// caller must ensure off points at the start of a block header.
func ParseBlock(b []byte, off uint32) (Block, error) {
	o := int(off)
	if o < RegionHeaderSize || o+BlockHeaderSize > len(b) {
		return Block{}, fmt.Errorf("block %#x: %w", off, ErrTruncated)
	}
	if !Aligned8(o) {
		return Block{}, fmt.Errorf("block %#x: %w", off, ErrMisaligned)
	}
	if !bytes.Equal(b[o:o+len(BlockSignature)], BlockSignature) {
		return Block{}, fmt.Errorf("block %#x: %w", off, ErrSignatureMismatch)
	}
	attr := buf.U32LE(b[o+BlockAttrOffset:])
	prev := buf.U32LE(b[o+BlockPrevOffset:])
	next := buf.U32LE(b[o+BlockNextOffset:])
	size := int(buf.U32LE(b[o+BlockSizeOffset:]))
	if !Aligned8(size) {
		return Block{}, fmt.Errorf("block %#x: payload size %d: %w", off, size, ErrMisaligned)
	}
	end, ok := buf.AddOverflowSafe(o+BlockHeaderSize, size)
	if !ok || end > len(b) {
		return Block{}, fmt.Errorf("block %#x: %w", off, ErrTruncated)
	}
	return Block{
		Offset: off,
		Prev:   prev,
		Next:   next,
		Size:   size,
		Used:   attr&AttrUsed != 0,
		Data:   b[o+BlockHeaderSize : end],
	}, nil
}

// NextBlock decodes the block at off and returns it along with the offset of
// the physically adjacent block, or NoBlock when blk ends the region. In a
// well-formed region the physical successor and blk.Next always agree.
func NextBlock(b []byte, off uint32) (Block, uint32, error) {
	blk, err := ParseBlock(b, off)
	if err != nil {
		return Block{}, 0, err
	}
	next := int(off) + BlockHeaderSize + blk.Size
	if next >= len(b) {
		return blk, NoBlock, nil
	}
	return blk, uint32(next), nil
}

// WriteBlock writes the header fields of blk at blk.Offset. Payload bytes
// are left untouched.
func WriteBlock(b []byte, blk Block) error {
	o := int(blk.Offset)
	if o < RegionHeaderSize || o+BlockHeaderSize > len(b) {
		return fmt.Errorf("block %#x: %w", blk.Offset, ErrTruncated)
	}
	var attr uint32
	if blk.Used {
		attr = AttrUsed
	}
	copy(b[o+BlockSignatureOffset:], BlockSignature)
	PutU32(b, o+BlockAttrOffset, attr)
	PutU32(b, o+BlockPrevOffset, blk.Prev)
	PutU32(b, o+BlockNextOffset, blk.Next)
	PutU32(b, o+BlockSizeOffset, uint32(blk.Size))
	PutU32(b, o+BlockReservedOffset, 0)
	return nil
}
