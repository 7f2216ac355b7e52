package arena

import (
	"bytes"

	"github.com/memkit/memkit/internal/format"
)

// block is a cursor over one block header inside the arena's region bytes.
// It reads and writes header fields in place. The zero value is not valid;
// cursors come from blockAt.
type block struct {
	data []byte
	off  uint32
}

func (a *Arena) blockAt(off uint32) block {
	return block{data: a.data, off: off}
}

// valid reports whether off points at an in-bounds header carrying the block
// signature.
func (b block) valid() bool {
	o := int(b.off)
	if o < format.RegionHeaderSize || o+format.BlockHeaderSize > len(b.data) {
		return false
	}
	return bytes.Equal(b.data[o:o+format.BlockSignatureSize], format.BlockSignature)
}

func (b block) used() bool {
	return format.ReadU32(b.data, int(b.off)+format.BlockAttrOffset)&format.AttrUsed != 0
}

func (b block) setUsed(used bool) {
	var attr uint32
	if used {
		attr = format.AttrUsed
	}
	format.PutU32(b.data, int(b.off)+format.BlockAttrOffset, attr)
}

func (b block) prev() uint32 {
	return format.ReadU32(b.data, int(b.off)+format.BlockPrevOffset)
}

func (b block) setPrev(off uint32) {
	format.PutU32(b.data, int(b.off)+format.BlockPrevOffset, off)
}

func (b block) next() uint32 {
	return format.ReadU32(b.data, int(b.off)+format.BlockNextOffset)
}

func (b block) setNext(off uint32) {
	format.PutU32(b.data, int(b.off)+format.BlockNextOffset, off)
}

func (b block) size() int {
	return int(format.ReadU32(b.data, int(b.off)+format.BlockSizeOffset))
}

func (b block) setSize(size int) {
	format.PutU32(b.data, int(b.off)+format.BlockSizeOffset, uint32(size))
}

// ref returns the payload reference for this block.
func (b block) ref() Ref {
	return b.off + format.BlockHeaderSize
}

// payload returns a zero-copy view over the block's payload bytes.
func (b block) payload() []byte {
	start := int(b.off) + format.BlockHeaderSize
	return b.data[start : start+b.size()]
}

// end returns the offset one past the block's payload, which is the header
// offset of its physical successor.
func (b block) end() uint32 {
	return b.off + uint32(format.BlockHeaderSize+b.size())
}

// init writes a complete header at the cursor's offset.
func (b block) init(prev, next uint32, size int, used bool) {
	o := int(b.off)
	copy(b.data[o:o+format.BlockSignatureSize], format.BlockSignature)
	b.setUsed(used)
	b.setPrev(prev)
	b.setNext(next)
	b.setSize(size)
	format.PutU32(b.data, o+format.BlockReservedOffset, 0)
}

// scrub zeroes the header bytes of a block that was absorbed during
// coalescing. A stale signature inside a grown payload would let an old
// reference pass validation against a header that no longer exists.
func (b block) scrub() {
	o := int(b.off)
	clear(b.data[o : o+format.BlockHeaderSize])
}
