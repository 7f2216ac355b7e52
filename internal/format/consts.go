// Package format houses the low-level layout of a formatted arena region:
// the region header that identifies an arena and the block headers that
// chain every payload span. The goal is to keep the byte-level encoding
// focused, allocation-free where possible, and independent from the public
// API so higher-level packages can orchestrate the data in a more ergonomic
// form.
package format

var (
	// RegionSignature is the four-byte signature at the start of every
	// formatted region.
	// Layout (little-endian):
	//   0x00  'm' 'e' 'm' '1'
	RegionSignature = []byte{'m', 'e', 'm', '1'}

	// BlockSignature is the four-byte signature at the beginning of each
	// block header. Every payload span inside a region is prefixed with one.
	BlockSignature = []byte{'b', 'l', 'k', '1'}
)

const (
	// Alignment is the required alignment of the region base address, the
	// region capacity, and every payload size.
	Alignment = 8

	// AlignmentMask is the bitmask used for aligning to 8-byte boundaries (Alignment - 1).
	AlignmentMask = Alignment - 1
)

// ============================================================================
// Region Header Constants
// ============================================================================
// Region header field offsets. The header occupies the first 32 bytes of a
// formatted region; all block offsets are relative to the region base, so no
// block header can ever sit at offset 0.
const (
	RegionSignatureOffset = 0x00 // 4 bytes, "mem1"
	RegionSignatureSize   = 4
	RegionHeadOffset      = 0x04 // uint32, offset of the first block header
	RegionCapacityOffset  = 0x08 // uint64, usable bytes past the region header
	RegionSumOffset       = 0x10 // uint64, xxh3 of header bytes [0x00, 0x10)
	RegionReservedOffset  = 0x18 // uint64, zero

	// RegionHeaderSize is the size of the region header in bytes.
	RegionHeaderSize = 0x20

	// RegionSummedLen is the number of leading header bytes covered by the
	// sum field. The summed fields never change after formatting.
	RegionSummedLen = RegionSumOffset
)

// ============================================================================
// Block Header Constants
// ============================================================================
// Block header field offsets. A block's payload always begins
// BlockHeaderSize bytes past its own header offset.
const (
	BlockSignatureOffset = 0x00 // 4 bytes, "blk1"
	BlockSignatureSize   = 4
	BlockAttrOffset      = 0x04 // uint32, attribute bits (AttrUsed)
	BlockPrevOffset      = 0x08 // uint32, header offset of the previous block (NoBlock = none)
	BlockNextOffset      = 0x0C // uint32, header offset of the next block (NoBlock = none)
	BlockSizeOffset      = 0x10 // uint32, payload size in bytes (8-byte multiple)
	BlockReservedOffset  = 0x14 // uint32, zero

	// BlockHeaderSize is the number of bytes used by the block header
	// preceding every payload (free or in use) within a region.
	BlockHeaderSize = 0x18

	// AttrUsed marks a block whose payload is currently allocated.
	AttrUsed = 0x00000001

	// NoBlock is the prev/next link value meaning "no neighbor". Offset 0
	// belongs to the region header, so it can never address a block.
	NoBlock = 0
)

// ============================================================================
// Derived Sizes
// ============================================================================
const (
	// MinPayload is the smallest payload a formatted region must be able to
	// hold. Requests are rounded up to Alignment, so nothing smaller than
	// this is ever carved out.
	MinPayload = Alignment

	// MinRegionSize is the smallest region that can be formatted: the region
	// header, one block header, and MinPayload bytes of payload.
	MinRegionSize = RegionHeaderSize + BlockHeaderSize + MinPayload
)
