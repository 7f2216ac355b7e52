package arena

import (
	"bytes"
	"fmt"
	"os"

	"github.com/memkit/memkit/internal/format"
	"github.com/memkit/memkit/mem"
)

// Runtime debug flag for arena logging - controlled by MEMKIT_LOG_ARENA env var.
var logArena = os.Getenv("MEMKIT_LOG_ARENA") != ""

// Ref is a payload reference: the offset of an allocation's first payload
// byte relative to the region base. The region header occupies offset zero,
// so no payload can sit there and the zero Ref doubles as the null reference.
type Ref = uint32

// NilRef is the null payload reference.
const NilRef Ref = 0

// Arena is a first-fit allocator over one contiguous region. The region
// holds a doubly linked list of blocks laid out back to back. Alloc carves
// payloads out of free blocks, splitting off the remainder when it can hold
// a block of its own, and Free merges released blocks with free neighbors.
// Block metadata lives inside the region, so an arena can be handed a
// mapped file or a locked anonymous mapping and manage it in place.
//
// An arena is not safe for concurrent use unless constructed with a Toggle
// that serializes callers.
type Arena struct {
	r      *mem.Region
	data   []byte
	toggle mem.Toggle
	ready  bool
	stats  Stats
}

// New formats the region and returns an arena over it. Any previous content
// is destroyed. The region must be 8-byte aligned and large enough for the
// region header plus one minimal block; callers that went through
// mem.NewRegion or mem.AnonRegion already satisfy both.
//
// With cfg nil, DefaultConfig applies. When cfg.SelfTest is set the region
// is pattern-tested before formatting and New fails with ErrSelfTest if any
// cell misbehaves.
//
// The region must stay open for the arena's lifetime.
func New(r *mem.Region, cfg *Config) (*Arena, error) {
	if cfg == nil {
		cfg = DefaultConfig
	}
	data := r.Bytes()
	if len(data) == 0 {
		return nil, ErrNotReady
	}
	if !format.Aligned8(format.RegionHeaderSize) || !format.Aligned8(format.BlockHeaderSize) {
		return nil, ErrLayout
	}
	if len(data) < format.MinRegionSize {
		return nil, fmt.Errorf("region of %d bytes: %w", len(data), mem.ErrTooSmall)
	}
	if !r.Aligned() {
		return nil, mem.ErrMisaligned
	}
	if cfg.SelfTest {
		if err := selfTest(data); err != nil {
			return nil, err
		}
	}

	// Stragglers past the last full 8-byte boundary are left outside the
	// managed capacity.
	capacity := format.Align8Down(len(data)) - format.RegionHeaderSize
	hdr := format.Header{
		Head:     format.RegionHeaderSize,
		Capacity: uint64(capacity),
	}
	if err := format.WriteHeader(data, hdr); err != nil {
		return nil, err
	}
	first := format.Block{
		Offset: format.RegionHeaderSize,
		Prev:   format.NoBlock,
		Next:   format.NoBlock,
		Size:   capacity - format.BlockHeaderSize,
		Used:   false,
	}
	if err := format.WriteBlock(data, first); err != nil {
		return nil, err
	}

	if logArena {
		fmt.Fprintf(os.Stderr, "[ARENA] formatted region: capacity=%d first=%d\n",
			capacity, first.Size)
	}
	return &Arena{r: r, data: data, toggle: cfg.Toggle, ready: true}, nil
}

// Ready reports whether the arena was fully constructed and its region still
// carries the formatted signatures. Every operation checks it, so an arena
// whose region was corrupted degrades into returning ErrNotReady instead of
// walking garbage.
func (a *Arena) Ready() bool {
	if a == nil || !a.ready || len(a.data) < format.MinRegionSize {
		return false
	}
	if !bytes.Equal(a.data[:format.RegionSignatureSize], format.RegionSignature) {
		return false
	}
	return a.blockAt(a.head()).valid()
}

// head returns the header offset of the first block.
func (a *Arena) head() uint32 {
	return format.ReadU32(a.data, format.RegionHeadOffset)
}

// Region returns the region the arena manages.
func (a *Arena) Region() *mem.Region {
	if a == nil {
		return nil
	}
	return a.r
}

// Alloc carves size bytes out of the first free block large enough to hold
// them, walking blocks in address order. The size is rounded up to the next
// 8-byte boundary. It returns the payload's reference and a zero-copy slice
// over its bytes.
//
// Alloc fails with ErrBadSize for non-positive sizes and ErrNoSpace when no
// free block fits the request after rounding.
func (a *Arena) Alloc(size int) (Ref, []byte, error) {
	if !a.Ready() {
		return NilRef, nil, ErrNotReady
	}
	if size <= 0 {
		return NilRef, nil, ErrBadSize
	}
	need := format.Align8(size)

	prior := a.disable()
	defer a.enable(prior)

	a.stats.AllocCalls++
	for off := a.head(); off != format.NoBlock; {
		b := a.blockAt(off)
		if !b.used() && b.size() >= need {
			a.carve(b, need)
			granted := int64(b.size())
			a.stats.BytesAllocated += granted
			a.stats.BytesInUse += granted
			if a.stats.BytesInUse > a.stats.HighWater {
				a.stats.HighWater = a.stats.BytesInUse
			}
			if logArena {
				fmt.Fprintf(os.Stderr, "[ARENA] alloc %d -> ref=%#x granted=%d\n",
					size, b.ref(), granted)
			}
			return b.ref(), b.payload(), nil
		}
		off = b.next()
	}

	a.stats.FailedAllocs++
	if logArena {
		fmt.Fprintf(os.Stderr, "[ARENA] alloc %d failed: free=%d largest=%d\n",
			size, a.freeBytesLocked(), a.largestFreeLocked())
	}
	return NilRef, nil, ErrNoSpace
}

// carve marks b used, first splitting off its tail as a new free block when
// the remainder can hold a header and at least one aligned payload byte. A
// remainder too small to stand alone stays attached, so the payload slice
// Alloc returns can be longer than the rounded request.
func (a *Arena) carve(b block, need int) {
	remainder := b.size() - need
	if remainder > format.BlockHeaderSize {
		tailOff := b.off + uint32(format.BlockHeaderSize+need)
		tail := a.blockAt(tailOff)
		tail.init(b.off, b.next(), remainder-format.BlockHeaderSize, false)
		if nextOff := b.next(); nextOff != format.NoBlock {
			a.blockAt(nextOff).setPrev(tailOff)
		}
		b.setNext(tailOff)
		b.setSize(need)
		a.stats.Splits++
	}
	b.setUsed(true)
}

// Free returns the block owning ref to the free pool, merging it with any
// free physical neighbor so that adjacent free blocks never persist.
//
// A NilRef is ignored, matching the usual contract that releasing a null
// reference is a no-op, and a Free on an unconstructed arena is ignored the
// same way. Anything else malformed is rejected: refs that are out of range,
// misaligned, or not backed by a block header fail with ErrBadRef, and a ref
// whose block is already free fails with ErrDoubleFree.
func (a *Arena) Free(ref Ref) error {
	if ref == NilRef || !a.Ready() {
		return nil
	}

	prior := a.disable()
	defer a.enable(prior)

	b, err := a.resolve(ref)
	if err != nil {
		a.stats.BadFrees++
		if logArena {
			fmt.Fprintf(os.Stderr, "[ARENA] free ref=%#x rejected: %v\n", ref, err)
		}
		return err
	}

	a.stats.FreeCalls++
	released := int64(b.size())
	a.stats.BytesFreed += released
	a.stats.BytesInUse -= released
	a.coalesce(b)
	if logArena {
		fmt.Fprintf(os.Stderr, "[ARENA] free ref=%#x released=%d\n", ref, released)
	}
	return nil
}

// resolve maps a payload reference back to its block cursor, validating that
// the reference points at a live block.
func (a *Arena) resolve(ref Ref) (block, error) {
	if ref < format.RegionHeaderSize+format.BlockHeaderSize || int(ref) >= len(a.data) {
		return block{}, fmt.Errorf("ref %#x out of range: %w", ref, ErrBadRef)
	}
	if !format.Aligned8(int(ref)) {
		return block{}, fmt.Errorf("ref %#x misaligned: %w", ref, ErrBadRef)
	}
	b := a.blockAt(ref - format.BlockHeaderSize)
	if !b.valid() {
		return block{}, fmt.Errorf("ref %#x has no block header: %w", ref, ErrBadRef)
	}
	if !b.used() {
		return block{}, fmt.Errorf("ref %#x: %w", ref, ErrDoubleFree)
	}
	return b, nil
}

// coalesce clears b's used bit and merges it with free neighbors. The merge
// always absorbs rightward into the leftmost free block, so the surviving
// header is the one earliest in the region. Absorbed headers are scrubbed;
// their bytes become payload.
func (a *Arena) coalesce(b block) {
	prevOff, nextOff := b.prev(), b.next()

	var left, right block
	mergeLeft := prevOff != format.NoBlock
	if mergeLeft {
		left = a.blockAt(prevOff)
		mergeLeft = !left.used()
	}
	mergeRight := nextOff != format.NoBlock
	if mergeRight {
		right = a.blockAt(nextOff)
		mergeRight = !right.used()
	}

	switch {
	case mergeLeft && mergeRight:
		left.setSize(left.size() + 2*format.BlockHeaderSize + b.size() + right.size())
		after := right.next()
		left.setNext(after)
		if after != format.NoBlock {
			a.blockAt(after).setPrev(left.off)
		}
		b.scrub()
		right.scrub()
		a.stats.CoalesceLeft++
		a.stats.CoalesceRight++

	case mergeLeft:
		left.setSize(left.size() + format.BlockHeaderSize + b.size())
		left.setNext(nextOff)
		if nextOff != format.NoBlock {
			a.blockAt(nextOff).setPrev(left.off)
		}
		b.scrub()
		a.stats.CoalesceLeft++

	case mergeRight:
		b.setSize(b.size() + format.BlockHeaderSize + right.size())
		after := right.next()
		b.setNext(after)
		if after != format.NoBlock {
			a.blockAt(after).setPrev(b.off)
		}
		right.scrub()
		b.setUsed(false)
		a.stats.CoalesceRight++

	default:
		b.setUsed(false)
	}
}

// disable suspends preemption through the configured toggle and returns the
// prior state for enable. With no toggle both are no-ops.
func (a *Arena) disable() bool {
	if a.toggle == nil {
		return false
	}
	return a.toggle.Disable()
}

func (a *Arena) enable(prior bool) {
	if a.toggle != nil {
		a.toggle.Enable(prior)
	}
}
