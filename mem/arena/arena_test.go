package arena

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memkit/memkit/internal/format"
	"github.com/memkit/memkit/mem"
)

// newTestArena builds an arena over a fresh heap region of the given size,
// cleaning both up with the test.
func newTestArena(t *testing.T, size int, cfg *Config) *Arena {
	t.Helper()
	r, err := mem.NewRegion(size)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	a, err := New(r, cfg)
	require.NoError(t, err)
	return a
}

// requireIntact walks the whole block list and asserts the structural
// invariants: blocks tile the capacity exactly, the list order is the
// physical order, links are symmetric, sizes are aligned, and no two free
// blocks are adjacent.
func requireIntact(t *testing.T, a *Arena) {
	t.Helper()
	require.True(t, a.Ready())

	capacity := a.Capacity()
	sum := 0
	prev := uint32(format.NoBlock)
	prevFree := false

	off := a.head()
	require.Equal(t, uint32(format.RegionHeaderSize), off)
	for off != format.NoBlock {
		b := a.blockAt(off)
		require.True(t, b.valid(), "block at %#x lost its header", off)
		require.Equal(t, prev, b.prev(), "block at %#x has wrong prev link", off)
		require.True(t, format.Aligned8(b.size()), "block at %#x has unaligned size %d", off, b.size())
		require.GreaterOrEqual(t, b.size(), format.MinPayload, "block at %#x too small", off)

		free := !b.used()
		if prev != format.NoBlock {
			require.False(t, prevFree && free, "adjacent free blocks at %#x and %#x", prev, off)
		}

		sum += format.BlockHeaderSize + b.size()
		next := b.next()
		if next != format.NoBlock {
			require.Equal(t, b.end(), next, "gap between block at %#x and its successor", off)
		}
		prev, prevFree, off = off, free, next
	}
	require.Equal(t, capacity, sum, "blocks do not tile the capacity")
}

func TestNew(t *testing.T) {
	a := newTestArena(t, 4096, nil)

	require.True(t, a.Ready())
	require.Equal(t, 4096-format.RegionHeaderSize, a.Capacity())
	require.Equal(t, a.Capacity()-format.BlockHeaderSize, a.FreeBytes())
	require.Equal(t, a.FreeBytes(), a.LargestFree())
	require.Equal(t, Stats{}, a.Stats())
	require.Zero(t, a.Utilization())
	requireIntact(t, a)
}

func TestNewSelfTestLeavesRegionZeroed(t *testing.T) {
	r, err := mem.NewRegion(256)
	require.NoError(t, err)
	defer r.Close()

	// Dirty the region first so the zeroing is observable.
	for i := range r.Bytes() {
		r.Bytes()[i] = 0xCD
	}

	a, err := New(r, &Config{SelfTest: true})
	require.NoError(t, err)

	_, buf, err := a.Alloc(64)
	require.NoError(t, err)
	for i, c := range buf {
		require.Zerof(t, c, "payload byte %d not cleared", i)
	}
}

func TestNewRejectsClosedRegion(t *testing.T) {
	r, err := mem.NewRegion(4096)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = New(r, nil)
	require.ErrorIs(t, err, ErrNotReady)

	_, err = New(nil, nil)
	require.ErrorIs(t, err, ErrNotReady)
}

func TestNewTruncatesStragglers(t *testing.T) {
	// 71 bytes leaves 7 stragglers past the last 8-byte boundary. The
	// arena must manage only the aligned 64.
	backing := make([]byte, 71)
	r, err := mem.AttachRegion(backing)
	require.NoError(t, err)

	a, err := New(r, nil)
	require.NoError(t, err)
	require.Equal(t, 64-format.RegionHeaderSize, a.Capacity())
	require.Equal(t, format.MinPayload, a.FreeBytes())

	_, _, err = a.Alloc(format.MinPayload + 1)
	require.ErrorIs(t, err, ErrNoSpace)
	_, _, err = a.Alloc(format.MinPayload)
	require.NoError(t, err)
	requireIntact(t, a)
}

func TestAllocRoundsAndAligns(t *testing.T) {
	a := newTestArena(t, 4096, nil)

	ref, buf, err := a.Alloc(1)
	require.NoError(t, err)
	require.NotEqual(t, NilRef, ref)
	require.True(t, format.Aligned8(int(ref)))
	require.Len(t, buf, 8)

	ref2, buf2, err := a.Alloc(13)
	require.NoError(t, err)
	require.Greater(t, ref2, ref)
	require.True(t, format.Aligned8(int(ref2)))
	require.Len(t, buf2, 16)

	// The payload view aliases region memory.
	buf2[0] = 0xAB
	require.Equal(t, byte(0xAB), a.r.Bytes()[ref2])
	requireIntact(t, a)
}

func TestAllocErrors(t *testing.T) {
	a := newTestArena(t, 4096, nil)

	_, _, err := a.Alloc(0)
	require.ErrorIs(t, err, ErrBadSize)
	_, _, err = a.Alloc(-8)
	require.ErrorIs(t, err, ErrBadSize)

	_, _, err = a.Alloc(1 << 20)
	require.ErrorIs(t, err, ErrNoSpace)

	st := a.Stats()
	require.Equal(t, 1, st.AllocCalls)
	require.Equal(t, 1, st.FailedAllocs)
}

func TestExactFitReuse(t *testing.T) {
	// Region sized for exactly 64 payload bytes after the first header.
	a := newTestArena(t, format.RegionHeaderSize+format.BlockHeaderSize+64, nil)
	require.Equal(t, 64, a.LargestFree())

	// Split: 8 used, 32 left free behind a new header.
	ref1, buf1, err := a.Alloc(8)
	require.NoError(t, err)
	require.Len(t, buf1, 8)
	requireIntact(t, a)
	require.Equal(t, 32, a.FreeBytes())

	// The remainder 32-16=16 cannot hold a header, so the whole 32-byte
	// block is granted.
	ref2, buf2, err := a.Alloc(16)
	require.NoError(t, err)
	require.Len(t, buf2, 32)
	requireIntact(t, a)
	require.Zero(t, a.FreeBytes())

	// Releasing the first block leaves an 8-byte island between the region
	// header and the still-used second block.
	require.NoError(t, a.Free(ref1))
	requireIntact(t, a)
	require.Equal(t, 8, a.FreeBytes())

	// An 8-byte request must land exactly where the first one was.
	ref3, _, err := a.Alloc(8)
	require.NoError(t, err)
	require.Equal(t, ref1, ref3)
	requireIntact(t, a)

	require.NoError(t, a.Free(ref2))
	require.NoError(t, a.Free(ref3))
	require.Equal(t, 64, a.LargestFree())
	requireIntact(t, a)
}

func TestFreeNilAndUnready(t *testing.T) {
	a := newTestArena(t, 4096, nil)
	require.NoError(t, a.Free(NilRef))

	var none *Arena
	require.NoError(t, none.Free(64))

	st := a.Stats()
	require.Zero(t, st.FreeCalls)
	require.Zero(t, st.BadFrees)
}

func TestFreeRejectsBadRefs(t *testing.T) {
	a := newTestArena(t, 4096, nil)
	ref, _, err := a.Alloc(64)
	require.NoError(t, err)

	require.ErrorIs(t, a.Free(ref+4), ErrBadRef)            // misaligned
	require.ErrorIs(t, a.Free(ref+8), ErrBadRef)            // mid-payload
	require.ErrorIs(t, a.Free(1<<30), ErrBadRef)            // out of range
	require.ErrorIs(t, a.Free(format.BlockHeaderSize), ErrBadRef) // inside region header

	require.NoError(t, a.Free(ref))
	require.ErrorIs(t, a.Free(ref), ErrDoubleFree)

	st := a.Stats()
	require.Equal(t, 5, st.BadFrees)
	require.Equal(t, 1, st.FreeCalls)
	requireIntact(t, a)
}

func TestFreeDetectsStaleRefAfterCoalesce(t *testing.T) {
	a := newTestArena(t, 4096, nil)

	ref1, _, err := a.Alloc(64)
	require.NoError(t, err)
	ref2, _, err := a.Alloc(64)
	require.NoError(t, err)
	_, _, err = a.Alloc(64) // keeps the tail from merging in
	require.NoError(t, err)

	// ref2's header is absorbed into ref1's block on the second free. A
	// replayed ref2 must not find a live-looking header.
	require.NoError(t, a.Free(ref1))
	require.NoError(t, a.Free(ref2))
	requireIntact(t, a)

	require.ErrorIs(t, a.Free(ref2), ErrBadRef)
	require.ErrorIs(t, a.Free(ref1), ErrDoubleFree)
}

func TestCoalesceLeft(t *testing.T) {
	a := newTestArena(t, 4096, nil)
	refA, _, _ := a.Alloc(64)
	refB, _, _ := a.Alloc(64)
	_, _, err := a.Alloc(64)
	require.NoError(t, err)

	require.NoError(t, a.Free(refA))
	require.NoError(t, a.Free(refB))
	requireIntact(t, a)

	st := a.Stats()
	require.Equal(t, 1, st.CoalesceLeft)
	require.Zero(t, st.CoalesceRight)

	// The merged run starts at A's offset and spans both old payloads.
	ref, _, err := a.Alloc(64 + format.BlockHeaderSize + 64)
	require.NoError(t, err)
	require.Equal(t, refA, ref)
	requireIntact(t, a)
}

func TestCoalesceRight(t *testing.T) {
	a := newTestArena(t, 4096, nil)
	refA, _, _ := a.Alloc(64)
	refB, _, _ := a.Alloc(64)
	_, _, err := a.Alloc(64) // guard between B and the free tail
	require.NoError(t, err)

	require.NoError(t, a.Free(refB))
	requireIntact(t, a)

	// A's release finds only its right neighbor free.
	require.NoError(t, a.Free(refA))
	requireIntact(t, a)

	st := a.Stats()
	require.Equal(t, 1, st.CoalesceRight)
	require.Zero(t, st.CoalesceLeft)

	// The merged run must satisfy a request spanning both old payloads.
	refAB, _, err := a.Alloc(64 + format.BlockHeaderSize + 64)
	require.NoError(t, err)
	require.Equal(t, refA, refAB)
	requireIntact(t, a)
}

func TestCoalesceBothSides(t *testing.T) {
	a := newTestArena(t, 4096, nil)
	refA, _, _ := a.Alloc(64)
	refB, _, _ := a.Alloc(64)
	refC, _, _ := a.Alloc(64)
	_, _, err := a.Alloc(64)
	require.NoError(t, err)

	require.NoError(t, a.Free(refA))
	require.NoError(t, a.Free(refC))
	requireIntact(t, a)

	// B's release merges all three into one block headed at A's offset.
	require.NoError(t, a.Free(refB))
	requireIntact(t, a)

	st := a.Stats()
	require.Equal(t, 1, st.CoalesceLeft)
	require.Equal(t, 1, st.CoalesceRight)

	span := 3*64 + 2*format.BlockHeaderSize
	ref, _, err := a.Alloc(span)
	require.NoError(t, err)
	require.Equal(t, refA, ref)
}

func TestExhaustionAndFullRecovery(t *testing.T) {
	a := newTestArena(t, 2048, nil)

	var refs []Ref
	for {
		ref, _, err := a.Alloc(96)
		if err != nil {
			require.ErrorIs(t, err, ErrNoSpace)
			break
		}
		refs = append(refs, ref)
	}
	require.NotEmpty(t, refs)
	requireIntact(t, a)

	for _, ref := range refs {
		require.NoError(t, a.Free(ref))
	}
	requireIntact(t, a)

	// Everything merged back: one allocation can take the whole capacity.
	require.Equal(t, a.Capacity()-format.BlockHeaderSize, a.LargestFree())
	_, _, err := a.Alloc(a.LargestFree())
	require.NoError(t, err)
}

func TestStatsTracksLoad(t *testing.T) {
	a := newTestArena(t, 4096, nil)

	ref1, buf1, err := a.Alloc(100)
	require.NoError(t, err)
	ref2, buf2, err := a.Alloc(200)
	require.NoError(t, err)

	granted := int64(len(buf1) + len(buf2))
	st := a.Stats()
	require.Equal(t, 2, st.AllocCalls)
	require.Equal(t, granted, st.BytesAllocated)
	require.Equal(t, granted, st.BytesInUse)
	require.Equal(t, granted, st.HighWater)
	require.Equal(t, 2, st.Splits, "each alloc splits the big free tail")
	require.Greater(t, a.Utilization(), 0.0)

	require.NoError(t, a.Free(ref1))
	require.NoError(t, a.Free(ref2))
	st = a.Stats()
	require.Equal(t, int64(0), st.BytesInUse)
	require.Equal(t, granted, st.BytesFreed)
	require.Equal(t, granted, st.HighWater)
}

// recordingToggle counts Disable/Enable pairs to verify every operation is
// bracketed exactly once.
type recordingToggle struct {
	mu       sync.Mutex
	disables int
	enables  int
}

func (rt *recordingToggle) Disable() bool {
	rt.mu.Lock()
	rt.disables++
	return true
}

func (rt *recordingToggle) Enable(prior bool) {
	rt.enables++
	rt.mu.Unlock()
}

func TestToggleBracketsEveryOperation(t *testing.T) {
	rt := &recordingToggle{}
	a := newTestArena(t, 4096, &Config{Toggle: rt, SelfTest: true})

	ref, _, err := a.Alloc(64)
	require.NoError(t, err)
	require.NoError(t, a.Free(ref))
	require.ErrorIs(t, a.Free(ref), ErrDoubleFree)
	_, _, err = a.Alloc(1 << 20)
	require.ErrorIs(t, err, ErrNoSpace)

	require.Equal(t, rt.disables, rt.enables, "every disable must be paired")
	require.Equal(t, 4, rt.disables)
}

func TestConcurrentAllocFree(t *testing.T) {
	a := newTestArena(t, 64<<10, &Config{Toggle: &mem.LockToggle{}})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				ref, buf, err := a.Alloc(64)
				if err != nil {
					continue
				}
				buf[0] = byte(i)
				if err := a.Free(ref); err != nil {
					t.Errorf("free: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	requireIntact(t, a)
	st := a.Stats()
	require.Equal(t, int64(0), st.BytesInUse)
	require.Zero(t, st.BadFrees)
}

func TestReadyDegradesOnCorruption(t *testing.T) {
	a := newTestArena(t, 4096, nil)
	ref, _, err := a.Alloc(64)
	require.NoError(t, err)

	// Clobber the region signature.
	copy(a.data[:4], "XXXX")
	require.False(t, a.Ready())

	_, _, err = a.Alloc(8)
	require.ErrorIs(t, err, ErrNotReady)
	require.NoError(t, a.Free(ref), "free on a degraded arena is ignored")
	require.Equal(t, Stats{}, a.Stats())
	require.Zero(t, a.Capacity())
}

func TestAllocatorAdapter(t *testing.T) {
	a := newTestArena(t, 4096, nil)
	al := a.Allocator()

	buf, err := al.Allocate(48, nil)
	require.NoError(t, err)
	require.Len(t, buf, 48)

	// Placed memory passes through without touching the arena.
	placed := make([]byte, 32)
	got, err := al.Allocate(32, placed)
	require.NoError(t, err)
	require.Same(t, &placed[0], &got[0])
	require.Equal(t, 1, a.Stats().AllocCalls)

	// Free by buffer recovers the block.
	al.Free(buf)
	st := a.Stats()
	require.Equal(t, 1, st.FreeCalls)
	require.Equal(t, int64(0), st.BytesInUse)
	requireIntact(t, a)

	// Foreign buffers are counted and dropped.
	al.Free(make([]byte, 16))
	al.Free(placed)
	require.Equal(t, 2, a.Stats().BadFrees)
	requireIntact(t, a)
}

func TestAllocatorAdapterSatisfiesInterface(t *testing.T) {
	a := newTestArena(t, 4096, nil)
	var al mem.Allocator = a.Allocator()

	buf, err := al.Allocate(16, nil)
	require.NoError(t, err)
	al.Free(buf)
	requireIntact(t, a)
}
