package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/mwc"

	"github.com/memkit/memkit/internal/format"
	"github.com/memkit/memkit/mem"
)

// TestRandomAllocFreeInvariants drives the arena with random operations and
// re-validates the structural invariants after every step.
func TestRandomAllocFreeInvariants(t *testing.T) {
	a := newTestArena(t, 32<<10, nil)
	rng := mwc.Rand()
	live := make(map[Ref]int)

	steps := 2000
	if testing.Short() {
		steps = 200
	}

	for i := 0; i < steps; i++ {
		if rng.Uint32n(2) == 0 {
			size := 1 + int(rng.Uint32n(500))
			ref, buf, err := a.Alloc(size)
			if err != nil {
				require.ErrorIs(t, err, ErrNoSpace, "step %d", i)
			} else {
				require.GreaterOrEqual(t, len(buf), size, "step %d", i)
				_, clash := live[ref]
				require.False(t, clash, "step %d: ref %#x handed out twice", i, ref)
				live[ref] = len(buf)
			}
		} else if len(live) > 0 {
			for ref := range live {
				require.NoError(t, a.Free(ref), "step %d", i)
				delete(live, ref)
				break
			}
		}
		requireIntact(t, a)
	}

	// Drain and check the arena folds back into a single free block.
	for ref := range live {
		require.NoError(t, a.Free(ref))
	}
	requireIntact(t, a)
	require.Equal(t, a.Capacity()-format.BlockHeaderSize, a.LargestFree())
	require.Equal(t, int64(0), a.Stats().BytesInUse)
}

// TestRandomOpsAgainstShadow cross-checks live payload accounting against a
// shadow model while payload bytes carry a per-allocation fill pattern, so
// block splits or merges that touch the wrong bytes show up as corruption.
func TestRandomOpsAgainstShadow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping shadow model test in short mode")
	}

	a := newTestArena(t, 16<<10, &Config{Toggle: &mem.LockToggle{}, SelfTest: true})
	rng := mwc.Rand()

	type allocation struct {
		buf  []byte
		fill byte
	}
	shadow := make(map[Ref]allocation)
	var seq byte

	for i := 0; i < 1500; i++ {
		if rng.Uint32n(3) != 0 {
			size := 8 + int(rng.Uint32n(256))
			ref, buf, err := a.Alloc(size)
			if err != nil {
				continue
			}
			seq++
			for j := range buf {
				buf[j] = seq
			}
			shadow[ref] = allocation{buf: buf, fill: seq}
		} else if len(shadow) > 0 {
			for ref, al := range shadow {
				for j, c := range al.buf {
					require.Equalf(t, al.fill, c,
						"step %d: payload %#x byte %d overwritten", i, ref, j)
				}
				require.NoError(t, a.Free(ref))
				delete(shadow, ref)
				break
			}
		}
	}

	// Whatever survived must still carry its fill.
	for ref, al := range shadow {
		for j, c := range al.buf {
			require.Equalf(t, al.fill, c, "payload %#x byte %d overwritten", ref, j)
		}
		require.NoError(t, a.Free(ref))
	}
	requireIntact(t, a)
}
