package arena

import (
	"fmt"
	"os"

	"github.com/memkit/memkit/mem"
)

// Allocator adapts the arena to the mem.Allocator capability, so containers
// and control blocks written against that interface can draw their storage
// from arena-managed memory.
func (a *Arena) Allocator() mem.Allocator {
	return arenaAllocator{a}
}

type arenaAllocator struct {
	a *Arena
}

// Allocate carves a payload of size bytes from the arena. A non-nil placed
// buffer passes through untouched: the caller already owns that memory and
// only wants it adopted, so nothing is carved and Free must never see it
// unless it happens to be an arena payload.
func (ar arenaAllocator) Allocate(size int, placed []byte) ([]byte, error) {
	if placed != nil {
		return placed, nil
	}
	_, buf, err := ar.a.Alloc(size)
	return buf, err
}

// Free releases the payload buf was carved from, recovering the reference
// from the slice address. The capability reports nothing back, so a buffer
// that is not an arena payload is counted in Stats.BadFrees and dropped.
func (ar arenaAllocator) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}
	ref, ok := ar.a.Region().OffsetOf(buf)
	if !ok {
		ar.noteBadFree()
		if logArena {
			fmt.Fprintf(os.Stderr, "[ARENA] free of foreign buffer dropped\n")
		}
		return
	}
	if err := ar.a.Free(ref); err != nil && logArena {
		fmt.Fprintf(os.Stderr, "[ARENA] free ref=%#x dropped: %v\n", ref, err)
	}
}

func (ar arenaAllocator) noteBadFree() {
	if !ar.a.Ready() {
		return
	}
	prior := ar.a.disable()
	defer ar.a.enable(prior)
	ar.a.stats.BadFrees++
}
