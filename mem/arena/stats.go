package arena

import "github.com/memkit/memkit/internal/format"

// Stats holds arena instrumentation counters. Call counters and byte totals
// are cumulative over the arena lifetime; BytesInUse and HighWater track the
// live payload load.
type Stats struct {
	AllocCalls   int // Total Alloc calls
	FreeCalls    int // Total successful Free calls
	FailedAllocs int // Allocs rejected with ErrNoSpace
	BadFrees     int // Frees rejected as invalid or duplicate

	Splits        int // Free blocks split during allocation
	CoalesceLeft  int // Merges into the left neighbor
	CoalesceRight int // Merges absorbing the right neighbor

	BytesAllocated int64 // Total payload bytes handed out
	BytesFreed     int64 // Total payload bytes returned
	BytesInUse     int64 // Live payload bytes
	HighWater      int64 // Peak of BytesInUse
}

// Stats returns a snapshot of the arena's counters.
func (a *Arena) Stats() Stats {
	if !a.Ready() {
		return Stats{}
	}
	prior := a.disable()
	defer a.enable(prior)
	return a.stats
}

// Capacity returns the managed bytes past the region header, block headers
// included.
func (a *Arena) Capacity() int {
	if !a.Ready() {
		return 0
	}
	return int(format.ReadU64(a.data, format.RegionCapacityOffset))
}

// FreeBytes returns the total payload bytes sitting in free blocks. The
// total is spread across blocks, so a single allocation of this size can
// still fail; see LargestFree.
func (a *Arena) FreeBytes() int {
	if !a.Ready() {
		return 0
	}
	prior := a.disable()
	defer a.enable(prior)
	return a.freeBytesLocked()
}

// LargestFree returns the payload size of the largest free block, which is
// the largest single request Alloc can currently satisfy.
func (a *Arena) LargestFree() int {
	if !a.Ready() {
		return 0
	}
	prior := a.disable()
	defer a.enable(prior)
	return a.largestFreeLocked()
}

// Utilization returns the fraction of capacity held by used blocks and
// their headers, between 0 and 1.
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	prior := a.disable()
	defer a.enable(prior)

	used := 0
	for off := a.head(); off != format.NoBlock; {
		b := a.blockAt(off)
		if b.used() {
			used += format.BlockHeaderSize + b.size()
		}
		off = b.next()
	}
	return float64(used) / float64(capacity)
}

func (a *Arena) freeBytesLocked() int {
	total := 0
	for off := a.head(); off != format.NoBlock; {
		b := a.blockAt(off)
		if !b.used() {
			total += b.size()
		}
		off = b.next()
	}
	return total
}

func (a *Arena) largestFreeLocked() int {
	largest := 0
	for off := a.head(); off != format.NoBlock; {
		b := a.blockAt(off)
		if !b.used() && b.size() > largest {
			largest = b.size()
		}
		off = b.next()
	}
	return largest
}
