// Package arena implements a first-fit block allocator over a fixed memory
// region.
//
// # Overview
//
// An Arena owns one mem.Region and lays a doubly linked list of blocks over
// it, back to back with no gaps. Every block is a 24-byte header followed by
// its payload; the list order is the physical order. Allocation walks the
// list from the head and takes the first free block large enough, splitting
// off the tail when the remainder can stand alone as a block. Release merges
// the freed block with free neighbors, so the list never holds two adjacent
// free blocks.
//
// Because all metadata lives inside the region, the arena works the same
// over heap slices, anonymous mappings, and shared file mappings. The region
// is formatted destructively by New; there is no attach path that preserves
// prior allocations.
//
// # Sizing
//
// Payload sizes are rounded up to 8 bytes and block headers are 8-byte
// sized, so every payload in an aligned region is 8-byte aligned. A split
// only happens when the remainder exceeds a block header, which means a
// granted payload can be up to one header plus seven bytes larger than the
// requested size. The payload slice returned by Alloc reflects the granted
// size.
//
// # Usage Example
//
// Create a region, format an arena over it, and allocate:
//
//	r, err := mem.NewRegion(64 << 10)
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//
//	a, err := arena.New(r, nil)
//	if err != nil {
//		return err
//	}
//
//	ref, buf, err := a.Alloc(256)
//	if err != nil {
//		return err
//	}
//	copy(buf, payload)
//	// ... later ...
//	if err := a.Free(ref); err != nil {
//		return err
//	}
//
// # Preemption Safety
//
// The arena serializes Alloc and Free through the mem.Toggle it was
// configured with. mem.LockToggle gives mutual exclusion between goroutines;
// a nil toggle leaves the arena unprotected for single-threaded use.
//
// # Self-Test
//
// With Config.SelfTest enabled, New sweeps the region with four write and
// read-back patterns before formatting, refusing memory that drops or
// couples bits. The last pattern is zero, so the region beyond the headers
// starts cleared.
//
// # Diagnostics
//
// Set MEMKIT_LOG_ARENA=1 to log formatting, allocation, and release events
// to stderr. Stats returns counters for calls, failures, splits and merges,
// and live byte load.
package arena
