// Package mem provides the capability surfaces and region containers that
// the memkit allocator stack is built on.
//
// # Overview
//
// This package defines the small interfaces the rest of the module consumes
// (Allocator, Toggle) together with Region, the contiguous byte region an
// arena formats and manages. Everything operates on plain byte slices with
// zero-copy views, so a region can live on the Go heap, in an anonymous
// mapping, or on externally provided memory such as a shared-memory object.
//
// # Key Types
//
// The main types provided by this package are:
//
//   - Region: one contiguous byte region, owned or attached
//   - Header: zero-copy view of the 32-byte region header
//   - Allocator: the storage capability consumed by containers and handles
//   - Runtime: the Go-heap Allocator and the default safe path
//   - Toggle: the preemption-suspension capability consumed by arenas
//   - LockToggle: a mutex-backed Toggle for multi-core hosts
//
// # Region Layout
//
// A formatted region consists of:
//
//	[Region Header - 32 bytes] [Block 0] [Block 1] ... [Block N]
//
// Each block is a 24-byte header followed by its payload. Blocks are
// identified by offsets relative to the region base; see internal/format
// for the exact field layout.
//
// # Creating a Region
//
// The default path allocates backing storage on the Go heap:
//
//	r, err := mem.NewRegion(64 << 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// AttachRegion wraps caller-supplied storage instead, and is the entry
// point for placing an arena onto memory the caller already controls.
// MapRegion and AnonRegion build attached regions over mappings from
// internal/mmfile.
//
// # Thread Safety
//
// A Region itself is a passive byte container and carries no locking.
// Serialization of the structures inside it belongs to the arena and its
// configured Toggle.
//
// # Related Packages
//
//   - github.com/memkit/memkit/mem/arena: first-fit block allocator over a Region
//   - github.com/memkit/memkit/mem/guard: scoped lock guard
//   - github.com/memkit/memkit/mem/shared: shared-ownership handles
//   - github.com/memkit/memkit/mem/verify: region integrity verification
package mem
