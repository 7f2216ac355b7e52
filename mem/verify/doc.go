// Package verify provides validation functions for formatted arena regions.
//
// # Overview
//
// This package implements structural checks for regions formatted by
// mem/arena to ensure the on-region layout stays intact. It is primarily
// used in tests and diagnostic tools to confirm that allocator operations
// maintain region invariants.
//
// Validation categories:
//   - Header: Signature, sealed sum, head offset, capacity
//   - Blocks: Signatures, link symmetry, sizes, adjacency
//   - Accounting: Block sizes tile the capacity exactly
//   - Occupancy: Every managed byte claimed exactly once
//
// # Quick Start
//
// Validate all invariants in one call:
//
//	if err := verify.Region(r.Bytes()); err != nil {
//	    fmt.Printf("validation failed: %v\n", err)
//	}
//
// Validate specific aspects:
//
//	if err := verify.Header(data); err != nil {
//	    fmt.Printf("header invalid: %v\n", err)
//	}
//
//	if err := verify.Blocks(data); err != nil {
//	    fmt.Printf("block list invalid: %v\n", err)
//	}
//
// # ValidationError
//
// All validation functions return ValidationError on failure:
//
//	type ValidationError struct {
//	    Type    string                 // Error category (e.g., "Header")
//	    Message string                 // Human-readable description
//	    Offset  int                    // Region offset where error occurred (-1 if N/A)
//	    Details map[string]interface{} // Additional context
//	}
//
// Example:
//
//	err := verify.Header(data)
//	if err != nil {
//	    if verr, ok := err.(*verify.ValidationError); ok {
//	        fmt.Printf("Type: %s\n", verr.Type)
//	        fmt.Printf("Offset: 0x%X\n", verr.Offset)
//	        fmt.Printf("Message: %s\n", verr.Message)
//	    }
//	}
//
// # Header Validation
//
// Header checks the region prefix written when an arena formats a region:
//   - Region signature present
//   - Sealed sum over the header prefix matches the stored sum
//   - Head offset points at the first block slot
//   - Capacity is positive, 8-byte aligned, and fits the region
//
// A sum mismatch reports the calculated and stored values in Details.
//
// # Blocks Validation
//
// Blocks walks the block list from the stored head and checks every node:
//   - Block header lies inside the managed span
//   - Block signature present
//   - Prev link matches the position of the previous block
//   - Size is at least the minimum payload and 8-byte aligned
//   - Block does not cross the capacity boundary
//   - No two free blocks are adjacent
//   - Next link lands exactly at the end of the current block
//
// Adjacent free blocks indicate a missed merge; a gap or overlap indicates
// a corrupted link or size field.
//
// # Accounting Validation
//
// Accounting sums header plus payload over every block and requires the
// total to equal the region capacity exactly. A mismatch reports the sum
// and the capacity in Details. The walk tolerates broken links so it can
// report accounting drift even on damaged lists.
//
// # Occupancy Validation
//
// Occupancy builds a bitmap of the byte spans each block claims and
// requires the union to cover the managed span exactly once. It reports
// bytes claimed twice (overlapping blocks) and bytes left unclaimed or
// out of range (truncated or oversized lists).
//
// # Usage in Tests
//
// The typical pattern validates after every mutation:
//
//	a, _ := arena.New(r, nil)
//	ref, _, _ := a.Alloc(64)
//	if err := verify.Region(r.Bytes()); err != nil {
//	    t.Fatalf("invariants violated: %v", err)
//	}
//	_ = a.Free(ref)
//	if err := verify.Region(r.Bytes()); err != nil {
//	    t.Fatalf("invariants violated: %v", err)
//	}
//
// # Performance Characteristics
//
// Validation costs:
//   - Header: O(1) (reads header fields, hashes 16 bytes)
//   - Blocks: O(n) in block count
//   - Accounting: O(n) in block count
//   - Occupancy: O(n) in managed bytes (bitmap ranges)
//
// Region runs all four in order and stops at the first failure.
//
// # Limitations
//
// The verify package does NOT check:
//   - Payload contents (callers own their bytes)
//   - Allocator statistics against region state
//   - Liveness of references held by callers
//
// It validates structure, not semantics. A region can pass every check
// while callers hold stale references into it.
//
// # Related Packages
//
//   - github.com/memkit/memkit/mem/arena: Formats and mutates regions
//   - github.com/memkit/memkit/internal/format: Binary layout constants
package verify
