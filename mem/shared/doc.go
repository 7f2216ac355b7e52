// Package shared implements reference-counted ownership of a resource.
//
// # Overview
//
// A Handle[T] is one owner of a value shared through a control block. The
// block carries the value, a release policy, a mutex, and a reference
// count whose storage is drawn from a mem.Allocator. Clone adds an owner,
// Release drops one, and the last release runs the policy exactly once.
// Copy and move assignment mirror the usual shared-ownership calculus:
// CopyFrom joins another handle's resource after releasing its own, and
// Move and MoveFrom transfer ownership without touching the count.
//
// # Counter Storage
//
// The count lives in eight bytes obtained from the configured allocator
// rather than in the control block struct. With the default runtime
// allocator that is an ordinary heap allocation, but backed by an arena
// allocator the counter occupies arena memory and its allocation can
// genuinely fail. New propagates that failure after running the release
// policy on the value, so the resource never leaks into an unconstructed
// handle.
//
// # Thread Safety
//
// The control block's mutex serializes every count movement, and the final
// release unlocks before the block is torn down. Distinct handles of one
// resource can be used from distinct goroutines; one handle must not be
// shared between goroutines without external synchronization.
//
// # Usage Example
//
// Sharing a connection-like resource with a close-on-last-release policy:
//
//	h, err := shared.New(conn, &shared.Config[*Conn]{
//		Release: func(c *Conn) { c.Close() },
//	})
//	if err != nil {
//		return err
//	}
//	worker := h.Clone()
//	go func() {
//		defer worker.Release()
//		use(worker)
//	}()
//	h.Release() // conn closes when the worker is done
//
// # Related Packages
//
//   - mem: the Allocator capability the counter storage comes from
//   - mem/arena: an allocator that places the counter into a fixed region
//   - mem/guard: the scoped acquisition the count movements use
package shared
