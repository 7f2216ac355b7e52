package shared

import (
	"github.com/memkit/memkit/mem"
	"github.com/memkit/memkit/mem/guard"
)

// Config controls how New builds a handle's control block. The zero value
// of every field selects a default, so a nil Config works.
type Config[T any] struct {
	// Allocator provides the control block's counter storage. Defaults to
	// mem.Default. An arena allocator puts the counter into arena memory,
	// which also makes New fail honestly when the arena is exhausted.
	Allocator mem.Allocator

	// Mutex guards the reference count. Defaults to a fresh guard.Sync.
	// Handles built over one control block share this mutex; a mutex whose
	// Lock fails leaves the count unserialized, as an unconstructed lock
	// would.
	Mutex guard.Mutex

	// Release runs exactly once when the last handle lets go of the
	// resource. Defaults to Discard.
	Release Releaser[T]
}
