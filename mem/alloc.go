package mem

// Allocator is the storage capability consumed by containers and by the
// shared handle's control block. Implementations may be backed by the Go
// heap, an arena, or anything else that can hand out byte spans.
//
// Allocate returns size bytes of storage. When placed is non-nil it is
// returned unchanged regardless of size: callers that already hold
// pre-positioned storage route it through the same path as fresh requests.
// Free returns storage previously obtained from Allocate on the same
// allocator; passing anything else is a caller error.
type Allocator interface {
	Allocate(size int, placed []byte) ([]byte, error)
	Free(buf []byte)
}

// Runtime allocates from the Go heap. Free is a no-op; reclamation belongs
// to the garbage collector.
type Runtime struct{}

// Allocate returns a zeroed size-byte slice, or placed when it is non-nil.
func (Runtime) Allocate(size int, placed []byte) ([]byte, error) {
	if placed != nil {
		return placed, nil
	}
	if size <= 0 {
		return nil, ErrBadSize
	}
	return make([]byte, size), nil
}

// Free is a no-op for heap storage.
func (Runtime) Free([]byte) {}

// Default is the allocator used when a component is not configured with
// its own.
var Default Allocator = Runtime{}
