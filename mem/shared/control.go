package shared

import (
	"github.com/memkit/memkit/internal/format"
	"github.com/memkit/memkit/mem"
	"github.com/memkit/memkit/mem/guard"
)

// counterSize is the control counter's storage footprint. The count itself
// is 32 bits; the allocation is one alignment unit so arena-backed storage
// never splits below the minimum payload.
const counterSize = 8

// control is the block shared by every handle of one resource: the value,
// the release policy, the mutex serializing the count, and the counter
// bytes drawn from an allocator.
type control[T any] struct {
	value   T
	mu      guard.Mutex
	policy  Releaser[T]
	alloc   mem.Allocator
	counter []byte
}

func newControl[T any](value T, cfg *Config[T]) (*control[T], error) {
	al := mem.Default
	var mu guard.Mutex
	policy := Releaser[T](Discard[T])
	if cfg != nil {
		if cfg.Allocator != nil {
			al = cfg.Allocator
		}
		mu = cfg.Mutex
		if cfg.Release != nil {
			policy = cfg.Release
		}
	}
	if mu == nil {
		mu = &guard.Sync{}
	}

	counter, err := al.Allocate(counterSize, nil)
	if err != nil {
		return nil, err
	}
	c := &control[T]{value: value, mu: mu, policy: policy, alloc: al, counter: counter}
	c.setCount(1)
	return c, nil
}

func (c *control[T]) count() int32 {
	return format.ReadI32(c.counter, 0)
}

func (c *control[T]) setCount(n int32) {
	format.PutI32(c.counter, 0, n)
}

// acquire registers one more owner.
func (c *control[T]) acquire() {
	g := guard.Lock(c.mu)
	defer g.Unlock()
	c.setCount(c.count() + 1)
}

// release drops one owner and tears the block down when it was the last.
// The mutex is released before teardown: the final unlock must never touch
// a control block whose storage is already gone.
func (c *control[T]) release() {
	g := guard.Lock(c.mu)
	n := c.count() - 1
	c.setCount(n)
	g.Unlock()

	if n == 0 {
		c.policy(c.value)
		c.alloc.Free(c.counter)
		c.counter = nil
	}
}

// snapshot reads the count under the mutex.
func (c *control[T]) snapshot() int32 {
	g := guard.Lock(c.mu)
	defer g.Unlock()
	return c.count()
}
