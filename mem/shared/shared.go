package shared

import "fmt"

// A Handle is one owner of a shared resource. Handles sharing a control
// block count their number; the last one to release runs the release
// policy. The zero Handle is empty: it owns nothing and all operations on
// it are no-ops.
//
// Each individual handle belongs to one goroutine at a time. The shared
// count is what the control block's mutex serializes, so two goroutines
// may work with two handles of the same resource, but not with the same
// handle.
type Handle[T any] struct {
	ctrl *control[T]
}

// New adopts value into a fresh handle with a count of one. If the control
// block's counter storage cannot be allocated, the release policy still
// runs on value exactly once before the error returns, so the resource is
// not leaked.
func New[T any](value T, cfg *Config[T]) (*Handle[T], error) {
	ctrl, err := newControl(value, cfg)
	if err != nil {
		policy := Releaser[T](Discard[T])
		if cfg != nil && cfg.Release != nil {
			policy = cfg.Release
		}
		policy(value)
		return nil, fmt.Errorf("shared: control storage: %w", err)
	}
	return &Handle[T]{ctrl: ctrl}, nil
}

// Clone returns a new handle sharing the resource, incrementing the count.
// Cloning an empty handle yields an empty handle.
func (h *Handle[T]) Clone() *Handle[T] {
	if h == nil || h.ctrl == nil {
		return &Handle[T]{}
	}
	h.ctrl.acquire()
	return &Handle[T]{ctrl: h.ctrl}
}

// Release drops this handle's ownership and empties it. The last owner's
// release runs the policy on the value and frees the counter storage.
// Releasing an empty handle is a no-op, and every further Release on the
// same handle is too.
func (h *Handle[T]) Release() {
	if h == nil || h.ctrl == nil {
		return
	}
	ctrl := h.ctrl
	h.ctrl = nil
	ctrl.release()
}

// CopyFrom redirects h to share other's resource: h's current resource is
// released and other's count grows by one. Copying a handle from itself is
// a no-op. A nil or empty other just releases h.
func (h *Handle[T]) CopyFrom(other *Handle[T]) {
	if h == nil || h == other {
		return
	}
	h.Release()
	if other == nil || other.ctrl == nil {
		return
	}
	other.ctrl.acquire()
	h.ctrl = other.ctrl
}

// Move transfers ownership into a new handle and empties h. The count does
// not change.
func (h *Handle[T]) Move() *Handle[T] {
	if h == nil || h.ctrl == nil {
		return &Handle[T]{}
	}
	moved := &Handle[T]{ctrl: h.ctrl}
	h.ctrl = nil
	return moved
}

// MoveFrom releases h's current resource and steals other's, leaving other
// empty. Moving a handle from itself is a no-op. When both handles already
// share one resource, the steal net drops one owner.
func (h *Handle[T]) MoveFrom(other *Handle[T]) {
	if h == nil || h == other {
		return
	}
	h.Release()
	if other == nil {
		return
	}
	h.ctrl = other.ctrl
	other.ctrl = nil
}

// Get returns the shared value. The second result is false for an empty
// handle, in which case the value is the zero value.
func (h *Handle[T]) Get() (T, bool) {
	if h == nil || h.ctrl == nil {
		var zero T
		return zero, false
	}
	return h.ctrl.value, true
}

// Count returns the number of handles sharing the resource, zero for an
// empty handle. The count is read under the control block's mutex but can
// be stale by the time the caller looks at it.
func (h *Handle[T]) Count() int {
	if h == nil || h.ctrl == nil {
		return 0
	}
	return int(h.ctrl.snapshot())
}
