package shared

import "io"

// A Releaser is the release policy of a handle: it runs exactly once, when
// the last handle sharing a resource releases it, or when New fails before
// any handle exists.
type Releaser[T any] func(T)

// Discard is the release policy that does nothing, for resources whose
// teardown is managed elsewhere.
func Discard[T any](T) {}

// CloseRelease returns a release policy that closes the resource. The close
// error is dropped; a release policy has no caller to report it to.
func CloseRelease[T io.Closer]() Releaser[T] {
	return func(v T) {
		_ = v.Close()
	}
}
