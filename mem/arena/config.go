package arena

import "github.com/memkit/memkit/mem"

// Config controls how an arena is constructed.
type Config struct {
	// Toggle serializes allocation and release against whatever form of
	// preemption the host environment has. A nil Toggle disables protection,
	// which is correct for single-threaded use.
	Toggle mem.Toggle

	// SelfTest exercises the region with write and read-back patterns before
	// the first header lands on it. It costs four full passes over the region,
	// so callers mapping large regions may want it off.
	SelfTest bool
}

// DefaultConfig is used when New receives a nil config: self-test on, no
// preemption toggle.
var DefaultConfig = &Config{SelfTest: true}
