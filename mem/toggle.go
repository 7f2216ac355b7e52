package mem

import "sync"

// Toggle suspends and resumes preemption around arena metadata mutation.
// Disable returns the prior state so nested critical sections restore
// correctly; Enable receives that value back. A nil Toggle on an arena
// means no protection, which is a valid configuration for single-threaded
// or non-preemptive targets.
//
// The toggle contract serializes an arena only against interruption on the
// current execution context. It is not a cross-core lock; see LockToggle
// for hosts with genuinely parallel callers.
type Toggle interface {
	Disable() bool
	Enable(prior bool)
}

// LockToggle adapts a mutex into a Toggle. Disable acquires the lock and
// Enable releases it, so arena operations configured with a LockToggle are
// mutually exclusive across cores as well.
type LockToggle struct {
	mu sync.Mutex
}

// Disable acquires the lock. The returned prior state is always true;
// a blocked caller simply waits.
func (t *LockToggle) Disable() bool {
	t.mu.Lock()
	return true
}

// Enable releases the lock. The prior-state token is ignored.
func (t *LockToggle) Enable(bool) {
	t.mu.Unlock()
}
