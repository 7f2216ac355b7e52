package guard

import "sync"

// A Mutex is anything a guard can acquire. Lock reports whether the
// acquisition succeeded: implementations backed by a resource that failed
// to construct return false, and must tolerate the Unlock that a holder
// would otherwise skip never arriving.
type Mutex interface {
	Lock() bool
	Unlock()
}

// Sync adapts a stdlib mutex to the Mutex capability. Its Lock always
// succeeds. The zero value is ready to use.
type Sync struct {
	mu sync.Mutex
}

// Lock acquires the mutex, blocking until it is available.
func (s *Sync) Lock() bool {
	s.mu.Lock()
	return true
}

// Unlock releases the mutex.
func (s *Sync) Unlock() {
	s.mu.Unlock()
}
