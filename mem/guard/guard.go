// Package guard provides scope-bound mutex acquisition.
//
// A Guard couples a critical section to a lexical scope: Lock acquires a
// Mutex and the deferred Unlock releases it on every return path. Unlike a
// bare defer mu.Unlock(), a guard records whether the acquisition actually
// succeeded, releases at most once, and refuses to be copied, so a critical
// section cannot leak its lock through an early return, a failed mutex, or
// a duplicated guard value.
//
//	g := guard.Lock(mu)
//	defer g.Unlock()
//	if !g.Held() {
//		return ErrNotReady
//	}
//	// ... critical section ...
package guard

// Lock acquires mu and returns a guard holding it. A nil mutex or a failed
// acquisition yields an unheld guard whose Unlock does nothing, so callers
// can defer the release unconditionally and branch on Held.
func Lock(mu Mutex) Guard {
	if mu == nil || !mu.Lock() {
		return Guard{}
	}
	return Guard{mu: mu, held: true}
}

// A Guard owns one acquisition of a Mutex. Guards must not be copied after
// first use; pass pointers if a guard has to cross a function boundary.
type Guard struct {
	noCopy noCopy
	mu     Mutex
	held   bool
}

// Held reports whether the guard acquired its mutex.
func (g *Guard) Held() bool {
	return g.held
}

// Unlock releases the mutex if the guard holds it. Subsequent calls are
// no-ops, so an early release composes with a deferred one.
func (g *Guard) Unlock() {
	if g.held {
		g.held = false
		g.mu.Unlock()
	}
}

// noCopy makes `go vet` flag copies of a Guard after first use.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
