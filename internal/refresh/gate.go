package refresh

import "sync/atomic"

// Gate provides non-blocking single-flight semantics using atomic
// operations. Update and the completion guard may run on different
// goroutines, so a bare flag is not enough.
type Gate struct {
	state atomic.Int32 // 0 = idle, 1 = cycle in progress
}

// TryAcquire attempts to acquire the gate without blocking.
// Returns true if the gate was successfully acquired, false otherwise.
func (g *Gate) TryAcquire() bool {
	return g.state.CompareAndSwap(0, 1)
}

// Release releases the gate.
// Must only be called by the cycle that successfully acquired it.
func (g *Gate) Release() {
	g.state.Store(0)
}

// Held reports whether a cycle currently holds the gate.
func (g *Gate) Held() bool {
	return g.state.Load() == 1
}
