// File: reactor/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Reactor-goroutine affinity tracking, resolving the Open Question in
// spec §9 ("callbacks that mutate the registry"): rather than a
// recursive mutex (Go's sync.Mutex has none), registration methods
// detect whether they are being called from the reactor's own
// goroutine -- i.e. from inside a callback, with the registry mutex
// already held by the dispatch path -- and skip re-locking in that
// case.

package reactor

import "github.com/petermattis/goid"

// noGoroutine is the sentinel stored before the reactor loop has
// claimed a goroutine, so no external caller can spuriously match it.
const noGoroutine int64 = 0

// onReactorGoroutine reports whether the calling goroutine is the one
// currently running the reactor loop.
func (r *Reactor) onReactorGoroutine() bool {
	owner := r.loopGoroutine.Load()
	return owner != noGoroutine && owner == goid.Get()
}
