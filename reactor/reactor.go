// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// The reactor loop, the public API surface, and Start/Stop lifecycle.
// Direct port of WFMOHandler::ThreadProc / Start / Stop from
// wfmohandler.h, generalized from Win32 HANDLEs to the cross-platform
// Handle abstraction in handle.go.

package reactor

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// ThreadHandle identifies the reactor's own goroutine, for inspection
// only (spec §6: GetThreadHandle). Go goroutines have no OS thread
// handle to expose, so this reports the goroutine id captured by
// github.com/petermattis/goid when the loop started; zero before Start.
type ThreadHandle int64

// Reactor multiplexes a dynamic set of external readiness handles and
// timers onto one blocking wait call. The zero value is not usable;
// construct with New.
type Reactor struct {
	mu  sync.Mutex
	reg *registry

	shutdownSig manualResetSignal
	rebuildSig  manualResetSignal
	ws          waitSet

	liveEntries []*entry // index i corresponds to wait-snapshot slot i+reservedSlots
	dispatching bool     // true only while the reactor goroutine holds mu for a callback invocation; touched only by that goroutine

	started       atomic.Bool
	stopOnce      sync.Once
	wg            sync.WaitGroup
	loopGoroutine atomic.Int64

	onBeginLoop     func()
	onEndLoop       func(graceful bool)
	onHandleRemoved func(Handle)
}

// New constructs a Reactor, allocating the platform-specific shutdown
// and rebuild signals and multiplex-wait primitive. It does not start
// the reactor goroutine; call Start for that.
func New(opts ...Option) (*Reactor, error) {
	shutdownSig, err := newManualResetSignal()
	if err != nil {
		return nil, err
	}
	rebuildSig, err := newManualResetSignal()
	if err != nil {
		_ = shutdownSig.Close()
		return nil, err
	}
	ws, err := newWaitSet()
	if err != nil {
		_ = shutdownSig.Close()
		_ = rebuildSig.Close()
		return nil, err
	}

	r := &Reactor{
		reg:         newRegistry(),
		shutdownSig: shutdownSig,
		rebuildSig:  rebuildSig,
		ws:          ws,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// inDispatch reports whether the calling goroutine is the one
// currently running the reactor loop AND that goroutine currently
// holds mu (i.e. we are inside a callback dispatched from the loop).
// Any other goroutine gets false; see affinity.go and withLock.
func (r *Reactor) inDispatch() bool {
	// Order matters: onReactorGoroutine is safe to call from any
	// goroutine (it only reads an atomic). r.dispatching is only ever
	// written by the reactor goroutine, so it must only be read once
	// we already know we are that same goroutine -- otherwise a
	// concurrent caller on another goroutine would race on the read.
	return r.onReactorGoroutine() && r.dispatching
}

// withLock runs fn holding the registry mutex, unless the caller is
// the reactor goroutine itself already holding it as part of dispatch
// -- see spec §9's Open Question on callbacks that mutate the registry.
func (r *Reactor) withLock(fn func()) {
	if r.inDispatch() {
		fn()
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}

// Start spawns the reactor goroutine. Returns true unless the reactor
// was already started; calling Start twice concurrently is undefined
// per spec §4.5, so only the first winner actually starts the loop.
func (r *Reactor) Start() bool {
	if !r.started.CompareAndSwap(false, true) {
		return false
	}
	r.wg.Add(1)
	go r.loop()
	return true
}

// Stop sets the shutdown signal, waits for the reactor goroutine to
// exit, then releases every remaining registered entry, invoking
// on-handle-removed for each but not their callbacks (spec §4.5).
// Safe to call from any goroutine except the reactor's own, and safe
// to call multiple times.
func (r *Reactor) Stop() {
	r.stopOnce.Do(func() {
		_ = r.shutdownSig.Set()
		r.wg.Wait()

		r.drainRegistry()

		_ = r.shutdownSig.Close()
		_ = r.rebuildSig.Close()
		_ = r.ws.close()
	})
}

// drainRegistry releases every remaining entry under mu, invoking
// on-handle-removed for each. Like rebuildSnapshot and dispatchEntry,
// the lock is released via defer: this hook is user-supplied code, and
// a panic here must not leave mu locked forever.
func (r *Reactor) drainRegistry() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.reg.drainAll() {
		if r.onHandleRemoved != nil {
			r.onHandleRemoved(e.handle)
		}
		if e.kind == kindTimer {
			_ = e.timer.prim.Close()
		}
	}
	r.liveEntries = nil
}

// GetThreadHandle returns the reactor goroutine's identity, for
// inspection only.
func (r *Reactor) GetThreadHandle() ThreadHandle {
	return ThreadHandle(r.loopGoroutine.Load())
}

// AddWaitHandle registers an externally owned readiness handle with a
// callback. Returns false if the registry is already at capacity.
func (r *Reactor) AddWaitHandle(h Handle, callback func()) bool {
	ok := false
	r.withLock(func() {
		if !r.reg.hasSlot() {
			return
		}
		r.reg.append(&entry{kind: kindExternal, handle: h, callback: callback})
		ok = true
	})
	if ok {
		_ = r.rebuildSig.Set()
	}
	return ok
}

// RemoveWaitHandle soft-removes a previously registered handle. The
// caller learns of completion via the on-handle-removed hook. Unknown
// handles are silently ignored.
func (r *Reactor) RemoveWaitHandle(h Handle) {
	found := false
	r.withLock(func() {
		found = r.reg.markForDeleteByHandle(h)
	})
	if found {
		_ = r.rebuildSig.Set()
	}
}

// AddTimer registers a timer that fires callback after intervalMs
// milliseconds, repeating if repeat is true. Returns the new timer's
// id (>= 1) and true on success, or (0, false) if the registry is at
// capacity or the platform timer primitive could not be created.
func (r *Reactor) AddTimer(intervalMs uint32, repeat bool, callback func()) (uint64, bool) {
	var id uint64
	ok := false
	r.withLock(func() {
		if !r.reg.hasSlot() {
			return
		}
		prim, err := newTimerPrimitive()
		if err != nil {
			return
		}
		if err := prim.Arm(intervalMs, repeat); err != nil {
			_ = prim.Close()
			return
		}
		id = r.reg.allocateTimerID()
		r.reg.append(&entry{
			kind:     kindTimer,
			handle:   prim.Handle(),
			callback: callback,
			timer:    &timerState{id: id, interval: intervalMs, repeat: repeat, prim: prim},
		})
		ok = true
	})
	if !ok {
		return 0, false
	}
	_ = r.rebuildSig.Set()
	return id, true
}

// RemoveTimer soft-removes the timer identified by id, cancelling its
// underlying primitive immediately. Unknown or already-removed ids are
// silently ignored (spec §7, error kind 6), making this idempotent.
func (r *Reactor) RemoveTimer(id uint64) {
	found := false
	r.withLock(func() {
		found = r.reg.markForDeleteByTimerID(id)
	})
	if found {
		_ = r.rebuildSig.Set()
	}
}

// AdjustTimer re-arms an existing timer with a new interval and repeat
// flag without changing its id. No-ops if id is unknown or the timer
// is already marked for deletion.
func (r *Reactor) AdjustTimer(id uint64, intervalMs uint32, repeat bool) {
	r.withLock(func() {
		r.reg.adjustTimer(id, intervalMs, repeat)
	})
}

// loop is the reactor goroutine's body: WFMOHandler::ThreadProc,
// generalized to the cross-platform waitSet.
func (r *Reactor) loop() {
	defer r.wg.Done()
	r.loopGoroutine.Store(goid.Get())

	graceful := false
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("reactor: recovered from panic in loop: %v", rec)
			graceful = false
		}
		if r.onEndLoop != nil {
			r.onEndLoop(graceful)
		}
	}()

	if r.onBeginLoop != nil {
		r.onBeginLoop()
	}

	handles := r.rebuildSnapshot()

	for {
		idx, err := r.ws.wait(handles)
		if err != nil {
			log.Printf("reactor: wait primitive error: %v", err)
			return
		}

		switch {
		case idx == 0:
			// shutdown
			graceful = true
			return

		case idx == 1:
			// rebuild
			handles = r.rebuildSnapshot()

		case idx >= reservedSlots:
			r.dispatchEntry(idx - reservedSlots)

		default:
			log.Printf("reactor: unhandled wait index %d", idx)
			graceful = false
			return
		}
	}
}

// rebuildSnapshot implements spec §4.2's sweep-and-snapshot under mu.
// The rebuild runs inside a closure with a deferred Unlock, not a bare
// Lock/Unlock pair, because it invokes the on-handle-removed hook: if
// that user-supplied hook panics, the defer still releases mu before
// the panic reaches loop's top-level recover, so Stop and any pending
// registration call don't deadlock on a lock nobody will ever release.
func (r *Reactor) rebuildSnapshot() []Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	live := r.reg.sweep(func(h Handle) {
		if r.onHandleRemoved != nil {
			r.onHandleRemoved(h)
		}
	})

	handles := make([]Handle, 0, reservedSlots+len(live))
	handles = append(handles, r.shutdownSig.Handle(), r.rebuildSig.Handle())
	for _, e := range live {
		handles = append(handles, e.handle)
	}
	r.liveEntries = live

	// Reset must follow the copy above: any mutation committed before
	// the reset is visible in the new snapshot, any mutation committed
	// after will re-set the signal and force another rebuild.
	_ = r.rebuildSig.Reset()

	return handles
}

// dispatchEntry invokes the live entry at wait-snapshot index k (already
// stripped of reservedSlots), if any, under mu. Like rebuildSnapshot,
// this uses a deferred Unlock -- and a deferred reset of dispatching --
// specifically because it calls a user-supplied callback: a panicking
// callback must still leave mu unlocked and dispatching false so the
// reactor can be torn down cleanly instead of wedging every future
// Stop or registration call.
func (r *Reactor) dispatchEntry(k int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if k >= len(r.liveEntries) {
		return
	}
	e := r.liveEntries[k]
	if e.deleted {
		return
	}

	r.dispatching = true
	defer func() { r.dispatching = false }()
	e.invoke(r)
}
