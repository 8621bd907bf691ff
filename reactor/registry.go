// File: reactor/registry.go
// Author: momentics <momentics@gmail.com>
//
// Handler registry: an ordered sequence of source entries backed by
// github.com/eapache/queue's ring-buffer FIFO. All methods assume the
// caller already holds the reactor's registry mutex (or is the reactor
// goroutine itself, see Reactor.withLock) -- the registry
// itself carries no lock of its own, mirroring how the original
// wfmohandler.h guards its plain std::list with the enclosing class's
// critical section rather than giving the list its own lock.

package reactor

import "github.com/eapache/queue"

// maxWait is the reference capacity of the underlying multiplex-wait
// primitive (spec §3, invariant 1). Held fixed across platforms so
// capacity behavior is identical and testable everywhere.
const maxWait = 64

// reservedSlots is the number of wait-snapshot slots reserved for the
// shutdown and rebuild signals (spec §3, wait snapshot).
const reservedSlots = 2

type registry struct {
	entries *queue.Queue
	nextID  uint64
}

func newRegistry() *registry {
	return &registry{entries: queue.New(), nextID: 1}
}

// liveCount counts entries not yet marked for deletion.
func (r *registry) liveCount() int {
	n := 0
	for i := 0; i < r.entries.Length(); i++ {
		if !r.entries.Get(i).(*entry).deleted {
			n++
		}
	}
	return n
}

// hasSlot reports whether a new registration would still fit under
// maxWait-reservedSlots. Only entries not marked for deletion are
// counted: pending deletions are swept before the next snapshot is
// built, so the rebuilt snapshot always fits within maxWait.
func (r *registry) hasSlot() bool {
	return r.liveCount() < maxWait-reservedSlots
}

func (r *registry) append(e *entry) {
	r.entries.Add(e)
}

// allocateTimerID returns the next monotonically increasing timer id
// (spec §3, invariant 2: unique and strictly increasing within the
// reactor's lifetime).
func (r *registry) allocateTimerID() uint64 {
	id := r.nextID
	r.nextID++
	return id
}

// findByHandle returns the first non-deleted external entry with the
// given handle, or nil.
func (r *registry) findByHandle(h Handle) *entry {
	for i := 0; i < r.entries.Length(); i++ {
		e := r.entries.Get(i).(*entry)
		if e.kind == kindExternal && e.handle == h && !e.deleted {
			return e
		}
	}
	return nil
}

// findByTimerID returns the first non-deleted timer entry with the
// given id, or nil.
func (r *registry) findByTimerID(id uint64) *entry {
	for i := 0; i < r.entries.Length(); i++ {
		e := r.entries.Get(i).(*entry)
		if e.kind == kindTimer && e.timer.id == id && !e.deleted {
			return e
		}
	}
	return nil
}

// markForDeleteByHandle marks the entry owning h for deletion. Returns
// true if an entry was found (spec §6: RemoveWaitHandle on an unknown
// handle is simply a no-op, mirroring the original's silent behavior).
func (r *registry) markForDeleteByHandle(h Handle) bool {
	e := r.findByHandle(h)
	if e == nil {
		return false
	}
	e.deleted = true
	return true
}

// markForDeleteByTimerID marks the timer entry with the given id for
// deletion. Returns true if found; an unknown id is silently ignored
// (spec §7, error kind 6).
func (r *registry) markForDeleteByTimerID(id uint64) bool {
	e := r.findByTimerID(id)
	if e == nil {
		return false
	}
	e.deleted = true
	_ = e.timer.prim.Cancel()
	return true
}

// adjustTimer re-arms the timer entry with id, updating its stored
// interval/repeat. No-ops if the id is unknown or already marked for
// deletion (spec §4.3, lost-race clause).
func (r *registry) adjustTimer(id uint64, intervalMs uint32, repeat bool) bool {
	e := r.findByTimerID(id)
	if e == nil {
		return false
	}
	if err := e.timer.prim.Arm(intervalMs, repeat); err != nil {
		return false
	}
	e.timer.interval = intervalMs
	e.timer.repeat = repeat
	return true
}

// sweep removes every entry marked for deletion, invoking onRemoved
// for each (spec §4.2 step 1) and releasing timer-owned handles, then
// returns the remaining live entries in their original insertion
// order. The registry's backing queue is replaced with one holding
// only the survivors.
func (r *registry) sweep(onRemoved func(Handle)) []*entry {
	live := queue.New()
	out := make([]*entry, 0, r.entries.Length())
	for i := 0; i < r.entries.Length(); i++ {
		e := r.entries.Get(i).(*entry)
		if e.deleted {
			onRemoved(e.handle)
			if e.kind == kindTimer {
				_ = e.timer.prim.Close()
			}
			continue
		}
		live.Add(e)
		out = append(out, e)
	}
	r.entries = live
	return out
}

// drainAll removes and returns every entry regardless of its deleted
// flag, for use by Stop's final teardown (spec §4.5).
func (r *registry) drainAll() []*entry {
	out := make([]*entry, 0, r.entries.Length())
	for i := 0; i < r.entries.Length(); i++ {
		out = append(out, r.entries.Get(i).(*entry))
	}
	r.entries = queue.New()
	return out
}
