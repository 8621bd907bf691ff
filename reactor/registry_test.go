// File: reactor/registry_test.go
// Author: momentics <momentics@gmail.com>

package reactor

import "testing"

// fakeTimer is a timerSource stand-in that never touches the OS, so
// registry behavior can be tested without any platform primitive.
type fakeTimer struct {
	h         Handle
	armed     bool
	canceled  bool
	closed    bool
	consumed  int
	lastMs    uint32
	lastRept  bool
}

func (f *fakeTimer) Handle() Handle { return f.h }
func (f *fakeTimer) Arm(ms uint32, repeat bool) error {
	f.armed = true
	f.lastMs = ms
	f.lastRept = repeat
	return nil
}
func (f *fakeTimer) Cancel() error     { f.canceled = true; return nil }
func (f *fakeTimer) ConsumeFire() error { f.consumed++; return nil }
func (f *fakeTimer) Close() error       { f.closed = true; return nil }

func TestRegistryHasSlotRespectsCapacity(t *testing.T) {
	r := newRegistry()
	for i := 0; i < maxWait-reservedSlots; i++ {
		if !r.hasSlot() {
			t.Fatalf("expected a free slot at i=%d", i)
		}
		r.append(&entry{kind: kindExternal, handle: Handle(i + 1)})
	}
	if r.hasSlot() {
		t.Fatal("expected registry to report full at capacity")
	}
}

func TestRegistryFindByHandleIgnoresDeleted(t *testing.T) {
	r := newRegistry()
	e := &entry{kind: kindExternal, handle: 42}
	r.append(e)

	if got := r.findByHandle(42); got != e {
		t.Fatalf("expected to find entry, got %v", got)
	}

	e.deleted = true
	if got := r.findByHandle(42); got != nil {
		t.Fatalf("expected deleted entry to be invisible to findByHandle, got %v", got)
	}
}

func TestRegistryMarkForDeleteByHandleUnknownReturnsFalse(t *testing.T) {
	r := newRegistry()
	if r.markForDeleteByHandle(999) {
		t.Fatal("expected false for an unregistered handle")
	}
}

func TestRegistryMarkForDeleteByTimerIDCancelsPrimitive(t *testing.T) {
	r := newRegistry()
	ft := &fakeTimer{h: 7}
	id := r.allocateTimerID()
	e := &entry{kind: kindTimer, handle: 7, timer: &timerState{id: id, prim: ft}}
	r.append(e)

	if !r.markForDeleteByTimerID(id) {
		t.Fatal("expected true for a known timer id")
	}
	if !ft.canceled {
		t.Fatal("expected the timer primitive to be canceled")
	}
	if !e.deleted {
		t.Fatal("expected the entry to be marked deleted")
	}

	// idempotent: a second removal reports not-found since the entry is
	// no longer visible to findByTimerID.
	if r.markForDeleteByTimerID(id) {
		t.Fatal("expected false on a second removal of the same id")
	}
}

func TestRegistryAdjustTimerUpdatesState(t *testing.T) {
	r := newRegistry()
	ft := &fakeTimer{h: 3}
	id := r.allocateTimerID()
	e := &entry{kind: kindTimer, handle: 3, timer: &timerState{id: id, interval: 100, prim: ft}}
	r.append(e)

	if !r.adjustTimer(id, 250, true) {
		t.Fatal("expected adjustTimer to succeed for a known id")
	}
	if e.timer.interval != 250 || !e.timer.repeat {
		t.Fatalf("expected stored timer state to be updated, got interval=%d repeat=%v", e.timer.interval, e.timer.repeat)
	}
	if ft.lastMs != 250 || !ft.lastRept {
		t.Fatalf("expected primitive to be re-armed with new parameters, got ms=%d repeat=%v", ft.lastMs, ft.lastRept)
	}
}

func TestRegistryAdjustTimerUnknownIDIsNoop(t *testing.T) {
	r := newRegistry()
	if r.adjustTimer(12345, 10, false) {
		t.Fatal("expected adjustTimer to fail for an unknown id")
	}
}

func TestRegistrySweepPreservesInsertionOrderAndClosesDeleted(t *testing.T) {
	r := newRegistry()
	ft1 := &fakeTimer{h: 1}
	ft2 := &fakeTimer{h: 2}
	e1 := &entry{kind: kindTimer, handle: 1, timer: &timerState{id: 1, prim: ft1}}
	e2 := &entry{kind: kindExternal, handle: 2}
	e3 := &entry{kind: kindTimer, handle: 3, timer: &timerState{id: 2, prim: ft2}}
	r.append(e1)
	r.append(e2)
	r.append(e3)

	e2.deleted = true

	var removed []Handle
	live := r.sweep(func(h Handle) { removed = append(removed, h) })

	if len(live) != 2 || live[0] != e1 || live[1] != e3 {
		t.Fatalf("expected [e1, e3] to survive in order, got %v", live)
	}
	if len(removed) != 1 || removed[0] != 2 {
		t.Fatalf("expected only handle 2 reported removed, got %v", removed)
	}
	if ft1.closed || ft2.closed {
		t.Fatal("did not expect surviving timers' primitives to be closed")
	}

	// sweeping again with e3 now deleted must close its timer primitive.
	e3.deleted = true
	live = r.sweep(func(Handle) {})
	if len(live) != 1 || live[0] != e1 {
		t.Fatalf("expected only e1 to survive the second sweep, got %v", live)
	}
	if !ft2.closed {
		t.Fatal("expected e3's timer primitive to be closed on removal")
	}
}

func TestRegistryDrainAllReturnsEverythingRegardlessOfDeleted(t *testing.T) {
	r := newRegistry()
	e1 := &entry{kind: kindExternal, handle: 1}
	e2 := &entry{kind: kindExternal, handle: 2, deleted: true}
	r.append(e1)
	r.append(e2)

	drained := r.drainAll()
	if len(drained) != 2 {
		t.Fatalf("expected 2 entries drained, got %d", len(drained))
	}
	if r.liveCount() != 0 {
		t.Fatal("expected the registry to be empty after drainAll")
	}
}

func TestRegistryAllocateTimerIDMonotonic(t *testing.T) {
	r := newRegistry()
	var last uint64
	for i := 0; i < 5; i++ {
		id := r.allocateTimerID()
		if id <= last {
			t.Fatalf("expected strictly increasing ids, got %d after %d", id, last)
		}
		last = id
	}
}
