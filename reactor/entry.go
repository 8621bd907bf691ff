// File: reactor/entry.go
// Author: momentics <momentics@gmail.com>
//
// Source entry: the unit of registration. Re-expressed from the
// original inheritance-plus-dynamic_cast design (wfmohandler.h) as a
// tagged variant with two cases, external and timer, dispatched by
// case analysis rather than dynamic type inspection.

package reactor

// entryKind discriminates the two source entry variants.
type entryKind uint8

const (
	kindExternal entryKind = iota
	kindTimer
)

// timerState holds the payload specific to timer entries. Not present
// on external entries.
type timerState struct {
	id       uint64
	interval uint32
	repeat   bool
	prim     timerSource
}

// entry is one row in the reactor registry. deleted and every other
// field are only ever touched while the reactor's registry mutex is
// held (directly, or implicitly because the caller is the reactor
// goroutine itself during dispatch).
type entry struct {
	kind     entryKind
	handle   Handle
	deleted  bool
	callback func()
	timer    *timerState // nil for kindExternal
}

// invoke calls the entry's callback and, for timer entries, applies
// the fire semantics from spec §4.3: repeating timers re-arm before
// returning so back-to-back fires are never missed across a rebuild;
// one-shot timers mark themselves for deletion and poke the rebuild
// signal so the next sweep removes them.
func (e *entry) invoke(r *Reactor) {
	if e.kind == kindTimer {
		_ = e.timer.prim.ConsumeFire()
	}

	e.callback()

	if e.kind != kindTimer {
		return
	}
	if e.timer.repeat {
		_ = e.timer.prim.Arm(e.timer.interval, true)
		return
	}
	e.deleted = true
	_ = r.rebuildSig.Set()
}
