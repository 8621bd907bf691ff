// control/hotreload.go
// Manages global hot-reload hooks for config changes.
//
// control.ConfigStore.WatchFile reloads from a background fsnotify
// goroutine, while a daemon's own startup sequence may still be
// registering hooks on its main goroutine, so the hook list and
// generation counter below are synchronized -- the original
// unprotected package-level slice was safe only under the assumption
// that every hook got registered before any reload could fire.

package control

import (
	"log"
	"sync"
)

type reloadHook struct {
	name string
	fn   func(generation uint64)
}

var (
	reloadMu         sync.Mutex
	reloadHooks      []reloadHook
	reloadGeneration uint64
)

// RegisterReloadHook adds a named component reload listener. fn
// receives the generation number of the reload that triggered it, so
// a listener that logs or dumps state can report which reload it's
// reacting to, or notice it missed one.
func RegisterReloadHook(name string, fn func(generation uint64)) {
	reloadMu.Lock()
	defer reloadMu.Unlock()
	reloadHooks = append(reloadHooks, reloadHook{name: name, fn: fn})
}

// TriggerHotReload dispatches all reload hooks asynchronously and
// returns the generation number assigned to this reload.
func TriggerHotReload() uint64 {
	reloadMu.Lock()
	reloadGeneration++
	gen := reloadGeneration
	hooks := append([]reloadHook(nil), reloadHooks...)
	reloadMu.Unlock()

	for _, h := range hooks {
		go runReloadHook(h, gen)
	}
	return gen
}

// TriggerHotReloadSync invokes all reload hooks synchronously (for
// test determinism) and returns the generation number assigned.
func TriggerHotReloadSync() uint64 {
	reloadMu.Lock()
	reloadGeneration++
	gen := reloadGeneration
	hooks := append([]reloadHook(nil), reloadHooks...)
	reloadMu.Unlock()

	for _, h := range hooks {
		runReloadHook(h, gen)
	}
	return gen
}

// runReloadHook invokes a single hook, recovering and logging by name
// so one broken hook can't take down the goroutine driving every other
// hook's reload (TriggerHotReloadSync) or crash the process outright
// (the goroutine spawned per hook by TriggerHotReload).
func runReloadHook(h reloadHook, gen uint64) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("control: reload hook %q panicked on generation %d: %v", h.name, gen, rec)
		}
	}()
	h.fn(gen)
}

// ReloadGeneration reports the number of reloads triggered so far.
func ReloadGeneration() uint64 {
	reloadMu.Lock()
	defer reloadMu.Unlock()
	return reloadGeneration
}
