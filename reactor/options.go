// File: reactor/options.go
// Author: momentics <momentics@gmail.com>
//
// Functional options for hook injection, in the shape
// WuKongIM/WuKongIM's reactor.New(opt ...Option) uses for its own
// reactor construction -- the teacher itself favors plain constructors
// over options, but nothing in the retrieval pack demonstrates hook
// wiring more idiomatically than this.

package reactor

// Option configures a Reactor at construction time.
type Option func(*Reactor)

// WithBeginLoopHook installs the on-begin-loop hook (spec §4.7),
// called on the reactor goroutine before the first wait.
func WithBeginLoopHook(fn func()) Option {
	return func(r *Reactor) { r.onBeginLoop = fn }
}

// WithEndLoopHook installs the on-end-loop hook (spec §4.7), called on
// the reactor goroutine after the loop exits, before the goroutine
// returns. graceful is false if the loop terminated due to an error.
func WithEndLoopHook(fn func(graceful bool)) Option {
	return func(r *Reactor) { r.onEndLoop = fn }
}

// WithHandleRemovedHook installs the on-handle-removed hook (spec
// §4.7), called during sweep immediately before an entry is destroyed.
func WithHandleRemovedHook(fn func(Handle)) Option {
	return func(r *Reactor) { r.onHandleRemoved = fn }
}
