// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor implements a single-threaded waitable-event reactor:
// a dispatcher that multiplexes external readiness handles and internal
// timers onto one blocking wait call, invoking a user callback for
// whichever source becomes ready.
//
// Registration (AddWaitHandle, RemoveWaitHandle, AddTimer, RemoveTimer,
// AdjustTimer) may be called from any goroutine, concurrently with each
// other and with the reactor's own loop. Callback dispatch always
// happens on the reactor's own goroutine, one callback at a time.
package reactor
