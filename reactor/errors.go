// File: reactor/errors.go
// Author: momentics <momentics@gmail.com>
//
// Error definitions for the reactor package.

package reactor

import "errors"

var (
	// ErrPlatformNotSupported is returned by the platform primitive
	// constructors on operating systems the reactor has no backend for.
	ErrPlatformNotSupported = errors.New("reactor: this platform is not supported")

	// ErrWaitAnomaly indicates the underlying multiplex-wait primitive
	// returned an index the reactor could not account for.
	ErrWaitAnomaly = errors.New("reactor: wait primitive returned an unexpected index")

	// ErrEmptySnapshot is returned by a wait primitive asked to block on
	// zero handles, which should never happen given the two reserved slots.
	ErrEmptySnapshot = errors.New("reactor: empty wait snapshot")
)
