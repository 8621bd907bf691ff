//go:build linux
// +build linux

// File: reactor/timer_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux timerfd-backed timer primitive: relative scheduling at
// millisecond granularity with optional periodic re-arm, the
// CLOCK_MONOTONIC analogue of ::CreateWaitableTimer/::SetWaitableTimer.

package reactor

import (
	"time"

	"golang.org/x/sys/unix"
)

type linuxTimer struct {
	fd int
}

func newTimerPrimitive() (timerSource, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &linuxTimer{fd: fd}, nil
}

func (t *linuxTimer) Handle() Handle { return Handle(t.fd) }

func (t *linuxTimer) Arm(intervalMs uint32, repeat bool) error {
	due := unix.NsecToTimespec(int64(intervalMs) * int64(time.Millisecond))
	spec := unix.ItimerSpec{Value: due}
	if repeat {
		spec.Interval = due
	}
	return unix.TimerfdSettime(t.fd, 0, &spec, nil)
}

func (t *linuxTimer) Cancel() error {
	var spec unix.ItimerSpec // zero value disarms the timer
	return unix.TimerfdSettime(t.fd, 0, &spec, nil)
}

// ConsumeFire reads the 8-byte expiration counter so the fd's
// readiness is cleared before the next wait, matching the level-
// triggered nature of timerfd.
func (t *linuxTimer) ConsumeFire() error {
	var buf [8]byte
	_, err := unix.Read(t.fd, buf[:])
	if err == unix.EAGAIN {
		return nil
	}
	return err
}

func (t *linuxTimer) Close() error { return unix.Close(t.fd) }
