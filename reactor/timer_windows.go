//go:build windows
// +build windows

// File: reactor/timer_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows waitable-timer primitive, a direct port of TimerHandler<> in
// wfmohandler.h: due times are expressed in 100ns units, negative for
// relative scheduling; the timer is created manual-reset so a fire
// stays observable until the next SetWaitableTimer re-arms it.

package reactor

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

type winTimer struct {
	h windows.Handle
}

func newTimerPrimitive() (timerSource, error) {
	r1, _, err := procCreateWaitableTimerW.Call(0, 1 /* manual reset */, 0)
	if r1 == 0 {
		return nil, err
	}
	return &winTimer{h: windows.Handle(r1)}, nil
}

func (t *winTimer) Handle() Handle { return Handle(t.h) }

func (t *winTimer) Arm(intervalMs uint32, repeat bool) error {
	due := int64(intervalMs) * -10000 // relative time, 100ns units
	var period int32
	if repeat {
		period = int32(intervalMs)
	}
	r1, _, err := procSetWaitableTimer.Call(
		uintptr(t.h),
		uintptr(unsafe.Pointer(&due)),
		uintptr(period),
		0, 0, 0,
	)
	if r1 == 0 {
		return err
	}
	return nil
}

func (t *winTimer) Cancel() error {
	r1, _, err := procCancelWaitableTimer.Call(uintptr(t.h))
	if r1 == 0 {
		return err
	}
	return nil
}

// ConsumeFire is a no-op on Windows: SetWaitableTimer itself resets
// the manual-reset timer's signalled state, so there is nothing to
// drain between a fire and the next Arm.
func (t *winTimer) ConsumeFire() error { return nil }

func (t *winTimer) Close() error { return windows.CloseHandle(t.h) }
