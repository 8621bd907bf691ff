//go:build windows
// +build windows

// File: reactor/waitset_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows multiplex-wait primitive: a thin wrapper over
// WaitForMultipleObjectsEx, the exact call wfmohandler.h's ThreadProc
// used (bAlertable=TRUE so OS-level APCs can interrupt the wait, per
// spec §4.4 -- not required for correctness, but harmless to keep).

package reactor

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

type winWaitSet struct{}

func newWaitSet() (waitSet, error) {
	return &winWaitSet{}, nil
}

func (w *winWaitSet) wait(handles []Handle) (int, error) {
	if len(handles) == 0 {
		return -1, ErrEmptySnapshot
	}
	hs := make([]windows.Handle, len(handles))
	for i, h := range handles {
		hs[i] = windows.Handle(h)
	}
	// WAIT_IO_COMPLETION: an APC ran during the alertable wait.
	const waitIOCompletion = 0x000000C0
	for {
		r1, _, callErr := procWaitForMultipleObjectsEx.Call(
			uintptr(len(hs)),
			uintptr(unsafe.Pointer(&hs[0])),
			0, // bWaitAll = FALSE
			uintptr(windows.INFINITE),
			1, // bAlertable = TRUE
		)
		ret := uint32(r1)
		switch {
		case ret >= waitObject0 && ret < waitObject0+uint32(len(hs)):
			return int(ret - waitObject0), nil
		case ret >= waitAbandon0 && ret < waitAbandon0+uint32(len(hs)):
			return int(ret - waitAbandon0), nil
		case ret == waitIOCompletion, ret == waitTimeout:
			// an APC interrupted the alertable wait (a timeout cannot
			// occur with INFINITE); either way, simply wait again.
			continue
		case ret == waitFailed:
			return -1, callErr
		default:
			return -1, ErrWaitAnomaly
		}
	}
}

func (w *winWaitSet) close() error { return nil }
