//go:build windows
// +build windows

// File: reactor/winapi_windows.go
// Author: momentics <momentics@gmail.com>
//
// Shared kernel32 procedure bindings. golang.org/x/sys/windows wraps
// CreateEvent/SetEvent/ResetEvent and the plain (non-alertable)
// WaitForMultipleObjects, but not the waitable-timer family or the
// alertable WaitForMultipleObjectsEx the original wfmohandler.h relies
// on, so those are resolved lazily the same way the standard library
// itself reaches for APIs x/sys hasn't wrapped yet.

package reactor

import "golang.org/x/sys/windows"

var modkernel32 = windows.NewLazySystemDLL("kernel32.dll")

var (
	procWaitForMultipleObjectsEx = modkernel32.NewProc("WaitForMultipleObjectsEx")
	procCreateWaitableTimerW     = modkernel32.NewProc("CreateWaitableTimerW")
	procSetWaitableTimer         = modkernel32.NewProc("SetWaitableTimer")
	procCancelWaitableTimer      = modkernel32.NewProc("CancelWaitableTimer")
)

const (
	waitObject0  = 0x00000000
	waitTimeout  = 0x00000102
	waitFailed   = 0xFFFFFFFF
	waitAbandon0 = 0x00000080
)
