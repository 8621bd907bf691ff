//go:build windows
// +build windows

// File: reactor/signal_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows manual-reset event, the direct analogue of the
// m_shutdownevent / m_rebuildwaitarrayevent handles in wfmohandler.h.

package reactor

import "golang.org/x/sys/windows"

type winSignal struct {
	h windows.Handle
}

func newManualResetSignal() (manualResetSignal, error) {
	h, err := windows.CreateEvent(nil, 1 /* manual reset */, 0 /* initially non-signalled */, nil)
	if err != nil {
		return nil, err
	}
	return &winSignal{h: h}, nil
}

func (s *winSignal) Handle() Handle { return Handle(s.h) }

func (s *winSignal) Set() error { return windows.SetEvent(s.h) }

func (s *winSignal) Reset() error { return windows.ResetEvent(s.h) }

func (s *winSignal) Close() error { return windows.CloseHandle(s.h) }
