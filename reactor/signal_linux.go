//go:build linux
// +build linux

// File: reactor/signal_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux eventfd-backed manual-reset signal. eventfd's default counter
// mode keeps the fd readable as long as the counter is non-zero, which
// is exactly manual-reset semantics: Set bumps the counter (idempotent
// as far as readiness goes), Reset drains it back to zero.

package reactor

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

type linuxSignal struct {
	fd int
}

func newManualResetSignal() (manualResetSignal, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &linuxSignal{fd: fd}, nil
}

func (s *linuxSignal) Handle() Handle { return Handle(s.fd) }

func (s *linuxSignal) Set() error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(s.fd, buf[:])
	return err
}

func (s *linuxSignal) Reset() error {
	var buf [8]byte
	_, err := unix.Read(s.fd, buf[:])
	if err == unix.EAGAIN {
		return nil
	}
	return err
}

func (s *linuxSignal) Close() error { return unix.Close(s.fd) }
