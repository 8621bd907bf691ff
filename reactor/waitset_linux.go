//go:build linux
// +build linux

// File: reactor/waitset_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux multiplex-wait primitive built on poll(2). Unlike epoll, poll
// takes the full handle array on every call and reports readiness
// in-place per slot, which is a closer match to WaitForMultipleObjects
// than epoll's persistent-registration model: the "lowest ready index"
// tie-break (spec §4.4) falls straight out of a left-to-right scan of
// the returned Revents.

package reactor

import "golang.org/x/sys/unix"

type pollWaitSet struct{}

func newWaitSet() (waitSet, error) {
	return &pollWaitSet{}, nil
}

func (w *pollWaitSet) wait(handles []Handle) (int, error) {
	if len(handles) == 0 {
		return -1, ErrEmptySnapshot
	}
	fds := make([]unix.PollFd, len(handles))
	for i, h := range handles {
		fds[i] = unix.PollFd{Fd: int32(h), Events: unix.POLLIN}
	}
	for {
		n, err := unix.Poll(fds, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return -1, err
		}
		if n == 0 {
			// infinite timeout should never yield zero ready fds
			continue
		}
		for i := range fds {
			if fds[i].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
				return i, nil
			}
		}
		return -1, ErrWaitAnomaly
	}
}

func (w *pollWaitSet) close() error { return nil }
