//go:build windows
// +build windows

// control/platform_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific metrics/debug introspection points.

package control

import (
	"runtime"
)

// RegisterPlatformProbes sets Windows-specific debug probes: the
// GOMAXPROCS value actually in effect, which reflects any cgroup-aware
// tuning done by maxprocs.Set at startup rather than restating the
// machine's raw core count.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.gomaxprocs", func() any {
		return runtime.GOMAXPROCS(0)
	})
}
