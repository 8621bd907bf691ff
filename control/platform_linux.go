//go:build linux
// +build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific platform metrics or debug probe integrations.

package control

import (
	"runtime"
)

// RegisterPlatformProbes sets Linux-specific debug probes: the
// GOMAXPROCS value actually in effect, which reflects any cgroup-aware
// tuning done by maxprocs.Set at startup rather than restating the
// machine's raw core count.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.gomaxprocs", func() any {
		return runtime.GOMAXPROCS(0)
	})
}
