// Package control
// Author: momentics <momentics@gmail.com>
//
// Hot-reload, runtime metrics, configuration control, and debug introspection
// layer for a reactor process: the pieces a long-running daemon needs around
// its event loop, independent of the loop itself.
//
// Provides concurrent-safe state handling primitives including:
//   - Immutable snapshot config reads and atomic updates, loaded from TOML
//   - Filesystem-driven hot-reload of config on write
//   - Metrics telemetry contracts
//   - State export, debug hooks, and probe registration
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
