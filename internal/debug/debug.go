//go:build !debug

// Package debug includes debugging helpers for the store and tree
// packages. Tree-internal invariant violations are bugs, not errors
// (spec §7): Assert panics on them, but only in builds tagged "debug" so
// that production builds pay nothing for the checks.
package debug

// Enabled is false in a normal build; rebuild with -tags debug to enable
// assertions and structured tracing.
const Enabled = false

// Log is a no-op outside of -tags debug builds.
func Log(context []any, operation, format string, args ...any) {}

// Assert is a no-op outside of -tags debug builds.
func Assert(cond bool, format string, args ...any) {}
