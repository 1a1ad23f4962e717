package mux

import "fmt"

// debugAssertions gates the assertion-level invariant checks spec.md §7
// classifies separately from ordinary returned errors (negative toWrite,
// an interest-set mismatch, a missing read op with bytes pending). Flip
// to true in a debug build or test harness; left off in production since
// these invariants, once violated, indicate a bug the caller cannot
// recover from anyway.
var debugAssertions = false

// assert panics with a formatted message if cond is false and assertions
// are enabled. It is a no-op otherwise.
func assert(cond bool, format string, args ...interface{}) {
	if !debugAssertions || cond {
		return
	}
	panic(fmt.Sprintf("mux: invariant violated: "+format, args...))
}
