// Package leaktest checks that background workers release their goroutines
// once stopped.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// Settle bounds how long Check waits for goroutines to exit
const Settle = 2 * time.Second

const pollInterval = 5 * time.Millisecond

// GoroutineChecker records a baseline goroutine count
type GoroutineChecker struct {
	t      testing.TB
	before int
	settle time.Duration
}

// NewGoroutineChecker snapshots the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{t: t, before: runtime.NumGoroutine(), settle: Settle}
}

// Check fails the test if more than tolerance goroutines above the baseline
// are still running once the settle window has passed. It returns as soon
// as the count drops back, so passing checks cost a few milliseconds.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	deadline := time.Now().Add(g.settle)
	after := runtime.NumGoroutine()
	for after-g.before > tolerance && time.Now().Before(deadline) {
		time.Sleep(pollInterval)
		runtime.Gosched()
		after = runtime.NumGoroutine()
	}

	if leaked := after - g.before; leaked > tolerance {
		g.t.Errorf("goroutine leak: before=%d after=%d leaked=%d tolerance=%d",
			g.before, after, leaked, tolerance)
	}
}
