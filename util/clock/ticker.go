// Package clock provides the Ticker abstraction the STP and mOSPF timer
// routines are driven by. Protocol code never calls time.NewTicker
// directly; it takes a Ticker so tests can step time deterministically
// instead of sleeping, the same seam bio-rd's lsdb routines use
// (decrementRemainingLifetimesRoutine et al. take a btime.Ticker).
package clock

import "time"

// Ticker is anything that fires on a channel at some cadence and can be
// stopped. *time.Ticker exposes its channel as a field rather than a C()
// method, so it is adapted by realTicker below.
type Ticker interface {
	C() <-chan time.Time
	Reset(d time.Duration)
	Stop()
}

// realTicker wraps time.Ticker to satisfy the Ticker interface.
type realTicker struct {
	t *time.Ticker
}

// New starts a real, wall-clock-backed ticker with the given period.
func New(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

func (r *realTicker) C() <-chan time.Time {
	return r.t.C
}

func (r *realTicker) Reset(d time.Duration) {
	r.t.Reset(d)
}

func (r *realTicker) Stop() {
	r.t.Stop()
}

// Manual is a fake Ticker for tests: sending on Fire wakes up one
// pending receive on C(), and Stop/Reset are tracked for assertions.
type Manual struct {
	ch      chan time.Time
	stopped bool
	resets  []time.Duration
}

// NewManual creates a test double for Ticker that fires only when Fire
// is called.
func NewManual() *Manual {
	return &Manual{ch: make(chan time.Time, 1)}
}

func (m *Manual) C() <-chan time.Time {
	return m.ch
}

// Fire delivers one tick. It does not block if nobody is listening yet;
// the channel has a buffer of 1.
func (m *Manual) Fire(t time.Time) {
	select {
	case m.ch <- t:
	default:
	}
}

func (m *Manual) Reset(d time.Duration) {
	m.resets = append(m.resets, d)
}

func (m *Manual) Stop() {
	m.stopped = true
}

// Stopped reports whether Stop has been called at least once.
func (m *Manual) Stopped() bool {
	return m.stopped
}

// ResetCount reports how many times Reset was called.
func (m *Manual) ResetCount() int {
	return len(m.resets)
}
