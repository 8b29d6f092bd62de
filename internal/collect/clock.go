package collect

import "github.com/jonboulle/clockwork"

// clock paces the collectors' inter-request sleeps. Tests swap in a fake via
// SetClock so pacing can be asserted without real waits.
var clock = clockwork.NewRealClock()

// SetClock replaces the package clock. Passing nil restores the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
