package pubmed

import (
	"testing"
	"time"
)

// fakeClock replaces timeNow and timeSleep for the duration of a test.
// Sleeping advances the clock instead of blocking.
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func installFakeClock(t *testing.T) *fakeClock {
	t.Helper()
	fc := &fakeClock{now: time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)}

	oldNow, oldSleep := timeNow, timeSleep
	timeNow = func() time.Time { return fc.now }
	timeSleep = func(d time.Duration) {
		fc.slept = append(fc.slept, d)
		fc.now = fc.now.Add(d)
	}
	t.Cleanup(func() { timeNow, timeSleep = oldNow, oldSleep })

	return fc
}

func TestRateLimiterFirstCallNotDelayed(t *testing.T) {
	fc := installFakeClock(t)

	l := newRateLimiter(defaultRequestsPerSecond)
	l.wait()

	if len(fc.slept) != 0 {
		t.Errorf("first wait slept %v, want no sleep", fc.slept)
	}
}

func TestRateLimiterSpacesBackToBackCalls(t *testing.T) {
	fc := installFakeClock(t)

	l := newRateLimiter(defaultRequestsPerSecond)
	for i := 0; i < 4; i++ {
		l.wait()
	}

	// Three of the four calls must each wait one full interval.
	if len(fc.slept) != 3 {
		t.Fatalf("slept %d times, want 3", len(fc.slept))
	}
	var total time.Duration
	for _, d := range fc.slept {
		if d != l.interval {
			t.Errorf("slept %v, want %v", d, l.interval)
		}
		total += d
	}
	if total < 999*time.Millisecond {
		t.Errorf("total sleep = %v, want about 1s for 4 calls at 3/s", total)
	}
}

func TestRateLimiterSlowCallerNotDelayed(t *testing.T) {
	fc := installFakeClock(t)

	l := newRateLimiter(defaultRequestsPerSecond)
	l.wait()
	// The caller takes longer than the 333ms interval on its own.
	fc.now = fc.now.Add(500 * time.Millisecond)
	l.wait()

	if len(fc.slept) != 0 {
		t.Errorf("slept %v, want no sleep for a naturally slow caller", fc.slept)
	}
}

func TestRateLimiterKeyedRate(t *testing.T) {
	fc := installFakeClock(t)

	l := newRateLimiter(keyedRequestsPerSecond)
	l.wait()
	l.wait()

	if len(fc.slept) != 1 {
		t.Fatalf("slept %d times, want 1", len(fc.slept))
	}
	if fc.slept[0] != 100*time.Millisecond {
		t.Errorf("slept %v, want 100ms at 10 requests/s", fc.slept[0])
	}
}
