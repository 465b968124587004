// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"sync"
	"time"
)

// Request rates allowed by NCBI: 3/s for anonymous clients, 10/s with an
// API key.
const (
	defaultRequestsPerSecond = 3
	keyedRequestsPerSecond   = 10
)

// timeNow and timeSleep are indirected so limiter and cache tests can run
// on a fake clock instead of sleeping for real.
var (
	timeNow   = time.Now
	timeSleep = time.Sleep
)

// rateLimiter enforces a minimum spacing between upstream requests. It is
// scoped to one Client; a fresh limiter never delays its first call.
type rateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// newRateLimiter returns a limiter allowing perSecond requests per second.
func newRateLimiter(perSecond int) *rateLimiter {
	return &rateLimiter{interval: time.Second / time.Duration(perSecond)}
}

// wait blocks until at least one interval has passed since the previous
// wait returned, then records the new reference point. Callers that are
// naturally slower than the interval are not delayed.
func (l *rateLimiter) wait() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.last.IsZero() {
		if d := l.interval - timeNow().Sub(l.last); d > 0 {
			timeSleep(d)
		}
	}
	l.last = timeNow()
}
