package http

import (
	"sync"
	"sync/atomic"
	"time"
)

// requestsPerMinute bounds mutating requests per client IP. Reads are not
// limited; the subscription API is cheap to serve and cached.
const requestsPerMinute = 60

const (
	rateWindow      = time.Minute
	sweepInterval   = 5 * time.Minute
	staleVisitorTTL = 10 * time.Minute
)

// visitor tracks one client IP inside the current fixed window.
type visitor struct {
	windowStart time.Time
	count       int
}

// rateLimiter is a fixed-window per-IP counter. A background sweep drops
// visitors that have been silent long enough to be irrelevant.
type rateLimiter struct {
	mu           sync.Mutex
	visitors     map[string]*visitor
	stopSweep    chan struct{}
	shutdownOnce sync.Once
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		visitors:  make(map[string]*visitor),
		stopSweep: make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

func (rl *rateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep(time.Now())
		case <-rl.stopSweep:
			return
		}
	}
}

// sweep drops visitors whose window started before the stale cutoff.
func (rl *rateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-staleVisitorTTL)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.visitors {
		if v.windowStart.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

// stop terminates the sweep goroutine. Safe to call more than once.
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopSweep)
	})
}

// allow reports whether a request from clientIP fits in the current
// window, recording a metric hit when it does not.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[clientIP]
	if !ok || now.Sub(v.windowStart) >= rateWindow {
		rl.visitors[clientIP] = &visitor{windowStart: now, count: 1}
		return true
	}

	v.count++
	if v.count > requestsPerMinute {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}
