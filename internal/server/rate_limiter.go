package server

import (
	"sync"
	"time"
)

// rateLimiter is a fixed-window per-client limiter. Analysis runs are the
// expensive path (context assembly plus a database write per run), so the
// whole API shares one budget keyed by client IP.
type rateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	windows map[string]*clientWindow
}

type clientWindow struct {
	startedAt time.Time
	used      int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string]*clientWindow),
	}
}

// Allow consumes one slot for the client. An empty key never passes; a proxy
// that strips the client address must not bypass the limit.
func (r *rateLimiter) Allow(key string) bool {
	if key == "" {
		return false
	}

	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()

	w := r.windows[key]
	if w == nil || now.Sub(w.startedAt) > r.window {
		r.pruneLocked(now)
		w = &clientWindow{startedAt: now}
		r.windows[key] = w
	}

	if w.used >= r.limit {
		return false
	}
	w.used++
	return true
}

// pruneLocked drops expired windows so the map tracks active clients only.
// Called with the mutex held, on the window-rollover path.
func (r *rateLimiter) pruneLocked(now time.Time) {
	for key, w := range r.windows {
		if now.Sub(w.startedAt) > r.window {
			delete(r.windows, key)
		}
	}
}
