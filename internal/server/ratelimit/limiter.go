// Package ratelimit counts attempts per key in fixed windows, in memory or in Redis.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const sweepInterval = 5 * time.Minute

// Limiter decides whether another attempt for key fits into the current window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) Decision
	Close()
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Count     int
	WindowEnd time.Time
}

type memoryLimiter struct {
	mu      sync.Mutex
	entries map[string]state
	now     func() time.Time
	stopCh  chan struct{}
	once    sync.Once
}

type state struct {
	count     int
	windowEnd time.Time
}

// NewMemory returns a process-local limiter. Expired windows are swept periodically
// until Close is called.
func NewMemory() Limiter {
	rl := newMemoryLimiter(time.Now)
	go rl.sweepLoop()
	return rl
}

func newMemoryLimiter(now func() time.Time) *memoryLimiter {
	return &memoryLimiter{
		entries: make(map[string]state),
		now:     now,
		stopCh:  make(chan struct{}),
	}
}

func (rl *memoryLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) Decision {
	if limit <= 0 {
		return Decision{Allowed: true}
	}
	if window <= 0 {
		window = time.Minute
	}
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	st, ok := rl.entries[key]
	if !ok || now.After(st.windowEnd) {
		st = state{count: 1, windowEnd: now.Add(window)}
		rl.entries[key] = st
		return Decision{Allowed: true, Count: st.count, WindowEnd: st.windowEnd}
	}
	if st.count >= limit {
		return Decision{Allowed: false, Count: st.count, WindowEnd: st.windowEnd}
	}
	st.count++
	rl.entries[key] = st
	return Decision{Allowed: true, Count: st.count, WindowEnd: st.windowEnd}
}

func (rl *memoryLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup(rl.now())
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *memoryLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, st := range rl.entries {
		if now.After(st.windowEnd) {
			delete(rl.entries, key)
		}
	}
}

func (rl *memoryLimiter) Close() {
	rl.once.Do(func() {
		close(rl.stopCh)
	})
}
