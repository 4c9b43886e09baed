// Package ratelimit provides fixed-window rate limiting for client
// actions, with in-memory and Redis-backed implementations.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether an action identified by key may proceed
// within the current window. Allow both checks and records the action.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Config defines the window rules shared by all backends.
type Config struct {
	Max    int           // actions allowed per window
	Window time.Duration // window length
}

// DefaultConfig returns the default posting limits.
func DefaultConfig() Config {
	return Config{
		Max:    10,
		Window: 30 * time.Second,
	}
}

type window struct {
	start time.Time
	count int
}

// Memory is a process-local fixed-window limiter. It is the backend
// used when debate state itself lives in memory or MongoDB.
type Memory struct {
	cfg Config
	now func() time.Time

	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

// NewMemory creates an in-memory limiter with the given rules.
func NewMemory(cfg Config) *Memory {
	return &Memory{
		cfg:     cfg,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	w, ok := m.windows[key]
	if !ok || now.Sub(w.start) >= m.cfg.Window {
		m.windows[key] = &window{start: now, count: 1}
		return true, nil
	}
	if w.count >= m.cfg.Max {
		return false, nil
	}
	w.count++
	return true, nil
}

// sweepLocked evicts expired windows at most once per window length so
// the map does not retain an entry per identity forever. Caller holds
// m.mu.
func (m *Memory) sweepLocked(now time.Time) {
	if now.Sub(m.lastSweep) < m.cfg.Window {
		return
	}
	for key, w := range m.windows {
		if now.Sub(w.start) >= m.cfg.Window {
			delete(m.windows, key)
		}
	}
	m.lastSweep = now
}
