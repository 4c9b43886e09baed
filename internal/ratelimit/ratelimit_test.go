package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryAllowsUpToMax(t *testing.T) {
	lim := NewMemory(Config{Max: 3, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := lim.Allow(ctx, "user-1")
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if !ok {
			t.Fatalf("Call %d should be allowed", i+1)
		}
	}

	ok, err := lim.Allow(ctx, "user-1")
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if ok {
		t.Error("Fourth call in the window should be denied")
	}
}

func TestMemoryKeysAreIndependent(t *testing.T) {
	lim := NewMemory(Config{Max: 1, Window: time.Minute})
	ctx := context.Background()

	if ok, _ := lim.Allow(ctx, "user-1"); !ok {
		t.Fatal("First call for user-1 should be allowed")
	}
	if ok, _ := lim.Allow(ctx, "user-1"); ok {
		t.Error("Second call for user-1 should be denied")
	}
	if ok, _ := lim.Allow(ctx, "user-2"); !ok {
		t.Error("user-2 has their own window and should be allowed")
	}
}

func TestMemoryWindowResets(t *testing.T) {
	lim := NewMemory(Config{Max: 1, Window: time.Minute})
	ctx := context.Background()

	now := time.Unix(1700000000, 0)
	lim.now = func() time.Time { return now }

	if ok, _ := lim.Allow(ctx, "user-1"); !ok {
		t.Fatal("First call should be allowed")
	}
	if ok, _ := lim.Allow(ctx, "user-1"); ok {
		t.Fatal("Second call inside the window should be denied")
	}

	now = now.Add(time.Minute)
	if ok, _ := lim.Allow(ctx, "user-1"); !ok {
		t.Error("Call after the window elapsed should be allowed")
	}
}

func TestMemoryEvictsExpiredWindows(t *testing.T) {
	lim := NewMemory(Config{Max: 5, Window: time.Minute})
	ctx := context.Background()

	now := time.Unix(1700000000, 0)
	lim.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		lim.Allow(ctx, fmt.Sprintf("user-%d", i))
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := lim.Allow(ctx, "user-0"); !ok {
		t.Fatal("Call after the window elapsed should be allowed")
	}

	lim.mu.Lock()
	size := len(lim.windows)
	lim.mu.Unlock()
	if size != 1 {
		t.Errorf("Expected only the active window to survive, got %d entries", size)
	}
}
