package http

import (
	"testing"
	"time"
)

func TestRateLimiter_AllowUntilEmpty(t *testing.T) {

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2, time.Minute, func() time.Time { return now })

	for i := 0; i < 2; i++ {
		if ok, _ := rl.Allow("10.0.0.1"); !ok {
			t.Fatalf("expected request %d to be allowed", i+1)
		}
	}

	ok, retryAfter := rl.Allow("10.0.0.1")
	if ok {
		t.Fatalf("expected third request to be rejected")
	}
	if retryAfter != time.Minute {
		t.Errorf("expected retry after 1m, got %s", retryAfter)
	}

	if ok, _ := rl.Allow("10.0.0.2"); !ok {
		t.Errorf("expected other clients to keep their own bucket")
	}
}

func TestRateLimiter_RefillsAfterWindow(t *testing.T) {

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(1, time.Minute, func() time.Time { return now })

	rl.Allow("10.0.0.1")
	if ok, _ := rl.Allow("10.0.0.1"); ok {
		t.Fatalf("expected bucket to be empty")
	}

	now = now.Add(time.Minute)

	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Errorf("expected bucket to refill after the window")
	}
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(1, time.Minute, func() time.Time { return now })

	rl.Allow("10.0.0.1")
	now = now.Add(2 * time.Hour)
	rl.cleanup()

	if len(rl.clients) != 0 {
		t.Errorf("expected idle client to be removed, have %d", len(rl.clients))
	}
	rl.Stop()
	rl.Stop()
}
