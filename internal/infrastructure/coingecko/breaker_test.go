package coingecko

import (
	"context"
	"testing"
	"time"
)

func TestBreakerTransitions(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(BreakerConfig{FailureThreshold: 3, SuccessThreshold: 2, Timeout: 10 * time.Second}, nil)
	b.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !b.Allow() {
			t.Fatalf("closed breaker rejected call %d", i)
		}
		b.RecordFailure()
	}
	if b.State() != StateOpen || b.Allow() {
		t.Fatalf("breaker should be open and rejecting, state=%s", b.State())
	}

	now = now.Add(11 * time.Second)
	if !b.Allow() || b.State() != StateHalfOpen {
		t.Fatalf("breaker should probe after timeout, state=%s", b.State())
	}
	b.RecordFailure()
	if b.State() != StateOpen {
		t.Fatalf("failed probe should reopen, state=%s", b.State())
	}

	now = now.Add(11 * time.Second)
	b.Allow()
	b.RecordSuccess()
	b.RecordSuccess()
	if b.State() != StateClosed {
		t.Fatalf("two probe successes should close, state=%s", b.State())
	}
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, Timeout: time.Minute}, nil)
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	if b.State() != StateClosed {
		t.Fatalf("non-consecutive failures opened the breaker")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, 1000)
	if !rl.TryAcquire() || !rl.TryAcquire() {
		t.Fatal("burst tokens should be available")
	}
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}

func TestRateLimiterWaitHonoursContext(t *testing.T) {
	rl := NewRateLimiter(1, 0.001)
	rl.TryAcquire()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); err == nil {
		t.Fatal("Wait() should fail once the context expires")
	}
}
