package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoSuccessOnFirstAttempt(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 3, Delay: time.Millisecond}, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 3, Delay: time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 3, Delay: time.Millisecond}, func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	t.Parallel()

	fatal := errors.New("fatal")
	calls := 0
	err := Do(context.Background(), Config{
		MaxAttempts: 5,
		Delay:       time.Millisecond,
		ShouldRetry: func(err error) bool { return !errors.Is(err, fatal) },
	}, func() error {
		calls++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("expected fatal, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := Do(ctx, Config{MaxAttempts: 100, Delay: 50 * time.Millisecond}, func() error {
		calls++
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls == 0 || calls > 2 {
		t.Fatalf("expected cancellation after the first attempt, got %d calls", calls)
	}
}
