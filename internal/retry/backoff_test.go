package retry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBackoff_SucceedsAfterRetries(t *testing.T) {
	b := &Backoff{InitialDelay: time.Millisecond, MaxAttempts: 5}

	calls := 0
	err := b.Do(context.Background(), func(attempt int) error {
		calls++
		if attempt != calls {
			t.Errorf("attempt = %d on call %d", attempt, calls)
		}
		if attempt < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestBackoff_ExhaustsBudget(t *testing.T) {
	b := &Backoff{InitialDelay: time.Millisecond, MaxAttempts: 3}

	calls := 0
	err := b.Do(context.Background(), func(int) error {
		calls++
		return errors.New("always failing")
	})
	if err == nil {
		t.Fatal("expected error after budget exhausted")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !strings.Contains(err.Error(), "max retries") {
		t.Errorf("error = %v", err)
	}
}

func TestBackoff_PermanentStopsImmediately(t *testing.T) {
	b := &Backoff{InitialDelay: time.Millisecond, MaxAttempts: 5}

	inner := errors.New("bad request")
	calls := 0
	err := b.Do(context.Background(), func(int) error {
		calls++
		return Permanent(inner)
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, inner) {
		t.Errorf("error = %v, want the unwrapped inner error", err)
	}
}

func TestBackoff_ContextCancelled(t *testing.T) {
	b := &Backoff{InitialDelay: time.Hour, MaxAttempts: 0}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- b.Do(ctx, func(int) error { return errors.New("transient") })
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled in chain", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not observe cancellation")
	}
}

func TestPermanent(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
	if !IsPermanent(Permanent(errors.New("x"))) {
		t.Error("IsPermanent missed a wrapped error")
	}
	if IsPermanent(errors.New("x")) {
		t.Error("IsPermanent flagged a plain error")
	}
}
