package amadeus

import (
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyNextDelay(t *testing.T) {
	p := DefaultRetryPolicy()

	if got := p.NextDelay(1); got != 500*time.Millisecond {
		t.Errorf("attempt 1: expected 500ms, got %v", got)
	}
	if got := p.NextDelay(2); got != time.Second {
		t.Errorf("attempt 2: expected 1s, got %v", got)
	}
	if got := p.NextDelay(10); got != 5*time.Second {
		t.Errorf("attempt 10: expected cap of 5s, got %v", got)
	}
}

func TestRetryPolicyClassification(t *testing.T) {
	p := DefaultRetryPolicy()

	retryable := []string{
		"dial tcp: connection refused",
		"read tcp: connection reset by peer",
		"context deadline exceeded (timeout)",
	}
	for _, msg := range retryable {
		if !p.isRetryable(errors.New(msg)) {
			t.Errorf("expected retryable: %q", msg)
		}
	}

	permanent := []string{
		"auth error [401]: unauthorized",
		"auth error [403]: forbidden",
		"invalid_client",
	}
	for _, msg := range permanent {
		if p.isRetryable(errors.New(msg)) {
			t.Errorf("expected permanent: %q", msg)
		}
	}
}

func TestRetryPolicyExecute(t *testing.T) {
	p := &RetryPolicy{MaxAttempts: 3, InitialDelay: 0, Multiplier: 1, MaxDelay: 0}

	attempts := 0
	err := p.Execute(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}

	attempts = 0
	err = p.Execute(func() error {
		attempts++
		return errors.New("auth error [401]: nope")
	})
	if err == nil {
		t.Fatal("expected permanent error to surface")
	}
	if attempts != 1 {
		t.Errorf("expected no retries for permanent error, got %d attempts", attempts)
	}
}
