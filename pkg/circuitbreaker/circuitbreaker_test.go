package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errBackend = errors.New("backend down")

func TestCircuitBreaker_OpensAfterFailureThreshold(t *testing.T) {
	cb := NewCircuitBreaker(&Config{
		FailureThreshold: 3,
		RecoveryTimeout:  time.Hour,
		SuccessThreshold: 1,
	})

	for i := 0; i < 3; i++ {
		if err := cb.Call(func() error { return errBackend }); !errors.Is(err, errBackend) {
			t.Fatalf("call %d: expected backend error, got %v", i, err)
		}
	}

	if cb.State() != Open {
		t.Fatalf("expected circuit to be open after %d failures", 3)
	}

	if err := cb.Call(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(&Config{
		FailureThreshold: 2,
		RecoveryTimeout:  time.Hour,
		SuccessThreshold: 1,
	})

	_ = cb.Call(func() error { return errBackend })
	_ = cb.Call(func() error { return nil })
	_ = cb.Call(func() error { return errBackend })

	if cb.State() != Closed {
		t.Fatalf("an intervening success should reset the failure count")
	}
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker(&Config{
		FailureThreshold: 1,
		RecoveryTimeout:  10 * time.Millisecond,
		SuccessThreshold: 1,
	})

	_ = cb.Call(func() error { return errBackend })
	if cb.State() != Open {
		t.Fatalf("expected open state")
	}

	time.Sleep(20 * time.Millisecond)

	if err := cb.Call(func() error { return nil }); err != nil {
		t.Fatalf("half-open probe should be allowed, got %v", err)
	}

	if cb.State() != Closed {
		t.Fatalf("expected circuit to close after a successful probe")
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker(&Config{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Hour,
		SuccessThreshold: 1,
	})

	_ = cb.Call(func() error { return errBackend })
	cb.Reset()

	if cb.State() != Closed {
		t.Fatalf("expected closed state after Reset")
	}
}
