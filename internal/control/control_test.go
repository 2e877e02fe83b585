package control

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGuardPlainCallWithoutSignals(t *testing.T) {
	var s *Signals
	got, err := s.Guard(context.Background(), func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Guard returned error: %v", err)
	}
	if got != "ok" {
		t.Errorf("expected %q, got %q", "ok", got)
	}
}

func TestGuardReturnsCallResultWhenNoSignalFires(t *testing.T) {
	s := NewSignals()
	got, err := s.Guard(context.Background(), func(ctx context.Context) (string, error) {
		return "result", nil
	})
	if err != nil {
		t.Fatalf("Guard returned error: %v", err)
	}
	if got != "result" {
		t.Errorf("expected %q, got %q", "result", got)
	}
}

func TestGuardCancelAbortsBlockedCall(t *testing.T) {
	s := NewSignals()

	go func() {
		time.Sleep(50 * time.Millisecond)
		s.Cancel()
	}()

	start := time.Now()
	_, err := s.Guard(context.Background(), func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("abort took too long: %v", elapsed)
	}
}

func TestGuardSkipAbortsBlockedCall(t *testing.T) {
	s := NewSignals()

	go func() {
		time.Sleep(50 * time.Millisecond)
		s.Skip()
	}()

	_, err := s.Guard(context.Background(), func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	if !errors.Is(err, ErrSkipped) {
		t.Fatalf("expected ErrSkipped, got %v", err)
	}
}

func TestCancelWinsOverSkip(t *testing.T) {
	s := NewSignals()
	s.Skip()
	s.Cancel()

	if err := s.Err(); !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled when both flags are set, got %v", err)
	}

	_, err := s.Guard(context.Background(), func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("Guard: expected ErrCancelled, got %v", err)
	}
}

func TestClearSkipLeavesCancelAlone(t *testing.T) {
	s := NewSignals()
	s.Skip()
	s.ClearSkip()
	if s.Skipped() {
		t.Error("skip flag should be cleared")
	}

	s.Cancel()
	s.ClearSkip()
	if !s.Cancelled() {
		t.Error("cancel flag must survive ClearSkip")
	}
}
