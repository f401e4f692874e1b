package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	transient := &RetryableError{Err: errors.New("503")}
	permanent := errors.New("404")

	tests := []struct {
		name      string
		attempts  int
		failures  []error
		wantCalls int
		wantErr   error
	}{
		{"first try", 3, nil, 1, nil},
		{"recovers", 3, []error{transient, transient}, 3, nil},
		{"exhausted", 2, []error{transient, transient, transient}, 2, transient},
		{"permanent stops", 3, []error{permanent}, 1, permanent},
		{"zero attempts runs once", 0, []error{transient}, 1, transient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) && err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return &RetryableError{Err: errors.New("boom")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestPolicyDo(t *testing.T) {
	p := Policy{Attempts: 2, Delay: time.Millisecond}
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return &RetryableError{Err: errors.New("timeout")}
	})
	if err == nil || calls != 2 {
		t.Errorf("Do() = %v after %d calls, want error after 2", err, calls)
	}
}

func TestRetryableErrorUnwrap(t *testing.T) {
	base := errors.New("base")
	err := &RetryableError{Err: base}
	if !errors.Is(err, base) {
		t.Error("RetryableError does not unwrap")
	}
	if err.Error() != "base" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !isRetryable(err) || isRetryable(base) {
		t.Error("isRetryable misclassifies")
	}
}
