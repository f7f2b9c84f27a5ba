package jobcontext

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastJob(t *testing.T, maxRetries int) (context.Context, context.CancelFunc) {
	t.Helper()
	ctx, cancel := JobBegin(context.Background(), "transcripts-0-42", "interaction.transcript.final", time.Second)
	ctx = SetMaxRetries(ctx, maxRetries)
	ctx = SetBaseDelay(ctx, time.Millisecond)
	return ctx, cancel
}

func TestJobEnd_RetriesUntilSuccess(t *testing.T) {
	ctx, cancel := fastJob(t, 3)
	defer cancel()

	var attempts []int
	err := JobEnd(ctx, func(ctx context.Context) error {
		attempts = append(attempts, GetRetryAttempt(ctx))
		if len(attempts) < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("JobEnd: %v", err)
	}
	if len(attempts) != 3 || attempts[0] != 0 || attempts[2] != 2 {
		t.Fatalf("attempts = %v, want [0 1 2]", attempts)
	}
}

func TestJobEnd_PermanentStopsImmediately(t *testing.T) {
	ctx, cancel := fastJob(t, 5)
	defer cancel()

	calls := 0
	bad := errors.New("malformed payload")
	err := JobEnd(ctx, func(context.Context) error {
		calls++
		return Permanent(bad)
	})
	if !errors.Is(err, bad) {
		t.Fatalf("err = %v, want wrapped %v", err, bad)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestJobEnd_GivesUpAfterMaxRetries(t *testing.T) {
	ctx, cancel := fastJob(t, 2)
	defer cancel()

	calls := 0
	err := JobEnd(ctx, func(context.Context) error {
		calls++
		return errors.New("connection refused")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestJobEnd_RecoversPanic(t *testing.T) {
	ctx, cancel := fastJob(t, 3)
	defer cancel()

	calls := 0
	err := JobEnd(ctx, func(context.Context) error {
		calls++
		panic("boom")
	})
	if err == nil || calls != 1 {
		t.Fatalf("err = %v calls = %d, want one failed call", err, calls)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "transient", err: errors.New("i/o timeout"), want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "permanent", err: Permanent(errors.New("bad")), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err); got != tt.want {
				t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestGetJobMetadata(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), "job-1", "interaction.transcript.partial", time.Second)
	defer cancel()

	meta := GetJobMetadata(SetRetryAttempt(ctx, 2))
	if meta.JobID != "job-1" || meta.JobType != "interaction.transcript.partial" {
		t.Fatalf("meta = %+v", meta)
	}
	if meta.RetryAttempt != 2 || meta.MaxRetries != defaultMaxRetries || meta.StartTime.IsZero() {
		t.Fatalf("meta = %+v", meta)
	}
}
