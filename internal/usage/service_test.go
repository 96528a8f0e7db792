package usage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"resume-builder/internal/shared/timeout"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestService(clock *fakeClock) *Service {
	return NewService(NewMemoryStore(clock.Now), DefaultPolicy())
}

func TestRunBlocksFifthTransformWithoutCalling(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(clock)
	ctx := context.Background()

	calls := 0
	call := func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	}
	for i := 1; i <= 4; i++ {
		_, c, err := Run(ctx, svc, "user-1", FeatureTransform, time.Second, call, nil)
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if c.Count != i {
			t.Fatalf("attempt %d: expected count %d, got %d", i, i, c.Count)
		}
	}

	_, _, err := Run(ctx, svc, "user-1", FeatureTransform, time.Second, call, nil)
	var limitErr *LimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected *LimitError, got %v", err)
	}
	if limitErr.Cap != 4 {
		t.Fatalf("expected cap 4, got %d", limitErr.Cap)
	}
	if !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached in chain")
	}
	if calls != 4 {
		t.Fatalf("expected wrapped call to run 4 times, ran %d", calls)
	}
}

func TestStaleWindowResetsOnRead(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Record(ctx, "user-1", FeatureAISuggestions); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	rep, err := svc.Report(ctx, "user-1", FeatureAISuggestions)
	if err != nil || rep.UsageCount != 3 || rep.MaxUsage != 10 {
		t.Fatalf("unexpected report %+v, %v", rep, err)
	}

	clock.t = clock.t.Add(25 * time.Hour)
	rep, err = svc.Report(ctx, "user-1", FeatureAISuggestions)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if rep.UsageCount != 0 {
		t.Fatalf("expected reset to 0, got %d", rep.UsageCount)
	}
}

func TestIncrementRefreshesWindowOnlyFromZero(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	store := NewMemoryStore(clock.Now)
	ctx := context.Background()

	first, _ := store.Increment(ctx, "u", FeatureAISuggestions, true)
	clock.t = start.Add(time.Hour)
	second, _ := store.Increment(ctx, "u", FeatureAISuggestions, true)

	if first.LastReset == nil || !first.LastReset.Equal(start) {
		t.Fatalf("expected first increment to stamp %s, got %v", start, first.LastReset)
	}
	if !second.LastReset.Equal(start) {
		t.Fatalf("second increment must not move last reset, got %v", second.LastReset)
	}

	lifetime, _ := store.Increment(ctx, "u", FeatureTransform, false)
	if lifetime.LastReset != nil {
		t.Fatalf("lifetime counter should not record a reset time")
	}
}

func TestRunDoesNotCountTimeouts(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestService(clock)
	ctx := context.Background()

	_, _, err := Run(ctx, svc, "user-1", FeatureAISuggestions, 20*time.Millisecond,
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		}, nil)
	if !timeout.IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
	rep, _ := svc.Report(ctx, "user-1", FeatureAISuggestions)
	if rep.UsageCount != 0 {
		t.Fatalf("timeout must not consume quota, got %d", rep.UsageCount)
	}
}

func TestRunDoesNotCountInvalidResults(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestService(clock)
	ctx := context.Background()
	bad := errors.New("wrong shape")

	_, _, err := Run(ctx, svc, "user-1", FeatureAISuggestions, time.Second,
		func(ctx context.Context) ([]string, error) { return []string{"only one"}, nil },
		func(v []string) error {
			if len(v) != 3 {
				return bad
			}
			return nil
		})
	if !errors.Is(err, bad) {
		t.Fatalf("expected validation error, got %v", err)
	}
	rep, _ := svc.Report(ctx, "user-1", FeatureAISuggestions)
	if rep.UsageCount != 0 {
		t.Fatalf("invalid result must not consume quota, got %d", rep.UsageCount)
	}
}

func TestLimitErrorMessageCarriesCap(t *testing.T) {
	err := &LimitError{Feature: FeatureAISuggestions, Cap: 10}
	if got := err.Error(); got == "" || !strings.Contains(got, "10") {
		t.Fatalf("expected cap in message, got %q", got)
	}
}

func TestUnknownFeature(t *testing.T) {
	svc := NewService(NewMemoryStore(nil), Policy{})
	if _, err := svc.Check(context.Background(), "u", FeatureTransform); !errors.Is(err, ErrUnknownFeature) {
		t.Fatalf("expected ErrUnknownFeature, got %v", err)
	}
}
