package usage

import (
	"context"
	"errors"
	"time"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/timeout"
)

// Service enforces per-feature caps on top of a Store.
type Service struct {
	store  Store
	policy Policy
}

// NewService constructs a Service. A nil policy uses DefaultPolicy.
func NewService(store Store, policy Policy) *Service {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Service{store: store, policy: policy}
}

// Limits returns the configured limits for feature.
func (s *Service) Limits(feature Feature) (Limits, error) {
	l, ok := s.policy[feature]
	if !ok {
		return Limits{}, ErrUnknownFeature
	}
	return l, nil
}

// Report reads the counter (resetting a stale window) and pairs it with the cap.
func (s *Service) Report(ctx context.Context, userID string, feature Feature) (Report, error) {
	limits, err := s.Limits(feature)
	if err != nil {
		return Report{}, err
	}
	c, err := s.store.Get(ctx, userID, feature, limits.Window)
	if err != nil {
		return Report{}, err
	}
	return Report{UsageCount: c.Count, MaxUsage: limits.Cap}, nil
}

// Check returns the current counter, or a *LimitError when it is at or above the cap.
func (s *Service) Check(ctx context.Context, userID string, feature Feature) (Counter, error) {
	limits, err := s.Limits(feature)
	if err != nil {
		return Counter{}, err
	}
	c, err := s.store.Get(ctx, userID, feature, limits.Window)
	if err != nil {
		return Counter{}, err
	}
	if c.Count >= limits.Cap {
		return c, &LimitError{Feature: feature, Cap: limits.Cap}
	}
	return c, nil
}

// Record bumps the counter after a successful gated call.
func (s *Service) Record(ctx context.Context, userID string, feature Feature) (Counter, error) {
	limits, err := s.Limits(feature)
	if err != nil {
		return Counter{}, err
	}
	return s.store.Increment(ctx, userID, feature, limits.Windowed())
}

// Run executes call for userID under feature's cap. The counter is read
// first and the call is skipped when the cap is reached. The call races d;
// its result must then pass validate (when non-nil). Only a validated
// result is counted. The returned Counter reflects the increment.
func Run[T any](
	ctx context.Context,
	svc *Service,
	userID string,
	feature Feature,
	d time.Duration,
	call func(ctx context.Context) (T, error),
	validate func(T) error,
) (T, Counter, error) {
	var zero T
	before, err := svc.Check(ctx, userID, feature)
	if err != nil {
		if errors.Is(err, ErrLimitReached) {
			metrics.ObserveLLMCall(string(feature), metrics.OutcomeLimitHit, 0)
			telemetry.Warn("usage.limit_reached", map[string]any{
				"user_id": userID,
				"feature": string(feature),
				"count":   before.Count,
			})
		}
		return zero, before, err
	}

	start := time.Now()
	out, err := timeout.Do(ctx, d, call, nil)
	elapsed := time.Since(start)
	if err != nil {
		outcome := metrics.OutcomeError
		if timeout.IsTimeout(err) {
			outcome = metrics.OutcomeTimeout
		}
		metrics.ObserveLLMCall(string(feature), outcome, elapsed)
		return zero, before, err
	}
	if validate != nil {
		if err := validate(out); err != nil {
			metrics.ObserveLLMCall(string(feature), metrics.OutcomeInvalid, elapsed)
			return zero, before, err
		}
	}
	metrics.ObserveLLMCall(string(feature), metrics.OutcomeSuccess, elapsed)

	after, err := svc.Record(ctx, userID, feature)
	if err != nil {
		// The caller already paid for the call; hand back the result.
		telemetry.Error("usage.increment_failed", map[string]any{
			"user_id": userID,
			"feature": string(feature),
			"error":   err,
		})
		before.Count++
		return out, before, nil
	}
	return out, after, nil
}
