package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"resume-builder/internal/shared/telemetry"
)

const retryBaseDelay = 300 * time.Millisecond

type retrying struct {
	base  Client
	delay time.Duration
}

// WithRetry wraps base so a transient failure is retried once.
func WithRetry(base Client) Client {
	if base == nil {
		return nil
	}
	return retrying{base: base, delay: retryBaseDelay}
}

func (r retrying) Complete(ctx context.Context, req Request) (string, error) {
	out, err := r.base.Complete(ctx, req)
	if err == nil || !shouldRetry(err) {
		return out, err
	}

	telemetry.Warn("llm.retry", map[string]any{"attempt": 1, "error": err})
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return r.base.Complete(ctx, req)
}

func shouldRetry(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500 || statusErr.Code == 429
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"server_error",
		"connection reset",
		"connection refused",
		"broken pipe",
		"tls handshake timeout",
		"unexpected eof",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
