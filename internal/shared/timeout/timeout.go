// Package timeout races remote calls against a deadline and reports expiry
// as a typed error that callers can tell apart from ordinary failures.
package timeout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Error reports that an operation did not settle within its budget.
type Error struct {
	Elapsed time.Duration
}

func (e *Error) Error() string {
	return fmt.Sprintf("operation timed out after %dms", e.Elapsed.Milliseconds())
}

// ElapsedMs returns the elapsed budget in milliseconds.
func (e *Error) ElapsedMs() int64 {
	return e.Elapsed.Milliseconds()
}

// ErrorFactory builds the error returned when the timer wins the race.
type ErrorFactory func(d time.Duration) error

// DefaultErrorFactory produces *Error.
func DefaultErrorFactory(d time.Duration) error {
	return &Error{Elapsed: d}
}

// IsTimeout reports whether err is (or wraps) a *Error.
func IsTimeout(err error) bool {
	var te *Error
	return errors.As(err, &te)
}

type result[T any] struct {
	val T
	err error
}

// Do runs fn and returns its outcome unless d elapses first, in which case
// the derived context handed to fn is canceled and factory(d) is returned.
// A nil factory uses DefaultErrorFactory. The timer is stopped on every path.
func Do[T any](ctx context.Context, d time.Duration, fn func(ctx context.Context) (T, error), factory ErrorFactory) (T, error) {
	var zero T
	if factory == nil {
		factory = DefaultErrorFactory
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	timer := time.NewTimer(d)
	defer timer.Stop()

	done := make(chan result[T], 1)
	go func() {
		v, err := fn(callCtx)
		done <- result[T]{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-timer.C:
		return zero, factory(d)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Fetch sends req with a context that is canceled when either the caller's
// context ends or d elapses. An internal expiry is reported as *Error; any
// other transport failure is returned unchanged. On success the timer is
// released when the response body is closed. A caller that never closes the
// body keeps the timer until d elapses, at which point reads fail.
func Fetch(ctx context.Context, client *http.Client, req *http.Request, d time.Duration) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	fetchCtx, cancel := context.WithTimeout(ctx, d)

	resp, err := client.Do(req.WithContext(fetchCtx))
	if err != nil {
		timedOut := errors.Is(fetchCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
		cancel()
		if timedOut {
			return nil, &Error{Elapsed: d}
		}
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
