package deadline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultTimeout is the deadline applied when a Wrapper is built with a
// non-positive duration.
const DefaultTimeout = 5 * time.Second

// ErrTimeout is matched by every TimeoutError via errors.Is.
var ErrTimeout = errors.New("request timeout")

// TimeoutError reports that a handler did not finish within its deadline.
type TimeoutError struct {
	Deadline time.Duration
	Elapsed  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout: no result within %s", e.Deadline)
}

// Is lets errors.Is(err, ErrTimeout) match any TimeoutError.
func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// Timeout always reports true.
func (e *TimeoutError) Timeout() bool { return true }

// Temporary reports false. It exists only so TimeoutError satisfies net.Error.
func (e *TimeoutError) Temporary() bool { return false }

// IsTimeout reports whether err was produced by an expired deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithOnTimeout registers a hook invoked once each time a deadline fires.
func WithOnTimeout(fn func(d time.Duration)) Option {
	return func(w *Wrapper) { w.onTimeout = fn }
}

// Wrapper bounds calls with a fixed deadline. It holds only immutable
// configuration and is safe for concurrent use.
type Wrapper struct {
	timeout   time.Duration
	onTimeout func(time.Duration)
}

// New creates a Wrapper with the given deadline.
func New(d time.Duration, opts ...Option) *Wrapper {
	if d <= 0 {
		d = DefaultTimeout
	}
	w := &Wrapper{timeout: d}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Duration returns the configured deadline.
func (w *Wrapper) Duration() time.Duration {
	return w.timeout
}

// Outcome is the single reported result of one wrapped call: Err is nil for
// success, the handler's own error, or a *TimeoutError.
type Outcome[T any] struct {
	Value T
	Err   error
}

// OK reports whether the outcome is a success.
func (o Outcome[T]) OK() bool { return o.Err == nil }

// Unpack returns the outcome as a (value, error) pair.
func (o Outcome[T]) Unpack() (T, error) { return o.Value, o.Err }

func (w *Wrapper) fireTimeout(began time.Time) error {
	if w.onTimeout != nil {
		w.onTimeout(w.timeout)
	}
	return &TimeoutError{Deadline: w.timeout, Elapsed: time.Since(began)}
}

// Call runs fn once and returns its result if it finishes before the deadline.
// Otherwise it returns a *TimeoutError and whatever fn produces later is dropped.
func Call[T any](ctx context.Context, w *Wrapper, fn func(context.Context) (T, error)) (T, error) {
	return Run(ctx, w, fn).Unpack()
}

// Run is Call returning the tagged Outcome.
func Run[T any](ctx context.Context, w *Wrapper, fn func(context.Context) (T, error)) Outcome[T] {
	return Await(ctx, w, func(ctx context.Context, settle func(T, error)) {
		settle(fn(ctx))
	})
}

// Await starts a callback-style handler and waits for its first settlement.
// Only the first call to settle counts; later calls, including any arriving
// after the deadline, are ignored.
func Await[T any](ctx context.Context, w *Wrapper, start func(ctx context.Context, settle func(T, error))) Outcome[T] {
	began := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	// Capacity 1 so the winning send never blocks and a losing one is dropped.
	done := make(chan Outcome[T], 1)
	var once sync.Once
	settle := func(v T, err error) {
		once.Do(func() {
			done <- Outcome[T]{Value: v, Err: err}
		})
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				settle(zero, fmt.Errorf("handler panic: %v", r))
			}
		}()
		start(callCtx, settle)
	}()

	select {
	case out := <-done:
		// A handler that gave up because our deadline expired still timed out.
		if out.Err != nil && errors.Is(out.Err, context.DeadlineExceeded) &&
			ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return Outcome[T]{Err: w.fireTimeout(began)}
		}
		return out
	case <-callCtx.Done():
		if err := ctx.Err(); err != nil {
			return Outcome[T]{Err: err}
		}
		return Outcome[T]{Err: w.fireTimeout(began)}
	}
}
