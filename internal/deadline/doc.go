// Package deadline bounds a single unit of work with a fixed deadline.
//
// The handler and a timer race; the first to finish decides the outcome.
// A handler that loses the race keeps running in its own goroutine but its
// result is dropped, so callers observe exactly one outcome per call.
package deadline
