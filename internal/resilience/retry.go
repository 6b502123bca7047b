package resilience

import (
	"context"
	"fmt"
	"time"
)

// Policy controls retry behavior for wrapped operations.
type Policy struct {
	MaxRetries         int
	BaseDelay          time.Duration
	ExponentialBackoff bool
}

// DefaultPolicy mirrors the reconnect defaults used elsewhere in the app.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:         3,
		BaseDelay:          time.Second,
		ExponentialBackoff: true,
	}
}

// Delay returns the wait before retry attempt n (1-based):
// base * 2^(n-1) under exponential backoff, else the constant base.
func (p Policy) Delay(n int) time.Duration {
	if !p.ExponentialBackoff || n <= 1 {
		return p.BaseDelay
	}
	return p.BaseDelay << uint(n-1)
}

// Observer receives resilience outcomes as a side channel. The
// diagnostics aggregator implements it; a nil observer is valid.
type Observer interface {
	Record(diagnosis *ErrorDiagnosis)
	RecordSuccess()
}

// ExhaustedError is raised when a wrapped operation ran out of attempts
// or hit a non-retryable failure. It carries the original error and the
// last diagnosis so callers never re-derive classification themselves.
type ExhaustedError struct {
	Operation string
	Attempts  int
	Diagnosis *ErrorDiagnosis
	cause     error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempt(s) [%s, severity %d]: %v",
		e.Operation, e.Attempts, e.Diagnosis.Category, e.Diagnosis.Severity, e.cause)
}

// Unwrap returns the original error.
func (e *ExhaustedError) Unwrap() error {
	return e.cause
}

// Recommendations returns the advisory actions accumulated for the final
// failure.
func (e *ExhaustedError) Recommendations() []Recommendation {
	return e.Diagnosis.Recommendations
}

// Execute runs op under the retry policy. Each failure is classified;
// only Network, Gas and Price failures are retried, with the backoff
// delay awaited on the calling goroutine so sibling fetches in the same
// batch are unaffected. The context cancels both the operation and any
// pending backoff wait, so a caller can abort a stuck cycle without
// leaking the sleep.
func Execute[T any](ctx context.Context, policy Policy, observer Observer, operation string, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastDiagnosis *ErrorDiagnosis
	attempts := 0

	for attempt := 1; ; attempt++ {
		attempts = attempt
		result, err := op(ctx)
		if err == nil {
			if observer != nil {
				observer.RecordSuccess()
			}
			return result, nil
		}

		lastDiagnosis = Diagnose(operation, err)
		if observer != nil {
			observer.Record(lastDiagnosis)
		}

		retriesUsed := attempt - 1
		if !lastDiagnosis.Category.Retryable() || retriesUsed >= policy.MaxRetries {
			break
		}

		if waitErr := sleep(ctx, policy.Delay(attempt)); waitErr != nil {
			// Cancelled mid-backoff: surface the cancellation, keeping the
			// diagnosis of the failure that put us here.
			return zero, &ExhaustedError{
				Operation: operation,
				Attempts:  attempts,
				Diagnosis: lastDiagnosis,
				cause:     waitErr,
			}
		}
	}

	return zero, &ExhaustedError{
		Operation: operation,
		Attempts:  attempts,
		Diagnosis: lastDiagnosis,
		cause:     lastDiagnosis.Err,
	}
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
