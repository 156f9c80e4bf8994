// Package guardrails holds time budgets for rescale runs
package guardrails

import (
	"context"
	"time"
)

// Timeouts caps a run and each scene document in it.
// Zero values mean no extra timeout at that level
type Timeouts struct {
	// Run is the budget for a whole archive
	Run time.Duration

	// Document caps reading and transforming one scene document
	Document time.Duration
}

// WithRun returns a context limited by the run budget without extending any parent deadline
func WithRun(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Run)
}

// ForDocument returns a sub context for one document bounded by Document and any remaining parent budget
func ForDocument(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Document)
}

// Remaining returns the time until the deadline on ctx or zero when none is set or already expired
func Remaining(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return 0
}

// withChildTimeout picks the tighter of d and the parent remainder; d <= 0 only adds cancel
func withChildTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}
