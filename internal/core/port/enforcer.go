package port

import (
	"context"
	"time"
)

// RunSummary aggregates per-run counters for one enforcement job. It is
// returned by every operation and emitted to the log stream so an external
// observability sink can track the outcome of fire-and-forget runs.
type RunSummary struct {
	Job         string
	StartedAt   time.Time
	Processed   int
	Paused      int
	Reactivated int
	Reset       int
	Errors      int
}

// Duration returns the elapsed time since the run started.
func (s RunSummary) Duration(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}

// Enforcer is the inbound port exposed to the external scheduler. Every
// operation tolerates at-least-once invocation: rechecks and resets are
// idempotent through persisted stamps and markers, and batch operations
// isolate per-row failures instead of aborting. IngestSpend is the one
// exception; the caller must deliver each spend event at most once.
type Enforcer interface {
	// IngestSpend records a single spend event and enforces the budget in
	// the same atomic unit.
	IngestSpend(ctx context.Context, in SpendInput) (*SpendOutcome, error)

	// CheckAndPauseBudgets sweeps active campaigns in pages, re-checking
	// those due per their check frequency and pausing any over budget.
	CheckAndPauseBudgets(ctx context.Context) (RunSummary, error)

	// ResetDailySpend zeroes stale daily counters once per UTC day and
	// reactivates campaigns that are back within both budgets.
	ResetDailySpend(ctx context.Context) (RunSummary, error)

	// ResetMonthlySpend zeroes stale monthly counters once per UTC month
	// and reactivates campaigns that are back within both budgets.
	ResetMonthlySpend(ctx context.Context) (RunSummary, error)

	// EnforceDayparting pauses campaigns outside their allowed run window
	// and reactivates in-window campaigns that satisfy both budgets.
	EnforceDayparting(ctx context.Context) (RunSummary, error)
}
