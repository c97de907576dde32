package domain

import "time"

// Status change reasons recorded in campaign status history.
const (
	ReasonBudgetExceeded = "budget_exceeded"
	ReasonDayparting     = "dayparting"
	ReasonDailyReset     = "daily_reset"
	ReasonMonthlyReset   = "monthly_reset"
)

// Campaign is an advertising campaign owned by exactly one brand. The
// engine only ever mutates the running spend counters, the active flag and
// the reset/check markers; everything else belongs to external workflows.
// Counters are int64 minor units and are non-decreasing between resets.
type Campaign struct {
	ID           int64
	BrandID      int64
	Name         string
	DailySpend   int64
	MonthlySpend int64
	IsActive     bool

	// ScheduleID references an optional dayparting schedule.
	ScheduleID *int64

	// LastDailyReset and LastMonthlyReset are the reset markers that make
	// periodic resets idempotent under scheduler retry. They hold UTC
	// dates (midnight-truncated).
	LastDailyReset   *time.Time
	LastMonthlyReset *time.Time

	// CheckFrequency overrides the process-wide budget check interval
	// when set.
	CheckFrequency  *time.Duration
	LastBudgetCheck *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OverBudget reports whether either running counter strictly exceeds its
// brand budget. Spend exactly equal to a budget does not pause.
func (c Campaign) OverBudget(b Brand) bool {
	return c.DailySpend > b.DailyBudget || c.MonthlySpend > b.MonthlyBudget
}

// WithinBudget reports whether both counters are at or under their
// budgets. Every reactivation path must verify this at the moment of the
// transition, whatever triggered it.
func (c Campaign) WithinBudget(b Brand) bool {
	return c.DailySpend <= b.DailyBudget && c.MonthlySpend <= b.MonthlyBudget
}

// DueForCheck reports whether the campaign should be re-checked at now,
// given the process-wide default interval. The per-campaign frequency
// override wins when present; a campaign that was never checked is
// immediately due.
func (c Campaign) DueForCheck(now time.Time, defaultInterval time.Duration) bool {
	interval := defaultInterval
	if c.CheckFrequency != nil {
		interval = *c.CheckFrequency
	}
	if c.LastBudgetCheck == nil {
		return true
	}
	return !now.Before(c.LastBudgetCheck.Add(interval))
}

// StatusChange is one campaign status transition, kept as an audit trail
// next to the spend ledger.
type StatusChange struct {
	ID         int64
	CampaignID int64
	OldStatus  bool
	NewStatus  bool
	Reason     string
	CreatedAt  time.Time
}

// DayOf truncates t to its UTC calendar date, the granularity of the
// daily reset marker.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthOf returns the first day of t's UTC month, the granularity of the
// monthly reset marker.
func MonthOf(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
