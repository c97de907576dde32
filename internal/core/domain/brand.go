package domain

// Brand represents an advertiser that owns campaigns and the budgets they
// are enforced against. Amounts are stored in integer minor units (e.g.
// cents). Budgets are managed by external workflows and are read-only to
// the enforcement engine.
type Brand struct {
	ID            int64
	Name          string
	DailyBudget   int64
	MonthlyBudget int64
}
