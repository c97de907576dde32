package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"adledger/internal/core/domain"
	"adledger/internal/core/port"
)

// ResetDailySpend zeroes the daily counter of every campaign whose marker
// is not today's UTC date, reactivating campaigns that are back within
// both budgets. Each campaign is its own atomic unit; replays find the
// marker stamped and change nothing.
func (e *Enforcer) ResetDailySpend(ctx context.Context) (port.RunSummary, error) {
	sum := e.newSummary("reset_daily_spend")
	day := domain.DayOf(e.now())

	ids, err := e.store.CampaignsForDailyReset(ctx, day)
	if err != nil {
		sum.Errors++
		return sum, fmt.Errorf("list campaigns for daily reset: %w", err)
	}
	for _, id := range ids {
		sum.Processed++
		out, err := e.store.ResetDaily(ctx, id, day)
		if err != nil {
			sum.Errors++
			e.logger.Error("daily reset failed",
				slog.Int64("campaign_id", id),
				slog.Any("error", err),
			)
			continue
		}
		e.recordResetOutcome(ctx, &sum, out, "daily", day)
	}
	e.logSummary(sum)
	return sum, nil
}

// ResetMonthlySpend is ResetDailySpend's monthly counterpart, keyed on the
// first day of the current UTC month.
func (e *Enforcer) ResetMonthlySpend(ctx context.Context) (port.RunSummary, error) {
	sum := e.newSummary("reset_monthly_spend")
	month := domain.MonthOf(e.now())

	ids, err := e.store.CampaignsForMonthlyReset(ctx, month)
	if err != nil {
		sum.Errors++
		return sum, fmt.Errorf("list campaigns for monthly reset: %w", err)
	}
	for _, id := range ids {
		sum.Processed++
		out, err := e.store.ResetMonthly(ctx, id, month)
		if err != nil {
			sum.Errors++
			e.logger.Error("monthly reset failed",
				slog.Int64("campaign_id", id),
				slog.Any("error", err),
			)
			continue
		}
		e.recordResetOutcome(ctx, &sum, out, "monthly", month)
	}
	e.logSummary(sum)
	return sum, nil
}

// recordResetOutcome folds one per-campaign reset into the run summary and
// appends the audit ledger entry when spend was actually cleared. The
// audit write is best-effort: a failure is logged and swallowed, never
// blocking or unwinding the committed reset.
func (e *Enforcer) recordResetOutcome(ctx context.Context, sum *port.RunSummary, out *port.ResetOutcome, kind string, marker time.Time) {
	if !out.Reset {
		return
	}
	sum.Reset++
	if out.Reactivated {
		sum.Reactivated++
		e.logger.Info("campaign reactivated",
			slog.String("event", "reactivated"),
			slog.String("reset_type", kind),
			slog.Int64("campaign_id", out.Campaign.ID),
		)
	}
	if out.SpendBefore <= 0 {
		return
	}

	var rec *domain.SpendRecord
	if kind == "daily" {
		rec = domain.NewDailyResetRecord(out.Campaign.ID, out.SpendBefore, out.Campaign.MonthlySpend)
	} else {
		rec = domain.NewMonthlyResetRecord(out.Campaign.ID, out.SpendBefore, out.Campaign.DailySpend)
	}
	rec.ReferenceID = fmt.Sprintf("%s_reset_%s", kind, marker.Format("2006-01-02"))
	rec.Description = fmt.Sprintf("%s spend reset from %d to 0", kind, out.SpendBefore)
	if err := e.store.AppendSpendRecord(ctx, rec); err != nil {
		e.logger.Error("reset audit record failed",
			slog.Int64("campaign_id", out.Campaign.ID),
			slog.String("reset_type", kind),
			slog.Any("error", err),
		)
	}
}
