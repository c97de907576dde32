package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"adledger/internal/core/port"
)

// CheckAndPauseBudgets sweeps active campaigns in fixed-size pages and
// re-checks each one that is due per its check frequency. The last-check
// stamp is advanced whether or not the campaign was paused: the throttle
// bounds how often the sweep touches a row, it never suppresses an
// eventual pause because every ingested spend re-checks independently.
// A row failure is counted and logged, and the sweep moves on.
func (e *Enforcer) CheckAndPauseBudgets(ctx context.Context) (port.RunSummary, error) {
	sum := e.newSummary("check_and_pause_budgets")
	now := e.now()

	var afterID int64
	for {
		page, err := e.store.ActiveCampaignPage(ctx, afterID, e.pageSize)
		if err != nil {
			sum.Errors++
			return sum, fmt.Errorf("list active campaigns: %w", err)
		}
		if len(page) == 0 {
			break
		}
		for _, v := range page {
			afterID = v.Campaign.ID
			sum.Processed++
			if !v.Campaign.DueForCheck(now, e.checkInterval) {
				continue
			}
			paused, err := e.store.RecheckBudget(ctx, v.Campaign.ID, now)
			if err != nil {
				sum.Errors++
				e.logger.Error("budget recheck failed",
					slog.Int64("campaign_id", v.Campaign.ID),
					slog.Any("error", err),
				)
				continue
			}
			if paused {
				sum.Paused++
				e.logger.Info("campaign paused",
					slog.String("event", "paused_budget"),
					slog.Int64("campaign_id", v.Campaign.ID),
					slog.String("brand", v.Brand.Name),
				)
			}
		}
		if len(page) < e.pageSize {
			break
		}
	}
	e.logSummary(sum)
	return sum, nil
}
