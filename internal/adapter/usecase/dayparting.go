package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"adledger/internal/core/domain"
	"adledger/internal/core/port"
)

// EnforceDayparting sweeps every campaign holding a schedule. Campaigns
// outside their run window are paused; inactive campaigns inside their
// window are reactivated only when both counters are within budget at that
// instant (the store re-verifies under the row lock). Transitions that
// already match the current state are no-ops.
func (e *Enforcer) EnforceDayparting(ctx context.Context) (port.RunSummary, error) {
	sum := e.newSummary("enforce_dayparting")
	now := e.now()

	views, err := e.store.DaypartedCampaigns(ctx)
	if err != nil {
		sum.Errors++
		return sum, fmt.Errorf("list dayparted campaigns: %w", err)
	}
	for _, v := range views {
		sum.Processed++
		if v.Schedule == nil {
			continue
		}
		window := v.Schedule.Window
		if err := window.Validate(); err != nil {
			sum.Errors++
			e.logger.Error("invalid dayparting window",
				slog.Int64("campaign_id", v.Campaign.ID),
				slog.Int64("schedule_id", v.Schedule.ID),
				slog.Any("error", err),
			)
			continue
		}

		if window.Contains(now) {
			if v.Campaign.IsActive {
				continue
			}
			reactivated, err := e.store.ReactivateIfEligible(ctx, v.Campaign.ID, domain.ReasonDayparting)
			if err != nil {
				sum.Errors++
				e.logger.Error("dayparting reactivation failed",
					slog.Int64("campaign_id", v.Campaign.ID),
					slog.Any("error", err),
				)
				continue
			}
			if reactivated {
				sum.Reactivated++
				e.logger.Info("campaign reactivated",
					slog.String("event", "reactivated_dayparting"),
					slog.Int64("campaign_id", v.Campaign.ID),
					slog.String("window", fmt.Sprintf("%s %s-%s", window.Days, window.Start, window.End)),
				)
			}
			continue
		}

		if !v.Campaign.IsActive {
			continue
		}
		paused, err := e.store.PauseCampaign(ctx, v.Campaign.ID, domain.ReasonDayparting)
		if err != nil {
			sum.Errors++
			e.logger.Error("dayparting pause failed",
				slog.Int64("campaign_id", v.Campaign.ID),
				slog.Any("error", err),
			)
			continue
		}
		if paused {
			sum.Paused++
			e.logger.Info("campaign paused",
				slog.String("event", "paused_dayparting"),
				slog.Int64("campaign_id", v.Campaign.ID),
				slog.String("window", fmt.Sprintf("%s %s-%s", window.Days, window.Start, window.End)),
			)
		}
	}
	e.logSummary(sum)
	return sum, nil
}
