package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"adledger/internal/core/domain"
	"adledger/internal/core/port"
)

// IngestSpend records a single spend event. The counter update, the ledger
// append and the budget enforcement happen in one atomic store operation,
// so an event that crosses a budget pauses the campaign in the same unit
// that recorded it. No deduplication happens here; the caller must deliver
// each event at most once or it will be double-counted.
func (e *Enforcer) IngestSpend(ctx context.Context, in port.SpendInput) (*port.SpendOutcome, error) {
	if in.Amount < 0 {
		return nil, domain.ErrNegativeAmount
	}
	if in.Type == "" {
		in.Type = domain.SpendImpression
	}
	if !in.Type.Valid() {
		return nil, domain.ErrUnknownSpendType
	}
	if in.Source == "" {
		in.Source = domain.SourceSystem
	}
	if !in.Source.Valid() {
		return nil, domain.ErrUnknownSpendSource
	}

	out, err := e.store.RecordSpend(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("record spend for campaign %d: %w", in.CampaignID, err)
	}
	if out.Paused {
		e.logger.Info("campaign paused",
			slog.String("event", "paused_budget"),
			slog.Int64("campaign_id", in.CampaignID),
			slog.Int64("daily_spend", out.DailySpend),
			slog.Int64("monthly_spend", out.MonthlySpend),
		)
	}
	return out, nil
}

// AnnotateSpendRecord updates the free-text description of a ledger entry,
// the only field that may change after a record is written.
func (e *Enforcer) AnnotateSpendRecord(ctx context.Context, id int64, description string) error {
	if err := e.store.UpdateSpendRecordDescription(ctx, id, description); err != nil {
		return fmt.Errorf("annotate spend record %d: %w", id, err)
	}
	return nil
}
