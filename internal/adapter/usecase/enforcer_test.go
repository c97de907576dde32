package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"adledger/internal/adapter/memory"
	"adledger/internal/core/domain"
	"adledger/internal/core/port"
)

func newTestEngine(t *testing.T) (*Enforcer, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEnforcer(store, logger, 15*time.Minute, 100), store
}

func allRecords(t *testing.T, store *memory.Store) []domain.SpendRecord {
	t.Helper()
	recs, err := store.ListSpendRecords(context.Background(), port.RecordQuery{
		To:    time.Now().Add(time.Hour),
		Limit: 1000,
	})
	if err != nil {
		t.Fatalf("ListSpendRecords error: %v", err)
	}
	return recs
}

func TestIngestSpendLedgerAndPause(t *testing.T) {
	e, store := newTestEngine(t)
	brandID := store.AddBrand(domain.Brand{Name: "b", DailyBudget: 100, MonthlyBudget: 1000})
	campaignID := store.AddCampaign(domain.Campaign{BrandID: brandID, IsActive: true})
	ctx := context.Background()

	out, err := e.IngestSpend(ctx, port.SpendInput{CampaignID: campaignID, Amount: 50})
	if err != nil {
		t.Fatalf("IngestSpend error: %v", err)
	}
	if out.DailySpend != 50 || out.MonthlySpend != 50 || out.Paused {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Record.DailyBefore != 0 || out.Record.DailyAfter != 50 {
		t.Fatalf("snapshots = %d->%d, want 0->50", out.Record.DailyBefore, out.Record.DailyAfter)
	}
	if out.Record.Type != domain.SpendImpression || out.Record.Source != domain.SourceSystem {
		t.Fatalf("defaults not applied: %+v", out.Record)
	}

	// second event crosses the daily budget and pauses in the same operation
	out, err = e.IngestSpend(ctx, port.SpendInput{CampaignID: campaignID, Amount: 60})
	if err != nil {
		t.Fatalf("IngestSpend error: %v", err)
	}
	if out.DailySpend != 110 || !out.Paused {
		t.Fatalf("expected pause at 110/100, got %+v", out)
	}

	view, err := store.GetCampaign(ctx, campaignID)
	if err != nil {
		t.Fatalf("GetCampaign error: %v", err)
	}
	if view.Campaign.IsActive {
		t.Fatal("campaign should be paused")
	}
	if recs := allRecords(t, store); len(recs) != 2 {
		t.Fatalf("ledger has %d entries, want 2", len(recs))
	}
	hist := store.History()
	if len(hist) != 1 || hist[0].Reason != domain.ReasonBudgetExceeded {
		t.Fatalf("unexpected status history: %+v", hist)
	}
}

func TestIngestSpendValidation(t *testing.T) {
	e, store := newTestEngine(t)
	brandID := store.AddBrand(domain.Brand{DailyBudget: 100, MonthlyBudget: 1000})
	campaignID := store.AddCampaign(domain.Campaign{BrandID: brandID, IsActive: true})
	ctx := context.Background()

	if _, err := e.IngestSpend(ctx, port.SpendInput{CampaignID: campaignID, Amount: -5}); !errors.Is(err, domain.ErrNegativeAmount) {
		t.Fatalf("negative amount: got %v", err)
	}
	if _, err := e.IngestSpend(ctx, port.SpendInput{CampaignID: campaignID, Amount: 1, Type: "refund"}); !errors.Is(err, domain.ErrUnknownSpendType) {
		t.Fatalf("unknown type: got %v", err)
	}
	if _, err := e.IngestSpend(ctx, port.SpendInput{CampaignID: campaignID, Amount: 1, Source: "fax"}); !errors.Is(err, domain.ErrUnknownSpendSource) {
		t.Fatalf("unknown source: got %v", err)
	}
	if _, err := e.IngestSpend(ctx, port.SpendInput{CampaignID: 404, Amount: 1}); !errors.Is(err, port.ErrCampaignNotFound) {
		t.Fatalf("unknown campaign: got %v", err)
	}
	if recs := allRecords(t, store); len(recs) != 0 {
		t.Fatalf("rejected events must not reach the ledger, found %d entries", len(recs))
	}
}

func TestResetDailyIdempotent(t *testing.T) {
	e, store := newTestEngine(t)
	brandID := store.AddBrand(domain.Brand{DailyBudget: 1000, MonthlyBudget: 10000})
	campaignID := store.AddCampaign(domain.Campaign{BrandID: brandID, IsActive: true, DailySpend: 70, MonthlySpend: 70})
	ctx := context.Background()

	sum, err := e.ResetDailySpend(ctx)
	if err != nil {
		t.Fatalf("ResetDailySpend error: %v", err)
	}
	if sum.Processed != 1 || sum.Reset != 1 {
		t.Fatalf("first run: %+v", sum)
	}
	view, _ := store.GetCampaign(ctx, campaignID)
	if view.Campaign.DailySpend != 0 || view.Campaign.MonthlySpend != 70 {
		t.Fatalf("counters after reset: %d/%d, want 0/70", view.Campaign.DailySpend, view.Campaign.MonthlySpend)
	}

	recs := allRecords(t, store)
	if len(recs) != 1 || recs[0].Type != domain.SpendBudgetReset {
		t.Fatalf("expected one budget_reset audit entry, got %+v", recs)
	}
	if recs[0].DailyBefore != 70 || recs[0].DailyAfter != 0 {
		t.Fatalf("audit snapshots = %d->%d, want 70->0", recs[0].DailyBefore, recs[0].DailyAfter)
	}

	// replay within the same day is a no-op
	sum, err = e.ResetDailySpend(ctx)
	if err != nil {
		t.Fatalf("ResetDailySpend error: %v", err)
	}
	if sum.Processed != 0 || sum.Reset != 0 {
		t.Fatalf("replay run: %+v", sum)
	}
	if recs = allRecords(t, store); len(recs) != 1 {
		t.Fatalf("replay appended audit entries: %d", len(recs))
	}
}

func TestResetReactivationRequiresBothBudgets(t *testing.T) {
	e, store := newTestEngine(t)
	brandID := store.AddBrand(domain.Brand{DailyBudget: 100, MonthlyBudget: 1000})
	campaignID := store.AddCampaign(domain.Campaign{BrandID: brandID, IsActive: false, DailySpend: 150, MonthlySpend: 1200})
	ctx := context.Background()

	// daily reset clears one counter but the monthly one still exceeds
	sum, err := e.ResetDailySpend(ctx)
	if err != nil {
		t.Fatalf("ResetDailySpend error: %v", err)
	}
	if sum.Reactivated != 0 {
		t.Fatalf("campaign reactivated while over monthly budget: %+v", sum)
	}
	view, _ := store.GetCampaign(ctx, campaignID)
	if view.Campaign.IsActive {
		t.Fatal("campaign must stay paused until both budgets hold")
	}

	sum, err = e.ResetMonthlySpend(ctx)
	if err != nil {
		t.Fatalf("ResetMonthlySpend error: %v", err)
	}
	if sum.Reactivated != 1 {
		t.Fatalf("expected reactivation after monthly reset: %+v", sum)
	}
	view, _ = store.GetCampaign(ctx, campaignID)
	if !view.Campaign.IsActive {
		t.Fatal("campaign should be active again")
	}
}

func TestCheckAndPauseBudgets(t *testing.T) {
	e, store := newTestEngine(t)
	brandID := store.AddBrand(domain.Brand{DailyBudget: 100, MonthlyBudget: 1000})

	overID := store.AddCampaign(domain.Campaign{BrandID: brandID, IsActive: true, DailySpend: 150})
	recent := time.Now()
	throttledID := store.AddCampaign(domain.Campaign{
		BrandID: brandID, IsActive: true, DailySpend: 150,
		LastBudgetCheck: &recent,
	})
	ctx := context.Background()

	sum, err := e.CheckAndPauseBudgets(ctx)
	if err != nil {
		t.Fatalf("CheckAndPauseBudgets error: %v", err)
	}
	if sum.Processed != 2 || sum.Paused != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	view, _ := store.GetCampaign(ctx, overID)
	if view.Campaign.IsActive {
		t.Fatal("due over-budget campaign should be paused")
	}
	// recently checked campaign was skipped by the throttle even though it
	// is over budget; ingest-time checks still cover it
	view, _ = store.GetCampaign(ctx, throttledID)
	if !view.Campaign.IsActive {
		t.Fatal("throttled campaign must not be re-checked yet")
	}
}

func TestEnforceDayparting(t *testing.T) {
	e, store := newTestEngine(t)
	// 2026-01-05 02:00 UTC is a Monday inside a 22:00-06:00 window.
	now := time.Date(2026, 1, 5, 2, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return now }

	brandID := store.AddBrand(domain.Brand{DailyBudget: 100, MonthlyBudget: 1000})
	overnight := store.AddSchedule(domain.DaypartingSchedule{Window: domain.Window{
		Start: domain.NewTimeOfDay(22, 0),
		End:   domain.NewTimeOfDay(6, 0),
		Days:  domain.Weekdays(0).With(time.Monday),
	}})
	business := store.AddSchedule(domain.DaypartingSchedule{Window: domain.Window{
		Start: domain.NewTimeOfDay(9, 0),
		End:   domain.NewTimeOfDay(17, 0),
		Days:  domain.Weekdays(0).With(time.Monday),
	}})

	insideActiveID := store.AddCampaign(domain.Campaign{BrandID: brandID, IsActive: true, ScheduleID: &overnight})
	outsideActiveID := store.AddCampaign(domain.Campaign{BrandID: brandID, IsActive: true, ScheduleID: &business})
	insideInactiveID := store.AddCampaign(domain.Campaign{BrandID: brandID, IsActive: false, ScheduleID: &overnight})
	insideOverBudgetID := store.AddCampaign(domain.Campaign{BrandID: brandID, IsActive: false, ScheduleID: &overnight, DailySpend: 150})
	ctx := context.Background()

	sum, err := e.EnforceDayparting(ctx)
	if err != nil {
		t.Fatalf("EnforceDayparting error: %v", err)
	}
	if sum.Processed != 4 || sum.Paused != 1 || sum.Reactivated != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	for _, tc := range []struct {
		id     int64
		active bool
	}{
		{insideActiveID, true},
		{outsideActiveID, false},
		{insideInactiveID, true},
		{insideOverBudgetID, false},
	} {
		view, _ := store.GetCampaign(ctx, tc.id)
		if view.Campaign.IsActive != tc.active {
			t.Fatalf("campaign %d active = %v, want %v", tc.id, view.Campaign.IsActive, tc.active)
		}
	}
}
