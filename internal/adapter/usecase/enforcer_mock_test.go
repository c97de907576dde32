package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"adledger/internal/core/domain"
	"adledger/internal/core/port"
	"adledger/internal/core/port/mocks"
)

// TestCheckSweepIsolatesRowFailures ensures one failing row is counted and
// skipped without aborting the sweep.
func TestCheckSweepIsolatesRowFailures(t *testing.T) {
	store := &mocks.CampaignStore{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := NewEnforcer(store, logger, 15*time.Minute, 100)

	page := []port.CampaignView{
		{Campaign: domain.Campaign{ID: 1, IsActive: true}},
		{Campaign: domain.Campaign{ID: 2, IsActive: true}},
	}
	store.On("ActiveCampaignPage", mock.Anything, int64(0), 100).Return(page, nil).Once()
	store.On("RecheckBudget", mock.Anything, int64(1), mock.AnythingOfType("time.Time")).
		Return(false, errors.New("row lock timeout"))
	store.On("RecheckBudget", mock.Anything, int64(2), mock.AnythingOfType("time.Time")).
		Return(true, nil)

	sum, err := e.CheckAndPauseBudgets(context.Background())
	if err != nil {
		t.Fatalf("CheckAndPauseBudgets error: %v", err)
	}
	if sum.Processed != 2 || sum.Paused != 1 || sum.Errors != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	store.AssertExpectations(t)
}

// TestResetAuditFailureIsSwallowed ensures a failed audit append never
// unwinds or fails the committed reset.
func TestResetAuditFailureIsSwallowed(t *testing.T) {
	store := &mocks.CampaignStore{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := NewEnforcer(store, logger, 15*time.Minute, 100)

	store.On("CampaignsForDailyReset", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]int64{1}, nil)
	store.On("ResetDaily", mock.Anything, int64(1), mock.AnythingOfType("time.Time")).
		Return(&port.ResetOutcome{
			Reset:       true,
			SpendBefore: 40,
			Campaign:    domain.Campaign{ID: 1, MonthlySpend: 40},
		}, nil)
	store.On("AppendSpendRecord", mock.Anything, mock.AnythingOfType("*domain.SpendRecord")).
		Return(errors.New("ledger unavailable"))

	sum, err := e.ResetDailySpend(context.Background())
	if err != nil {
		t.Fatalf("ResetDailySpend error: %v", err)
	}
	if sum.Reset != 1 || sum.Errors != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	store.AssertExpectations(t)
}
