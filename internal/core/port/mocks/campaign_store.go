// Package mocks provides a testify mock of the CampaignStore port for
// interaction-level tests.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"adledger/internal/core/domain"
	"adledger/internal/core/port"
)

// CampaignStore mocks port.CampaignStore.
type CampaignStore struct {
	mock.Mock
}

func (m *CampaignStore) GetCampaign(ctx context.Context, id int64) (*port.CampaignView, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*port.CampaignView)
	return v, args.Error(1)
}

func (m *CampaignStore) RecordSpend(ctx context.Context, in port.SpendInput) (*port.SpendOutcome, error) {
	args := m.Called(ctx, in)
	v, _ := args.Get(0).(*port.SpendOutcome)
	return v, args.Error(1)
}

func (m *CampaignStore) ActiveCampaignPage(ctx context.Context, afterID int64, limit int) ([]port.CampaignView, error) {
	args := m.Called(ctx, afterID, limit)
	v, _ := args.Get(0).([]port.CampaignView)
	return v, args.Error(1)
}

func (m *CampaignStore) RecheckBudget(ctx context.Context, campaignID int64, now time.Time) (bool, error) {
	args := m.Called(ctx, campaignID, now)
	return args.Bool(0), args.Error(1)
}

func (m *CampaignStore) CampaignsForDailyReset(ctx context.Context, day time.Time) ([]int64, error) {
	args := m.Called(ctx, day)
	v, _ := args.Get(0).([]int64)
	return v, args.Error(1)
}

func (m *CampaignStore) ResetDaily(ctx context.Context, campaignID int64, day time.Time) (*port.ResetOutcome, error) {
	args := m.Called(ctx, campaignID, day)
	v, _ := args.Get(0).(*port.ResetOutcome)
	return v, args.Error(1)
}

func (m *CampaignStore) CampaignsForMonthlyReset(ctx context.Context, month time.Time) ([]int64, error) {
	args := m.Called(ctx, month)
	v, _ := args.Get(0).([]int64)
	return v, args.Error(1)
}

func (m *CampaignStore) ResetMonthly(ctx context.Context, campaignID int64, month time.Time) (*port.ResetOutcome, error) {
	args := m.Called(ctx, campaignID, month)
	v, _ := args.Get(0).(*port.ResetOutcome)
	return v, args.Error(1)
}

func (m *CampaignStore) DaypartedCampaigns(ctx context.Context) ([]port.CampaignView, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]port.CampaignView)
	return v, args.Error(1)
}

func (m *CampaignStore) PauseCampaign(ctx context.Context, campaignID int64, reason string) (bool, error) {
	args := m.Called(ctx, campaignID, reason)
	return args.Bool(0), args.Error(1)
}

func (m *CampaignStore) ReactivateIfEligible(ctx context.Context, campaignID int64, reason string) (bool, error) {
	args := m.Called(ctx, campaignID, reason)
	return args.Bool(0), args.Error(1)
}

func (m *CampaignStore) AppendSpendRecord(ctx context.Context, rec *domain.SpendRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *CampaignStore) ListSpendRecords(ctx context.Context, q port.RecordQuery) ([]domain.SpendRecord, error) {
	args := m.Called(ctx, q)
	v, _ := args.Get(0).([]domain.SpendRecord)
	return v, args.Error(1)
}

func (m *CampaignStore) GetSpendRecord(ctx context.Context, id int64) (*domain.SpendRecord, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*domain.SpendRecord)
	return v, args.Error(1)
}

func (m *CampaignStore) UpdateSpendRecordDescription(ctx context.Context, id int64, description string) error {
	args := m.Called(ctx, id, description)
	return args.Error(0)
}
