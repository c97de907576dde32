package memory

import (
	"context"
	"testing"
	"time"

	"adledger/internal/core/domain"
	"adledger/internal/core/port"
)

func TestActiveCampaignPageKeyset(t *testing.T) {
	store := NewStore()
	brandID := store.AddBrand(domain.Brand{DailyBudget: 100, MonthlyBudget: 1000})
	for i := 0; i < 5; i++ {
		store.AddCampaign(domain.Campaign{BrandID: brandID, IsActive: true})
	}
	ctx := context.Background()

	page, err := store.ActiveCampaignPage(ctx, 0, 2)
	if err != nil {
		t.Fatalf("ActiveCampaignPage error: %v", err)
	}
	if len(page) != 2 || page[0].Campaign.ID != 1 || page[1].Campaign.ID != 2 {
		t.Fatalf("first page: %+v", page)
	}

	// pausing an already-visited row must not shift later pages
	if _, err = store.PauseCampaign(ctx, 1, domain.ReasonBudgetExceeded); err != nil {
		t.Fatalf("PauseCampaign error: %v", err)
	}
	page, err = store.ActiveCampaignPage(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ActiveCampaignPage error: %v", err)
	}
	if len(page) != 2 || page[0].Campaign.ID != 3 || page[1].Campaign.ID != 4 {
		t.Fatalf("second page: %+v", page)
	}
}

func TestListSpendRecordsNewestFirst(t *testing.T) {
	store := NewStore()
	brandID := store.AddBrand(domain.Brand{DailyBudget: 1000, MonthlyBudget: 10000})
	campaignID := store.AddCampaign(domain.Campaign{BrandID: brandID, IsActive: true})
	ctx := context.Background()

	// freeze the clock so records share a timestamp and order falls back
	// to ids
	ts := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return ts }
	for i := 0; i < 3; i++ {
		if _, err := store.RecordSpend(ctx, port.SpendInput{
			CampaignID: campaignID, Amount: 1, Type: domain.SpendImpression, Source: domain.SourceSystem,
		}); err != nil {
			t.Fatalf("RecordSpend error: %v", err)
		}
	}

	recs, err := store.ListSpendRecords(ctx, port.RecordQuery{From: ts.Add(-time.Hour), To: ts.Add(time.Hour)})
	if err != nil {
		t.Fatalf("ListSpendRecords error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	for i, want := range []int64{3, 2, 1} {
		if recs[i].ID != want {
			t.Fatalf("order = [%d %d %d], want [3 2 1]", recs[0].ID, recs[1].ID, recs[2].ID)
		}
	}

	recs, err = store.ListSpendRecords(ctx, port.RecordQuery{From: ts.Add(-time.Hour), To: ts.Add(time.Hour), Limit: 2})
	if err != nil {
		t.Fatalf("ListSpendRecords error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("limit ignored: got %d records", len(recs))
	}
}
