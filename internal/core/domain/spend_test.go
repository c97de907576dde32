package domain

import (
	"errors"
	"testing"
)

func TestNewSpendRecord(t *testing.T) {
	rec, err := NewSpendRecord(7, 25, SpendClick, SourceAPI, 100, 900)
	if err != nil {
		t.Fatalf("NewSpendRecord error: %v", err)
	}
	if rec.DailyAfter != 125 || rec.MonthlyAfter != 925 {
		t.Fatalf("after snapshots = %d/%d, want 125/925", rec.DailyAfter, rec.MonthlyAfter)
	}

	// empty source falls back to system
	rec, err = NewSpendRecord(7, 0, SpendImpression, "", 0, 0)
	if err != nil {
		t.Fatalf("NewSpendRecord error: %v", err)
	}
	if rec.Source != SourceSystem {
		t.Fatalf("source = %q, want %q", rec.Source, SourceSystem)
	}

	if _, err = NewSpendRecord(7, -1, SpendImpression, SourceSystem, 0, 0); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("negative amount: got %v, want ErrNegativeAmount", err)
	}
	if _, err = NewSpendRecord(7, 1, "refund", SourceSystem, 0, 0); !errors.Is(err, ErrUnknownSpendType) {
		t.Fatalf("unknown type: got %v, want ErrUnknownSpendType", err)
	}
	if _, err = NewSpendRecord(7, 1, SpendImpression, "carrier-pigeon", 0, 0); !errors.Is(err, ErrUnknownSpendSource) {
		t.Fatalf("unknown source: got %v, want ErrUnknownSpendSource", err)
	}
}

func TestResetRecords(t *testing.T) {
	daily := NewDailyResetRecord(3, 400, 1500)
	if daily.Type != SpendBudgetReset || daily.Amount != 400 {
		t.Fatalf("unexpected daily reset record: %+v", daily)
	}
	if daily.DailyBefore != 400 || daily.DailyAfter != 0 {
		t.Fatalf("daily snapshots = %d->%d, want 400->0", daily.DailyBefore, daily.DailyAfter)
	}
	if daily.MonthlyBefore != 1500 || daily.MonthlyAfter != 1500 {
		t.Fatal("daily reset must leave monthly snapshots untouched")
	}

	monthly := NewMonthlyResetRecord(3, 1500, 400)
	if monthly.MonthlyBefore != 1500 || monthly.MonthlyAfter != 0 {
		t.Fatalf("monthly snapshots = %d->%d, want 1500->0", monthly.MonthlyBefore, monthly.MonthlyAfter)
	}
	if monthly.DailyBefore != 400 || monthly.DailyAfter != 400 {
		t.Fatal("monthly reset must leave daily snapshots untouched")
	}
}
