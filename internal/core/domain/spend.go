package domain

import "time"

// SpendType classifies a ledger entry.
type SpendType string

const (
	SpendImpression       SpendType = "impression"
	SpendClick            SpendType = "click"
	SpendManualAdjustment SpendType = "manual_adjustment"
	SpendBudgetReset      SpendType = "budget_reset"
	SpendSystemAdjustment SpendType = "system_adjustment"
)

// Valid reports whether t is a declared spend type.
func (t SpendType) Valid() bool {
	switch t {
	case SpendImpression, SpendClick, SpendManualAdjustment, SpendBudgetReset, SpendSystemAdjustment:
		return true
	}
	return false
}

// SpendSource identifies where a spend event originated.
type SpendSource string

const (
	SourceSystem SpendSource = "system"
	SourceManual SpendSource = "manual"
	SourceAPI    SpendSource = "api"
	SourceImport SpendSource = "import"
)

// Valid reports whether s is a declared spend source.
func (s SpendSource) Valid() bool {
	switch s {
	case SourceSystem, SourceManual, SourceAPI, SourceImport:
		return true
	}
	return false
}

// SpendRecord is one immutable entry in the spend ledger. Records are
// only ever appended; after creation the description is the single field
// that may still change. The before/after counter snapshots make each
// entry independently auditable against the campaign it charged.
type SpendRecord struct {
	ID          int64
	CampaignID  int64
	Amount      int64
	Type        SpendType
	Source      SpendSource
	CreatedBy   string
	ReferenceID string

	DailyBefore   int64
	DailyAfter    int64
	MonthlyBefore int64
	MonthlyAfter  int64

	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewSpendRecord validates and seals a ledger entry for a campaign whose
// counters currently read dailyBefore/monthlyBefore. The after snapshots
// are derived, never supplied.
func NewSpendRecord(campaignID, amount int64, typ SpendType, source SpendSource, dailyBefore, monthlyBefore int64) (*SpendRecord, error) {
	if amount < 0 {
		return nil, ErrNegativeAmount
	}
	if !typ.Valid() {
		return nil, ErrUnknownSpendType
	}
	if source == "" {
		source = SourceSystem
	}
	if !source.Valid() {
		return nil, ErrUnknownSpendSource
	}
	return &SpendRecord{
		CampaignID:    campaignID,
		Amount:        amount,
		Type:          typ,
		Source:        source,
		DailyBefore:   dailyBefore,
		DailyAfter:    dailyBefore + amount,
		MonthlyBefore: monthlyBefore,
		MonthlyAfter:  monthlyBefore + amount,
	}, nil
}

// NewDailyResetRecord seals a budget_reset entry documenting a zeroed
// daily counter: the daily snapshots go spendBefore to 0 while the monthly
// counter is untouched.
func NewDailyResetRecord(campaignID, spendBefore, monthlySpend int64) *SpendRecord {
	return &SpendRecord{
		CampaignID:    campaignID,
		Amount:        spendBefore,
		Type:          SpendBudgetReset,
		Source:        SourceSystem,
		CreatedBy:     "system",
		DailyBefore:   spendBefore,
		DailyAfter:    0,
		MonthlyBefore: monthlySpend,
		MonthlyAfter:  monthlySpend,
	}
}

// NewMonthlyResetRecord is NewDailyResetRecord's monthly counterpart.
func NewMonthlyResetRecord(campaignID, spendBefore, dailySpend int64) *SpendRecord {
	return &SpendRecord{
		CampaignID:    campaignID,
		Amount:        spendBefore,
		Type:          SpendBudgetReset,
		Source:        SourceSystem,
		CreatedBy:     "system",
		DailyBefore:   dailySpend,
		DailyAfter:    dailySpend,
		MonthlyBefore: spendBefore,
		MonthlyAfter:  0,
	}
}

// BudgetAdjustment logs a manual budget or spend intervention. It is
// written by administrative workflows, never by the enforcement engine;
// the type exists here because it shares the Campaign entity.
type BudgetAdjustment struct {
	ID         int64
	BrandID    *int64
	CampaignID *int64
	Amount     int64
	Reason     string
	AdjustedBy string
	CreatedAt  time.Time
}
