package port

import (
	"context"
	"errors"
	"time"

	"adledger/internal/core/domain"
)

var (
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrRecordNotFound   = errors.New("spend record not found")
	// ErrConflict signals lock contention on a campaign row. The operation
	// did not happen and may be retried.
	ErrConflict = errors.New("campaign row is locked by a concurrent operation")
)

// CampaignView couples a campaign with the brand budgets it is enforced
// against, and the dayparting schedule when one is attached.
type CampaignView struct {
	Campaign domain.Campaign
	Brand    domain.Brand
	Schedule *domain.DaypartingSchedule
}

// SpendInput describes one spend event to ingest.
type SpendInput struct {
	CampaignID  int64
	Amount      int64
	Type        domain.SpendType
	Source      domain.SpendSource
	CreatedBy   string
	ReferenceID string
	Description string
}

// SpendOutcome reports a completed ingest: the appended ledger entry, the
// counters after the addition, and whether this event pushed the campaign
// over budget and paused it.
type SpendOutcome struct {
	Record       domain.SpendRecord
	DailySpend   int64
	MonthlySpend int64
	Paused       bool
}

// ResetOutcome reports one per-campaign reset attempt.
type ResetOutcome struct {
	// Reset is false when the campaign's marker already matched the
	// period, i.e. a replayed invocation that changed nothing.
	Reset       bool
	Reactivated bool
	// SpendBefore is the counter value captured before zeroing, used for
	// the best-effort audit record.
	SpendBefore int64
	// Campaign is the post-reset state.
	Campaign domain.Campaign
}

// RecordQuery filters a ledger listing.
type RecordQuery struct {
	CampaignID *int64
	From       time.Time
	To         time.Time
	Limit      int
}

// CampaignStore is the outbound port to the persistent store. It is an
// operation-level contract: implementations must execute every mutating
// method as one atomic unit holding an exclusive lock on the campaign row
// for the duration of the read-modify-write, and must only ever update
// the named fields a method describes. Ledger entries are append-only.
type CampaignStore interface {
	// GetCampaign returns the campaign with its brand, or
	// ErrCampaignNotFound.
	GetCampaign(ctx context.Context, id int64) (*CampaignView, error)

	// RecordSpend atomically adds the amount to both spend counters,
	// appends a ledger entry carrying accurate before/after snapshots and,
	// in the same transaction, pauses the campaign when the addition
	// pushes a counter strictly over its budget. On any failure nothing is
	// persisted. No deduplication is performed; replayed events are
	// double-counted.
	RecordSpend(ctx context.Context, in SpendInput) (*SpendOutcome, error)

	// ActiveCampaignPage returns one fixed-size page of active campaigns
	// with their brands, ordered by id, starting after afterID. Keyset
	// paging keeps the sweep stable while rows flip inactive under it.
	ActiveCampaignPage(ctx context.Context, afterID int64, limit int) ([]CampaignView, error)

	// RecheckBudget re-evaluates one campaign against its brand budgets,
	// pausing it on exceedance, and stamps last_budget_check with now
	// whether or not a pause occurred. It reports whether a transition to
	// paused happened.
	RecheckBudget(ctx context.Context, campaignID int64, now time.Time) (bool, error)

	// CampaignsForDailyReset returns ids of campaigns whose daily reset
	// marker differs from day (a UTC date).
	CampaignsForDailyReset(ctx context.Context, day time.Time) ([]int64, error)

	// ResetDaily zeroes the daily counter and stamps the marker for one
	// campaign, reactivating it when it is inactive and both budgets hold
	// after the reset. A campaign already marked for day is left untouched
	// and reported with Reset=false.
	ResetDaily(ctx context.Context, campaignID int64, day time.Time) (*ResetOutcome, error)

	// CampaignsForMonthlyReset returns ids of campaigns whose monthly
	// reset marker differs from month (the first day of a UTC month).
	CampaignsForMonthlyReset(ctx context.Context, month time.Time) ([]int64, error)

	// ResetMonthly is ResetDaily's monthly counterpart.
	ResetMonthly(ctx context.Context, campaignID int64, month time.Time) (*ResetOutcome, error)

	// DaypartedCampaigns returns every campaign holding a dayparting
	// schedule, with brand and window attached.
	DaypartedCampaigns(ctx context.Context) ([]CampaignView, error)

	// PauseCampaign deactivates an active campaign, recording the reason
	// in the status history. It reports whether a transition happened;
	// pausing an already paused campaign is a no-op.
	PauseCampaign(ctx context.Context, campaignID int64, reason string) (bool, error)

	// ReactivateIfEligible activates an inactive campaign only when both
	// counters are within their budgets at that instant, recording the
	// reason in the status history. It reports whether a transition
	// happened.
	ReactivateIfEligible(ctx context.Context, campaignID int64, reason string) (bool, error)

	// AppendSpendRecord appends a ledger entry outside the ingest path,
	// such as a reset audit record. Counters are not touched.
	AppendSpendRecord(ctx context.Context, rec *domain.SpendRecord) error

	// ListSpendRecords returns ledger entries matching the query, newest
	// first.
	ListSpendRecords(ctx context.Context, q RecordQuery) ([]domain.SpendRecord, error)

	// GetSpendRecord returns one ledger entry, or ErrRecordNotFound.
	GetSpendRecord(ctx context.Context, id int64) (*domain.SpendRecord, error)

	// UpdateSpendRecordDescription changes the description of an existing
	// ledger entry, the single mutable field of a spend record.
	UpdateSpendRecordDescription(ctx context.Context, id int64, description string) error
}
