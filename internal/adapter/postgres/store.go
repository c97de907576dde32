package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adledger/internal/core/domain"
	"adledger/internal/core/port"
)

// Store implements port.CampaignStore on PostgreSQL via pgxpool. Every
// mutating method runs one transaction that locks the campaign row with
// SELECT ... FOR UPDATE before the read-modify-write, and updates only the
// columns it names. Spend records are append-only; nothing here deletes or
// rewrites ledger history.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a new store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// inTx runs fn inside a transaction, committing on success and rolling
// back on any failure so no partial mutation survives.
func (s *Store) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err = fn(tx); err != nil {
		return mapError(err)
	}
	if err = tx.Commit(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

const campaignColumns = `
    c.id, c.brand_id, c.name, c.daily_spend, c.monthly_spend, c.is_active,
    c.schedule_id, c.last_daily_reset, c.last_monthly_reset,
    c.check_frequency_seconds, c.last_budget_check, c.created_at, c.updated_at,
    b.id, b.name, b.daily_budget, b.monthly_budget`

// scanView scans the campaignColumns projection into a CampaignView.
func scanView(row pgx.Row) (port.CampaignView, error) {
	var (
		v        port.CampaignView
		freqSecs *int64
	)
	err := row.Scan(
		&v.Campaign.ID,
		&v.Campaign.BrandID,
		&v.Campaign.Name,
		&v.Campaign.DailySpend,
		&v.Campaign.MonthlySpend,
		&v.Campaign.IsActive,
		&v.Campaign.ScheduleID,
		&v.Campaign.LastDailyReset,
		&v.Campaign.LastMonthlyReset,
		&freqSecs,
		&v.Campaign.LastBudgetCheck,
		&v.Campaign.CreatedAt,
		&v.Campaign.UpdatedAt,
		&v.Brand.ID,
		&v.Brand.Name,
		&v.Brand.DailyBudget,
		&v.Brand.MonthlyBudget,
	)
	if err != nil {
		return v, err
	}
	if freqSecs != nil {
		d := time.Duration(*freqSecs) * time.Second
		v.Campaign.CheckFrequency = &d
	}
	return v, nil
}

// GetCampaign returns the campaign with its brand, or ErrCampaignNotFound.
func (s *Store) GetCampaign(ctx context.Context, id int64) (*port.CampaignView, error) {
	row := s.pool.QueryRow(ctx, `
        SELECT `+campaignColumns+`
        FROM campaigns c
        JOIN brands b ON b.id = c.brand_id
        WHERE c.id = $1`, id)
	v, err := scanView(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrCampaignNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &v, nil
}

// lockCounters takes the row lock on a campaign and returns its counters,
// active flag and brand budgets for the read-modify-write.
type lockedCampaign struct {
	dailySpend       int64
	monthlySpend     int64
	isActive         bool
	lastDailyReset   *time.Time
	lastMonthlyReset *time.Time
	dailyBudget      int64
	monthlyBudget    int64
}

func lockCampaign(ctx context.Context, tx pgx.Tx, id int64) (*lockedCampaign, error) {
	var lc lockedCampaign
	err := tx.QueryRow(ctx, `
        SELECT c.daily_spend, c.monthly_spend, c.is_active,
               c.last_daily_reset, c.last_monthly_reset,
               b.daily_budget, b.monthly_budget
        FROM campaigns c
        JOIN brands b ON b.id = c.brand_id
        WHERE c.id = $1
        FOR UPDATE OF c`, id).Scan(
		&lc.dailySpend, &lc.monthlySpend, &lc.isActive,
		&lc.lastDailyReset, &lc.lastMonthlyReset,
		&lc.dailyBudget, &lc.monthlyBudget,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lc, nil
}

func insertStatusChange(ctx context.Context, tx pgx.Tx, campaignID int64, oldStatus, newStatus bool, reason string) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO campaign_status_history (campaign_id, old_status, new_status, reason)
        VALUES ($1, $2, $3, $4)`, campaignID, oldStatus, newStatus, reason)
	return err
}

func insertSpendRecord(ctx context.Context, tx pgx.Tx, rec *domain.SpendRecord) error {
	return tx.QueryRow(ctx, `
        INSERT INTO spend_records
            (campaign_id, amount, type, source, created_by, reference_id,
             daily_before, daily_after, monthly_before, monthly_after, description)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`,
		rec.CampaignID, rec.Amount, rec.Type, rec.Source, rec.CreatedBy,
		rec.ReferenceID, rec.DailyBefore, rec.DailyAfter, rec.MonthlyBefore,
		rec.MonthlyAfter, rec.Description,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

// RecordSpend atomically updates both counters, appends the ledger entry
// and pauses the campaign when the addition crosses a budget. The whole
// unit commits or rolls back together.
func (s *Store) RecordSpend(ctx context.Context, in port.SpendInput) (*port.SpendOutcome, error) {
	var out port.SpendOutcome
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		lc, err := lockCampaign(ctx, tx, in.CampaignID)
		if err != nil {
			return err
		}
		rec, err := domain.NewSpendRecord(in.CampaignID, in.Amount, in.Type, in.Source, lc.dailySpend, lc.monthlySpend)
		if err != nil {
			return err
		}
		rec.CreatedBy = in.CreatedBy
		rec.ReferenceID = in.ReferenceID
		rec.Description = in.Description

		daily := lc.dailySpend + in.Amount
		monthly := lc.monthlySpend + in.Amount
		if _, err = tx.Exec(ctx, `
            UPDATE campaigns SET daily_spend = $1, monthly_spend = $2, updated_at = now()
            WHERE id = $3`, daily, monthly, in.CampaignID); err != nil {
			return err
		}
		if err = insertSpendRecord(ctx, tx, rec); err != nil {
			return err
		}

		after := domain.Campaign{DailySpend: daily, MonthlySpend: monthly}
		brand := domain.Brand{DailyBudget: lc.dailyBudget, MonthlyBudget: lc.monthlyBudget}
		if lc.isActive && after.OverBudget(brand) {
			if _, err = tx.Exec(ctx, `
                UPDATE campaigns SET is_active = FALSE, updated_at = now()
                WHERE id = $1`, in.CampaignID); err != nil {
				return err
			}
			if err = insertStatusChange(ctx, tx, in.CampaignID, true, false, domain.ReasonBudgetExceeded); err != nil {
				return err
			}
			out.Paused = true
		}
		out.Record = *rec
		out.DailySpend = daily
		out.MonthlySpend = monthly
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ActiveCampaignPage returns one page of active campaigns with brands,
// ordered by id, starting after afterID.
func (s *Store) ActiveCampaignPage(ctx context.Context, afterID int64, limit int) ([]port.CampaignView, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT `+campaignColumns+`
        FROM campaigns c
        JOIN brands b ON b.id = c.brand_id
        WHERE c.is_active AND c.id > $1
        ORDER BY c.id
        LIMIT $2`, afterID, limit)
	if err != nil {
		return nil, mapError(err)
	}
	views, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (port.CampaignView, error) {
		return scanView(row)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return views, nil
}

// RecheckBudget re-evaluates one campaign under its row lock and stamps
// last_budget_check whether or not a pause occurred.
func (s *Store) RecheckBudget(ctx context.Context, campaignID int64, now time.Time) (bool, error) {
	var paused bool
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		lc, err := lockCampaign(ctx, tx, campaignID)
		if err != nil {
			return err
		}
		c := domain.Campaign{DailySpend: lc.dailySpend, MonthlySpend: lc.monthlySpend}
		brand := domain.Brand{DailyBudget: lc.dailyBudget, MonthlyBudget: lc.monthlyBudget}
		if lc.isActive && c.OverBudget(brand) {
			if _, err = tx.Exec(ctx, `
                UPDATE campaigns SET is_active = FALSE, updated_at = now()
                WHERE id = $1`, campaignID); err != nil {
				return err
			}
			if err = insertStatusChange(ctx, tx, campaignID, true, false, domain.ReasonBudgetExceeded); err != nil {
				return err
			}
			paused = true
		}
		_, err = tx.Exec(ctx, `
            UPDATE campaigns SET last_budget_check = $1, updated_at = now()
            WHERE id = $2`, now, campaignID)
		return err
	})
	return paused, err
}

// CampaignsForDailyReset returns ids whose daily marker is not day.
func (s *Store) CampaignsForDailyReset(ctx context.Context, day time.Time) ([]int64, error) {
	return s.staleResetIDs(ctx, "last_daily_reset", day)
}

// CampaignsForMonthlyReset returns ids whose monthly marker is not month.
func (s *Store) CampaignsForMonthlyReset(ctx context.Context, month time.Time) ([]int64, error) {
	return s.staleResetIDs(ctx, "last_monthly_reset", month)
}

func (s *Store) staleResetIDs(ctx context.Context, column string, marker time.Time) ([]int64, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
        SELECT id FROM campaigns
        WHERE %s IS NULL OR %s <> $1
        ORDER BY id`, column, column), marker)
	if err != nil {
		return nil, mapError(err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, mapError(err)
	}
	return ids, nil
}

// ResetDaily zeroes the daily counter once per day. A replay on the same
// day finds the marker already stamped and changes nothing.
func (s *Store) ResetDaily(ctx context.Context, campaignID int64, day time.Time) (*port.ResetOutcome, error) {
	var out port.ResetOutcome
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		lc, err := lockCampaign(ctx, tx, campaignID)
		if err != nil {
			return err
		}
		out.Campaign = domain.Campaign{
			ID:           campaignID,
			DailySpend:   lc.dailySpend,
			MonthlySpend: lc.monthlySpend,
			IsActive:     lc.isActive,
		}
		if lc.lastDailyReset != nil && domain.DayOf(*lc.lastDailyReset).Equal(day) {
			return nil
		}
		out.Reset = true
		out.SpendBefore = lc.dailySpend

		after := domain.Campaign{DailySpend: 0, MonthlySpend: lc.monthlySpend}
		brand := domain.Brand{DailyBudget: lc.dailyBudget, MonthlyBudget: lc.monthlyBudget}
		active := lc.isActive
		if !active && after.WithinBudget(brand) {
			active = true
			out.Reactivated = true
		}
		if _, err = tx.Exec(ctx, `
            UPDATE campaigns
            SET daily_spend = 0, last_daily_reset = $1, is_active = $2, updated_at = now()
            WHERE id = $3`, day, active, campaignID); err != nil {
			return err
		}
		if out.Reactivated {
			if err = insertStatusChange(ctx, tx, campaignID, false, true, domain.ReasonDailyReset); err != nil {
				return err
			}
		}
		out.Campaign.DailySpend = 0
		out.Campaign.IsActive = active
		out.Campaign.LastDailyReset = &day
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetMonthly is ResetDaily's monthly counterpart, keyed on the first day
// of the month.
func (s *Store) ResetMonthly(ctx context.Context, campaignID int64, month time.Time) (*port.ResetOutcome, error) {
	var out port.ResetOutcome
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		lc, err := lockCampaign(ctx, tx, campaignID)
		if err != nil {
			return err
		}
		out.Campaign = domain.Campaign{
			ID:           campaignID,
			DailySpend:   lc.dailySpend,
			MonthlySpend: lc.monthlySpend,
			IsActive:     lc.isActive,
		}
		if lc.lastMonthlyReset != nil && domain.DayOf(*lc.lastMonthlyReset).Equal(month) {
			return nil
		}
		out.Reset = true
		out.SpendBefore = lc.monthlySpend

		after := domain.Campaign{DailySpend: lc.dailySpend, MonthlySpend: 0}
		brand := domain.Brand{DailyBudget: lc.dailyBudget, MonthlyBudget: lc.monthlyBudget}
		active := lc.isActive
		if !active && after.WithinBudget(brand) {
			active = true
			out.Reactivated = true
		}
		if _, err = tx.Exec(ctx, `
            UPDATE campaigns
            SET monthly_spend = 0, last_monthly_reset = $1, is_active = $2, updated_at = now()
            WHERE id = $3`, month, active, campaignID); err != nil {
			return err
		}
		if out.Reactivated {
			if err = insertStatusChange(ctx, tx, campaignID, false, true, domain.ReasonMonthlyReset); err != nil {
				return err
			}
		}
		out.Campaign.MonthlySpend = 0
		out.Campaign.IsActive = active
		out.Campaign.LastMonthlyReset = &month
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DaypartedCampaigns returns every campaign holding a schedule, with the
// parsed run window attached.
func (s *Store) DaypartedCampaigns(ctx context.Context) ([]port.CampaignView, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT `+campaignColumns+`,
               s.id, s.start_minute, s.end_minute, s.days_of_week
        FROM campaigns c
        JOIN brands b ON b.id = c.brand_id
        JOIN dayparting_schedules s ON s.id = c.schedule_id
        ORDER BY c.id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var views []port.CampaignView
	for rows.Next() {
		var (
			v        port.CampaignView
			freqSecs *int64
			sched    domain.DaypartingSchedule
			days     string
		)
		err = rows.Scan(
			&v.Campaign.ID, &v.Campaign.BrandID, &v.Campaign.Name,
			&v.Campaign.DailySpend, &v.Campaign.MonthlySpend, &v.Campaign.IsActive,
			&v.Campaign.ScheduleID, &v.Campaign.LastDailyReset, &v.Campaign.LastMonthlyReset,
			&freqSecs, &v.Campaign.LastBudgetCheck, &v.Campaign.CreatedAt, &v.Campaign.UpdatedAt,
			&v.Brand.ID, &v.Brand.Name, &v.Brand.DailyBudget, &v.Brand.MonthlyBudget,
			&sched.ID, &sched.Window.Start, &sched.Window.End, &days,
		)
		if err != nil {
			return nil, mapError(err)
		}
		if freqSecs != nil {
			d := time.Duration(*freqSecs) * time.Second
			v.Campaign.CheckFrequency = &d
		}
		sched.Window.Days, err = domain.ParseWeekdays(days)
		if err != nil {
			return nil, fmt.Errorf("schedule %d: %w", sched.ID, err)
		}
		v.Schedule = &sched
		views = append(views, v)
	}
	if err = rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return views, nil
}

// PauseCampaign deactivates an active campaign under its row lock. An
// already paused campaign is left untouched.
func (s *Store) PauseCampaign(ctx context.Context, campaignID int64, reason string) (bool, error) {
	var transitioned bool
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		lc, err := lockCampaign(ctx, tx, campaignID)
		if err != nil {
			return err
		}
		if !lc.isActive {
			return nil
		}
		if _, err = tx.Exec(ctx, `
            UPDATE campaigns SET is_active = FALSE, updated_at = now()
            WHERE id = $1`, campaignID); err != nil {
			return err
		}
		if err = insertStatusChange(ctx, tx, campaignID, true, false, reason); err != nil {
			return err
		}
		transitioned = true
		return nil
	})
	return transitioned, err
}

// ReactivateIfEligible activates an inactive campaign only when both
// counters are within budget at the instant of the transition.
func (s *Store) ReactivateIfEligible(ctx context.Context, campaignID int64, reason string) (bool, error) {
	var transitioned bool
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		lc, err := lockCampaign(ctx, tx, campaignID)
		if err != nil {
			return err
		}
		c := domain.Campaign{DailySpend: lc.dailySpend, MonthlySpend: lc.monthlySpend}
		brand := domain.Brand{DailyBudget: lc.dailyBudget, MonthlyBudget: lc.monthlyBudget}
		if lc.isActive || !c.WithinBudget(brand) {
			return nil
		}
		if _, err = tx.Exec(ctx, `
            UPDATE campaigns SET is_active = TRUE, updated_at = now()
            WHERE id = $1`, campaignID); err != nil {
			return err
		}
		if err = insertStatusChange(ctx, tx, campaignID, false, true, reason); err != nil {
			return err
		}
		transitioned = true
		return nil
	})
	return transitioned, err
}

// AppendSpendRecord appends one ledger entry without touching counters.
func (s *Store) AppendSpendRecord(ctx context.Context, rec *domain.SpendRecord) error {
	return mapError(s.pool.QueryRow(ctx, `
        INSERT INTO spend_records
            (campaign_id, amount, type, source, created_by, reference_id,
             daily_before, daily_after, monthly_before, monthly_after, description)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`,
		rec.CampaignID, rec.Amount, rec.Type, rec.Source, rec.CreatedBy,
		rec.ReferenceID, rec.DailyBefore, rec.DailyAfter, rec.MonthlyBefore,
		rec.MonthlyAfter, rec.Description,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt))
}

const recordColumns = `
    id, campaign_id, amount, type, source, created_by, reference_id,
    daily_before, daily_after, monthly_before, monthly_after,
    description, created_at, updated_at`

func scanRecord(row pgx.Row) (domain.SpendRecord, error) {
	var r domain.SpendRecord
	err := row.Scan(
		&r.ID, &r.CampaignID, &r.Amount, &r.Type, &r.Source, &r.CreatedBy,
		&r.ReferenceID, &r.DailyBefore, &r.DailyAfter, &r.MonthlyBefore,
		&r.MonthlyAfter, &r.Description, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// ListSpendRecords returns matching ledger entries, newest first.
func (s *Store) ListSpendRecords(ctx context.Context, q port.RecordQuery) ([]domain.SpendRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM spend_records WHERE created_at >= $1 AND created_at <= $2`
	args := []any{q.From, q.To}
	if q.CampaignID != nil {
		query += ` AND campaign_id = $3`
		args = append(args, *q.CampaignID)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT %d`, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SpendRecord, error) {
		return scanRecord(row)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return recs, nil
}

// GetSpendRecord returns one ledger entry, or ErrRecordNotFound.
func (s *Store) GetSpendRecord(ctx context.Context, id int64) (*domain.SpendRecord, error) {
	r, err := scanRecord(s.pool.QueryRow(ctx, `
        SELECT `+recordColumns+` FROM spend_records WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrRecordNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &r, nil
}

// UpdateSpendRecordDescription changes the one mutable ledger field. The
// statement names description and updated_at only; every other column of
// a written record stays sealed.
func (s *Store) UpdateSpendRecordDescription(ctx context.Context, id int64, description string) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE spend_records SET description = $1, updated_at = now()
        WHERE id = $2`, description, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return port.ErrRecordNotFound
	}
	return nil
}
