package db

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo brands, schedules, campaigns and spend records for
// local development. All inserts use explicit ids with ON CONFLICT DO
// NOTHING so re-running the seed is harmless.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// create brands with budgets in minor units
	brands := []struct {
		name          string
		dailyBudget   int64
		monthlyBudget int64
	}{
		{"Acme Retail", 500000, 10000000},    // 5000.00 / 100000.00
		{"Globex Media", 250000, 5000000},    // 2500.00 / 50000.00
		{"Initech Mobile", 100000, 2000000},  // 1000.00 / 20000.00
	}
	for i, b := range brands {
		_, err := db.Exec(ctx, `INSERT INTO brands (id, name, daily_budget, monthly_budget)
VALUES ($1,$2,$3,$4) ON CONFLICT DO NOTHING`, i+1, b.name, b.dailyBudget, b.monthlyBudget)
		if err != nil {
			return err
		}
	}

	// business-hours and overnight dayparting windows
	schedules := []struct {
		startMinute int
		endMinute   int
		days        string
	}{
		{9 * 60, 17 * 60, "mon,tue,wed,thu,fri"}, // 09:00-17:00 weekdays
		{22 * 60, 6 * 60, "fri,sat,sun"},         // 22:00-06:00 wraps midnight
	}
	for i, s := range schedules {
		_, err := db.Exec(ctx, `INSERT INTO dayparting_schedules (id, start_minute, end_minute, days_of_week)
VALUES ($1,$2,$3,$4) ON CONFLICT DO NOTHING`, i+1, s.startMinute, s.endMinute, s.days)
		if err != nil {
			return err
		}
	}

	// create campaigns, every third one dayparted
	for i := 1; i <= 9; i++ {
		brandID := (i-1)%3 + 1
		name := fmt.Sprintf("Campaign %d", i)
		var scheduleID *int
		if i%3 == 0 {
			id := (i/3-1)%2 + 1
			scheduleID = &id
		}
		_, err := db.Exec(ctx, `INSERT INTO campaigns
    (id, brand_id, name, daily_spend, monthly_spend, is_active, schedule_id, created_at, updated_at)
VALUES ($1,$2,$3,0,0,TRUE,$4,now(),now()) ON CONFLICT DO NOTHING`,
			i, brandID, name, scheduleID)
		if err != nil {
			return err
		}
	}

	// generate a trail of impression and click spend
	recordCount := 200
	for i := 0; i < recordCount; i++ {
		campaignID := int64(r.Intn(9) + 1)
		amount := int64(r.Intn(200) + 10)
		typ := "impression"
		if r.Intn(10) == 0 {
			typ = "click"
			amount *= 5
		}
		var daily, monthly int64
		err := db.QueryRow(ctx, `UPDATE campaigns
SET daily_spend = daily_spend + $2, monthly_spend = monthly_spend + $2, updated_at = now()
WHERE id = $1
RETURNING daily_spend, monthly_spend`, campaignID, amount).Scan(&daily, &monthly)
		if err != nil {
			return err
		}
		_, err = db.Exec(ctx, `INSERT INTO spend_records
    (campaign_id, amount, type, source, created_by, reference_id,
     daily_before, daily_after, monthly_before, monthly_after, description, created_at, updated_at)
VALUES ($1,$2,$3,'system','seed',$4,$5,$6,$7,$8,'',now(),now())`,
			campaignID, amount, typ, uuid.NewString(),
			daily-amount, daily, monthly-amount, monthly)
		if err != nil {
			return err
		}
	}
	return nil
}
