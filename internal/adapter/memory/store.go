// Package memory provides an in-memory CampaignStore with the same
// atomicity semantics as the Postgres adapter. It backs the usecase tests
// and local development without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"adledger/internal/core/domain"
	"adledger/internal/core/port"
)

// Store implements port.CampaignStore behind a single mutex, so every
// operation is one atomic unit the way a row-locked transaction is.
type Store struct {
	// Now is the clock used for record timestamps. Tests may replace it.
	Now func() time.Time

	mu        sync.Mutex
	brands    map[int64]domain.Brand
	schedules map[int64]domain.DaypartingSchedule
	campaigns map[int64]*domain.Campaign
	records   map[int64]*domain.SpendRecord
	history   []domain.StatusChange

	nextCampaign int64
	nextRecord   int64
	nextBrand    int64
	nextSchedule int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		Now:       time.Now,
		brands:    make(map[int64]domain.Brand),
		schedules: make(map[int64]domain.DaypartingSchedule),
		campaigns: make(map[int64]*domain.Campaign),
		records:   make(map[int64]*domain.SpendRecord),
	}
}

// AddBrand registers a brand and returns its id.
func (s *Store) AddBrand(b domain.Brand) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextBrand++
	b.ID = s.nextBrand
	s.brands[b.ID] = b
	return b.ID
}

// AddSchedule registers a dayparting schedule and returns its id.
func (s *Store) AddSchedule(sched domain.DaypartingSchedule) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSchedule++
	sched.ID = s.nextSchedule
	s.schedules[sched.ID] = sched
	return sched.ID
}

// AddCampaign registers a campaign and returns its id.
func (s *Store) AddCampaign(c domain.Campaign) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCampaign++
	c.ID = s.nextCampaign
	now := s.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.campaigns[c.ID] = &c
	return c.ID
}

// History returns a copy of the recorded status transitions.
func (s *Store) History() []domain.StatusChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.StatusChange, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Store) view(c *domain.Campaign) port.CampaignView {
	v := port.CampaignView{Campaign: *c, Brand: s.brands[c.BrandID]}
	if c.ScheduleID != nil {
		if sched, ok := s.schedules[*c.ScheduleID]; ok {
			v.Schedule = &sched
		}
	}
	return v
}

func (s *Store) logTransition(campaignID int64, oldStatus, newStatus bool, reason string) {
	s.history = append(s.history, domain.StatusChange{
		ID:         int64(len(s.history) + 1),
		CampaignID: campaignID,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		Reason:     reason,
		CreatedAt:  s.Now(),
	})
}

func (s *Store) sortedCampaignIDs() []int64 {
	ids := make([]int64, 0, len(s.campaigns))
	for id := range s.campaigns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Store) GetCampaign(_ context.Context, id int64) (*port.CampaignView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return nil, port.ErrCampaignNotFound
	}
	v := s.view(c)
	return &v, nil
}

func (s *Store) RecordSpend(_ context.Context, in port.SpendInput) (*port.SpendOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[in.CampaignID]
	if !ok {
		return nil, port.ErrCampaignNotFound
	}
	rec, err := domain.NewSpendRecord(in.CampaignID, in.Amount, in.Type, in.Source, c.DailySpend, c.MonthlySpend)
	if err != nil {
		return nil, err
	}
	rec.CreatedBy = in.CreatedBy
	rec.ReferenceID = in.ReferenceID
	rec.Description = in.Description

	c.DailySpend += in.Amount
	c.MonthlySpend += in.Amount
	c.UpdatedAt = s.Now()
	s.appendRecord(rec)

	out := &port.SpendOutcome{Record: *rec, DailySpend: c.DailySpend, MonthlySpend: c.MonthlySpend}
	if c.IsActive && c.OverBudget(s.brands[c.BrandID]) {
		c.IsActive = false
		s.logTransition(c.ID, true, false, domain.ReasonBudgetExceeded)
		out.Paused = true
	}
	return out, nil
}

func (s *Store) ActiveCampaignPage(_ context.Context, afterID int64, limit int) ([]port.CampaignView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var page []port.CampaignView
	for _, id := range s.sortedCampaignIDs() {
		if len(page) == limit {
			break
		}
		if c := s.campaigns[id]; c.IsActive && c.ID > afterID {
			page = append(page, s.view(c))
		}
	}
	return page, nil
}

func (s *Store) RecheckBudget(_ context.Context, campaignID int64, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[campaignID]
	if !ok {
		return false, port.ErrCampaignNotFound
	}
	paused := false
	if c.IsActive && c.OverBudget(s.brands[c.BrandID]) {
		c.IsActive = false
		s.logTransition(c.ID, true, false, domain.ReasonBudgetExceeded)
		paused = true
	}
	stamp := now
	c.LastBudgetCheck = &stamp
	c.UpdatedAt = s.Now()
	return paused, nil
}

func (s *Store) CampaignsForDailyReset(_ context.Context, day time.Time) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for _, id := range s.sortedCampaignIDs() {
		c := s.campaigns[id]
		if c.LastDailyReset == nil || !domain.DayOf(*c.LastDailyReset).Equal(day) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *Store) ResetDaily(_ context.Context, campaignID int64, day time.Time) (*port.ResetOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[campaignID]
	if !ok {
		return nil, port.ErrCampaignNotFound
	}
	if c.LastDailyReset != nil && domain.DayOf(*c.LastDailyReset).Equal(day) {
		return &port.ResetOutcome{Campaign: *c}, nil
	}
	out := &port.ResetOutcome{Reset: true, SpendBefore: c.DailySpend}
	c.DailySpend = 0
	marker := day
	c.LastDailyReset = &marker
	if !c.IsActive && c.WithinBudget(s.brands[c.BrandID]) {
		c.IsActive = true
		s.logTransition(c.ID, false, true, domain.ReasonDailyReset)
		out.Reactivated = true
	}
	c.UpdatedAt = s.Now()
	out.Campaign = *c
	return out, nil
}

func (s *Store) CampaignsForMonthlyReset(_ context.Context, month time.Time) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for _, id := range s.sortedCampaignIDs() {
		c := s.campaigns[id]
		if c.LastMonthlyReset == nil || !domain.DayOf(*c.LastMonthlyReset).Equal(month) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *Store) ResetMonthly(_ context.Context, campaignID int64, month time.Time) (*port.ResetOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[campaignID]
	if !ok {
		return nil, port.ErrCampaignNotFound
	}
	if c.LastMonthlyReset != nil && domain.DayOf(*c.LastMonthlyReset).Equal(month) {
		return &port.ResetOutcome{Campaign: *c}, nil
	}
	out := &port.ResetOutcome{Reset: true, SpendBefore: c.MonthlySpend}
	c.MonthlySpend = 0
	marker := month
	c.LastMonthlyReset = &marker
	if !c.IsActive && c.WithinBudget(s.brands[c.BrandID]) {
		c.IsActive = true
		s.logTransition(c.ID, false, true, domain.ReasonMonthlyReset)
		out.Reactivated = true
	}
	c.UpdatedAt = s.Now()
	out.Campaign = *c
	return out, nil
}

func (s *Store) DaypartedCampaigns(_ context.Context) ([]port.CampaignView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var views []port.CampaignView
	for _, id := range s.sortedCampaignIDs() {
		if c := s.campaigns[id]; c.ScheduleID != nil {
			views = append(views, s.view(c))
		}
	}
	return views, nil
}

func (s *Store) PauseCampaign(_ context.Context, campaignID int64, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[campaignID]
	if !ok {
		return false, port.ErrCampaignNotFound
	}
	if !c.IsActive {
		return false, nil
	}
	c.IsActive = false
	c.UpdatedAt = s.Now()
	s.logTransition(c.ID, true, false, reason)
	return true, nil
}

func (s *Store) ReactivateIfEligible(_ context.Context, campaignID int64, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[campaignID]
	if !ok {
		return false, port.ErrCampaignNotFound
	}
	if c.IsActive || !c.WithinBudget(s.brands[c.BrandID]) {
		return false, nil
	}
	c.IsActive = true
	c.UpdatedAt = s.Now()
	s.logTransition(c.ID, false, true, reason)
	return true, nil
}

func (s *Store) appendRecord(rec *domain.SpendRecord) {
	s.nextRecord++
	rec.ID = s.nextRecord
	now := s.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	stored := *rec
	s.records[rec.ID] = &stored
}

func (s *Store) AppendSpendRecord(_ context.Context, rec *domain.SpendRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.campaigns[rec.CampaignID]; !ok {
		return port.ErrCampaignNotFound
	}
	s.appendRecord(rec)
	return nil
}

func (s *Store) ListSpendRecords(_ context.Context, q port.RecordQuery) ([]domain.SpendRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var recs []domain.SpendRecord
	for _, r := range s.records {
		if q.CampaignID != nil && r.CampaignID != *q.CampaignID {
			continue
		}
		if r.CreatedAt.Before(q.From) || r.CreatedAt.After(q.To) {
			continue
		}
		recs = append(recs, *r)
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].ID > recs[j].ID
		}
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (s *Store) GetSpendRecord(_ context.Context, id int64) (*domain.SpendRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return nil, port.ErrRecordNotFound
	}
	rec := *r
	return &rec, nil
}

func (s *Store) UpdateSpendRecordDescription(_ context.Context, id int64, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return port.ErrRecordNotFound
	}
	r.Description = description
	r.UpdatedAt = s.Now()
	return nil
}
