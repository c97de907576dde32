// Package usecase implements the spend enforcement engine: ledger ingest,
// budget checks, periodic counter resets and dayparting, composed over the
// CampaignStore port.
package usecase

import (
	"log/slog"
	"time"

	"adledger/internal/core/port"
)

const (
	defaultCheckInterval = 15 * time.Minute
	defaultPageSize      = 100
)

// Enforcer implements port.Enforcer. All tunables are injected at
// construction; the engine reads no process-global state.
type Enforcer struct {
	store  port.CampaignStore
	logger *slog.Logger

	// checkInterval applies to campaigns without a frequency override.
	checkInterval time.Duration
	// pageSize bounds the lock and memory footprint of one sweep batch.
	pageSize int

	now func() time.Time
}

// NewEnforcer builds the engine. Non-positive checkInterval or pageSize
// fall back to 15 minutes and 100 rows.
func NewEnforcer(store port.CampaignStore, logger *slog.Logger, checkInterval time.Duration, pageSize int) *Enforcer {
	if checkInterval <= 0 {
		checkInterval = defaultCheckInterval
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Enforcer{
		store:         store,
		logger:        logger,
		checkInterval: checkInterval,
		pageSize:      pageSize,
		now:           time.Now,
	}
}

func (e *Enforcer) newSummary(job string) port.RunSummary {
	return port.RunSummary{Job: job, StartedAt: e.now()}
}

func (e *Enforcer) logSummary(sum port.RunSummary) {
	e.logger.Info("job completed",
		slog.String("job", sum.Job),
		slog.Int("processed", sum.Processed),
		slog.Int("paused", sum.Paused),
		slog.Int("reactivated", sum.Reactivated),
		slog.Int("reset", sum.Reset),
		slog.Int("errors", sum.Errors),
		slog.Duration("duration", sum.Duration(e.now())),
	)
}
