// Package scheduler is the harness between an external cadence and the
// enforcement operations: it drives each job on a ticker, accepts
// fire-and-forget manual triggers, and applies the retry policy around
// whole-job invocations. Job outcomes are observable only through the log
// stream, never through a synchronous return value.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"adledger/internal/core/port"
)

// ErrUnknownJob is returned by Trigger for an unregistered job name.
var ErrUnknownJob = errors.New("unknown job")

// Job is one triggerable enforcement operation with its cadence.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) (port.RunSummary, error)
}

// Scheduler runs registered jobs until its context is cancelled. Every run
// is tagged with a uuid run id; a run that exhausts its retry budget is
// reported as permanently failed for operator attention.
type Scheduler struct {
	jobs     map[string]Job
	triggers map[string]chan struct{}
	policy   Policy
	logger   *slog.Logger
}

// New registers the given jobs under the policy.
func New(policy Policy, logger *slog.Logger, jobs ...Job) *Scheduler {
	s := &Scheduler{
		jobs:     make(map[string]Job, len(jobs)),
		triggers: make(map[string]chan struct{}, len(jobs)),
		policy:   policy,
		logger:   logger,
	}
	for _, j := range jobs {
		s.jobs[j.Name] = j
		s.triggers[j.Name] = make(chan struct{}, 1)
	}
	return s
}

// JobNames returns the registered job names, sorted.
func (s *Scheduler) JobNames() []string {
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Trigger enqueues one out-of-cadence run of the named job and returns
// immediately. A trigger that arrives while one is already queued is
// coalesced with it.
func (s *Scheduler) Trigger(name string) error {
	ch, ok := s.triggers[name]
	if !ok {
		return ErrUnknownJob
	}
	select {
	case ch <- struct{}{}:
	default:
	}
	return nil
}

// Run blocks, driving every job on its cadence, until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for name := range s.jobs {
		wg.Add(1)
		go func(j Job) {
			defer wg.Done()
			s.loop(ctx, j)
		}(s.jobs[name])
	}
	wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j Job) {
	ticker := time.NewTicker(j.Every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-s.triggers[j.Name]:
		}
		s.runOnce(ctx, j)
	}
}

// runOnce executes one invocation of the job under the retry policy.
func (s *Scheduler) runOnce(ctx context.Context, j Job) {
	logger := s.logger.With(
		slog.String("job", j.Name),
		slog.String("run_id", uuid.NewString()),
	)
	attempts := 0
	err := s.policy.Execute(ctx, func() error {
		attempts++
		sum, err := j.Run(ctx)
		if err != nil {
			logger.Warn("job attempt failed",
				slog.Int("attempt", attempts),
				slog.Any("error", err),
			)
			return err
		}
		logger.Info("run finished",
			slog.Int("attempt", attempts),
			slog.Int("processed", sum.Processed),
			slog.Int("errors", sum.Errors),
		)
		return nil
	})
	if err != nil {
		logger.Error("job permanently failed",
			slog.Int("attempts", attempts),
			slog.Any("error", err),
		)
	}
}
