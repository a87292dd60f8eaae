// Package sweeper runs the periodic job-expiry sweep. The search predicate
// already excludes expired postings; the sweep moves them to a terminal
// status so the active set stays small and listings drop out even when
// nobody searches.
package sweeper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Store is the persistence slice the sweeper needs.
type Store interface {
	SweepExpiredJobs(ctx context.Context) (int64, error)
}

// Sweeper schedules the expiry sweep on a cron expression.
type Sweeper struct {
	store    Store
	schedule string
	logger   *zap.Logger
	cron     *cron.Cron
}

// New creates a sweeper. Schedule is a standard 5-field cron expression.
func New(store Store, schedule string, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{store: store, schedule: schedule, logger: logger}
}

// Start registers the sweep and begins scheduling. It also runs one sweep
// immediately so a restart never leaves stale rows waiting for the next tick.
func (s *Sweeper) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return err
	}
	s.cron.Start()
	go s.run()
	return nil
}

// Stop stops scheduling and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.store.SweepExpiredJobs(ctx)
	if err != nil {
		s.logger.Error("expiry sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("expired jobs swept", zap.Int64("count", n))
	}
}
