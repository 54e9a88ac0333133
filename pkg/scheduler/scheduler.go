package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/sidkik/pushsync/pkg/logging"
	"github.com/sidkik/pushsync/pkg/sync"
)

// Reconciler runs a single sync pass. It's implemented by sync.Engine.
type Reconciler interface {
	Reconcile(ctx context.Context) sync.Result
}

// Config configures a Scheduler.
type Config struct {
	// Interval is how long to wait between the end of one pass and the
	// start of the next.
	Interval time.Duration

	// Clock is used for waiting between passes. Defaults to the real clock.
	Clock clockwork.Clock

	// Trigger, if set, starts the next pass early whenever it receives.
	Trigger <-chan struct{}
}

// Scheduler runs reconciliation passes forever. Passes never overlap: the
// wait for the next pass starts after the previous one has finished.
type Scheduler struct {
	engine   Reconciler
	interval time.Duration
	clock    clockwork.Clock
	trigger  <-chan struct{}
	log      *logrus.Logger
}

// New creates a Scheduler that runs `engine`.
func New(log *logrus.Logger, engine Reconciler, config Config) *Scheduler {
	clock := config.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Scheduler{
		engine:   engine,
		interval: config.Interval,
		clock:    clock,
		trigger:  config.Trigger,
		log:      log,
	}
}

// Run alternates between running a pass and waiting for the interval. It
// only returns once ctx is cancelled. A pass that's in progress when that
// happens is allowed to finish its current file.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		s.pass(ctx)
		if ctx.Err() != nil {
			return nil
		}

		logging.Status(s.log).Infof("Sync completed. Waiting for next sync in %s.",
			describeInterval(s.interval))
		if !s.wait(ctx) {
			return nil
		}
	}
}

// RunOnce runs a single pass.
func (s *Scheduler) RunOnce(ctx context.Context) sync.Result {
	res := s.pass(ctx)
	logging.Status(s.log).Info("Sync completed.")
	return res
}

func (s *Scheduler) pass(ctx context.Context) sync.Result {
	logging.Status(s.log).Info("Sync running.")
	res := s.engine.Reconcile(ctx)
	if res.Failed > 0 {
		s.log.WithError(res.Err()).Warnf("%d files failed to sync. "+
			"They will be retried on the next sync.", res.Failed)
	}
	return res
}

// wait blocks until the next pass should start. It returns false if ctx was
// cancelled.
func (s *Scheduler) wait(ctx context.Context) bool {
	timer := s.clock.NewTimer(s.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	case <-s.trigger:
		s.log.Debug("Local change detected. Starting sync early.")
		return true
	}
}

func describeInterval(d time.Duration) string {
	if d%time.Minute != 0 {
		return d.String()
	}

	minutes := int(d / time.Minute)
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
