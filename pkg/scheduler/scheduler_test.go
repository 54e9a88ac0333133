package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/sidkik/pushsync/pkg/logging"
	"github.com/sidkik/pushsync/pkg/sync"
)

type fakeEngine struct {
	passes chan struct{}
	result sync.Result
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{passes: make(chan struct{}, 10)}
}

func (e *fakeEngine) Reconcile(ctx context.Context) sync.Result {
	e.passes <- struct{}{}
	return e.result
}

func waitForPass(t *testing.T, engine *fakeEngine) {
	select {
	case <-engine.passes:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for pass")
	}
}

func assertNoPass(t *testing.T, engine *fakeEngine) {
	select {
	case <-engine.passes:
		t.Fatal("unexpected pass")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRunWaitsForInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	engine := newFakeEngine()
	logger, hook := logrusTest.NewNullLogger()
	s := New(logger, engine, Config{Interval: 5 * time.Minute, Clock: clock})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- s.Run(ctx) }()

	// The first pass starts immediately.
	waitForPass(t, engine)
	clock.BlockUntil(1)
	assertNoPass(t, engine)

	// Nothing happens until the full interval elapses.
	clock.Advance(4 * time.Minute)
	assertNoPass(t, engine)
	clock.Advance(time.Minute)
	waitForPass(t, engine)

	clock.BlockUntil(1)
	cancel()
	assert.NoError(t, <-done)

	status := logrus.Fields{logging.StatusField: true}
	expLogs := []*logrus.Entry{
		{Level: logrus.InfoLevel, Data: status, Message: "Sync running."},
		{Level: logrus.InfoLevel, Data: status, Message: "Sync completed. Waiting for next sync in 5 minutes."},
		{Level: logrus.InfoLevel, Data: status, Message: "Sync running."},
		{Level: logrus.InfoLevel, Data: status, Message: "Sync completed. Waiting for next sync in 5 minutes."},
	}
	assertLogs(t, expLogs, hook.AllEntries(), "run")
}

func TestRunTrigger(t *testing.T) {
	clock := clockwork.NewFakeClock()
	engine := newFakeEngine()
	trigger := make(chan struct{}, 1)
	logger, _ := logrusTest.NewNullLogger()
	s := New(logger, engine, Config{Interval: time.Hour, Clock: clock, Trigger: trigger})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	waitForPass(t, engine)
	clock.BlockUntil(1)

	trigger <- struct{}{}
	waitForPass(t, engine)
}

func TestRunCancelledDuringPass(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	engine := &cancellingEngine{cancel: cancel}
	logger, _ := logrusTest.NewNullLogger()

	s := New(logger, engine, Config{Interval: time.Minute, Clock: clockwork.NewFakeClock()})
	assert.NoError(t, s.Run(ctx))
	assert.Equal(t, 1, engine.passes)
}

type cancellingEngine struct {
	cancel context.CancelFunc
	passes int
}

func (e *cancellingEngine) Reconcile(ctx context.Context) sync.Result {
	e.passes++
	e.cancel()
	return sync.Result{}
}

func TestRunOnce(t *testing.T) {
	engine := newFakeEngine()
	engine.result = sync.Result{Transferred: 2, Skipped: 1}
	logger, hook := logrusTest.NewNullLogger()

	res := New(logger, engine, Config{Interval: time.Minute}).RunOnce(context.Background())
	assert.Equal(t, engine.result, res)
	assert.Len(t, engine.passes, 1)

	status := logrus.Fields{logging.StatusField: true}
	expLogs := []*logrus.Entry{
		{Level: logrus.InfoLevel, Data: status, Message: "Sync running."},
		{Level: logrus.InfoLevel, Data: status, Message: "Sync completed."},
	}
	assertLogs(t, expLogs, hook.AllEntries(), "run once")
}

func TestDescribeInterval(t *testing.T) {
	assert.Equal(t, "5 minutes", describeInterval(5*time.Minute))
	assert.Equal(t, "1 minute", describeInterval(time.Minute))
	assert.Equal(t, "1m30s", describeInterval(90*time.Second))
}

func assertLogs(t *testing.T, expLogs, allEntries []*logrus.Entry, msg string) {
	assert.Len(t, allEntries, len(expLogs), msg)
	for i, exp := range expLogs {
		assert.Equal(t, exp.Level, allEntries[i].Level, msg)
		assert.Equal(t, exp.Data, allEntries[i].Data, msg)
		assert.Equal(t, exp.Message, allEntries[i].Message, msg)
	}
}
