package sync

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/sidkik/pushsync/pkg/errors"
	"github.com/sidkik/pushsync/pkg/metrics"
)

// Remote is the external transfer tool as seen by the Engine.
type Remote interface {
	// ListRemote returns the current state of the remote directory. It never
	// fails: if the listing can't be obtained, it returns an empty snapshot.
	ListRemote(ctx context.Context) RemoteSnapshot

	// Transfer pushes a single local file to the remote directory.
	Transfer(ctx context.Context, file LocalFile) error
}

// Engine runs reconciliation passes over a single local directory.
type Engine struct {
	dir    string
	remote Remote
	ignore *IgnoreList
	log    *logrus.Logger
}

// Result summarizes a reconciliation pass.
type Result struct {
	Transferred int
	Skipped     int
	Failed      int

	errs error
}

// Err returns the combined errors of the files that couldn't be synced, or
// nil if every file was either transferred or up-to-date.
func (r Result) Err() error {
	return r.errs
}

func (r Result) String() string {
	return fmt.Sprintf("transferred %d, skipped %d, failed %d",
		r.Transferred, r.Skipped, r.Failed)
}

// Mocked out for unit testing.
var newPassID = uuid.NewString

// NewEngine creates an Engine that pushes the files in `dir` to `remote`.
// `ignore` may be nil.
func NewEngine(log *logrus.Logger, dir string, remote Remote, ignore *IgnoreList) *Engine {
	return &Engine{
		dir:    dir,
		remote: remote,
		ignore: ignore,
		log:    log,
	}
}

// Reconcile runs one pass: it lists the remote once, compares every regular
// file in the directory against that snapshot, and transfers the files that
// are missing remotely or newer locally. Transfers run sequentially in name
// order, and a failed transfer doesn't stop the remaining files.
//
// If ctx is cancelled, the pass stops before starting the next file.
func (e *Engine) Reconcile(ctx context.Context) (res Result) {
	start := time.Now()
	defer func() {
		metrics.Metrics.PassDuration.WithLabelValues(metrics.StatusLabel(res.errs)).
			Observe(time.Since(start).Seconds())
		metrics.Metrics.LastPassTime.SetToCurrentTime()
	}()

	log := e.log.WithField("pass", newPassID())

	if !IsDir(e.dir) {
		log.Errorf("Directory %s does not exist. Skipping sync.", e.dir)
		return res
	}

	names, err := listDirectory(e.dir)
	if err != nil {
		log.WithError(err).Errorf("Failed to read directory %s. Skipping sync.", e.dir)
		res.errs = err
		return res
	}

	snapshot := e.remote.ListRemote(ctx)
	metrics.Metrics.RemoteEntries.Set(float64(len(snapshot)))
	log.WithField("remoteFiles", len(snapshot)).Debug("Listed remote directory")

	var toTransfer []LocalFile
	for _, name := range names {
		if e.ignore.ShouldIgnore(name) {
			log.WithField("file", name).Debug("Ignoring file")
			continue
		}

		local, err := ReadMetadata(filepath.Join(e.dir, name))
		if err != nil {
			// The file may have been removed since the directory was listed.
			log.WithError(err).WithField("file", name).Warn("Failed to read file metadata")
			res.Failed++
			res.errs = multierr.Append(res.errs, errors.WithContext(err, "read metadata"))
			metrics.Metrics.Files.WithLabelValues(metrics.OutcomeFailed).Inc()
			continue
		}

		decision := Decide(local, snapshot)
		if decision.Action == Skip {
			log.Infof("File %s is up-to-date. Skipping.", local.Name)
			res.Skipped++
			metrics.Metrics.Files.WithLabelValues(metrics.OutcomeSkipped).Inc()
			continue
		}

		log.WithField("reason", decision.Reason).Debugf("File %s needs to be synced", local.Path)
		toTransfer = append(toTransfer, local)
	}

	for _, local := range toTransfer {
		if ctx.Err() != nil {
			log.Info("Shutting down. Remaining files will be synced on the next run.")
			break
		}

		if err := e.remote.Transfer(ctx, local); err != nil {
			res.Failed++
			res.errs = multierr.Append(res.errs,
				errors.WithContext(err, fmt.Sprintf("transfer %s", local.Name)))
			metrics.Metrics.Files.WithLabelValues(metrics.OutcomeFailed).Inc()
			continue
		}
		res.Transferred++
		metrics.Metrics.Files.WithLabelValues(metrics.OutcomeTransferred).Inc()
	}

	log.WithField("result", res.String()).Debug("Pass finished")
	return res
}
