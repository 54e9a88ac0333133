package transfer

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/sidkik/pushsync/pkg/errors"
	"github.com/sidkik/pushsync/pkg/metrics"
	"github.com/sidkik/pushsync/pkg/proc"
	"github.com/sidkik/pushsync/pkg/sync"
)

// lsjsonRecord is a single element of the array printed by `lsjson`. Fields
// that aren't needed are left out.
type lsjsonRecord struct {
	Path    string `json:"Path"`
	Size    int64  `json:"Size"`
	ModTime string `json:"ModTime"`
	IsDir   bool   `json:"IsDir"`
}

// modTimeLayouts are the timestamp formats accepted in a listing. Layouts
// without an offset are read as UTC.
var modTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseModTime(value string) (time.Time, error) {
	var firstErr error
	for _, layout := range modTimeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// ListRemote returns the files in the remote directory, keyed by their path
// relative to it.
//
// If the listing fails for any reason, the failure is logged and an empty
// snapshot is returned. Every local file then looks like it's missing from
// the remote, so a failed listing causes redundant transfers rather than
// skipped ones.
func (t *Tool) ListRemote(ctx context.Context) sync.RemoteSnapshot {
	snapshot, err := t.listRemote(ctx)
	if err != nil {
		t.log.WithError(err).Error("Error fetching remote file list. " +
			"All local files will be synced.")
		metrics.Metrics.ListingErrors.Inc()
		return sync.RemoteSnapshot{}
	}
	return snapshot
}

func (t *Tool) listRemote(ctx context.Context) (sync.RemoteSnapshot, error) {
	path, err := t.Resolve()
	if err != nil {
		return nil, err
	}

	cmd := proc.Command{Path: path, Args: []string{"lsjson", t.RemotePath()}}
	res, err := t.runner.Run(ctx, cmd)
	if err != nil {
		return nil, errors.TransferFailed{
			Command:  cmd.String(),
			ExitCode: res.ExitCode,
			Detail:   failureDetail(res, err),
		}
	}

	return t.parseListing([]byte(res.Stdout))
}

func (t *Tool) parseListing(output []byte) (sync.RemoteSnapshot, error) {
	var records []lsjsonRecord
	if err := json.Unmarshal(output, &records); err != nil {
		return nil, errors.WithContext(err, "parse listing")
	}

	snapshot := sync.RemoteSnapshot{}
	for _, record := range records {
		if record.IsDir {
			continue
		}

		modTime, err := parseModTime(record.ModTime)
		if err != nil {
			// Leaving the file out of the snapshot causes it to be
			// transferred, rather than assumed to be up-to-date.
			t.log.WithError(err).WithField("path", record.Path).Warn(
				"Ignoring remote file with an unparsable modification time")
			continue
		}

		snapshot.Add(sync.RemoteEntry{Path: record.Path, ModTime: modTime})
	}
	return snapshot, nil
}
