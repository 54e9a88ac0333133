package transfer

import (
	"context"

	"github.com/dustin/go-humanize"

	"github.com/sidkik/pushsync/pkg/errors"
	"github.com/sidkik/pushsync/pkg/proc"
	"github.com/sidkik/pushsync/pkg/sync"
)

// Transfer copies `file` into the remote directory. Failures are logged and
// returned, but never retried.
//
// The copy isn't interrupted when ctx is cancelled, so that a shutdown
// doesn't leave a partially uploaded file behind. It's bounded by
// Config.Timeout instead.
func (t *Tool) Transfer(ctx context.Context, file sync.LocalFile) error {
	path, err := t.Resolve()
	if err != nil {
		t.log.Errorf("Transfer tool not found at %s", t.config.Executable)
		return err
	}
	t.log.Debugf("Transfer tool found at %s", path)

	t.log.Infof("Syncing file: %s (Size: %s, Last Modified: %s)", file.Path,
		humanize.Bytes(uint64(file.Size)), file.ModTime.Format(timeLayout))

	cmd := proc.Command{
		Path: path,
		Args: []string{"copy", file.Path, t.RemotePath(), "--log-file", t.config.DiagnosticsLog},
	}

	runCtx := context.WithoutCancel(ctx)
	if t.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, t.config.Timeout)
		defer cancel()
	}

	res, err := t.runner.Run(runCtx, cmd)
	if err != nil {
		failure := errors.TransferFailed{
			Command:  cmd.String(),
			ExitCode: res.ExitCode,
			Detail:   failureDetail(res, err),
		}
		t.log.WithError(failure).Errorf("Command failed: %s", cmd)
		return failure
	}

	t.log.Infof("Command executed successfully: %s", cmd)
	return nil
}
