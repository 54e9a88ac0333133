package transfer

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/sidkik/pushsync/pkg/errors"
	"github.com/sidkik/pushsync/pkg/proc"
)

// MinimumVersion is the oldest version of the tool known to support the
// `lsjson` output and `--log-file` flag used by pushsync.
const MinimumVersion = "1.40.0"

const versionTimeout = 30 * time.Second

// Version returns the version reported by `<tool> version`. The first line
// of the output is expected to look like `rclone v1.65.0`.
func (t *Tool) Version(ctx context.Context) (*version.Version, error) {
	path, err := t.Resolve()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	res, err := t.runner.Run(ctx, proc.Command{Path: path, Args: []string{"version"}})
	if err != nil {
		return nil, errors.WithContext(err, "get version")
	}

	firstLine := strings.SplitN(strings.TrimSpace(res.Stdout), "\n", 2)[0]
	fields := strings.Fields(firstLine)
	if len(fields) < 2 {
		return nil, errors.New("unexpected version output: " + firstLine)
	}

	v, err := version.NewVersion(fields[1])
	if err != nil {
		return nil, errors.WithContext(err, "parse version")
	}
	return v, nil
}

// CheckVersion logs a warning if the tool is missing, or older than
// MinimumVersion. It's informational only. Syncing is still attempted,
// since the problem may be fixed before the next pass.
func (t *Tool) CheckVersion(ctx context.Context) {
	current, err := t.Version(ctx)
	if err != nil {
		if notFound, ok := errors.RootCause(err).(errors.ToolNotFound); ok {
			t.log.Warnf("Transfer tool not found at %s. "+
				"Files won't be synced until it's installed.", notFound.Path)
			return
		}
		t.log.WithError(err).Warn("Failed to get transfer tool version")
		return
	}

	minimum := version.Must(version.NewVersion(MinimumVersion))
	if current.LessThan(minimum) {
		t.log.Warnf("Transfer tool version %s is older than the minimum "+
			"supported version %s. Syncing may fail.", current, minimum)
		return
	}
	t.log.WithField("version", current.String()).Debug("Transfer tool version is supported")
}
