package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/pushsync/pkg/errors"
)

const (
	// ActionLogName is the file that the decision trail is written to.
	ActionLogName = "pushsync.log"

	// DiagnosticsLogName is the file the transfer tool writes its own
	// errors to.
	DiagnosticsLogName = "transfer_errors.log"

	// VerboseEnv enables debug logging when set to "true".
	VerboseEnv = "PUSHSYNC_LOG_VERBOSE"
)

// Mocked out for unit testing.
var stdout io.Writer = os.Stdout

// Options configures the logger created by New.
type Options struct {
	// Directory holds the action and diagnostics logs. It's created if it
	// doesn't exist.
	Directory string

	// Verbose enables debug level logging.
	Verbose bool
}

// New creates the logger shared by every component. Entries are appended
// to the action log, and status entries are also echoed to stdout.
func New(fs afero.Fs, opts Options) (*logrus.Logger, error) {
	if err := fs.MkdirAll(opts.Directory, 0755); err != nil {
		return nil, errors.WithContext(err, "create logs directory")
	}

	logger := logrus.New()
	logger.SetOutput(&appendWriter{fs: fs, path: ActionLogPath(opts.Directory)})
	logger.SetFormatter(&ActionFormatter{})
	logger.AddHook(NewStatusHook(stdout))
	if opts.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger, nil
}

// ActionLogPath returns the path to the action log within `dir`.
func ActionLogPath(dir string) string {
	return filepath.Join(dir, ActionLogName)
}

// DiagnosticsLogPath returns the path to the transfer tool's log within
// `dir`.
func DiagnosticsLogPath(dir string) string {
	return filepath.Join(dir, DiagnosticsLogName)
}

// VerboseFromEnv returns whether debug logging was requested through the
// environment.
func VerboseFromEnv() bool {
	return os.Getenv(VerboseEnv) == "true"
}
