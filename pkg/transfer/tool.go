package transfer

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/pushsync/pkg/errors"
	"github.com/sidkik/pushsync/pkg/proc"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()
var lookPath = exec.LookPath

// timeLayout is the format of timestamps in log messages.
const timeLayout = "2006-01-02 15:04:05"

// Config describes how to invoke the transfer tool.
type Config struct {
	// Executable is either a path to the tool, or a name that's looked up
	// in $PATH.
	Executable string

	// RemoteName is the name of the remote configured in the tool.
	RemoteName string

	// RemoteDirectory is the directory within the remote that files are
	// pushed to.
	RemoteDirectory string

	// DiagnosticsLog is where the tool writes its own log output.
	DiagnosticsLog string

	// Timeout bounds each copy invocation. Zero means no timeout.
	Timeout time.Duration
}

// Tool runs the external transfer tool. It implements sync.Remote.
type Tool struct {
	config Config
	runner proc.Runner
	log    *logrus.Logger
}

// New creates a Tool that runs commands with `runner`.
func New(log *logrus.Logger, runner proc.Runner, config Config) *Tool {
	return &Tool{
		config: config,
		runner: runner,
		log:    log,
	}
}

// Resolve returns the path to the tool's executable. It returns
// errors.ToolNotFound if the executable doesn't exist.
func (t *Tool) Resolve() (string, error) {
	exe := t.config.Executable
	if exe == "" {
		return "", errors.ToolNotFound{Path: exe}
	}

	if !strings.ContainsAny(exe, `/\`) {
		path, err := lookPath(exe)
		if err != nil {
			return "", errors.ToolNotFound{Path: exe}
		}
		return path, nil
	}

	fi, err := fs.Stat(exe)
	if err != nil || !fi.Mode().IsRegular() {
		return "", errors.ToolNotFound{Path: exe}
	}
	return exe, nil
}

// RemotePath returns the destination in the tool's `remote:path` syntax.
func (t *Tool) RemotePath() string {
	return fmt.Sprintf("%s:%s", t.config.RemoteName, t.config.RemoteDirectory)
}

// failureDetail summarizes why a command failed. The end of the tool's
// error output is preferred over the exit status.
func failureDetail(res proc.Result, err error) string {
	if tail := proc.Tail(res.Stderr, 3); tail != "" {
		return tail
	}
	return errors.RootCause(err).Error()
}
