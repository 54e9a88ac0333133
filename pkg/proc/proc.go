package proc

//go:generate mockery -name Runner

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sidkik/pushsync/pkg/errors"
)

// Command is a program invocation. The arguments are passed to the program
// as is, without going through a shell.
type Command struct {
	Path string
	Args []string
}

// String returns the command as it would be typed into a shell. Arguments
// containing whitespace or quotes are quoted.
func (c Command) String() string {
	parts := []string{quote(c.Path)}
	for _, arg := range c.Args {
		parts = append(parts, quote(arg))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"'") {
		return strconv.Quote(s)
	}
	return s
}

// Result holds the output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner runs commands to completion.
type Runner interface {
	// Run blocks until the command exits. It returns an error if the
	// command couldn't be started, or exited with a non-zero status. In the
	// latter case, the Result is still populated.
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

// Run implements the Runner interface.
func (ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	var stdout, stderr bytes.Buffer
	execCmd := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	err := execCmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
	}

	if err != nil {
		return res, errors.WithContext(err, "run")
	}
	return res, nil
}

// Tail returns at most the last `n` non-empty lines of `output`, joined by
// "; ". It's used to include the end of a tool's error output in log
// messages.
func Tail(output string, n int) string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "; ")
}
