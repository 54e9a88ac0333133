package util

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/sidkik/pushsync/pkg/errors"
)

// Mocked out for unit testing.
var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// HandleFatalError handles errors that are severe enough to terminate the
// program.
func HandleFatalError(err error) {
	log.WithError(err).Debug("Fatal error")
	fmt.Fprintln(stderr, errors.GetPrintableMessage(err))
	exit(1)
}

// HandlePanic logs the panic before letting it crash the program, so that
// the stack trace is accompanied by a hint about where to report it.
func HandlePanic() {
	if r := recover(); r != nil {
		fmt.Fprintf(stderr, "pushsync crashed unexpectedly: %v\n", r)
		panic(r)
	}
}
