package logging

import (
	"fmt"
	"io"

	"github.com/buger/goterm"
	"github.com/sirupsen/logrus"
)

// StatusField marks entries that should also be shown on the console. It
// isn't written to the action log.
const StatusField = "status"

// Status returns an entry that's echoed to the console in addition to being
// logged.
func Status(log logrus.FieldLogger) *logrus.Entry {
	return log.WithField(StatusField, true)
}

type statusHook struct {
	out io.Writer
}

// NewStatusHook creates a hook that prints status entries to `out`,
// coloured by level.
func NewStatusHook(out io.Writer) logrus.Hook {
	return &statusHook{out}
}

func (h *statusHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *statusHook) Fire(entry *logrus.Entry) error {
	if isStatus, _ := entry.Data[StatusField].(bool); !isStatus {
		return nil
	}

	line := fmt.Sprintf("%s - %s", entry.Time.Format(TimeLayout), entry.Message)
	_, err := fmt.Fprintln(h.out, goterm.Color(line, levelColor(entry.Level)))
	return err
}

func levelColor(level logrus.Level) int {
	switch level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return goterm.RED
	case logrus.WarnLevel:
		return goterm.YELLOW
	default:
		return goterm.GREEN
	}
}
