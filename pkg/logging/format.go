package logging

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// TimeLayout is the format of the timestamp that starts every line.
const TimeLayout = "2006-01-02 15:04:05"

// ActionFormatter formats entries as `YYYY-MM-DD HH:MM:SS - message`.
// Fields are appended in brackets, sorted by key. The level isn't printed
// except for warnings and errors.
type ActionFormatter struct{}

// Format implements the logrus.Formatter interface.
func (f *ActionFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(entry.Time.Format(TimeLayout))
	b.WriteString(" - ")

	switch entry.Level {
	case logrus.WarnLevel:
		b.WriteString("WARNING: ")
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		b.WriteString("ERROR: ")
	}
	b.WriteString(entry.Message)

	var keys []string
	for k := range entry.Data {
		if k == StatusField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(keys) > 0 {
		b.WriteString(" [")
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%s=%v", k, entry.Data[k])
		}
		b.WriteByte(']')
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}
