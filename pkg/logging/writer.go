package logging

import (
	"os"
	"sync"

	"github.com/spf13/afero"
)

// appendWriter appends to a file without holding it open between writes,
// so that other processes can read or rotate the log while pushsync sleeps.
type appendWriter struct {
	fs   afero.Fs
	path string

	lock sync.Mutex
}

func (w *appendWriter) Write(p []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	f, err := w.fs.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, err
	}

	n, err := f.Write(p)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return n, err
}
