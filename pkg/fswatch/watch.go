package fswatch

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/pushsync/pkg/errors"
	"github.com/sidkik/pushsync/pkg/sync"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// Watcher reports changes to the files directly inside a directory.
type Watcher struct {
	// Changes receives a value after one or more relevant changes. Bursts
	// of changes are combined, so a receive can stand for many events.
	Changes <-chan struct{}

	watcher *fsnotify.Watcher
}

// Close stops watching. Changes isn't closed.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Watch watches `dir` for changes to the files it contains. Changes to files
// matched by `ignore`, and permission-only changes, aren't reported.
// Sub-directories aren't watched since they're never synced.
func Watch(log *logrus.Logger, dir string, ignore *sync.IgnoreList) (*Watcher, error) {
	fi, err := fs.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound{Path: dir}
		}
		return nil, errors.WithContext(err, "stat")
	}
	if !fi.IsDir() {
		return nil, errors.FileNotFound{Path: dir}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WithContext(err, "create watcher")
	}

	if err := watcher.Add(dir); err != nil {
		// Close the watcher so that we release its file handles.
		if err := watcher.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file watcher")
		}
		return nil, errors.WithContext(err, "watch "+dir)
	}

	go func() {
		for err := range watcher.Errors {
			log.WithError(err).Warn("File watcher error")
		}
	}()

	filter := func(event fsnotify.Event) bool {
		if event.Op == fsnotify.Chmod {
			return false
		}
		return !ignore.ShouldIgnore(filepath.Base(event.Name))
	}
	return &Watcher{
		Changes: combineUpdates(watcher.Events, filter),
		watcher: watcher,
	}, nil
}

func combineUpdates(updates <-chan fsnotify.Event, filter func(fsnotify.Event) bool) chan struct{} {
	combined := make(chan struct{}, 1)
	go func() {
		for event := range updates {
			if !filter(event) {
				continue
			}

			select {
			case combined <- struct{}{}:
			default:
			}
		}
	}()
	return combined
}
