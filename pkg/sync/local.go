package sync

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/sidkik/pushsync/pkg/errors"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// A LocalFile is a regular file that exists in the watched directory.
type LocalFile struct {
	// Path is the path to the file that can be opened by the pushsync
	// process.
	Path string

	// Name is the path relative to the watched directory. Since the sync
	// isn't recursive, this is just the base name, and it's the key used to
	// look the file up in the RemoteSnapshot.
	Name string

	// Size is the size of the file in bytes.
	Size int64

	// ModTime is the time of the last file modification, normalized with
	// NormalizeTime.
	ModTime time.Time
}

// NormalizeTime converts `t` into the form used for all timestamp
// comparisons: UTC, truncated to whole seconds.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// ReadMetadata returns the size and modification time of the file at `path`.
// It returns errors.FileNotFound if the path doesn't exist, or isn't a
// regular file.
func ReadMetadata(path string) (LocalFile, error) {
	fi, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return LocalFile{}, errors.FileNotFound{Path: path}
		}
		return LocalFile{}, errors.WithContext(err, "stat")
	}

	if !fi.Mode().IsRegular() {
		return LocalFile{}, errors.FileNotFound{Path: path}
	}

	return LocalFile{
		Path:    path,
		Name:    filepath.Base(path),
		Size:    fi.Size(),
		ModTime: NormalizeTime(fi.ModTime()),
	}, nil
}

// IsDir returns whether `path` exists and is a directory.
func IsDir(path string) bool {
	fi, err := fs.Stat(path)
	return err == nil && fi.IsDir()
}

// listDirectory returns the names of the direct entries of `dir` that are
// regular files, sorted by name. Symlinks are followed, and links to
// directories or to missing targets are left out.
func listDirectory(dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, errors.WithContext(err, "read dir")
	}

	var names []string
	for _, entry := range entries {
		mode := entry.Mode()
		if mode&os.ModeSymlink != 0 {
			target, err := fs.Stat(filepath.Join(dir, entry.Name()))
			if err != nil {
				continue
			}
			mode = target.Mode()
		}

		if !mode.IsRegular() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}
