package profiles

import (
	"errors"
	"io/fs"
	"path/filepath"

	"clickmate/internal/appdir"
)

// DefaultFileName is the database file inside the data directory.
const DefaultFileName = "clickmate.db"

// Locator builds the database file path from the resolved data directory.
type Locator struct {
	resolver *appdir.Resolver
	fileName string
}

// NewLocator returns a Locator for fileName (DefaultFileName when empty)
// under the directory r resolves.
func NewLocator(r *appdir.Resolver, fileName string) *Locator {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return &Locator{resolver: r, fileName: fileName}
}

// Locate resolves (and creates) the data directory and returns the database
// file path. In first-time mode it returns ErrFirstTime when the file does
// not exist; the file itself is never created here.
func (l *Locator) Locate(firstTime bool) (string, error) {
	dir, err := l.resolver.Resolve()
	if err != nil {
		if errors.Is(err, ErrNoProjectDirectory) || errors.Is(err, ErrNoDataDirectory) {
			return "", err
		}
		return "", &IOError{Op: "resolve data directory", Err: err}
	}

	path := filepath.Join(dir, l.fileName)
	if !firstTime {
		return path, nil
	}

	info, err := l.resolver.Filesystem().Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", ErrFirstTime
	case err != nil:
		return "", &IOError{Op: "stat database file", Path: path, Err: err}
	case !info.Mode().IsRegular():
		return "", ErrFirstTime
	}
	return path, nil
}

// FirstLaunch probes for the database file without creating it. first is
// true when the application has never stored data in this environment; path
// is the location the file will be created at either way.
func (l *Locator) FirstLaunch() (path string, first bool, err error) {
	path, err = l.Locate(true)
	if errors.Is(err, ErrFirstTime) {
		path, err = l.Locate(false)
		return path, true, err
	}
	return path, false, err
}
