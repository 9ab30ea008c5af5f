package profiles

import (
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mutecomm/go-sqlcipher/v4"

	"clickmate/internal/appdir"
)

var (
	// ErrNoProjectDirectory: the platform has no data directory for the
	// application identity. Environment problem.
	ErrNoProjectDirectory = appdir.ErrNoProjectDirectory

	// ErrNoDataDirectory: the resolved directory is not a valid path string.
	// Environment problem.
	ErrNoDataDirectory = appdir.ErrNoDataDirectory

	// ErrFirstTime is not a failure. Locate returns it in first-time mode when
	// the database file has never been created, so callers can start
	// onboarding. Prefer Locator.FirstLaunch, which reports it as a bool.
	ErrFirstTime = errors.New("database file does not exist yet")

	// ErrNotFound is returned by GetByID, Update and Delete when no row has the
	// requested id. It also matches sql.ErrNoRows.
	ErrNotFound = fmt.Errorf("connection profile not found: %w", sql.ErrNoRows)

	// ErrWrongPassphrase marks a storage error caused by the file being
	// unreadable under the supplied key.
	ErrWrongPassphrase = errors.New("database cannot be decrypted with this passphrase")
)

// IOError is a filesystem failure while preparing the data directory or
// inspecting the database file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// StorageError is any failure reported by the storage engine.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if isNotADB(err) {
		err = fmt.Errorf("%w: %w", ErrWrongPassphrase, err)
	}
	return &StorageError{Op: op, Err: err}
}

// isNotADB reports whether the engine rejected the file as not a database,
// which is how SQLCipher surfaces a wrong key.
func isNotADB(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrNotADB
	}
	return false
}

// Kind groups errors by how a caller should present them.
type Kind int

const (
	KindUnknown Kind = iota
	KindNoProjectDirectory
	KindNoDataDirectory
	KindFirstTime
	KindIO
	KindNotFound
	KindWrongPassphrase
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindNoProjectDirectory:
		return "no_project_directory"
	case KindNoDataDirectory:
		return "no_data_directory"
	case KindFirstTime:
		return "first_time"
	case KindIO:
		return "io"
	case KindNotFound:
		return "not_found"
	case KindWrongPassphrase:
		return "wrong_passphrase"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Environmental reports whether the kind describes a broken environment
// rather than a failed operation.
func (k Kind) Environmental() bool {
	return k == KindNoProjectDirectory || k == KindNoDataDirectory || k == KindIO
}

// Classify returns the Kind of err. A nil error is KindUnknown.
func Classify(err error) Kind {
	var ioErr *IOError
	var stErr *StorageError
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrNoProjectDirectory):
		return KindNoProjectDirectory
	case errors.Is(err, ErrNoDataDirectory):
		return KindNoDataDirectory
	case errors.Is(err, ErrFirstTime):
		return KindFirstTime
	case errors.As(err, &ioErr):
		return KindIO
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrWrongPassphrase):
		return KindWrongPassphrase
	case errors.As(err, &stErr):
		return KindStorage
	default:
		return KindUnknown
	}
}
