package app

import (
	"errors"
	"sync"

	"clickmate/internal/config"
	"clickmate/internal/legacy"
	"clickmate/internal/logger"
	"clickmate/internal/profiles"
)

// ErrLocked is returned by profile operations before Unlock succeeds.
var ErrLocked = errors.New("profile store is locked")

// State is the lifecycle state of the profile store.
type State string

const (
	// StateOnboarding: no database file yet; prompt for an initial passphrase.
	StateOnboarding State = "onboarding"
	// StateLocked: the file exists but has not been opened in this session.
	StateLocked State = "locked"
	// StateUnlocked: the store is open and profile operations are available.
	StateUnlocked State = "unlocked"
	// StateBroken: the data directory cannot be resolved or created.
	StateBroken State = "broken"
)

// App is the application facade over the profile store. Methods may be called from
// several goroutines, so every use of the repository is serialised.
type App struct {
	version string
	locator *profiles.Locator

	mu   sync.Mutex
	repo *profiles.Repository
}

// NewApp returns a locked App for cfg. version is the application version.
func NewApp(version string, cfg *config.Config) *App {
	return &App{version: version, locator: cfg.Locator()}
}

// Version returns the application version.
func (a *App) Version() string {
	return a.version
}

// Status reports the store state without creating the database file. The
// error is set only for StateBroken.
func (a *App) Status() (State, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.repo != nil {
		return StateUnlocked, nil
	}
	_, first, err := a.locator.FirstLaunch()
	switch {
	case err != nil:
		logger.Warn("profile store environment is broken", "kind", profiles.Classify(err).String(), "error", err)
		return StateBroken, err
	case first:
		return StateOnboarding, nil
	default:
		return StateLocked, nil
	}
}

// DatabasePath returns where the database file lives or will be created.
func (a *App) DatabasePath() (string, error) {
	return a.locator.Locate(false)
}

// Unlock opens the store under passphrase, creating it on first use.
// Unlocking an already unlocked App is a no-op.
func (a *App) Unlock(passphrase string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.repo != nil {
		return nil
	}
	repo, err := profiles.Open(a.locator, passphrase)
	if err != nil {
		logger.Warn("unlock failed", "kind", profiles.Classify(err).String(), "error", err)
		return err
	}
	a.repo = repo
	logger.Info("profile store unlocked", "path", repo.Path())
	return nil
}

// Lock closes the store. Called at application shutdown.
func (a *App) Lock() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.repo == nil {
		return nil
	}
	err := a.repo.Close()
	a.repo = nil
	return err
}

// with runs fn against the open repository while holding the lock.
func (a *App) with(fn func(*profiles.Repository) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.repo == nil {
		return ErrLocked
	}
	return fn(a.repo)
}

// ListProfiles returns all stored profiles.
func (a *App) ListProfiles() ([]profiles.ConnectionProfile, error) {
	var out []profiles.ConnectionProfile
	err := a.with(func(r *profiles.Repository) error {
		var err error
		out, err = r.GetAll()
		return err
	})
	return out, err
}

// GetProfile returns the profile with the given id.
func (a *App) GetProfile(id int64) (profiles.ConnectionProfile, error) {
	var out profiles.ConnectionProfile
	err := a.with(func(r *profiles.Repository) error {
		var err error
		out, err = r.GetByID(id)
		return err
	})
	return out, err
}

// CreateProfile stores p and returns its new id.
func (a *App) CreateProfile(p profiles.ConnectionProfile) (int64, error) {
	var id int64
	err := a.with(func(r *profiles.Repository) error {
		var err error
		id, err = r.Create(p)
		return err
	})
	return id, err
}

// UpdateProfile overwrites the profile at id.
func (a *App) UpdateProfile(id int64, p profiles.ConnectionProfile) error {
	return a.with(func(r *profiles.Repository) error {
		return r.Update(id, p)
	})
}

// DeleteProfile removes the profile at id.
func (a *App) DeleteProfile(id int64) error {
	return a.with(func(r *profiles.Repository) error {
		return r.Delete(id)
	})
}

// ImportLegacy copies every profile from an unencrypted profile database at
// path into the store and returns the new ids.
func (a *App) ImportLegacy(path string) ([]int64, error) {
	ps, err := legacy.ReadProfiles(path)
	if err != nil {
		return nil, err
	}
	var ids []int64
	err = a.with(func(r *profiles.Repository) error {
		var err error
		ids, err = r.Import(ps)
		return err
	})
	if err == nil {
		logger.Info("imported legacy profiles", "source", path, "count", len(ids))
	}
	return ids, err
}
