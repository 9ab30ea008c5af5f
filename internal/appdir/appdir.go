// Package appdir resolves the per-OS application data directory for a fixed
// (qualifier, organization, application) identity.
package appdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
)

var (
	// ErrNoProjectDirectory is returned when the platform cannot produce a
	// directory for the identity, e.g. no home directory can be determined.
	ErrNoProjectDirectory = errors.New("no project directory for application identity")

	// ErrNoDataDirectory is returned when the resolved directory is not a valid
	// UTF-8 path string.
	ErrNoDataDirectory = errors.New("data directory path is not a valid string")
)

// Identity names the application on disk.
type Identity struct {
	Qualifier    string `mapstructure:"qualifier"`
	Organization string `mapstructure:"organization"`
	Application  string `mapstructure:"application"`
}

// Resolver computes and creates the data directory for an Identity.
// The zero values of GOOS, Getenv, HomeDir and Fs fall back to the running
// platform, the process environment, go-homedir and the OS filesystem.
type Resolver struct {
	Identity Identity
	// Override, when set, is used verbatim instead of the platform directory.
	Override string

	GOOS    string
	Getenv  func(string) string
	HomeDir func() (string, error)
	Fs      afero.Fs
}

// NewResolver returns a Resolver for id on the running platform.
func NewResolver(id Identity) *Resolver {
	return &Resolver{Identity: id}
}

// Filesystem returns the filesystem the resolver creates directories on.
func (r *Resolver) Filesystem() afero.Fs {
	if r.Fs == nil {
		return afero.NewOsFs()
	}
	return r.Fs
}

// DataDir computes the data directory path without touching the filesystem.
func (r *Resolver) DataDir() (string, error) {
	if r.Override != "" {
		return filepath.Clean(r.Override), nil
	}
	if strings.TrimSpace(r.Identity.Application) == "" {
		return "", ErrNoProjectDirectory
	}

	switch r.goos() {
	case "windows":
		base := r.getenv("APPDATA")
		if base == "" || !filepath.IsAbs(base) {
			return "", ErrNoProjectDirectory
		}
		return filepath.Join(base, r.Identity.Organization, r.Identity.Application, "data"), nil
	case "darwin", "ios":
		home, err := r.home()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", darwinProjectPath(r.Identity)), nil
	default:
		base := r.getenv("XDG_DATA_HOME")
		if base == "" || !filepath.IsAbs(base) {
			home, err := r.home()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, ".local", "share")
		}
		return filepath.Join(base, unixProjectPath(r.Identity)), nil
	}
}

// Resolve computes the data directory and creates it, with any missing
// parents, when it does not exist yet.
func (r *Resolver) Resolve() (string, error) {
	dir, err := r.DataDir()
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(dir) {
		return "", ErrNoDataDirectory
	}

	fs := r.Filesystem()
	if ok, err := afero.DirExists(fs, dir); err == nil && ok {
		return dir, nil
	}
	if err := fs.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}

func (r *Resolver) goos() string {
	if r.GOOS != "" {
		return r.GOOS
	}
	return runtime.GOOS
}

func (r *Resolver) getenv(key string) string {
	if r.Getenv != nil {
		return r.Getenv(key)
	}
	return os.Getenv(key)
}

func (r *Resolver) home() (string, error) {
	lookup := r.HomeDir
	if lookup == nil {
		lookup = homedir.Dir
	}
	home, err := lookup()
	if err != nil || home == "" {
		return "", ErrNoProjectDirectory
	}
	return home, nil
}

// unixProjectPath lower-cases the application name and drops whitespace.
func unixProjectPath(id Identity) string {
	return strings.Join(strings.Fields(strings.ToLower(id.Application)), "")
}

// darwinProjectPath is the reverse-domain bundle style name, spaces as dashes.
func darwinProjectPath(id Identity) string {
	parts := []string{id.Qualifier, id.Organization, id.Application}
	for i, p := range parts {
		parts[i] = strings.Join(strings.Fields(p), "-")
	}
	return strings.Join(parts, ".")
}
