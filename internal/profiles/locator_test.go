package profiles

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"clickmate/internal/appdir"
)

func TestLocate_FirstTimeBeforeOpen(t *testing.T) {
	loc := newTestLocator(t)

	_, err := loc.Locate(true)
	if !errors.Is(err, ErrFirstTime) {
		t.Fatalf("expected ErrFirstTime, got %v", err)
	}
	if Classify(err) != KindFirstTime {
		t.Errorf("expected KindFirstTime, got %s", Classify(err))
	}

	path, err := loc.Locate(false)
	if err != nil {
		t.Fatalf("Locate(false): %v", err)
	}
	if filepath.Base(path) != DefaultFileName {
		t.Errorf("expected file name %s, got %s", DefaultFileName, path)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected probe not to create %s", path)
	}
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		t.Errorf("expected data directory to be created, got %v", err)
	}
}

func TestLocate_FirstTimeAfterOpenDoesNotModifyFile(t *testing.T) {
	loc := newTestLocator(t)
	repo, err := Open(loc, "secret")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	path := repo.Path()
	repo.Close()

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	got, err := loc.Locate(true)
	if err != nil {
		t.Fatalf("Locate(true): %v", err)
	}
	if got != path {
		t.Errorf("expected %s, got %s", path, got)
	}

	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !after.ModTime().Equal(before.ModTime()) || after.Size() != before.Size() {
		t.Error("expected first-time probe to leave the file untouched")
	}
}

func TestFirstLaunch(t *testing.T) {
	loc := newTestLocator(t)

	path, first, err := loc.FirstLaunch()
	if err != nil {
		t.Fatalf("FirstLaunch: %v", err)
	}
	if !first {
		t.Error("expected first launch before any open")
	}

	repo, err := Open(loc, "secret")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	repo.Close()

	again, first, err := loc.FirstLaunch()
	if err != nil {
		t.Fatalf("FirstLaunch: %v", err)
	}
	if first {
		t.Error("expected not first launch after open")
	}
	if again != path {
		t.Errorf("expected %s, got %s", path, again)
	}
}

func TestLocate_DirectoryPathIsNotTreatedAsFile(t *testing.T) {
	loc := newTestLocator(t)
	path, err := loc.Locate(false)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if err := os.Mkdir(path, 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := loc.Locate(true); !errors.Is(err, ErrFirstTime) {
		t.Errorf("expected ErrFirstTime for a directory, got %v", err)
	}
}

func TestLocate_IOError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	loc := NewLocator(&appdir.Resolver{Override: filepath.Join(blocker, "data")}, "")

	_, err := loc.Locate(false)
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %T: %v", err, err)
	}
	if Classify(err) != KindIO || !Classify(err).Environmental() {
		t.Errorf("expected environmental KindIO, got %s", Classify(err))
	}

	if _, err := Open(loc, "secret"); Classify(err) != KindIO {
		t.Errorf("expected Open to surface KindIO, got %v", err)
	}
}

func TestLocate_EnvironmentErrors(t *testing.T) {
	noHome := NewLocator(&appdir.Resolver{
		Identity: appdir.Identity{Qualifier: "com", Organization: "clickmate", Application: "clickmate"},
		GOOS:     "linux",
		Getenv:   func(string) string { return "" },
		HomeDir:  func() (string, error) { return "", errors.New("no home") },
	}, "")
	if _, err := noHome.Locate(false); Classify(err) != KindNoProjectDirectory {
		t.Errorf("expected KindNoProjectDirectory, got %v", err)
	}

	badPath := NewLocator(&appdir.Resolver{Override: "/tmp/\xff"}, "")
	if _, err := badPath.Locate(true); Classify(err) != KindNoDataDirectory {
		t.Errorf("expected KindNoDataDirectory, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{nil, KindUnknown},
		{errors.New("other"), KindUnknown},
		{ErrFirstTime, KindFirstTime},
		{&StorageError{Op: "x", Err: errors.New("boom")}, KindStorage},
		{&StorageError{Op: "x", Err: ErrNotFound}, KindNotFound},
		{&IOError{Op: "x", Err: os.ErrPermission}, KindIO},
	}
	for _, c := range cases {
		if got := Classify(c.err); got != c.want {
			t.Errorf("Classify(%v) = %s, want %s", c.err, got, c.want)
		}
	}
}
