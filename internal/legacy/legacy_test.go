package legacy

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"clickmate/internal/appdir"
	"clickmate/internal/profiles"
)

const plainSchema = `
CREATE TABLE connections (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    name     TEXT,
    host     TEXT NOT NULL,
    port     INTEGER NOT NULL,
    secure   BOOLEAN NOT NULL,
    username TEXT NOT NULL,
    password TEXT,
    database TEXT
)`

func writePlainDB(t *testing.T, stmts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "old profiles.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	return path
}

func TestReadProfiles(t *testing.T) {
	path := writePlainDB(t, plainSchema,
		"INSERT INTO connections (name, host, port, secure, username, password, database) VALUES ('prod', 'ch1', 8443, 1, 'admin', 'pw', 'events')",
		"INSERT INTO connections (host, port, secure, username) VALUES ('localhost', 8123, 0, 'default')",
	)

	ps, err := ReadProfiles(path)
	if err != nil {
		t.Fatalf("ReadProfiles: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(ps))
	}

	first := ps[0]
	if first.Name == nil || *first.Name != "prod" {
		t.Errorf("expected name prod, got %v", first.Name)
	}
	if first.Host != "ch1" || first.Port != 8443 || !first.Secure || first.Username != "admin" {
		t.Errorf("unexpected first profile %+v", first)
	}
	if first.Password == nil || *first.Password != "pw" || first.Database == nil || *first.Database != "events" {
		t.Errorf("unexpected optional fields %+v", first)
	}

	second := ps[1]
	if second.Secure || second.Name != nil || second.Password != nil || second.Database != nil {
		t.Errorf("unexpected second profile %+v", second)
	}
}

func TestReadProfiles_MissingFile(t *testing.T) {
	_, err := ReadProfiles(filepath.Join(t.TempDir(), "nope.db"))
	var ioErr *profiles.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %T: %v", err, err)
	}
}

func TestReadProfiles_MissingTable(t *testing.T) {
	path := writePlainDB(t, "CREATE TABLE other (x INTEGER)")
	_, err := ReadProfiles(path)
	if profiles.Classify(err) != profiles.KindStorage {
		t.Errorf("expected storage error, got %v", err)
	}
}

func TestReadProfiles_EncryptedFile(t *testing.T) {
	loc := profiles.NewLocator(&appdir.Resolver{Override: t.TempDir()}, "")
	repo, err := profiles.Open(loc, "secret")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := repo.Create(profiles.ConnectionProfile{Host: "h", Port: 1, Username: "u"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	repo.Close()

	if _, err := ReadProfiles(repo.Path()); profiles.Classify(err) != profiles.KindStorage {
		t.Errorf("expected storage error reading an encrypted file, got %v", err)
	}
}

func TestReadProfiles_ImportIntoEncryptedStore(t *testing.T) {
	path := writePlainDB(t, plainSchema,
		"INSERT INTO connections (host, port, secure, username) VALUES ('a', 1, 0, 'u')",
		"INSERT INTO connections (host, port, secure, username) VALUES ('b', 2, 1, 'u')",
	)
	ps, err := ReadProfiles(path)
	if err != nil {
		t.Fatalf("ReadProfiles: %v", err)
	}

	loc := profiles.NewLocator(&appdir.Resolver{Override: t.TempDir()}, "")
	repo, err := profiles.Open(loc, "secret")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer repo.Close()

	ids, err := repo.Import(ps)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %v", ids)
	}
	got, err := repo.GetByID(ids[1])
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Host != "b" || !got.Secure {
		t.Errorf("unexpected imported profile %+v", got)
	}
}
