// Package legacy reads connection profiles from an unencrypted SQLite file
// with the same connections table, so they can be imported into the
// encrypted store.
package legacy

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"

	_ "modernc.org/sqlite"

	"clickmate/internal/profiles"
)

// ReadProfiles returns every profile stored in the plaintext database at
// path, in storage order. The file is opened read-only and never created.
func ReadProfiles(path string) ([]profiles.ConnectionProfile, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &profiles.IOError{Op: "open legacy database", Path: path, Err: err}
	}

	dsn := "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &profiles.StorageError{Op: "open legacy database", Err: err}
	}
	defer db.Close()

	rows, err := db.Query("SELECT " + profiles.Columns + " FROM " + profiles.TableName)
	if err != nil {
		return nil, &profiles.StorageError{Op: "read legacy profiles", Err: err}
	}
	defer rows.Close()

	var out []profiles.ConnectionProfile
	for rows.Next() {
		p, err := profiles.ScanProfile(rows)
		if err != nil {
			return nil, &profiles.StorageError{Op: "read legacy profiles", Err: fmt.Errorf("row %d: %w", len(out), err)}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &profiles.StorageError{Op: "read legacy profiles", Err: err}
	}
	return out, nil
}
