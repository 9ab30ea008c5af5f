package profiles

import (
	"database/sql"
	"net/url"
	"strings"

	_ "github.com/mutecomm/go-sqlcipher/v4"
)

// TableName is part of the on-disk compatibility surface.
const TableName = "connections"

// schemaSQL is the single fixed schema. Column order and names must not change.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS connections (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    name     TEXT,
    host     TEXT NOT NULL,
    port     INTEGER NOT NULL,
    secure   BOOLEAN NOT NULL,
    username TEXT NOT NULL,
    password TEXT,
    database TEXT
)`

// keyedDSN builds a go-sqlcipher DSN that makes the driver issue
// PRAGMA key as the first statement on every new connection, before any
// of its own setup statements touch the file. The driver wraps the value in
// double quotes, so embedded double quotes are doubled.
func keyedDSN(path, passphrase string) string {
	key := strings.ReplaceAll(passphrase, `"`, `""`)
	return path + "?_pragma_key=" + url.QueryEscape(key)
}

// OpenDB opens (or creates) the encrypted database at path under passphrase.
// The key directive does not validate the passphrase; a wrong key shows up
// as SQLITE_NOTADB on the first statement that reads the file.
func OpenDB(path, passphrase string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", keyedDSN(path, passphrase))
	if err != nil {
		return nil, storageErr("open database", err)
	}

	// The repository owns exactly one engine connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, storageErr("open database", err)
	}
	return db, nil
}

// InitSchema creates the connections table if it does not already exist.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return storageErr("init schema", err)
	}
	return nil
}
