package profiles

import (
	"database/sql"
	"fmt"

	"clickmate/internal/logger"
)

// Columns is the select list in on-disk column order.
const Columns = "id, name, host, port, secure, username, password, database"

const (
	insertSQL = "INSERT INTO connections (name, host, port, secure, username, password, database) VALUES (?, ?, ?, ?, ?, ?, ?)"
	updateSQL = "UPDATE connections SET name = ?, host = ?, port = ?, secure = ?, username = ?, password = ?, database = ? WHERE id = ?"
	deleteSQL = "DELETE FROM connections WHERE id = ?"
)

// Repository provides CRUD over connection profiles in the encrypted
// database. It owns one engine handle and is not safe for concurrent use.
type Repository struct {
	db   *sql.DB
	path string
}

// Open locates the database file (creating the data directory if needed),
// opens it under passphrase and ensures the schema exists.
func Open(loc *Locator, passphrase string) (*Repository, error) {
	path, err := loc.Locate(false)
	if err != nil {
		return nil, err
	}

	db, err := OpenDB(path, passphrase)
	if err != nil {
		return nil, err
	}
	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("opened profile database", "path", path)
	return &Repository{db: db, path: path}, nil
}

// Path returns the database file path.
func (r *Repository) Path() string { return r.path }

// Close closes the underlying database connection.
func (r *Repository) Close() error { return r.db.Close() }

// Create inserts p, ignoring p.ID, and returns the id assigned by storage.
func (r *Repository) Create(p ConnectionProfile) (int64, error) {
	res, err := r.db.Exec(insertSQL, insertArgs(p)...)
	if err != nil {
		return 0, storageErr("create profile", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("create profile", err)
	}
	logger.Debug("created connection profile", "id", id)
	return id, nil
}

// Import inserts all of ps in one transaction and returns their ids in order.
// Nothing is written if any insert fails.
func (r *Repository) Import(ps []ConnectionProfile) ([]int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, storageErr("import profiles", err)
	}
	defer tx.Rollback()

	ids := make([]int64, 0, len(ps))
	for i, p := range ps {
		res, err := tx.Exec(insertSQL, insertArgs(p)...)
		if err != nil {
			return nil, storageErr(fmt.Sprintf("import profile %d", i), err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, storageErr(fmt.Sprintf("import profile %d", i), err)
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, storageErr("import profiles", err)
	}
	logger.Debug("imported connection profiles", "count", len(ids))
	return ids, nil
}

// GetAll returns every profile in storage order.
func (r *Repository) GetAll() ([]ConnectionProfile, error) {
	rows, err := r.db.Query("SELECT " + Columns + " FROM connections")
	if err != nil {
		return nil, storageErr("list profiles", err)
	}
	defer rows.Close()

	profiles := []ConnectionProfile{}
	for rows.Next() {
		p, err := ScanProfile(rows)
		if err != nil {
			return nil, storageErr("list profiles", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list profiles", err)
	}
	return profiles, nil
}

// GetByID returns the profile with the given id, or ErrNotFound.
func (r *Repository) GetByID(id int64) (ConnectionProfile, error) {
	row := r.db.QueryRow("SELECT "+Columns+" FROM connections WHERE id = ?", id)
	p, err := ScanProfile(row)
	if err == sql.ErrNoRows {
		return ConnectionProfile{}, &StorageError{Op: "get profile", Err: fmt.Errorf("id %d: %w", id, ErrNotFound)}
	}
	if err != nil {
		return ConnectionProfile{}, storageErr("get profile", err)
	}
	return p, nil
}

// Update overwrites every field of the row at id with p. p.ID is ignored.
// Returns ErrNotFound when no row has that id.
func (r *Repository) Update(id int64, p ConnectionProfile) error {
	args := append(insertArgs(p), id)
	res, err := r.db.Exec(updateSQL, args...)
	if err != nil {
		return storageErr("update profile", err)
	}
	if err := requireRow(res, "update profile", id); err != nil {
		return err
	}
	logger.Debug("updated connection profile", "id", id)
	return nil
}

// Delete removes the row at id. Returns ErrNotFound when no row has that id.
func (r *Repository) Delete(id int64) error {
	res, err := r.db.Exec(deleteSQL, id)
	if err != nil {
		return storageErr("delete profile", err)
	}
	if err := requireRow(res, "delete profile", id); err != nil {
		return err
	}
	logger.Debug("deleted connection profile", "id", id)
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ScanProfile decodes one row selected with Columns. A NULL in a required
// column or a value of the wrong type is an error.
func ScanProfile(s rowScanner) (ConnectionProfile, error) {
	var (
		p                        ConnectionProfile
		id                       int64
		name, password, database sql.NullString
	)
	if err := s.Scan(&id, &name, &p.Host, &p.Port, &p.Secure, &p.Username, &password, &database); err != nil {
		return ConnectionProfile{}, err
	}
	p.ID = &id
	p.Name = fromNull(name)
	p.Password = fromNull(password)
	p.Database = fromNull(database)
	return p, nil
}

func insertArgs(p ConnectionProfile) []any {
	return []any{toNull(p.Name), p.Host, p.Port, p.Secure, p.Username, toNull(p.Password), toNull(p.Database)}
}

func requireRow(res sql.Result, op string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(op, err)
	}
	if n == 0 {
		return &StorageError{Op: op, Err: fmt.Errorf("id %d: %w", id, ErrNotFound)}
	}
	return nil
}

func toNull(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func fromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
