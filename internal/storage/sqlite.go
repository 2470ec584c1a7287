package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore keeps records as rows of a single table in one database
// file. It honours the same contract and errors as RecordStore.
type SQLiteStore[T Record] struct {
	db         *sql.DB
	serializer Serializer
}

// OpenSQLiteStore opens or creates the database at dbPath and runs
// migrations.
func OpenSQLiteStore[T Record](dbPath string, ser Serializer) (*SQLiteStore[T], error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w: %w", ErrStorage, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w: %w", ErrStorage, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w: %w", ErrStorage, err)
	}

	s := &SQLiteStore[T]{db: db, serializer: ser}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating database: %w: %w", ErrStorage, err)
	}

	return s, nil
}

func (s *SQLiteStore[T]) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS saves (
			name TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore[T]) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore[T]) Save(rec T, overwrite bool) error {
	name := rec.RecordName()
	if err := validateName(name); err != nil {
		return err
	}

	data, err := s.serializer.Serialize(rec)
	if err != nil {
		return fmt.Errorf("saving %q: %w", name, err)
	}

	query := `INSERT INTO saves (name, body) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`
	if !overwrite {
		query = `INSERT INTO saves (name, body) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`
	}

	res, err := s.db.Exec(query, name, string(data))
	if err != nil {
		return storageErr("saving", name, err)
	}

	if !overwrite {
		n, err := res.RowsAffected()
		if err != nil {
			return storageErr("saving", name, err)
		}
		if n == 0 {
			return fmt.Errorf("saving %q: %w", name, ErrConflict)
		}
	}

	return nil
}

func (s *SQLiteStore[T]) Load(name string) (T, error) {
	var rec T
	if err := validateName(name); err != nil {
		return rec, err
	}

	var body string
	err := s.db.QueryRow(`SELECT body FROM saves WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("loading %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return rec, storageErr("loading", name, err)
	}

	return decodeRecord[T](s.serializer, name, []byte(body))
}

func (s *SQLiteStore[T]) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM saves WHERE name = ?`, name); err != nil {
		return storageErr("deleting", name, err)
	}
	return nil
}

func (s *SQLiteStore[T]) DeleteAll() error {
	if _, err := s.db.Exec(`DELETE FROM saves`); err != nil {
		return storageErr("deleting", "*", err)
	}
	return nil
}

func (s *SQLiteStore[T]) Exists(name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM saves WHERE name = ?`, name).Scan(&n)
	if err != nil {
		return false, storageErr("checking", name, err)
	}
	return n > 0, nil
}

// ListSaves yields record names in insertion order, streaming rows as the
// caller ranges.
func (s *SQLiteStore[T]) ListSaves() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		rows, err := s.db.Query(`SELECT name FROM saves ORDER BY rowid`)
		if err != nil {
			yield("", storageErr("listing", "saves", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				yield("", storageErr("listing", "saves", err))
				return
			}
			if !yield(name, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield("", storageErr("listing", "saves", err))
		}
	}
}
