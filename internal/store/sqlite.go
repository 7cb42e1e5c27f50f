package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps lesson documents in a single sqlite table keyed by
// slug. It satisfies the same DocStore contract as the flat-file backend,
// so the grading engine and editing pipeline are unaware of the swap.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS lessons (
		slug TEXT PRIMARY KEY,
		doc TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Load(slug string) ([]byte, error) {
	var doc string
	err := s.db.QueryRow(`SELECT doc FROM lessons WHERE slug = ?`, slug).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

func (s *SQLiteStore) Save(slug string, doc []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO lessons (slug, doc) VALUES (?, ?)
		 ON CONFLICT(slug) DO UPDATE SET doc = ?`,
		slug, string(doc), string(doc),
	)
	return err
}

func (s *SQLiteStore) Exists(slug string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM lessons WHERE slug = ?`, slug).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *SQLiteStore) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT slug FROM lessons ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}
