package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	// sqlite driver
	_ "modernc.org/sqlite"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

const createTableStmt = `
	CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)
`

type config interface {
	Path() string
}

// SQLiteStorage is the durable device-local store backing session
// persistence and offline snapshot caches.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(cfg config) (*SQLiteStorage, error) {
	path := cfg.Path()
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create storage directory")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open storage")
	}
	if _, err = db.Exec(createTableStmt); err != nil {
		return nil, errors.Wrap(err, "init storage schema")
	}
	return &SQLiteStorage{db}, nil
}

func (s *SQLiteStorage) Get(key string) ([]byte, bool, error) {
	query := qb.Select("value").
		From("kv").
		Where(sq.Eq{"key": key})

	var value []byte
	err := query.RunWith(s.db).QueryRow().Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "get value")
	}
	return value, true, nil
}

func (s *SQLiteStorage) Set(key string, value []byte) error {
	query := qb.Insert("kv").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = ?",
			value, time.Now().UTC())

	_, err := query.RunWith(s.db).Exec()
	return errors.Wrap(err, "set value")
}

func (s *SQLiteStorage) Delete(key string) error {
	query := qb.Delete("kv").
		Where(sq.Eq{"key": key})

	_, err := query.RunWith(s.db).Exec()
	return errors.Wrap(err, "delete value")
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
