package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const schema = `CREATE TABLE IF NOT EXISTS games (
    id         TEXT PRIMARY KEY,
    state      INTEGER NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// games table exists.
func OpenSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create games table: %w", err)
	}
	log.Debug().Str("path", path).Msg("sqlite store ready")
	return &SQLite{db: db}, nil
}

func (s *SQLite) Save(ctx context.Context, id string, word uint32) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO games (id, state, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		id, int64(word),
	)
	if err != nil {
		return fmt.Errorf("save game %s: %w", id, err)
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context, id string) (uint32, error) {
	var w int64
	err := s.db.QueryRowContext(ctx, `SELECT state FROM games WHERE id = ?`, id).Scan(&w)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load game %s: %w", id, err)
	}
	if w < 0 || w > 0xffffffff {
		return 0, fmt.Errorf("load game %s: stored state %d does not fit in 32 bits", id, w)
	}
	return uint32(w), nil
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
