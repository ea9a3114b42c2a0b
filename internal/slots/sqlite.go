package slots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps slots in a local SQLite database.
type SQLiteStore struct {
	Range
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) the database at dbPath. dbPath
// may be ":memory:".
func NewSQLiteStore(ctx context.Context, dbPath string, count int) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("slots: empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{Range: Range{Count: count}, db: db, now: time.Now}, nil
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS save_slots (
    slot INTEGER PRIMARY KEY,
    blob BLOB NOT NULL,
    saved_at_ms INTEGER NOT NULL
)`)
	return err
}

func (s *SQLiteStore) Put(ctx context.Context, slot int, blob []byte) error {
	if err := s.Check(slot); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO save_slots (slot, blob, saved_at_ms)
VALUES (?, ?, ?)
ON CONFLICT (slot) DO UPDATE SET blob = excluded.blob, saved_at_ms = excluded.saved_at_ms
`, slot, blob, s.now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("slots: sqlite put %d: %w", slot, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, slot int) ([]byte, error) {
	if err := s.Check(slot); err != nil {
		return nil, err
	}
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM save_slots WHERE slot = ?`, slot).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("slots: sqlite get %d: %w", slot, err)
	}
	return blob, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT slot, length(blob), saved_at_ms FROM save_slots
WHERE slot BETWEEN 1 AND ?
ORDER BY slot ASC
`, s.Count)
	if err != nil {
		return nil, fmt.Errorf("slots: sqlite list: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var (
			info    Info
			savedMs int64
		)
		if err := rows.Scan(&info.Slot, &info.Size, &savedMs); err != nil {
			return nil, fmt.Errorf("slots: sqlite list: %w", err)
		}
		info.SavedAt = time.UnixMilli(savedMs).UTC()
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("slots: sqlite list: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, slot int) error {
	if err := s.Check(slot); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM save_slots WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("slots: sqlite delete %d: %w", slot, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSlotEmpty
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
