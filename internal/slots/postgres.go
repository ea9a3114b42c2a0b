package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultOwner is the owner key used for single-user installs.
const DefaultOwner = "local"

// PostgresStore keeps slots in a shared PostgreSQL table keyed by owner, so
// several players can share one database.
type PostgresStore struct {
	Range
	db    *pgxpool.Pool
	owner string
}

// NewPostgresStore connects with dsn and creates the table if needed.
func NewPostgresStore(ctx context.Context, dsn, owner string, count int) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("slots: postgres dsn: %w", err)
	}
	poolConfig.MaxConns = 4
	poolConfig.MaxConnIdleTime = 10 * time.Minute

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("slots: postgres connect: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("slots: postgres ping: %w", err)
	}
	if _, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS freecell_save_slots (
			owner    TEXT        NOT NULL,
			slot     INT         NOT NULL,
			blob     BYTEA       NOT NULL,
			saved_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (owner, slot)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("slots: postgres schema: %w", err)
	}
	return NewPostgresStoreFromPool(db, owner, count), nil
}

// NewPostgresStoreFromPool wraps an existing pool. The store closes db on Close.
func NewPostgresStoreFromPool(db *pgxpool.Pool, owner string, count int) *PostgresStore {
	if owner == "" {
		owner = DefaultOwner
	}
	return &PostgresStore{Range: Range{Count: count}, db: db, owner: owner}
}

func (s *PostgresStore) Put(ctx context.Context, slot int, blob []byte) error {
	if err := s.Check(slot); err != nil {
		return err
	}
	query := `
		INSERT INTO freecell_save_slots (owner, slot, blob, saved_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (owner, slot) DO UPDATE SET blob = EXCLUDED.blob, saved_at = EXCLUDED.saved_at
	`
	if _, err := s.db.Exec(ctx, query, s.owner, slot, blob); err != nil {
		return fmt.Errorf("slots: postgres put %d: %w", slot, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, slot int) ([]byte, error) {
	if err := s.Check(slot); err != nil {
		return nil, err
	}
	var blob []byte
	err := s.db.QueryRow(ctx, `SELECT blob FROM freecell_save_slots WHERE owner = $1 AND slot = $2`, s.owner, slot).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("slots: postgres get %d: %w", slot, err)
	}
	return blob, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Info, error) {
	query := `
		SELECT slot, octet_length(blob), saved_at
		FROM freecell_save_slots
		WHERE owner = $1 AND slot BETWEEN 1 AND $2
		ORDER BY slot
	`
	rows, err := s.db.Query(ctx, query, s.owner, s.Count)
	if err != nil {
		return nil, fmt.Errorf("slots: postgres list: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var info Info
		if err := rows.Scan(&info.Slot, &info.Size, &info.SavedAt); err != nil {
			return nil, fmt.Errorf("slots: postgres list: %w", err)
		}
		info.SavedAt = info.SavedAt.UTC()
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("slots: postgres list: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, slot int) error {
	if err := s.Check(slot); err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM freecell_save_slots WHERE owner = $1 AND slot = $2`, s.owner, slot)
	if err != nil {
		return fmt.Errorf("slots: postgres delete %d: %w", slot, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotEmpty
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
