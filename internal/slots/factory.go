package slots

import (
	"context"
	"fmt"

	"github.com/jason-s-yu/freecell/internal/config"
)

// NewFromConfig opens the backend named by cfg.Backend.
func NewFromConfig(ctx context.Context, cfg config.Config) (Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.IOTimeout)
	defer cancel()

	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStore(cfg.SlotCount), nil
	case config.BackendFile:
		s, err := NewFileStore(cfg.DataDir, cfg.SlotCount)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendSQLite:
		s, err := NewSQLiteStore(ctx, cfg.SQLitePath, cfg.SlotCount)
		if err != nil {
			return nil, fmt.Errorf("slots: open sqlite %s: %w", cfg.SQLitePath, err)
		}
		return s, nil
	case config.BackendRedis:
		s, err := NewRedisStore(ctx, cfg.Redis, cfg.SlotCount)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendPostgres:
		s, err := NewPostgresStore(ctx, cfg.PostgresDSN, cfg.SlotOwner, cfg.SlotCount)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}
