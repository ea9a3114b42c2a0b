package slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jason-s-yu/freecell/internal/config"
)

// RedisStore keeps slots in Redis.
//
//	<prefix>:slot:<n>  blob
//	<prefix>:slots     hash of slot -> saved-at unix millis
type RedisStore struct {
	Range
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore connects to the server in cfg and verifies it answers.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig, count int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("slots: redis ping %s: %w", cfg.Addr, err)
	}
	return NewRedisStoreFromClient(client, cfg.Prefix, count), nil
}

// NewRedisStoreFromClient wraps an existing client. The store owns client
// and closes it on Close.
func NewRedisStoreFromClient(client *redis.Client, prefix string, count int) *RedisStore {
	if prefix == "" {
		prefix = "freecell"
	}
	return &RedisStore{Range: Range{Count: count}, client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) slotKey(slot int) string {
	return fmt.Sprintf("%s:slot:%d", s.prefix, slot)
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":slots"
}

func (s *RedisStore) Put(ctx context.Context, slot int, blob []byte) error {
	if err := s.Check(slot); err != nil {
		return err
	}
	savedAt := s.now().UTC().UnixMilli()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.slotKey(slot), blob, 0)
		pipe.HSet(ctx, s.indexKey(), strconv.Itoa(slot), savedAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("slots: redis put %d: %w", slot, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, slot int) ([]byte, error) {
	if err := s.Check(slot); err != nil {
		return nil, err
	}
	blob, err := s.client.Get(ctx, s.slotKey(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("slots: redis get %d: %w", slot, err)
	}
	return blob, nil
}

func (s *RedisStore) List(ctx context.Context) ([]Info, error) {
	index, err := s.client.HGetAll(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("slots: redis list: %w", err)
	}

	type entry struct {
		info Info
		size *redis.IntCmd
	}
	entries := make([]entry, 0, len(index))
	pipe := s.client.Pipeline()
	for field, savedMs := range index {
		slot, err := strconv.Atoi(field)
		if err != nil || s.Check(slot) != nil {
			continue
		}
		ms, _ := strconv.ParseInt(savedMs, 10, 64)
		entries = append(entries, entry{
			info: Info{Slot: slot, SavedAt: time.UnixMilli(ms).UTC()},
			size: pipe.StrLen(ctx, s.slotKey(slot)),
		})
	}
	if len(entries) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("slots: redis list: %w", err)
		}
	}

	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		n := e.size.Val()
		if n == 0 {
			continue // blob expired or removed behind our back
		}
		e.info.Size = int(n)
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, slot int) error {
	if err := s.Check(slot); err != nil {
		return err
	}
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.slotKey(slot))
		pipe.HDel(ctx, s.indexKey(), strconv.Itoa(slot))
		return nil
	})
	if err != nil {
		return fmt.Errorf("slots: redis delete %d: %w", slot, err)
	}
	if del.Val() == 0 {
		return ErrSlotEmpty
	}
	return nil
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
