package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/byhelaman/sched-planner/internal/schedule"
)

// DefaultRedisPrefix namespaces collection keys when no prefix is configured.
const DefaultRedisPrefix = "sched:"

// RedisStore keeps each collection as a JSON string key. A sorted set scored
// by last-write time (unix ms) indexes the keys for SweepExpired.
//
// When ttl is positive keys also carry a native expiry, so collections vanish
// even if no sweep runs. The index entry of such a key is dropped by the next
// sweep.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewRedis returns a store backed by client. Close closes the client.
func NewRedis(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl, now: time.Now}
}

func (s *RedisStore) key(id string) string { return s.prefix + "session:" + id }

func (s *RedisStore) indexKey() string { return s.prefix + "sessions" }

func (s *RedisStore) Create(ctx context.Context, records []schedule.Record) (string, error) {
	data, err := encodeRecords(records)
	if err != nil {
		return "", err
	}

	id := NewID()
	ok, err := s.client.SetNX(ctx, s.key(id), data, s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("redis create %s: %w", id, err)
	}
	if !ok {
		return "", fmt.Errorf("redis create %s: id already in use", id)
	}
	if err := s.touch(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *RedisStore) Load(ctx context.Context, id string) ([]schedule.Record, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis load %s: %w", id, err)
	}
	return decodeRecords(data)
}

// Replace uses SET XX so a deleted or expired collection is never recreated.
func (s *RedisStore) Replace(ctx context.Context, id string, records []schedule.Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}

	ok, err := s.client.SetXX(ctx, s.key(id), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis replace %s: %w", id, err)
	}
	if !ok {
		return ErrNotFound
	}
	return s.touch(ctx, id)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(id))
		pipe.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) SweepExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := s.now().Add(-maxAge).UnixMilli()

	ids, err := s.client.ZRangeByScore(ctx, s.indexKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff, 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("redis sweep scan: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, len(ids))
	members := make([]any, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
		members[i] = id
	}

	var del *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, keys...)
		pipe.ZRem(ctx, s.indexKey(), members...)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis sweep delete: %w", err)
	}
	return int(del.Val()), nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) touch(ctx context.Context, id string) error {
	err := s.client.ZAdd(ctx, s.indexKey(), redis.Z{
		Score:  float64(s.now().UnixMilli()),
		Member: id,
	}).Err()
	if err != nil {
		return fmt.Errorf("redis index %s: %w", id, err)
	}
	return nil
}
