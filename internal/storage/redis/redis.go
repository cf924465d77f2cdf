package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"plant-logbook/internal/config"
	"plant-logbook/internal/storage"
)

// Storage is a storage.Medium on top of plain redis strings.
type Storage struct {
	rdb *redis.Client
}

func New(ctx context.Context, cfg config.Redis) (*Storage, error) {
	const op = "storage.redis.New"

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("%s: ping %s: %w", op, cfg.Address, err)
	}

	return &Storage{rdb: rdb}, nil
}

func NewWithClient(rdb *redis.Client) *Storage {
	return &Storage{rdb: rdb}
}

func (s *Storage) Client() *redis.Client {
	return s.rdb
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	const op = "storage.redis.Get"

	val, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", storage.ErrKeyNotFound
		}
		return "", fmt.Errorf("%s: key=%s: %w", op, key, err)
	}

	return val, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	const op = "storage.redis.Set"

	if err := s.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("%s: key=%s: %w", op, key, err)
	}

	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	const op = "storage.redis.Remove"

	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%s: key=%s: %w", op, key, err)
	}

	return nil
}

func (s *Storage) Close() error {
	return s.rdb.Close()
}

// Locker serializes read-modify-write cycles of several processes sharing
// one redis instance.
type Locker struct {
	locker *redislock.Client
	ttl    time.Duration
}

func NewLocker(rdb *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Locker{locker: redislock.New(rdb), ttl: ttl}
}

// Lock blocks until key is obtained or ctx is done. The returned func releases it.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	const op = "storage.redis.Lock"

	lock, err := l.locker.Obtain(ctx, "lock:"+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 40),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: key=%s: %w", op, key, err)
	}

	return func() {
		// context.Background: the caller's ctx may already be cancelled
		_ = lock.Release(context.Background())
	}, nil
}
