package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"campus-booking/pkg/utils"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrLocked means another holder owns the lock.
var ErrLocked = errors.New("lock is held by another owner")

// Locker serializes work across instances.
type Locker interface {
	// Acquire takes key for ttl and returns the function that releases it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

// Client wraps the redis connection.
type Client struct {
	rdb *goredis.Client
	log *zap.Logger
}

// NewClient connects and pings once.
func NewClient(cfg utils.RedisConfig, log *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}

	log.Info("Redis connected", zap.String("addr", cfg.Addr))
	return &Client{rdb: rdb, log: log.With(zap.String("component", "redis"))}, nil
}

const lockPrefix = "lock:"

// releaseScript deletes the key only while it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (c *Client) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	token := utils.GenerateToken()
	ok, err := c.rdb.SetNX(ctx, lockPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLocked
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, c.rdb, []string{lockPrefix + key}, token).Err(); err != nil {
			c.log.Warn("Failed to release lock", zap.String("key", key), zap.Error(err))
			return fmt.Errorf("release lock %s: %w", key, err)
		}
		return nil
	}
	return release, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// LocalLocker serializes holders inside one process. Used when redis is disabled.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]time.Time // key -> expiry
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]time.Time)}
}

func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if expiry, ok := l.held[key]; ok && now.Before(expiry) {
		return nil, ErrLocked
	}
	expiry := now.Add(ttl)
	l.held[key] = expiry

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[key] == expiry {
			delete(l.held, key)
		}
		return nil
	}, nil
}

// NopLocker always succeeds.
type NopLocker struct{}

func (NopLocker) Acquire(context.Context, string, time.Duration) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}
