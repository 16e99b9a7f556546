package sink

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/hyp3rd/ewrap"
	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/hyperagg/internal/constants"
	"github.com/hyp3rd/hyperagg/internal/sentinel"
)

// RedisSink publishes the payload under a single Redis key.
type RedisSink struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisSink creates a sink storing the payload under key, expiring after
// ttl (0 keeps it forever).
func NewRedisSink(key string, ttl time.Duration, opts ...RedisOption) (*RedisSink, error) {
	if strings.TrimSpace(key) == "" {
		key = constants.RedisDefaultKey
	}

	opt := &redis.Options{
		Dialer: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := &net.Dialer{
				Timeout: constants.RedisDialTimeout,
			}

			return dialer.DialContext(ctx, network, addr)
		},
		MaxRetries:   constants.RedisClientMaxRetries,
		DialTimeout:  constants.RedisDialTimeout,
		ReadTimeout:  constants.RedisClientReadTimeout,
		WriteTimeout: constants.RedisClientWriteTimeout,
		PoolSize:     constants.RedisClientPoolSize,
		PoolTimeout:  constants.RedisClientPoolTimeout,
	}

	ApplyRedisOptions(opt, opts...)

	if strings.TrimSpace(opt.Addr) == "" {
		return nil, ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "redis address")
	}

	return &RedisSink{client: redis.NewClient(opt), key: key, ttl: ttl}, nil
}

// Key returns the Redis key the payload is stored under.
func (s *RedisSink) Key() string {
	return s.key
}

// Write implements Sink.
func (s *RedisSink) Write(ctx context.Context, payload []byte) error {
	err := s.client.Set(ctx, s.key, payload, s.ttl).Err()
	if err != nil {
		return ewrap.Wrapf(sentinel.ErrIO, "redis set %s: %v", s.key, err)
	}

	return nil
}

// Close releases the client connections.
func (s *RedisSink) Close() error {
	err := s.client.Close()
	if err != nil {
		return ewrap.Wrap(err, "closing redis client")
	}

	return nil
}
