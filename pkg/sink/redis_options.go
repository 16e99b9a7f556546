package sink

import (
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOption is a function type that can be used to configure the Redis client of a RedisSink.
type RedisOption func(*redis.Options)

// ApplyRedisOptions applies the given options to opt.
func ApplyRedisOptions(opt *redis.Options, options ...RedisOption) {
	for _, option := range options {
		option(opt)
	}
}

// WithRedisAddr sets the `Addr` field of the `redis.Options` struct.
func WithRedisAddr(addr string) RedisOption {
	return func(opt *redis.Options) {
		opt.Addr = addr
	}
}

// WithRedisUsername sets the `Username` field of the `redis.Options` struct.
func WithRedisUsername(username string) RedisOption {
	return func(opt *redis.Options) {
		opt.Username = username
	}
}

// WithRedisPassword sets the `Password` field of the `redis.Options` struct.
func WithRedisPassword(password string) RedisOption {
	return func(opt *redis.Options) {
		opt.Password = password
	}
}

// WithRedisDB sets the `DB` field of the `redis.Options` struct.
func WithRedisDB(db int) RedisOption {
	return func(opt *redis.Options) {
		opt.DB = db
	}
}

// WithRedisWriteTimeout sets the `WriteTimeout` field of the `redis.Options` struct.
func WithRedisWriteTimeout(writeTimeout time.Duration) RedisOption {
	return func(opt *redis.Options) {
		opt.WriteTimeout = writeTimeout
	}
}

// WithRedisTLSConfig sets the `TLSConfig` field of the `redis.Options` struct.
func WithRedisTLSConfig(tlsConfig *tls.Config) RedisOption {
	return func(opt *redis.Options) {
		opt.TLSConfig = tlsConfig
	}
}

// WithRedisMaxRetries sets the `MaxRetries` field of the `redis.Options` struct. -1 disables retries.
func WithRedisMaxRetries(maxRetries int) RedisOption {
	return func(opt *redis.Options) {
		opt.MaxRetries = maxRetries
	}
}
