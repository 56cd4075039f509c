package storage

import (
	"context"
	"errors"
	"time"
)

// Common errors
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrClosed      = errors.New("kv store closed")
)

// KV defines the interface for flat key-value storage with per-key TTL.
//
// Implementation requirements:
//   - Thread-safe: concurrent reads/writes must be safe
//   - TTL: keys with ttl > 0 must become unreadable after expiry;
//     ttl == 0 means no expiry
type KV interface {
	// Set stores a key-value pair. A ttl of zero means the key never
	// expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value by key.
	// Returns ErrKeyNotFound if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Scan iterates over keys with a given prefix.
	// Callback returns false to stop iteration.
	Scan(ctx context.Context, prefix string, fn func(key string, value []byte) bool) error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close gracefully shuts down the store.
	Close() error
}

// Config configures the KV storage layer.
type Config struct {
	// Engine selects the KV engine ("badger", "redis", "memory").
	// Default: "badger"
	Engine string

	// Badger-specific configuration
	Badger BadgerConfig

	// Redis-specific configuration
	Redis RedisConfig
}

// BadgerConfig contains Badger-specific tuning parameters.
type BadgerConfig struct {
	// Dir is the storage directory.
	Dir string

	// GCInterval is the interval between automatic value-log GC runs.
	// Default: 10m
	GCInterval string

	// GCThreshold is the GC discard ratio threshold (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 32MB
	CacheSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 256MB
	ValueLogFileSize int64

	// SyncWrites enables fsync after each write.
	// Default: true (grants are money; durability over throughput)
	SyncWrites bool
}

// RedisConfig contains Redis client parameters.
type RedisConfig struct {
	// Addr is the host:port of the Redis server.
	Addr string

	// Password is the optional AUTH password.
	Password string

	// DB is the logical database index.
	DB int

	// DialTimeout bounds connection establishment.
	// Default: 5s
	DialTimeout time.Duration
}

// DefaultConfig returns the default KV configuration.
func DefaultConfig(dir string) Config {
	return Config{
		Engine: "badger",
		Badger: DefaultBadgerConfig(dir),
		Redis:  DefaultRedisConfig(),
	}
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig(dir string) BadgerConfig {
	return BadgerConfig{
		Dir:              dir,
		GCInterval:       "10m",
		GCThreshold:      0.5,
		CacheSize:        32 << 20,  // 32MB
		ValueLogFileSize: 256 << 20, // 256MB
		SyncWrites:       true,
	}
}

// DefaultRedisConfig returns the default Redis configuration.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:        "localhost:6379",
		DB:          0,
		DialTimeout: 5 * time.Second,
	}
}
