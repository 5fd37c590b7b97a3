/*
Package storage implements the persistent key-value slot that holds the session token.

Every backend stores plain string values under fixed slot names and is safe for
concurrent use. Writes are not serialized across callers: the last write wins.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Supported backend kinds for ServiceConfig.Kind.
const (
	KindMemory   = "memory"
	KindFile     = "file"
	KindRedis    = "redis"
	KindPostgres = "postgres"
)

// ErrNotFound is returned by Get when the slot holds no value.
var ErrNotFound = errors.New("storage: slot is empty")

// ServiceConfig holds the settings needed by every backend; only the fields of the
// selected Kind are read.
type ServiceConfig struct {
	Kind string

	FilePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DatabaseDSN string
}

// Store is a persistent key-value slot.
type Store interface {
	// Get returns the value of key, or ErrNotFound when the slot is empty.
	Get(ctx context.Context, key string) (string, error)

	// Set overwrites the value of key.
	Set(ctx context.Context, key, value string) error

	// Delete empties the slot. Deleting an empty slot is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// NewStore builds the backend selected by cfg.Kind.
func NewStore(ctx context.Context, cfg ServiceConfig) (Store, error) {
	switch cfg.Kind {
	case KindMemory:
		return NewMemoryStore(), nil
	case KindFile, "":
		return NewFileStore(cfg.FilePath)
	case KindRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case KindPostgres:
		return NewPostgresStore(ctx, cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("storage: unknown store kind %q", cfg.Kind)
	}
}
