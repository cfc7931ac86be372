// Package store provides the key-value backends settings are persisted in.
package store

import (
	"context"
	"fmt"

	"emirrorquest/client/internal/config"
	"emirrorquest/client/internal/settings"
)

// Backend is a settings.Store that owns resources.
type Backend interface {
	settings.Store
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	DriverSQLite  = "sqlite"
	DriverKeyring = "keyring"
	DriverRedis   = "redis"
	DriverMemory  = "memory"
)

// Open builds the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Backend, error) {
	switch cfg.Driver {
	case DriverSQLite:
		s, err := NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverKeyring:
		return NewKeyringStore(cfg.KeyringService), nil
	case DriverRedis:
		r, err := NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %q", cfg.Driver)
	}
}
