package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Load reads the settings stored under Key. A missing or malformed value
// yields Defaults; malformed data is logged and not returned. Other store
// errors are returned.
func Load(ctx context.Context, store Store, logger *slog.Logger) (Settings, error) {
	return load(ctx, store, Key, logger)
}

// Save writes s under Key.
func Save(ctx context.Context, store Store, s Settings) error {
	return save(ctx, store, Key, s)
}

func load(ctx context.Context, store Store, key string, logger *slog.Logger) (Settings, error) {
	if logger == nil {
		logger = slog.Default()
	}
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		logger.Debug("settings not stored, using defaults", "key", key)
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("read settings %q: %w", key, err)
	}
	s, err := decode(raw)
	if err != nil {
		logger.Warn("stored settings unreadable, using defaults", "key", key, "error", err)
		return Defaults(), nil
	}
	return s, nil
}

func save(ctx context.Context, store Store, key string, s Settings) error {
	raw, err := encode(s)
	if err != nil {
		return &PersistenceError{Key: key, Err: err}
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return &PersistenceError{Key: key, Err: err}
	}
	return nil
}

func encode(s Settings) ([]byte, error) {
	return json.Marshal(s)
}

// decode fills fields absent from raw with their defaults.
func decode(raw []byte) (Settings, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Settings{}, fmt.Errorf("%w: empty value", ErrDeserialization)
	}
	s := Defaults()
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	return s, nil
}
