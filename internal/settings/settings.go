// Package settings holds the client configuration persisted in a key-value
// store under a single fixed key.
package settings

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Key is the store key the settings blob lives under.
const Key = "emirrorquest"

const (
	DefaultIP       = "127.0.0.1"
	DefaultMaxScore = 0
)

var (
	ErrNotFound        = errors.New("key not found")
	ErrDeserialization = errors.New("settings deserialization failed")
	ErrInvalidSettings = errors.New("invalid settings")
)

// Store is the backing key-value store. Get returns ErrNotFound on a miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Settings is the persisted client configuration.
type Settings struct {
	IP       string  `json:"ip"`
	MaxScore float64 `json:"maxScore"`
}

func Defaults() Settings {
	return Settings{IP: DefaultIP, MaxScore: DefaultMaxScore}
}

// Validate checks that IP is a bare host: an IP literal or a hostname.
// Save does not call it; callers that take user input may.
func (s Settings) Validate() error {
	ip := strings.TrimSpace(s.IP)
	if ip == "" {
		return fmt.Errorf("%w: ip is empty", ErrInvalidSettings)
	}
	if ip != s.IP {
		return fmt.Errorf("%w: ip has surrounding spaces", ErrInvalidSettings)
	}
	if net.ParseIP(ip) != nil {
		return nil
	}
	if strings.ContainsAny(ip, "/:?#@ ") {
		return fmt.Errorf("%w: ip %q is not a host", ErrInvalidSettings, s.IP)
	}
	return nil
}

// PersistenceError is returned when the store rejects a write.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist settings %q: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
