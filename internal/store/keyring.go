package store

import (
	"context"
	"errors"

	"github.com/zalando/go-keyring"

	"emirrorquest/client/internal/settings"
)

const defaultKeyringService = "emirrorquest"

// KeyringStore keeps values in the OS credential store under one service name.
type KeyringStore struct {
	service string
}

func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = defaultKeyringService
	}
	return &KeyringStore{service: service}
}

func (k *KeyringStore) Get(_ context.Context, key string) ([]byte, error) {
	value, err := keyring.Get(k.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, settings.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (k *KeyringStore) Set(_ context.Context, key string, value []byte) error {
	return keyring.Set(k.service, key, string(value))
}

func (k *KeyringStore) Delete(_ context.Context, key string) error {
	err := keyring.Delete(k.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

func (k *KeyringStore) Close() error { return nil }
