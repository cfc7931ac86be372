package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"emirrorquest/client/internal/config"
	"emirrorquest/client/internal/settings"
)

func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Get(ctx, "missing")
	assert.ErrorIs(t, err, settings.ErrNotFound)

	require.NoError(t, b.Set(ctx, "k", []byte(`{"ip":"10.0.0.1","maxScore":3}`)))
	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"ip":"10.0.0.1","maxScore":3}`, string(got))

	require.NoError(t, b.Set(ctx, "k", []byte("second")))
	got, err = b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	require.NoError(t, b.Delete(ctx, "k"))
	_, err = b.Get(ctx, "k")
	assert.ErrorIs(t, err, settings.ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	exerciseBackend(t, m)

	ctx := context.Background()
	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf))
	buf[0] = 'x'
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	exerciseBackend(t, s)

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "persist", []byte("v1")))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Get(ctx, "persist")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	assert.Error(t, reopened.Set(ctx, "", []byte("x")))
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	exerciseBackend(t, NewKeyringStore("emirrorquest-test"))

	// deleting a missing entry is not an error
	assert.NoError(t, NewKeyringStore("").Delete(context.Background(), "nothing"))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("EMIRROR_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("EMIRROR_TEST_REDIS_ADDR not set, skipping Redis store test")
	}
	s, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr, DB: 1, Prefix: "emirrorquest-test:"})
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer s.Close()
	exerciseBackend(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, config.StoreConfig{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, b)

	b, err = Open(ctx, config.StoreConfig{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "s.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, b)
	require.NoError(t, b.Close())

	b, err = Open(ctx, config.StoreConfig{Driver: DriverKeyring})
	require.NoError(t, err)
	assert.IsType(t, &KeyringStore{}, b)

	_, err = Open(ctx, config.StoreConfig{Driver: "etcd"})
	assert.Error(t, err)
}

func TestOpenFailureReturnsNilBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "s.db")
	b, err := Open(context.Background(), config.StoreConfig{Driver: DriverSQLite, SQLitePath: path})
	require.Error(t, err)
	assert.True(t, b == nil, "backend must be an untyped nil on failure")
}
