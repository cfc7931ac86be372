package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emirrorquest/client/internal/config"
	"emirrorquest/client/internal/envelope"
	"emirrorquest/client/internal/settings"
	"emirrorquest/client/internal/store"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Store.Driver = store.DriverSQLite
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "client.db")
	return cfg
}

func TestBootstrapPersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	c, err := Bootstrap(ctx, cfg, quiet)
	require.NoError(t, err)
	assert.Equal(t, settings.Defaults(), c.Settings().Get())

	c.Settings().SetIP("192.168.0.7")
	c.Settings().RaiseMaxScore(30)
	require.NoError(t, c.Settings().Save(ctx))
	require.NoError(t, c.Close())

	c, err = Bootstrap(ctx, cfg, quiet)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, settings.Settings{IP: "192.168.0.7", MaxScore: 30}, c.Settings().Get())
}

func TestUnsavedChangesAreLost(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	c, err := Bootstrap(ctx, cfg, quiet)
	require.NoError(t, err)
	c.Settings().SetIP("10.9.9.9")
	require.NoError(t, c.Close())

	c, err = Bootstrap(ctx, cfg, quiet)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, settings.DefaultIP, c.Settings().Get().IP)
}

func TestBootstrapUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Driver = "etcd"
	_, err := Bootstrap(context.Background(), cfg, quiet)
	assert.Error(t, err)
}

func TestEnvelopePolicyFromConfig(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	c, err := New(ctx, cfg, store.NewMemoryStore(), quiet)
	require.NoError(t, err)
	_, err = c.NewResponse("score", 1)
	assert.ErrorIs(t, err, envelope.ErrInvalidResponseType)

	cfg.Envelope.AllowOpenResponseTypes = true
	c, err = New(ctx, cfg, store.NewMemoryStore(), quiet)
	require.NoError(t, err)
	resp, err := c.DecodeResponse([]byte(`{"type":"score","data":1}`))
	require.NoError(t, err)
	assert.Equal(t, "score", resp.Type)
}

func TestNewRequestShapes(t *testing.T) {
	c, err := New(context.Background(), testConfig(t), store.NewMemoryStore(), quiet)
	require.NoError(t, err)

	_, err = c.NewRequest(envelope.TargetButton, "press", map[string]any{"any": "shape"})
	assert.NoError(t, err)

	c.Shapes().Request(envelope.TargetButton, "press", envelope.KindNumber)
	_, err = c.NewRequest(envelope.TargetButton, "press", "one")
	assert.ErrorIs(t, err, envelope.ErrInvalidDataShape)
	_, err = c.NewRequest(envelope.TargetButton, "press", 1)
	assert.NoError(t, err)

	_, err = c.NewRequest("", "press", 1)
	assert.ErrorIs(t, err, envelope.ErrInvalidTarget)

	c.Shapes().Response(envelope.ResponseTarget, envelope.KindBool)
	_, err = c.NewResponse(envelope.ResponseTarget, 3)
	assert.ErrorIs(t, err, envelope.ErrInvalidDataShape)
}
