package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gorilla/websocket"

	"emirrorquest/client/internal/config"
	"emirrorquest/client/internal/envelope"
	"emirrorquest/client/internal/settings"
	"emirrorquest/client/internal/store"
	"emirrorquest/client/internal/transport/ws"
)

// Client is built once at startup and passed to whatever needs the settings
// or envelope rules.
type Client struct {
	cfg      *config.Config
	store    store.Backend
	settings *settings.Handle
	shapes   *envelope.Shapes
	policy   envelope.Policy
	logger   *slog.Logger
}

// New loads the settings from st. The client takes ownership of st.
func New(ctx context.Context, cfg *config.Config, st store.Backend, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	h, err := settings.Open(ctx, st, settings.Options{Key: cfg.Settings.Key, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	shapes := envelope.NewShapes()
	return &Client{
		cfg:      cfg,
		store:    st,
		settings: h,
		shapes:   shapes,
		policy: envelope.Policy{
			AllowOpenResponseTypes: cfg.Envelope.AllowOpenResponseTypes,
			Shapes:                 shapes,
		},
		logger: logger,
	}, nil
}

// Bootstrap opens the configured store and builds a Client on it.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("opening settings store", "driver", cfg.Store.Driver)
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	c, err := New(ctx, cfg, st, logger)
	if err != nil {
		st.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) Settings() *settings.Handle { return c.settings }

func (c *Client) Policy() envelope.Policy { return c.policy }

// Shapes is the payload rule registry consulted by NewRequest and the policy.
func (c *Client) Shapes() *envelope.Shapes { return c.shapes }

// NewRequest builds a request and checks it against any registered shape rule.
func (c *Client) NewRequest(target, cmd string, param any) (envelope.Request, error) {
	req, err := envelope.MakeRequest(target, cmd, param)
	if err != nil {
		return envelope.Request{}, err
	}
	if err := c.shapes.CheckRequest(req); err != nil {
		return envelope.Request{}, err
	}
	if !envelope.IsKnownTarget(target) {
		c.logger.Debug("request to unlisted target", "target", target, "cmd", cmd)
	}
	return req, nil
}

func (c *Client) NewResponse(typ string, data any) (envelope.Response, error) {
	return c.policy.MakeResponse(typ, data)
}

func (c *Client) DecodeResponse(b []byte) (envelope.Response, error) {
	return c.policy.DecodeResponse(b)
}

// Attach wraps an established connection with this client's envelope policy.
func (c *Client) Attach(conn *websocket.Conn) *ws.Conn {
	return ws.NewConn(conn, c.policy, c.logger)
}

// Close releases the store. Unsaved settings changes are dropped.
func (c *Client) Close() error {
	return c.store.Close()
}
