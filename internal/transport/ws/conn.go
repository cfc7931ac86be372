// Package ws moves request and response envelopes over an already
// established WebSocket connection. It does not dial or accept connections.
package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"emirrorquest/client/internal/envelope"
)

// Conn wraps a WebSocket connection. Sends are serialized; reads must come
// from a single goroutine, as gorilla/websocket requires.
type Conn struct {
	conn   *websocket.Conn
	policy envelope.Policy
	logger *slog.Logger
	sendMu sync.Mutex
}

// NewConn wraps c. Inbound responses are validated against policy.
func NewConn(c *websocket.Conn, policy envelope.Policy, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	return &Conn{
		conn:   c,
		policy: policy,
		logger: logger.With("component", "ws", "remote", c.RemoteAddr().String()),
	}
}

func (c *Conn) SendRequest(req envelope.Request) error {
	if _, err := envelope.MakeRequest(req.Target, req.Cmd, req.Param); err != nil {
		return err
	}
	return c.send(req)
}

func (c *Conn) SendResponse(resp envelope.Response) error {
	if _, err := c.policy.MakeResponse(resp.Type, resp.Data); err != nil {
		return err
	}
	return c.send(resp)
}

func (c *Conn) send(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return fmt.Errorf("write envelope: %w", err)
	}
	return nil
}

func (c *Conn) ReadRequest() (envelope.Request, error) {
	b, err := c.read()
	if err != nil {
		return envelope.Request{}, err
	}
	req, err := envelope.DecodeRequest(b)
	if err != nil {
		c.logger.Warn("rejected inbound request", "error", err)
		return envelope.Request{}, err
	}
	return req, nil
}

func (c *Conn) ReadResponse() (envelope.Response, error) {
	b, err := c.read()
	if err != nil {
		return envelope.Response{}, err
	}
	resp, err := c.policy.DecodeResponse(b)
	if err != nil {
		c.logger.Warn("rejected inbound response", "error", err)
		return envelope.Response{}, err
	}
	return resp, nil
}

func (c *Conn) read() ([]byte, error) {
	for {
		mt, b, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("read error", "error", err)
			}
			return nil, err
		}
		if mt == websocket.TextMessage {
			return b, nil
		}
		c.logger.Debug("skipping non-text frame", "type", mt)
	}
}

func (c *Conn) Close() error {
	return c.conn.Close()
}
