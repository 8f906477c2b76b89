// Package wsclient provides a websocket client for the realtime relay with
// automatic authentication and bounded reconnection.
package wsclient

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TokenFunc supplies the bearer token used in the authenticate frame. It is
// called on every (re)connection so refreshed tokens are picked up.
type TokenFunc func() (string, error)

// Handler receives the raw payload of a frame of the type it was registered for.
type Handler func(frame json.RawMessage)

// ErrNotConnected is returned by Send when no open connection exists.
var ErrNotConnected = errors.New("wsclient: not connected")

const (
	defaultDialTimeout = 5 * time.Second
	defaultBackoffBase = time.Second
	defaultMaxRetries  = 3
)

// Config configures a Client. URL and Token are required.
type Config struct {
	URL   string
	Token TokenFunc

	// DialTimeout bounds each connection attempt. An attempt that does not
	// resolve within it disables the client until Disconnect is called.
	// Defaults to 5s.
	DialTimeout time.Duration
	// BackoffBase is multiplied by the attempt number to space retries.
	// Defaults to 1s.
	BackoffBase time.Duration
	// MaxRetries caps consecutive failed attempts before the client gives
	// up until Disconnect resets it. Defaults to 3.
	MaxRetries int

	Logger *slog.Logger
}

type connState int

const (
	stateIdle connState = iota
	stateConnecting
	stateConnected
)

// Client manages a single relay connection. All methods are safe for
// concurrent use.
type Client struct {
	cfg    Config
	logger *slog.Logger

	mu        sync.Mutex
	writeMu   sync.Mutex
	ws        *websocket.Conn
	state     connState
	enabled   bool
	disabled  bool
	attempts  int
	userID    string
	projectID string
	handlers  map[string]Handler
}

// New returns an unconnected client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("wsclient: url is required")
	}
	if cfg.Token == nil {
		return nil, errors.New("wsclient: token source is required")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:      cfg,
		logger:   logger,
		handlers: make(map[string]Handler),
	}, nil
}

// Connect starts connecting on behalf of the given user. It is a no-op when a
// connection attempt is already pending or established, and after a dial
// timeout or an exhausted retry budget until Disconnect resets the client.
// Connection and authentication proceed in the background.
func (c *Client) Connect(userID, projectID string) {
	c.mu.Lock()
	if c.state != stateIdle || c.disabled {
		c.mu.Unlock()
		return
	}
	c.state = stateConnecting
	c.enabled = true
	c.attempts = 0
	c.userID = userID
	c.projectID = projectID
	c.mu.Unlock()

	go c.dial()
}

func (c *Client) dial() {
	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.DialTimeout}
	ws, resp, err := dialer.Dial(c.cfg.URL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			c.logger.Warn("relay dial timed out, disabling", "error", err)
			c.disable()
			return
		}
		c.logger.Warn("relay dial failed", "error", err)
		c.scheduleReconnect()
		return
	}

	token, err := c.cfg.Token()
	if err != nil {
		c.logger.Warn("token source failed", "error", err)
		ws.Close()
		c.scheduleReconnect()
		return
	}

	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		ws.Close()
		return
	}
	c.ws = ws
	c.state = stateConnected
	c.attempts = 0
	projectID := c.projectID
	c.mu.Unlock()

	auth := map[string]string{"type": "authenticate", "token": token}
	if projectID != "" {
		auth["projectId"] = projectID
	}
	if err := c.writeJSON(auth); err != nil {
		c.logger.Warn("authenticate frame failed", "error", err)
		c.dropConn(ws)
		c.scheduleReconnect()
		return
	}

	c.readLoop(ws)
}

func (c *Client) readLoop(ws *websocket.Conn) {
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			c.dropConn(ws)
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return
			}
			c.scheduleReconnect()
			return
		}
		var envelope struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(data, &envelope) != nil || envelope.Type == "" {
			continue
		}
		c.mu.Lock()
		handler := c.handlers[envelope.Type]
		c.mu.Unlock()
		if handler != nil {
			handler(data)
		}
	}
}

// disable stops all connection activity until Disconnect resets the client.
func (c *Client) disable() {
	c.mu.Lock()
	c.enabled = false
	c.disabled = true
	c.state = stateIdle
	c.mu.Unlock()
}

// dropConn clears the connection if it is still the active one.
func (c *Client) dropConn(ws *websocket.Conn) {
	c.mu.Lock()
	if c.ws == ws {
		c.ws = nil
		c.state = stateIdle
	}
	c.mu.Unlock()
	ws.Close()
}

func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	if !c.enabled {
		c.state = stateIdle
		c.mu.Unlock()
		return
	}
	c.attempts++
	if c.attempts > c.cfg.MaxRetries {
		c.logger.Warn("relay reconnect budget exhausted", "attempts", c.attempts-1)
		c.enabled = false
		c.disabled = true
		c.state = stateIdle
		c.mu.Unlock()
		return
	}
	attempt := c.attempts
	c.state = stateConnecting
	c.mu.Unlock()

	delay := c.cfg.BackoffBase * time.Duration(attempt)
	c.logger.Info("relay reconnect scheduled", "attempt", attempt, "delay", delay)
	time.AfterFunc(delay, func() {
		c.mu.Lock()
		enabled := c.enabled
		c.mu.Unlock()
		if enabled {
			c.dial()
		}
	})
}

// OnMessage registers the handler for a frame type, replacing any previous
// handler for that type.
func (c *Client) OnMessage(frameType string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h == nil {
		delete(c.handlers, frameType)
		return
	}
	c.handlers[frameType] = h
}

// Send writes a frame to the relay. It fails when no connection is open.
func (c *Client) Send(v any) error {
	return c.writeJSON(v)
}

// SendChat sends a chat frame scoped to the given project, or to everyone
// when projectID is empty.
func (c *Client) SendChat(content, projectID string) error {
	frame := map[string]string{"type": "chat_message", "content": content}
	if projectID != "" {
		frame["projectId"] = projectID
	}
	return c.writeJSON(frame)
}

func (c *Client) writeJSON(v any) error {
	c.mu.Lock()
	ws := c.ws
	c.mu.Unlock()
	if ws == nil {
		return ErrNotConnected
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return ws.WriteJSON(v)
}

// IsConnected reports whether an authenticated-capable connection is open.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateConnected
}

// Disconnect closes the connection, clears all handlers, and disables
// reconnection. It also resets a client that gave up after a dial timeout or
// an exhausted retry budget, so the next Connect starts fresh.
func (c *Client) Disconnect() {
	c.mu.Lock()
	ws := c.ws
	c.ws = nil
	c.enabled = false
	c.disabled = false
	c.state = stateIdle
	c.handlers = make(map[string]Handler)
	c.mu.Unlock()

	if ws != nil {
		deadline := time.Now().Add(time.Second)
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		ws.Close()
	}
}
