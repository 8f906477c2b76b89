package relay

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/3sol-fa/RoofConstructionManager/internal/auth"
	"github.com/3sol-fa/RoofConstructionManager/internal/util"
	"github.com/3sol-fa/RoofConstructionManager/pkg/domain"
)

// MessageStore is the slice of persistence the relay needs: creating chat
// messages and resolving sender profiles.
type MessageStore interface {
	CreateMessage(domain.Message) error
	GetUser(id string) (domain.User, bool, error)
}

// TokenVerifier validates bearer tokens from authenticate frames.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// binding is the authenticated identity of a connection. A connection with
// no binding has not completed the handshake and may only authenticate.
type binding struct {
	userID    string
	projectID string
}

// conn wraps one websocket. Socket writes are serialized through writeMu so
// concurrent broadcasts never interleave frames.
type conn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
}

func (c *conn) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteJSON(v)
}

// Relay owns every inbound realtime connection: the authentication
// handshake, chat persistence and fan-out, and task-update notifications
// pushed by the HTTP layer.
//
// The registry maps connections to their authenticated binding. Broadcasts
// iterate a snapshot taken under the read lock, so room membership is
// evaluated at the moment of broadcast.
type Relay struct {
	store    MessageStore
	verifier TokenVerifier
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[*conn]binding
}

// New constructs a relay instance. Instances are independent: tests can run
// several side by side.
func New(store MessageStore, verifier TokenVerifier) *Relay {
	return &Relay{
		store:    store,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from a separate dev origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*conn]binding),
	}
}

// ServeHTTP upgrades the request and runs the connection's read loop until
// the transport closes.
func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ws, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "err", err, "remote", req.RemoteAddr)
		return
	}
	c := &conn{ws: ws}
	defer func() {
		r.remove(c)
		_ = ws.Close()
	}()

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			return
		}
		r.handleFrame(c, raw)
	}
}

func (r *Relay) handleFrame(c *conn, raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		slog.Debug("dropping malformed frame", "err", err)
		return
	}
	switch frame.Type {
	case TypeAuthenticate:
		r.handleAuthenticate(c, frame)
	case TypeChatMessage:
		r.handleChatMessage(c, frame)
	default:
		slog.Debug("dropping frame with unknown type", "type", frame.Type)
	}
}

// handleAuthenticate verifies the token and binds the connection. A repeat
// authenticate on an already-bound connection replaces the binding. On a bad
// token the connection keeps its previous state and receives a failure ack.
func (r *Relay) handleAuthenticate(c *conn, frame inboundFrame) {
	identity, err := r.verifier.Verify(frame.Token)
	if err != nil {
		slog.Debug("websocket authentication failed", "err", err)
		if werr := c.writeJSON(authAckFrame{Type: TypeAuthenticated, Success: false}); werr != nil {
			slog.Debug("auth ack write failed", "err", werr)
		}
		return
	}

	r.mu.Lock()
	r.conns[c] = binding{userID: identity.UserID, projectID: frame.ProjectID}
	r.mu.Unlock()

	if err := c.writeJSON(authAckFrame{Type: TypeAuthenticated, Success: true}); err != nil {
		slog.Debug("auth ack write failed", "err", err)
	}
}

// handleChatMessage persists and fans out a chat frame. Frames from
// unauthenticated connections are dropped without persistence or broadcast.
// The stored sender is always the authenticated user, never a
// client-supplied id.
func (r *Relay) handleChatMessage(c *conn, frame inboundFrame) {
	r.mu.RLock()
	b, ok := r.conns[c]
	r.mu.RUnlock()
	if !ok {
		slog.Debug("dropping chat frame from unauthenticated connection")
		return
	}

	msg := domain.Message{
		ID:          util.NewID(),
		ProjectID:   frame.ProjectID,
		SenderID:    b.userID,
		Content:     frame.Content,
		MessageType: "text",
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.store.CreateMessage(msg); err != nil {
		// The message is dropped rather than broadcast unpersisted, so the
		// socket channel never delivers chat that a later history fetch
		// would be missing.
		slog.Error("chat message persistence failed", "err", err, "sender", b.userID)
		return
	}

	enriched := domain.MessageWithSender{Message: msg}
	if sender, found, err := r.store.GetUser(b.userID); err == nil && found {
		enriched.Sender = &sender
	}

	r.broadcast(frame.ProjectID, newMessageFrame{Type: TypeNewMessage, Message: enriched})
}

// BroadcastTaskUpdate pushes a task_update frame to every connection bound
// to the task's project. The HTTP layer calls this after committing a task
// mutation. Fire-and-forget: offline clients get no replay.
func (r *Relay) BroadcastTaskUpdate(task domain.Task) {
	r.broadcast(task.ProjectID, taskUpdateFrame{Type: TypeTaskUpdate, Task: task})
}

// broadcast sends the frame to the snapshot of connections in scope:
// connections whose bound project matches projectID, or every authenticated
// connection when projectID is empty.
func (r *Relay) broadcast(projectID string, frame any) {
	r.mu.RLock()
	targets := make([]*conn, 0, len(r.conns))
	for c, b := range r.conns {
		if projectID == "" || b.projectID == projectID {
			targets = append(targets, c)
		}
	}
	r.mu.RUnlock()

	for _, c := range targets {
		if err := c.writeJSON(frame); err != nil {
			// The connection's own read loop will observe the dead socket
			// and remove it from the registry.
			slog.Debug("broadcast write failed", "err", err)
		}
	}
}

func (r *Relay) remove(c *conn) {
	r.mu.Lock()
	delete(r.conns, c)
	r.mu.Unlock()
}

// connCount reports the number of authenticated connections.
func (r *Relay) connCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
