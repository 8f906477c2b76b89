package relay

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/3sol-fa/RoofConstructionManager/internal/auth"
	"github.com/3sol-fa/RoofConstructionManager/pkg/domain"
)

type fakeStore struct {
	mu         sync.Mutex
	messages   []domain.Message
	users      map[string]domain.User
	failCreate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]domain.User{
		"user-a": {ID: "user-a", Username: "amy", Name: "Amy", Role: domain.RoleWorker},
		"user-b": {ID: "user-b", Username: "bob", Name: "Bob", Role: domain.RoleWorker},
	}}
}

func (f *fakeStore) CreateMessage(msg domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("store unavailable")
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeStore) GetUser(id string) (domain.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	return u, ok, nil
}

func (f *fakeStore) messageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func (f *fakeStore) lastMessage() domain.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[len(f.messages)-1]
}

func newTestRelay(t *testing.T) (*Relay, *fakeStore, *auth.Tokens, string) {
	t.Helper()
	store := newFakeStore()
	tokens, err := auth.NewTokens("relay-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	r := New(store, tokens)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return r, store, tokens, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, v any) {
	t.Helper()
	if err := ws.WriteJSON(v); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

// readFrame decodes the next frame within a short deadline.
func readFrame(t *testing.T, ws *websocket.Conn) map[string]json.RawMessage {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame map[string]json.RawMessage
	if err := ws.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return frame
}

func frameType(t *testing.T, frame map[string]json.RawMessage) string {
	t.Helper()
	var typ string
	if err := json.Unmarshal(frame["type"], &typ); err != nil {
		t.Fatalf("frame has no type: %v", err)
	}
	return typ
}

// expectSilence asserts that no frame arrives within the window.
func expectSilence(t *testing.T, ws *websocket.Conn, window time.Duration) {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(window))
	var frame json.RawMessage
	if err := ws.ReadJSON(&frame); err == nil {
		t.Fatalf("expected no frame, got %s", frame)
	}
}

func authenticate(t *testing.T, ws *websocket.Conn, token, projectID string) {
	t.Helper()
	send(t, ws, map[string]string{"type": TypeAuthenticate, "token": token, "projectId": projectID})
	ack := readFrame(t, ws)
	if got := frameType(t, ack); got != TypeAuthenticated {
		t.Fatalf("ack type = %q, want authenticated", got)
	}
	var success bool
	if err := json.Unmarshal(ack["success"], &success); err != nil || !success {
		t.Fatalf("expected success ack, got %s", ack["success"])
	}
}

func waitForConns(t *testing.T, r *Relay, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.connCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("conn count = %d, want %d", r.connCount(), want)
}

func TestUnauthenticatedChatIsDropped(t *testing.T) {
	_, store, _, url := newTestRelay(t)
	ws := dial(t, url)

	send(t, ws, map[string]string{"type": TypeChatMessage, "content": "hi", "projectId": "p7"})
	expectSilence(t, ws, 200*time.Millisecond)

	if got := store.messageCount(); got != 0 {
		t.Fatalf("messages persisted = %d, want 0", got)
	}
}

func TestAuthFailureGetsFailureAck(t *testing.T) {
	_, store, _, url := newTestRelay(t)
	ws := dial(t, url)

	send(t, ws, map[string]string{"type": TypeAuthenticate, "token": "garbage"})
	ack := readFrame(t, ws)
	var success bool
	if err := json.Unmarshal(ack["success"], &success); err != nil || success {
		t.Fatalf("expected failure ack, got %s", ack["success"])
	}

	// Still unauthenticated: chat frames stay dropped.
	send(t, ws, map[string]string{"type": TypeChatMessage, "content": "hi"})
	expectSilence(t, ws, 200*time.Millisecond)
	if store.messageCount() != 0 {
		t.Fatal("chat persisted after failed authentication")
	}
}

func TestChatBroadcastScopedToProject(t *testing.T) {
	_, store, tokens, url := newTestRelay(t)
	tokenA, _ := tokens.Issue("user-a", domain.RoleWorker)
	tokenB, _ := tokens.Issue("user-b", domain.RoleWorker)

	wsA := dial(t, url)
	wsB := dial(t, url)
	authenticate(t, wsA, tokenA, "p7")
	authenticate(t, wsB, tokenB, "p9")

	send(t, wsA, map[string]string{"type": TypeChatMessage, "content": "hi", "projectId": "p7"})

	frame := readFrame(t, wsA)
	if got := frameType(t, frame); got != TypeNewMessage {
		t.Fatalf("frame type = %q, want new_message", got)
	}
	var enriched domain.MessageWithSender
	if err := json.Unmarshal(frame["message"], &enriched); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if enriched.Content != "hi" || enriched.SenderID != "user-a" {
		t.Fatalf("unexpected message: %+v", enriched.Message)
	}
	if enriched.Sender == nil || enriched.Sender.Username != "amy" {
		t.Fatalf("expected resolved sender profile, got %+v", enriched.Sender)
	}

	// The other room hears nothing.
	expectSilence(t, wsB, 200*time.Millisecond)

	if store.messageCount() != 1 {
		t.Fatalf("messages persisted = %d, want 1", store.messageCount())
	}
	if got := store.lastMessage().SenderID; got != "user-a" {
		t.Fatalf("stored sender = %q, want authenticated user", got)
	}
}

func TestChatWithoutProjectReachesEveryone(t *testing.T) {
	_, _, tokens, url := newTestRelay(t)
	tokenA, _ := tokens.Issue("user-a", domain.RoleWorker)
	tokenB, _ := tokens.Issue("user-b", domain.RoleWorker)

	wsA := dial(t, url)
	wsB := dial(t, url)
	authenticate(t, wsA, tokenA, "p7")
	authenticate(t, wsB, tokenB, "p9")

	send(t, wsA, map[string]string{"type": TypeChatMessage, "content": "all hands"})

	for _, ws := range []*websocket.Conn{wsA, wsB} {
		frame := readFrame(t, ws)
		if got := frameType(t, frame); got != TypeNewMessage {
			t.Fatalf("frame type = %q, want new_message", got)
		}
	}
}

func TestReauthenticateReplacesBinding(t *testing.T) {
	r, _, tokens, url := newTestRelay(t)
	tokenA, _ := tokens.Issue("user-a", domain.RoleWorker)

	ws := dial(t, url)
	authenticate(t, ws, tokenA, "p7")
	authenticate(t, ws, tokenA, "p9")

	if got := r.connCount(); got != 1 {
		t.Fatalf("registry entries = %d, want 1 after re-authentication", got)
	}

	// The connection now lives in room p9.
	r.BroadcastTaskUpdate(domain.Task{ID: "t1", ProjectID: "p9"})
	frame := readFrame(t, ws)
	if got := frameType(t, frame); got != TypeTaskUpdate {
		t.Fatalf("frame type = %q, want task_update", got)
	}

	r.BroadcastTaskUpdate(domain.Task{ID: "t2", ProjectID: "p7"})
	expectSilence(t, ws, 200*time.Millisecond)
}

func TestTaskUpdateReachesRoomExactlyOnce(t *testing.T) {
	r, _, tokens, url := newTestRelay(t)
	tokenA, _ := tokens.Issue("user-a", domain.RoleWorker)
	tokenB, _ := tokens.Issue("user-b", domain.RoleWorker)

	wsA1 := dial(t, url)
	wsA2 := dial(t, url)
	wsB := dial(t, url)
	authenticate(t, wsA1, tokenA, "p7")
	authenticate(t, wsA2, tokenB, "p7")
	authenticate(t, wsB, tokenB, "p9")

	task := domain.Task{ID: "task-42", ProjectID: "p7", Name: "Install flashing", Status: domain.TaskInProgress}
	r.BroadcastTaskUpdate(task)

	for _, ws := range []*websocket.Conn{wsA1, wsA2} {
		frame := readFrame(t, ws)
		if got := frameType(t, frame); got != TypeTaskUpdate {
			t.Fatalf("frame type = %q, want task_update", got)
		}
		var got domain.Task
		if err := json.Unmarshal(frame["task"], &got); err != nil {
			t.Fatalf("decode task: %v", err)
		}
		if got.ID != "task-42" {
			t.Fatalf("task id = %q, want task-42", got.ID)
		}
		// Exactly one frame per member.
		expectSilence(t, ws, 150*time.Millisecond)
	}
	expectSilence(t, wsB, 150*time.Millisecond)
}

func TestClosedConnectionLeavesRegistry(t *testing.T) {
	r, _, tokens, url := newTestRelay(t)
	tokenA, _ := tokens.Issue("user-a", domain.RoleWorker)

	ws := dial(t, url)
	authenticate(t, ws, tokenA, "p7")
	waitForConns(t, r, 1)

	_ = ws.Close()
	waitForConns(t, r, 0)

	// Broadcasting after the close must not panic or deliver anywhere.
	r.BroadcastTaskUpdate(domain.Task{ID: "t1", ProjectID: "p7"})
}

func TestMalformedFramesDoNotKillConnection(t *testing.T) {
	_, _, tokens, url := newTestRelay(t)
	tokenA, _ := tokens.Issue("user-a", domain.RoleWorker)

	ws := dial(t, url)
	if err := ws.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	send(t, ws, map[string]string{"type": "mystery"})

	// The connection still works afterwards.
	authenticate(t, ws, tokenA, "p7")
}

func TestPersistenceFailureSuppressesBroadcast(t *testing.T) {
	_, store, tokens, url := newTestRelay(t)
	store.failCreate = true
	tokenA, _ := tokens.Issue("user-a", domain.RoleWorker)

	ws := dial(t, url)
	authenticate(t, ws, tokenA, "p7")

	send(t, ws, map[string]string{"type": TypeChatMessage, "content": "hi", "projectId": "p7"})
	expectSilence(t, ws, 200*time.Millisecond)
	if store.messageCount() != 0 {
		t.Fatal("message should not be stored when the store errors")
	}
}
