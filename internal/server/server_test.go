package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"

	"github.com/3sol-fa/RoofConstructionManager/internal/auth"
	"github.com/3sol-fa/RoofConstructionManager/internal/relay"
	"github.com/3sol-fa/RoofConstructionManager/internal/storage"
	"github.com/3sol-fa/RoofConstructionManager/internal/store"
	"github.com/3sol-fa/RoofConstructionManager/internal/weather"
	"github.com/3sol-fa/RoofConstructionManager/pkg/domain"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	tokens, err := auth.NewTokens("server-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	objects, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	redis := miniredis.RunT(t)
	srv, err := New(Config{
		Store:                      st,
		Tokens:                     tokens,
		Relay:                      relay.New(st, tokens),
		Objects:                    objects,
		Weather:                    weather.New(weather.Config{}),
		RedisAddr:                  redis.Addr(),
		RegisterRateLimitPerMinute: 100,
		LoginRateLimitPerMinute:    100,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, st
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, data
}

func register(t *testing.T, baseURL, username string) (string, domain.User) {
	t.Helper()
	resp, data := doJSON(t, http.MethodPost, baseURL+"/api/auth/register", "", map[string]string{
		"username": username,
		"password": "hammer-time",
		"name":     "Test User",
		"role":     "site_manager",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", resp.StatusCode, data)
	}
	var out authResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if out.Token == "" {
		t.Fatal("register returned empty token")
	}
	return out.Token, out.User
}

func TestRegisterAndLoginFlow(t *testing.T) {
	ts, _ := newTestServer(t)
	token, user := register(t, ts.URL, "amy")
	if user.Username != "amy" || user.Role != domain.RoleSiteManager {
		t.Fatalf("unexpected user: %+v", user)
	}

	// token works against a guarded route
	resp, data := doJSON(t, http.MethodGet, ts.URL+"/api/user", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/user status = %d", resp.StatusCode)
	}
	var me domain.User
	if err := json.Unmarshal(data, &me); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if me.ID != user.ID {
		t.Fatalf("user id = %q, want %q", me.ID, user.ID)
	}

	// duplicate username is rejected
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", map[string]string{
		"username": "amy", "password": "other",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", resp.StatusCode)
	}

	// login round trip
	resp, data = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]string{
		"username": "amy", "password": "hammer-time",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, body %s", resp.StatusCode, data)
	}

	// wrong password
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]string{
		"username": "amy", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", resp.StatusCode)
	}
}

func TestGuardedRoutesRequireToken(t *testing.T) {
	ts, _ := newTestServer(t)
	for _, path := range []string{"/api/user", "/api/projects", "/api/tasks", "/api/dashboard/stats"} {
		resp, _ := doJSON(t, http.MethodGet, ts.URL+path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("GET %s without token status = %d, want 401", path, resp.StatusCode)
		}
		resp, _ = doJSON(t, http.MethodGet, ts.URL+path, "not-a-jwt", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("GET %s with bad token status = %d, want 401", path, resp.StatusCode)
		}
	}
}

func TestProjectAndTaskLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)
	token, _ := register(t, ts.URL, "amy")

	resp, data := doJSON(t, http.MethodPost, ts.URL+"/api/projects", token, map[string]any{
		"name":   "Maple Street Reroof",
		"budget": 120000,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create project status = %d, body %s", resp.StatusCode, data)
	}
	var project domain.Project
	if err := json.Unmarshal(data, &project); err != nil {
		t.Fatalf("decode project: %v", err)
	}
	if !project.IsActive || project.ID == "" {
		t.Fatalf("unexpected project: %+v", project)
	}

	resp, data = doJSON(t, http.MethodPost, ts.URL+"/api/tasks", token, map[string]any{
		"projectId": project.ID,
		"name":      "Tear off old shingles",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create task status = %d, body %s", resp.StatusCode, data)
	}
	var task domain.Task
	if err := json.Unmarshal(data, &task); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if task.Status != domain.TaskPending {
		t.Fatalf("new task status = %q, want pending", task.Status)
	}

	// completing the task stamps completedAt
	resp, data = doJSON(t, http.MethodPatch, ts.URL+"/api/tasks/"+task.ID, token, map[string]any{
		"status": "completed",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch task status = %d, body %s", resp.StatusCode, data)
	}
	var updated domain.Task
	if err := json.Unmarshal(data, &updated); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if updated.Status != domain.TaskCompleted || updated.CompletedAt == nil {
		t.Fatalf("completed task = %+v", updated)
	}

	// unknown task id
	resp, _ = doJSON(t, http.MethodPatch, ts.URL+"/api/tasks/nope", token, map[string]any{"status": "completed"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("patch missing task status = %d, want 404", resp.StatusCode)
	}

	// stats reflect the project and its task
	resp, data = doJSON(t, http.MethodGet, ts.URL+"/api/dashboard/stats", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats status = %d", resp.StatusCode)
	}
	var stats domain.DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalProjects != 1 || stats.ActiveProjects != 1 || stats.CompletedTasks != 1 || stats.PendingTasks != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.TotalBudget != 120000 {
		t.Fatalf("total budget = %v, want 120000", stats.TotalBudget)
	}
}

func TestTaskPatchBroadcastsToProjectRoom(t *testing.T) {
	ts, st := newTestServer(t)
	token, _ := register(t, ts.URL, "amy")

	project := domain.Project{ID: "p7", Name: "Depot Roof", IsActive: true}
	if err := st.CreateProject(project); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	task := domain.Task{ID: "t1", ProjectID: "p7", Name: "Install membrane", Status: domain.TaskPending}
	if err := st.CreateTask(task); err != nil {
		t.Fatalf("seed task: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial relay: %v", err)
	}
	defer ws.Close()
	if err := ws.WriteJSON(map[string]string{"type": "authenticate", "token": token, "projectId": "p7"}); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ack map[string]any
	if err := ws.ReadJSON(&ack); err != nil {
		t.Fatalf("read ack: %v", err)
	}
	if ack["success"] != true {
		t.Fatalf("auth ack = %v", ack)
	}

	resp, data := doJSON(t, http.MethodPatch, ts.URL+"/api/tasks/t1", token, map[string]any{
		"status": "in_progress",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", resp.StatusCode, data)
	}

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame struct {
		Type string      `json:"type"`
		Task domain.Task `json:"task"`
	}
	if err := ws.ReadJSON(&frame); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if frame.Type != "task_update" || frame.Task.ID != "t1" || frame.Task.Status != domain.TaskInProgress {
		t.Fatalf("unexpected broadcast: %+v", frame)
	}
}

func TestRegisterRateLimit(t *testing.T) {
	st := store.NewMemoryStore()
	tokens, err := auth.NewTokens("server-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	objects, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	redis := miniredis.RunT(t)
	srv, err := New(Config{
		Store:                      st,
		Tokens:                     tokens,
		Relay:                      relay.New(st, tokens),
		Objects:                    objects,
		Weather:                    weather.New(weather.Config{}),
		RedisAddr:                  redis.Addr(),
		RegisterRateLimitPerMinute: 1,
		LoginRateLimitPerMinute:    1,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", map[string]string{
		"username": "one", "password": "pw",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", map[string]string{
		"username": "two", "password": "pw",
	})
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second register status = %d, want 429", resp.StatusCode)
	}
}

func TestServerRequiresRedisRateLimiter(t *testing.T) {
	_, err := New(Config{})
	if err == nil {
		t.Fatal("expected limiter initialization to fail without redis addr")
	}
}

func TestFileUploadAndListing(t *testing.T) {
	ts, st := newTestServer(t)
	token, _ := register(t, ts.URL, "amy")

	if err := st.CreateProject(domain.Project{ID: "p7", Name: "Depot Roof", IsActive: true}); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "site-plan.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fmt.Fprint(part, "pdf bytes")
	_ = mw.WriteField("projectId", "p7")
	_ = mw.WriteField("category", "drawings")
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/files", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d, body %s", resp.StatusCode, data)
	}
	var record domain.ProjectFile
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("decode file record: %v", err)
	}
	if record.OriginalName != "site-plan.pdf" || record.ProjectID != "p7" || record.Category != "drawings" {
		t.Fatalf("unexpected record: %+v", record)
	}

	listResp, listData := doJSON(t, http.MethodGet, ts.URL+"/api/files?project_id=p7", token, nil)
	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", listResp.StatusCode)
	}
	var list struct {
		Items []domain.ProjectFile `json:"items"`
		Count int                  `json:"count"`
	}
	if err := json.Unmarshal(listData, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Count != 1 || list.Items[0].ID != record.ID {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	ts, st := newTestServer(t)
	token, _ := register(t, ts.URL, "amy")
	if err := st.CreateProject(domain.Project{ID: "p7", Name: "Depot Roof", IsActive: true}); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "malware.exe")
	fmt.Fprint(part, "nope")
	_ = mw.WriteField("projectId", "p7")
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("upload status = %d, want 400", resp.StatusCode)
	}
}

func TestWeatherNotConfigured(t *testing.T) {
	ts, _ := newTestServer(t)
	token, _ := register(t, ts.URL, "amy")

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/weather", token, nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("weather status = %d, want 503", resp.StatusCode)
	}
}
