package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/3sol-fa/RoofConstructionManager/internal/auth"
	"github.com/3sol-fa/RoofConstructionManager/internal/ratelimit"
	"github.com/3sol-fa/RoofConstructionManager/internal/relay"
	"github.com/3sol-fa/RoofConstructionManager/internal/storage"
	"github.com/3sol-fa/RoofConstructionManager/internal/store"
	"github.com/3sol-fa/RoofConstructionManager/internal/util"
	"github.com/3sol-fa/RoofConstructionManager/internal/weather"
	"github.com/3sol-fa/RoofConstructionManager/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	Store   store.Store
	Tokens  *auth.Tokens
	Relay   *relay.Relay
	Objects storage.ObjectStore
	Weather *weather.Service

	RedisAddr     string
	RedisPassword string

	RegisterRateLimitPerMinute int
	LoginRateLimitPerMinute    int

	MaxUploadBytes    int64
	AllowedExtensions []string
}

// Server exposes the dashboard HTTP API and the websocket relay endpoint.
type Server struct {
	store             store.Store
	tokens            *auth.Tokens
	relay             *relay.Relay
	objects           storage.ObjectStore
	weather           *weather.Service
	mux               *http.ServeMux
	maxUploadBytes    int64
	allowedExtensions map[string]struct{}
	registerLimiter   *ratelimit.FixedWindowLimiter
	loginLimiter      *ratelimit.FixedWindowLimiter
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	registerLimit := cfg.RegisterRateLimitPerMinute
	if registerLimit <= 0 {
		registerLimit = 5
	}
	loginLimit := cfg.LoginRateLimitPerMinute
	if loginLimit <= 0 {
		loginLimit = 10
	}
	rateWindow := time.Minute
	newLimiter := func(name string, limit int) (*ratelimit.FixedWindowLimiter, error) {
		prefix := "sitehub:ratelimit:" + name
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, prefix, limit, rateWindow)
		if err != nil {
			return nil, fmt.Errorf("init %s limiter: %w", name, err)
		}
		return limiter, nil
	}
	registerLimiter, err := newLimiter("register", registerLimit)
	if err != nil {
		return nil, err
	}
	loginLimiter, err := newLimiter("login", loginLimit)
	if err != nil {
		return nil, err
	}
	s := &Server{
		store:             cfg.Store,
		tokens:            cfg.Tokens,
		relay:             cfg.Relay,
		objects:           cfg.Objects,
		weather:           cfg.Weather,
		mux:               http.NewServeMux(),
		maxUploadBytes:    normalizeMaxBytes(cfg.MaxUploadBytes),
		allowedExtensions: normalizeExtensions(cfg.AllowedExtensions),
		registerLimiter:   registerLimiter,
		loginLimiter:      loginLimiter,
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler with ambient middleware applied.
func (s *Server) Router() http.Handler {
	return util.WithSecurityHeaders(util.WithCORS(util.WithRequestID(util.WithRequestLog(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/api/auth/register", s.handleRegister)
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.Handle("/api/user", s.authenticated(s.handleUser))

	// dashboard resources (auth required)
	s.mux.Handle("/api/projects", s.authenticated(s.handleProjects))
	s.mux.Handle("/api/projects/", s.authenticated(s.handleProjectByID))
	s.mux.Handle("/api/tasks", s.authenticated(s.handleTasks))
	s.mux.Handle("/api/tasks/", s.authenticated(s.handleTaskByID))
	s.mux.Handle("/api/messages", s.authenticated(s.handleMessages))
	s.mux.Handle("/api/files", s.authenticated(s.handleFiles))
	s.mux.Handle("/api/materials", s.authenticated(s.handleMaterials))
	s.mux.Handle("/api/personnel", s.authenticated(s.handlePersonnel))
	s.mux.Handle("/api/activities", s.authenticated(s.handleActivities))
	s.mux.Handle("/api/weather", s.authenticated(s.handleWeather))
	s.mux.Handle("/api/dashboard/stats", s.authenticated(s.handleDashboardStats))

	// realtime relay; the connection authenticates in-band
	s.mux.Handle("/ws", s.relay)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrapper
type authHandler func(http.ResponseWriter, *http.Request, domain.User)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.authorize(r)
		if !ok {
			s.audit(r, "api.authorize", "fail")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, user)
	})
}

func (s *Server) authorize(r *http.Request) (domain.User, bool) {
	token, ok := bearerToken(r)
	if !ok {
		s.audit(r, "api.token.verify", "fail", "reason", "missing_token")
		return domain.User{}, false
	}
	identity, err := s.tokens.Verify(token)
	if err != nil {
		s.audit(r, "api.token.verify", "fail", "reason", "invalid_signature_or_claims")
		return domain.User{}, false
	}
	user, found, err := s.store.GetUser(identity.UserID)
	if err != nil || !found {
		s.audit(r, "api.token.verify", "fail", "reason", "unknown_user")
		return domain.User{}, false
	}
	if !user.IsActive {
		s.audit(r, "api.token.verify", "fail", "user_id", user.ID, "reason", "account_disabled")
		return domain.User{}, false
	}
	return user, true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.registerLimiter, "too many registration attempts") {
		s.audit(r, "api.register", "rate_limited")
		return
	}
	var req registerRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		s.audit(r, "api.register", "fail", "reason", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	role := domain.RoleWorker
	if req.Role != "" {
		parsed, ok := parseUserRole(req.Role)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid role")
			return
		}
		role = parsed
	}
	if _, exists, err := s.store.GetUserByUsername(req.Username); err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	} else if exists {
		s.audit(r, "api.register", "fail", "reason", "username_taken")
		writeError(w, http.StatusConflict, "username already taken")
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not process password")
		return
	}
	user := domain.User{
		ID:           util.NewID(),
		Username:     req.Username,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(user); err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	s.audit(r, "api.register", "success", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.loginLimiter, "too many login attempts") {
		s.audit(r, "api.login", "rate_limited")
		return
	}
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		s.audit(r, "api.login", "fail", "reason", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, found, err := s.store.GetUserByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	if !found || !auth.CheckPassword(req.Password, user.PasswordHash) {
		s.audit(r, "api.login", "fail", "reason", "invalid_credentials")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !user.IsActive {
		s.audit(r, "api.login", "fail", "user_id", user.ID, "reason", "account_disabled")
		writeError(w, http.StatusForbidden, "account disabled")
		return
	}
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	s.audit(r, "api.login", "success", "user_id", user.ID)
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

func parseUserRole(role string) (domain.UserRole, bool) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case string(domain.RoleSiteManager):
		return domain.RoleSiteManager, true
	case string(domain.RoleWorker):
		return domain.RoleWorker, true
	case string(domain.RoleSafetyManager):
		return domain.RoleSafetyManager, true
	case string(domain.RoleAdmin):
		return domain.RoleAdmin, true
	default:
		return "", false
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func normalizeMaxBytes(value int64) int64 {
	if value <= 0 {
		return 50 * 1024 * 1024
	}
	return value
}

func normalizeExtensions(exts []string) map[string]struct{} {
	if len(exts) == 0 {
		exts = []string{".pdf", ".png", ".jpg", ".jpeg", ".dwg", ".xlsx", ".docx", ".txt"}
	}
	out := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[ext] = struct{}{}
	}
	return out
}

func (s *Server) isExtensionAllowed(filename string) bool {
	if len(s.allowedExtensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	_, ok := s.allowedExtensions[ext]
	return ok
}

func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", clientIP(r),
	}
	logAttrs = append(logAttrs, attrs...)
	if outcome == "success" {
		slog.Info("security_event", logAttrs...)
		return
	}
	slog.Warn("security_event", logAttrs...)
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, msg string) bool {
	key := r.URL.Path + "|" + clientIP(r)
	if limiter.Allow(key) {
		return true
	}
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, msg)
	return false
}

func clientIP(r *http.Request) string {
	if xfwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xfwd != "" {
		parts := strings.Split(xfwd, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
