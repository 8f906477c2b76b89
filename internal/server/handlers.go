package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/3sol-fa/RoofConstructionManager/internal/store"
	"github.com/3sol-fa/RoofConstructionManager/internal/util"
	"github.com/3sol-fa/RoofConstructionManager/internal/weather"
	"github.com/3sol-fa/RoofConstructionManager/pkg/domain"
)

const defaultRecentMessages = 50

// /api/projects
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		projects, err := s.store.ListProjects()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": projects, "count": len(projects)})
	case http.MethodPost:
		var req projectRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		now := time.Now().UTC()
		project := domain.Project{
			ID:            util.NewID(),
			Name:          strings.TrimSpace(req.Name),
			Description:   req.Description,
			StartDate:     req.StartDate,
			EndDate:       req.EndDate,
			Budget:        req.Budget,
			Progress:      0,
			IsActive:      true,
			ManagerID:     user.ID,
			GC:            req.GC,
			DesignCompany: req.DesignCompany,
			Location:      req.Location,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.store.CreateProject(project); err != nil {
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		s.recordActivity(project.ID, user.ID, "project_created", "Project "+project.Name+" created")
		writeJSON(w, http.StatusCreated, project)
	default:
		methodNotAllowed(w)
	}
}

// /api/projects/{id} or /api/projects/{id}/team
func (s *Server) handleProjectByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	path := strings.TrimPrefix(r.URL.Path, "/api/projects/")
	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	if id == "" {
		http.NotFound(w, r)
		return
	}
	if len(parts) == 2 && parts[1] == "team" {
		s.handleProjectTeam(w, r, user, id)
		return
	}
	if len(parts) == 2 {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		project, found, err := s.store.GetProject(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeJSON(w, http.StatusOK, project)
	case http.MethodPatch:
		var req projectPatchRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		update := store.ProjectUpdate{
			Name:        req.Name,
			Description: req.Description,
			Progress:    req.Progress,
			BudgetUsed:  req.BudgetUsed,
			IsActive:    req.IsActive,
		}
		project, found, err := s.store.UpdateProject(id, update)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeJSON(w, http.StatusOK, project)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleProjectTeam(w http.ResponseWriter, r *http.Request, user domain.User, projectID string) {
	if _, found, err := s.store.GetProject(projectID); err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	} else if !found {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		members, err := s.store.ListTeamMembers(projectID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": members, "count": len(members)})
	case http.MethodPost:
		var req teamMemberRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.UserID == "" {
			writeError(w, http.StatusBadRequest, "userId is required")
			return
		}
		member := domain.TeamMember{
			ID:        util.NewID(),
			ProjectID: projectID,
			UserID:    req.UserID,
			Role:      req.Role,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.AddTeamMember(member); err != nil {
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		s.recordActivity(projectID, user.ID, "member_added", "Team member added")
		writeJSON(w, http.StatusCreated, member)
	default:
		methodNotAllowed(w)
	}
}

// /api/tasks
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTasks(w, r, user)
	case http.MethodPost:
		s.handleCreateTask(w, r, user)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request, user domain.User) {
	q := r.URL.Query()
	var (
		tasks []domain.Task
		err   error
	)
	switch {
	case q.Get("project_id") != "":
		tasks, err = s.store.ListTasksByProject(q.Get("project_id"))
	case q.Get("today") == "true":
		tasks, err = s.store.ListPendingTasksByUser(user.ID)
		if err == nil {
			tasks = dueToday(tasks, time.Now())
		}
	default:
		tasks, err = s.store.ListTasksByUser(user.ID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": tasks, "count": len(tasks)})
}

// dueToday keeps tasks whose window includes the given day.
func dueToday(tasks []domain.Task, now time.Time) []domain.Task {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.StartDate.Before(dayEnd) && t.EndDate.After(dayStart) {
			out = append(out, t)
		}
	}
	return out
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req taskRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ProjectID == "" || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "projectId and name are required")
		return
	}
	if _, found, err := s.store.GetProject(req.ProjectID); err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	} else if !found {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	now := time.Now().UTC()
	task := domain.Task{
		ID:             util.NewID(),
		ProjectID:      req.ProjectID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Status:         domain.TaskPending,
		AssignedUserID: req.AssignedUserID,
		Progress:       0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateTask(task); err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	s.recordActivity(task.ProjectID, user.ID, "task_created", "Task "+task.Name+" created")
	s.relay.BroadcastTaskUpdate(task)
	writeJSON(w, http.StatusCreated, task)
}

// /api/tasks/{id}
func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	id := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		task, found, err := s.store.GetTask(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeJSON(w, http.StatusOK, task)
	case http.MethodPatch:
		s.handlePatchTask(w, r, user, id)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handlePatchTask(w http.ResponseWriter, r *http.Request, user domain.User, id string) {
	var req taskPatchRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	update := store.TaskUpdate{
		Name:           req.Name,
		Description:    req.Description,
		Progress:       req.Progress,
		AssignedUserID: req.AssignedUserID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	}
	if req.Status != nil {
		status, ok := parseTaskStatus(*req.Status)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		update.Status = &status
		if status == domain.TaskCompleted {
			completedAt := time.Now().UTC()
			update.CompletedAt = &completedAt
		}
	}
	task, found, err := s.store.UpdateTask(id, update)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	s.recordActivity(task.ProjectID, user.ID, "task_updated", "Task "+task.Name+" updated")
	s.relay.BroadcastTaskUpdate(task)
	writeJSON(w, http.StatusOK, task)
}

func parseTaskStatus(status string) (domain.TaskStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case string(domain.TaskPending):
		return domain.TaskPending, true
	case string(domain.TaskInProgress):
		return domain.TaskInProgress, true
	case string(domain.TaskCompleted):
		return domain.TaskCompleted, true
	default:
		return "", false
	}
}

// /api/messages
func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	var (
		messages []domain.Message
		err      error
	)
	if projectID := r.URL.Query().Get("project_id"); projectID != "" {
		messages, err = s.store.ListMessagesByProject(projectID)
	} else {
		messages, err = s.store.ListRecentMessages(defaultRecentMessages)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	enriched := make([]domain.MessageWithSender, 0, len(messages))
	for _, msg := range messages {
		item := domain.MessageWithSender{Message: msg}
		if sender, found, err := s.store.GetUser(msg.SenderID); err == nil && found {
			item.Sender = &sender
		}
		enriched = append(enriched, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": enriched, "count": len(enriched)})
}

// /api/files
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		s.handleListFiles(w, r)
	case http.MethodPost:
		s.handleUploadFile(w, r, user)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		files []domain.ProjectFile
		err   error
	)
	switch {
	case q.Get("project_id") != "":
		files, err = s.store.ListFilesByProject(q.Get("project_id"))
	case q.Get("recent") == "true":
		limit := 10
		if v, convErr := strconv.Atoi(q.Get("limit")); convErr == nil && v > 0 {
			limit = v
		}
		files, err = s.store.ListRecentFiles(limit)
	default:
		writeError(w, http.StatusBadRequest, "project_id or recent=true is required")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": files, "count": len(files)})
}

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request, user domain.User) {
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required (field: file)")
		return
	}
	defer file.Close()
	if !s.isExtensionAllowed(header.Filename) {
		writeError(w, http.StatusBadRequest, "unsupported file type")
		return
	}
	projectID := r.FormValue("projectId")
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "projectId is required")
		return
	}
	if _, found, err := s.store.GetProject(projectID); err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	} else if !found {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := projectID + "/" + util.NewID() + ext
	contentType := header.Header.Get("Content-Type")
	if err := s.objects.Put(r.Context(), key, file, header.Size, contentType); err != nil {
		slog.Error("file upload failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "could not store file")
		return
	}
	record := domain.ProjectFile{
		ID:           util.NewID(),
		ProjectID:    projectID,
		UploadedBy:   user.ID,
		Filename:     filepath.Base(key),
		OriginalName: header.Filename,
		FileType:     contentType,
		FileSize:     header.Size,
		Category:     r.FormValue("category"),
		StorageKey:   key,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateFile(record); err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	s.recordActivity(projectID, user.ID, "file_uploaded", "File "+header.Filename+" uploaded")
	writeJSON(w, http.StatusCreated, record)
}

// /api/materials
func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		materials, err := s.store.ListMaterials(r.URL.Query().Get("project_id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": materials, "count": len(materials)})
	case http.MethodPost:
		var req materialRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.ProjectID == "" || strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "projectId and name are required")
			return
		}
		status := domain.MaterialNeeded
		if req.Status != "" {
			parsed, ok := parseMaterialStatus(req.Status)
			if !ok {
				writeError(w, http.StatusBadRequest, "invalid status")
				return
			}
			status = parsed
		}
		totalPrice := req.TotalPrice
		if totalPrice == 0 {
			totalPrice = float64(req.Quantity) * req.UnitPrice
		}
		material := domain.Material{
			ID:           util.NewID(),
			ProjectID:    req.ProjectID,
			Name:         strings.TrimSpace(req.Name),
			Category:     req.Category,
			Quantity:     req.Quantity,
			Unit:         req.Unit,
			UnitPrice:    req.UnitPrice,
			TotalPrice:   totalPrice,
			Supplier:     req.Supplier,
			OrderDate:    req.OrderDate,
			DeliveryDate: req.DeliveryDate,
			Status:       status,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.store.CreateMaterial(material); err != nil {
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		s.recordActivity(material.ProjectID, user.ID, "material_added", "Material "+material.Name+" added")
		writeJSON(w, http.StatusCreated, material)
	default:
		methodNotAllowed(w)
	}
}

func parseMaterialStatus(status string) (domain.MaterialStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case string(domain.MaterialNeeded):
		return domain.MaterialNeeded, true
	case string(domain.MaterialOrdered):
		return domain.MaterialOrdered, true
	case string(domain.MaterialDelivered):
		return domain.MaterialDelivered, true
	case string(domain.MaterialUsed):
		return domain.MaterialUsed, true
	default:
		return "", false
	}
}

// /api/personnel
func (s *Server) handlePersonnel(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		records, err := s.store.ListPersonnel(r.URL.Query().Get("project_id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": records, "count": len(records)})
	case http.MethodPost:
		var req personnelRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.ProjectID == "" || req.UserID == "" {
			writeError(w, http.StatusBadRequest, "projectId and userId are required")
			return
		}
		workDate := req.WorkDate
		if workDate.IsZero() {
			workDate = time.Now().UTC()
		}
		record := domain.Personnel{
			ID:        util.NewID(),
			UserID:    req.UserID,
			ProjectID: req.ProjectID,
			WorkDate:  workDate,
			IsPresent: req.IsPresent,
			WorkHours: req.WorkHours,
			Notes:     req.Notes,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.CreatePersonnel(record); err != nil {
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		writeJSON(w, http.StatusCreated, record)
	default:
		methodNotAllowed(w)
	}
}

// /api/activities
func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		activities, err := s.store.ListActivities(r.URL.Query().Get("project_id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": activities, "count": len(activities)})
	case http.MethodPost:
		var req activityRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.ProjectID == "" || req.ActivityType == "" {
			writeError(w, http.StatusBadRequest, "projectId and activityType are required")
			return
		}
		activity := domain.Activity{
			ID:           util.NewID(),
			ProjectID:    req.ProjectID,
			UserID:       user.ID,
			ActivityType: req.ActivityType,
			Description:  req.Description,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.store.CreateActivity(activity); err != nil {
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		writeJSON(w, http.StatusCreated, activity)
	default:
		methodNotAllowed(w)
	}
}

// /api/weather
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	report, err := s.weather.Current(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		if errors.Is(err, weather.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "weather service not configured")
			return
		}
		slog.Warn("weather fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "weather service unavailable")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// /api/dashboard/stats
func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	projects, err := s.store.ListProjects()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	var stats domain.DashboardStats
	stats.TotalProjects = len(projects)
	for _, p := range projects {
		if p.IsActive {
			stats.ActiveProjects++
		}
		stats.TotalBudget += p.Budget
		stats.BudgetUsed += p.BudgetUsed
		tasks, err := s.store.ListTasksByProject(p.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "storage unavailable")
			return
		}
		for _, t := range tasks {
			if t.Status == domain.TaskCompleted {
				stats.CompletedTasks++
			} else {
				stats.PendingTasks++
			}
		}
	}
	writeJSON(w, http.StatusOK, stats)
}

// recordActivity writes an activity feed entry. Failures are logged only so
// the triggering request still succeeds.
func (s *Server) recordActivity(projectID, userID, activityType, description string) {
	activity := domain.Activity{
		ID:           util.NewID(),
		ProjectID:    projectID,
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateActivity(activity); err != nil {
		slog.Warn("activity record failed", "project_id", projectID, "type", activityType, "error", fmt.Errorf("create activity: %w", err))
	}
}

type projectRequest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	StartDate     time.Time        `json:"startDate"`
	EndDate       time.Time        `json:"endDate"`
	Budget        float64          `json:"budget"`
	GC            string           `json:"gc"`
	DesignCompany string           `json:"designCompany"`
	Location      *domain.Location `json:"location"`
}

type projectPatchRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Progress    *int     `json:"progress"`
	BudgetUsed  *float64 `json:"budgetUsed"`
	IsActive    *bool    `json:"isActive"`
}

type teamMemberRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type taskRequest struct {
	ProjectID      string    `json:"projectId"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	AssignedUserID string    `json:"assignedUserId"`
}

type taskPatchRequest struct {
	Name           *string    `json:"name"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status"`
	Progress       *int       `json:"progress"`
	AssignedUserID *string    `json:"assignedUserId"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
}

type materialRequest struct {
	ProjectID    string     `json:"projectId"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	Quantity     int        `json:"quantity"`
	Unit         string     `json:"unit"`
	UnitPrice    float64    `json:"unitPrice"`
	TotalPrice   float64    `json:"totalPrice"`
	Supplier     string     `json:"supplier"`
	OrderDate    *time.Time `json:"orderDate"`
	DeliveryDate *time.Time `json:"deliveryDate"`
	Status       string     `json:"status"`
}

type personnelRequest struct {
	ProjectID string    `json:"projectId"`
	UserID    string    `json:"userId"`
	WorkDate  time.Time `json:"workDate"`
	IsPresent bool      `json:"isPresent"`
	WorkHours float64   `json:"workHours"`
	Notes     string    `json:"notes"`
}

type activityRequest struct {
	ProjectID    string `json:"projectId"`
	ActivityType string `json:"activityType"`
	Description  string `json:"description"`
}
