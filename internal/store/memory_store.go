package store

import (
	"sort"
	"sync"
	"time"

	"github.com/3sol-fa/RoofConstructionManager/pkg/domain"
)

// MemoryStore keeps all entities in-process. It backs tests and small
// deployments that run without a database.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]domain.User
	byUsername map[string]string // username -> user ID
	projects   map[string]domain.Project
	tasks      map[string]domain.Task
	materials  []domain.Material
	files      []domain.ProjectFile
	messages   []domain.Message
	team       []domain.TeamMember
	personnel  []domain.Personnel
	activities []domain.Activity
	projOrder  []string
	taskOrder  []string
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]domain.User),
		byUsername: make(map[string]string),
		projects:   make(map[string]domain.Project),
		tasks:      make(map[string]domain.Task),
	}
}

func (m *MemoryStore) CreateUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	m.byUsername[u.Username] = u.ID
	return nil
}

func (m *MemoryStore) GetUser(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

func (m *MemoryStore) GetUserByUsername(username string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byUsername[username]
	if !ok {
		return domain.User{}, false, nil
	}
	u, ok := m.users[id]
	return u, ok, nil
}

func (m *MemoryStore) ListProjects() ([]domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Project, 0, len(m.projOrder))
	for _, id := range m.projOrder {
		if p, ok := m.projects[id]; ok {
			res = append(res, p)
		}
	}
	return res, nil
}

func (m *MemoryStore) GetProject(id string) (domain.Project, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	return p, ok, nil
}

func (m *MemoryStore) CreateProject(p domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.projects[p.ID]; !exists {
		m.projOrder = append(m.projOrder, p.ID)
	}
	m.projects[p.ID] = p
	return nil
}

func (m *MemoryStore) UpdateProject(id string, update ProjectUpdate) (domain.Project, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return domain.Project{}, false, nil
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Progress != nil {
		p.Progress = *update.Progress
	}
	if update.BudgetUsed != nil {
		p.BudgetUsed = *update.BudgetUsed
	}
	if update.IsActive != nil {
		p.IsActive = *update.IsActive
	}
	p.UpdatedAt = time.Now().UTC()
	m.projects[id] = p
	return p, true, nil
}

func (m *MemoryStore) GetTask(id string) (domain.Task, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	return t, ok, nil
}

func (m *MemoryStore) ListTasksByProject(projectID string) ([]domain.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Task
	for _, id := range m.taskOrder {
		if t, ok := m.tasks[id]; ok && t.ProjectID == projectID {
			res = append(res, t)
		}
	}
	return res, nil
}

func (m *MemoryStore) ListTasksByUser(userID string) ([]domain.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Task
	for _, id := range m.taskOrder {
		if t, ok := m.tasks[id]; ok && t.AssignedUserID == userID {
			res = append(res, t)
		}
	}
	return res, nil
}

// ListPendingTasksByUser returns the user's pending tasks ordered by due date,
// which feeds the "today's schedule" dashboard panel.
func (m *MemoryStore) ListPendingTasksByUser(userID string) ([]domain.Task, error) {
	tasks, err := m.ListTasksByUser(userID)
	if err != nil {
		return nil, err
	}
	var res []domain.Task
	for _, t := range tasks {
		if t.Status == domain.TaskPending {
			res = append(res, t)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].EndDate.Before(res[j].EndDate) })
	return res, nil
}

func (m *MemoryStore) CreateTask(t domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tasks[t.ID]; !exists {
		m.taskOrder = append(m.taskOrder, t.ID)
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *MemoryStore) UpdateTask(id string, update TaskUpdate) (domain.Task, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, false, nil
	}
	if update.Name != nil {
		t.Name = *update.Name
	}
	if update.Description != nil {
		t.Description = *update.Description
	}
	if update.Status != nil {
		t.Status = *update.Status
	}
	if update.Progress != nil {
		t.Progress = *update.Progress
	}
	if update.AssignedUserID != nil {
		t.AssignedUserID = *update.AssignedUserID
	}
	if update.StartDate != nil {
		t.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		t.EndDate = *update.EndDate
	}
	if update.CompletedAt != nil {
		t.CompletedAt = update.CompletedAt
	}
	t.UpdatedAt = time.Now().UTC()
	m.tasks[id] = t
	return t, true, nil
}

func (m *MemoryStore) ListMaterials(projectID string) ([]domain.Material, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Material
	for _, mat := range m.materials {
		if projectID == "" || mat.ProjectID == projectID {
			res = append(res, mat)
		}
	}
	return res, nil
}

func (m *MemoryStore) CreateMaterial(mat domain.Material) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.materials = append(m.materials, mat)
	return nil
}

func (m *MemoryStore) ListFilesByProject(projectID string) ([]domain.ProjectFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.ProjectFile
	for _, f := range m.files {
		if f.ProjectID == projectID {
			res = append(res, f)
		}
	}
	return res, nil
}

// ListRecentFiles returns up to limit files, newest first.
func (m *MemoryStore) ListRecentFiles(limit int) ([]domain.ProjectFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.files) {
		limit = len(m.files)
	}
	res := make([]domain.ProjectFile, 0, limit)
	for i := len(m.files) - 1; i >= 0 && len(res) < limit; i-- {
		res = append(res, m.files[i])
	}
	return res, nil
}

func (m *MemoryStore) CreateFile(f domain.ProjectFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = append(m.files, f)
	return nil
}

func (m *MemoryStore) CreateMessage(msg domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *MemoryStore) ListMessagesByProject(projectID string) ([]domain.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Message
	for _, msg := range m.messages {
		if msg.ProjectID == projectID {
			res = append(res, msg)
		}
	}
	return res, nil
}

// ListRecentMessages returns up to limit messages, newest first.
func (m *MemoryStore) ListRecentMessages(limit int) ([]domain.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.messages) {
		limit = len(m.messages)
	}
	res := make([]domain.Message, 0, limit)
	for i := len(m.messages) - 1; i >= 0 && len(res) < limit; i-- {
		res = append(res, m.messages[i])
	}
	return res, nil
}

func (m *MemoryStore) ListTeamMembers(projectID string) ([]domain.TeamMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.TeamMember
	for _, tm := range m.team {
		if tm.ProjectID == projectID {
			res = append(res, tm)
		}
	}
	return res, nil
}

func (m *MemoryStore) AddTeamMember(tm domain.TeamMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.team = append(m.team, tm)
	return nil
}

func (m *MemoryStore) ListPersonnel(projectID string) ([]domain.Personnel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Personnel
	for _, p := range m.personnel {
		if projectID == "" || p.ProjectID == projectID {
			res = append(res, p)
		}
	}
	return res, nil
}

func (m *MemoryStore) CreatePersonnel(p domain.Personnel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.personnel = append(m.personnel, p)
	return nil
}

func (m *MemoryStore) ListActivities(projectID string) ([]domain.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Activity
	for _, a := range m.activities {
		if projectID == "" || a.ProjectID == projectID {
			res = append(res, a)
		}
	}
	return res, nil
}

func (m *MemoryStore) CreateActivity(a domain.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activities = append(m.activities, a)
	return nil
}
