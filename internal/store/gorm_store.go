package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/3sol-fa/RoofConstructionManager/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&UserModel{},
		&ProjectModel{},
		&TaskModel{},
		&PersonnelModel{},
		&MaterialModel{},
		&FileModel{},
		&MessageModel{},
		&TeamMemberModel{},
		&ActivityModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) CreateUser(u domain.User) error {
	model := userToModel(u)
	return s.db.Create(&model).Error
}

func (s *GormStore) GetUser(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

func (s *GormStore) GetUserByUsername(username string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

func (s *GormStore) ListProjects() ([]domain.Project, error) {
	var models []ProjectModel
	if err := s.db.Order("updated_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Project, 0, len(models))
	for _, m := range models {
		res = append(res, projectFromModel(m))
	}
	return res, nil
}

func (s *GormStore) GetProject(id string) (domain.Project, bool, error) {
	var model ProjectModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Project{}, false, nil
		}
		return domain.Project{}, false, err
	}
	return projectFromModel(model), true, nil
}

func (s *GormStore) CreateProject(p domain.Project) error {
	model := projectToModel(p)
	return s.db.Create(&model).Error
}

func (s *GormStore) UpdateProject(id string, update ProjectUpdate) (domain.Project, bool, error) {
	changes := map[string]any{"updated_at": time.Now().UTC()}
	if update.Name != nil {
		changes["name"] = *update.Name
	}
	if update.Description != nil {
		changes["description"] = *update.Description
	}
	if update.Progress != nil {
		changes["progress"] = *update.Progress
	}
	if update.BudgetUsed != nil {
		changes["budget_used"] = *update.BudgetUsed
	}
	if update.IsActive != nil {
		changes["is_active"] = *update.IsActive
	}
	res := s.db.Model(&ProjectModel{}).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return domain.Project{}, false, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Project{}, false, nil
	}
	return s.GetProject(id)
}

func (s *GormStore) GetTask(id string) (domain.Task, bool, error) {
	var model TaskModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Task{}, false, nil
		}
		return domain.Task{}, false, err
	}
	return taskFromModel(model), true, nil
}

func (s *GormStore) ListTasksByProject(projectID string) ([]domain.Task, error) {
	return s.listTasks("created_at DESC", "project_id = ?", projectID)
}

func (s *GormStore) ListTasksByUser(userID string) ([]domain.Task, error) {
	return s.listTasks("created_at DESC", "assigned_user_id = ?", userID)
}

func (s *GormStore) ListPendingTasksByUser(userID string) ([]domain.Task, error) {
	var models []TaskModel
	err := s.db.Where("assigned_user_id = ? AND status = ?", userID, string(domain.TaskPending)).
		Order("end_date ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.Task, 0, len(models))
	for _, m := range models {
		res = append(res, taskFromModel(m))
	}
	return res, nil
}

func (s *GormStore) listTasks(order string, cond string, args ...any) ([]domain.Task, error) {
	var models []TaskModel
	if err := s.db.Where(cond, args...).Order(order).Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Task, 0, len(models))
	for _, m := range models {
		res = append(res, taskFromModel(m))
	}
	return res, nil
}

func (s *GormStore) CreateTask(t domain.Task) error {
	model := taskToModel(t)
	return s.db.Create(&model).Error
}

func (s *GormStore) UpdateTask(id string, update TaskUpdate) (domain.Task, bool, error) {
	changes := map[string]any{"updated_at": time.Now().UTC()}
	if update.Name != nil {
		changes["name"] = *update.Name
	}
	if update.Description != nil {
		changes["description"] = *update.Description
	}
	if update.Status != nil {
		changes["status"] = string(*update.Status)
	}
	if update.Progress != nil {
		changes["progress"] = *update.Progress
	}
	if update.AssignedUserID != nil {
		changes["assigned_user_id"] = *update.AssignedUserID
	}
	if update.StartDate != nil {
		changes["start_date"] = *update.StartDate
	}
	if update.EndDate != nil {
		changes["end_date"] = *update.EndDate
	}
	if update.CompletedAt != nil {
		changes["completed_at"] = *update.CompletedAt
	}
	res := s.db.Model(&TaskModel{}).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return domain.Task{}, false, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Task{}, false, nil
	}
	return s.GetTask(id)
}

func (s *GormStore) ListMaterials(projectID string) ([]domain.Material, error) {
	var models []MaterialModel
	tx := s.db.Order("name ASC")
	if projectID != "" {
		tx = tx.Where("project_id = ?", projectID)
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Material, 0, len(models))
	for _, m := range models {
		res = append(res, materialFromModel(m))
	}
	return res, nil
}

func (s *GormStore) CreateMaterial(mat domain.Material) error {
	model := materialToModel(mat)
	return s.db.Create(&model).Error
}

func (s *GormStore) ListFilesByProject(projectID string) ([]domain.ProjectFile, error) {
	var models []FileModel
	if err := s.db.Where("project_id = ?", projectID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.ProjectFile, 0, len(models))
	for _, m := range models {
		res = append(res, fileFromModel(m))
	}
	return res, nil
}

func (s *GormStore) ListRecentFiles(limit int) ([]domain.ProjectFile, error) {
	if limit <= 0 {
		limit = 10
	}
	var models []FileModel
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.ProjectFile, 0, len(models))
	for _, m := range models {
		res = append(res, fileFromModel(m))
	}
	return res, nil
}

func (s *GormStore) CreateFile(f domain.ProjectFile) error {
	model := fileToModel(f)
	return s.db.Create(&model).Error
}

func (s *GormStore) CreateMessage(msg domain.Message) error {
	model := messageToModel(msg)
	return s.db.Create(&model).Error
}

func (s *GormStore) ListMessagesByProject(projectID string) ([]domain.Message, error) {
	var models []MessageModel
	if err := s.db.Where("project_id = ?", projectID).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Message, 0, len(models))
	for _, m := range models {
		res = append(res, messageFromModel(m))
	}
	return res, nil
}

func (s *GormStore) ListRecentMessages(limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	var models []MessageModel
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Message, 0, len(models))
	for _, m := range models {
		res = append(res, messageFromModel(m))
	}
	return res, nil
}

func (s *GormStore) ListTeamMembers(projectID string) ([]domain.TeamMember, error) {
	var models []TeamMemberModel
	if err := s.db.Where("project_id = ?", projectID).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.TeamMember, 0, len(models))
	for _, m := range models {
		res = append(res, teamMemberFromModel(m))
	}
	return res, nil
}

func (s *GormStore) AddTeamMember(tm domain.TeamMember) error {
	model := teamMemberToModel(tm)
	return s.db.Create(&model).Error
}

func (s *GormStore) ListPersonnel(projectID string) ([]domain.Personnel, error) {
	var models []PersonnelModel
	tx := s.db.Order("work_date DESC")
	if projectID != "" {
		tx = tx.Where("project_id = ?", projectID)
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Personnel, 0, len(models))
	for _, m := range models {
		res = append(res, personnelFromModel(m))
	}
	return res, nil
}

func (s *GormStore) CreatePersonnel(p domain.Personnel) error {
	model := personnelToModel(p)
	return s.db.Create(&model).Error
}

func (s *GormStore) ListActivities(projectID string) ([]domain.Activity, error) {
	var models []ActivityModel
	tx := s.db.Order("created_at DESC")
	if projectID != "" {
		tx = tx.Where("project_id = ?", projectID)
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Activity, 0, len(models))
	for _, m := range models {
		res = append(res, activityFromModel(m))
	}
	return res, nil
}

func (s *GormStore) CreateActivity(a domain.Activity) error {
	model := activityToModel(a)
	return s.db.Create(&model).Error
}
