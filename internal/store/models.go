package store

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/3sol-fa/RoofConstructionManager/pkg/domain"
)

// GORM models used for persistence.
type UserModel struct {
	ID           string    `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Name         string    `gorm:"not null"`
	Role         string    `gorm:"not null"`
	IsActive     bool      `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

type ProjectModel struct {
	ID            string `gorm:"primaryKey"`
	Name          string `gorm:"not null"`
	Description   string
	StartDate     time.Time `gorm:"not null"`
	EndDate       time.Time `gorm:"not null"`
	Budget        float64
	BudgetUsed    float64
	Progress      int
	IsActive      bool `gorm:"not null;index"`
	ManagerID     string
	GC            string
	DesignCompany string
	Location      datatypes.JSON
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (ProjectModel) TableName() string { return "projects" }

type TaskModel struct {
	ID             string `gorm:"primaryKey"`
	ProjectID      string `gorm:"not null;index"`
	Name           string `gorm:"not null"`
	Description    string
	StartDate      time.Time `gorm:"not null"`
	EndDate        time.Time `gorm:"not null"`
	Status         string    `gorm:"not null;index"`
	AssignedUserID string    `gorm:"index"`
	Progress       int
	CompletedAt    *time.Time
	CreatedAt      time.Time `gorm:"not null;index"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (TaskModel) TableName() string { return "tasks" }

type PersonnelModel struct {
	ID        string    `gorm:"primaryKey"`
	UserID    string    `gorm:"not null;index"`
	ProjectID string    `gorm:"not null;index"`
	WorkDate  time.Time `gorm:"not null"`
	IsPresent bool
	WorkHours float64
	Notes     string
	CreatedAt time.Time `gorm:"not null"`
}

func (PersonnelModel) TableName() string { return "personnel" }

type MaterialModel struct {
	ID           string `gorm:"primaryKey"`
	ProjectID    string `gorm:"not null;index"`
	Name         string `gorm:"not null"`
	Category     string `gorm:"not null"`
	Quantity     int    `gorm:"not null"`
	Unit         string `gorm:"not null"`
	UnitPrice    float64
	TotalPrice   float64
	Supplier     string
	OrderDate    *time.Time
	DeliveryDate *time.Time
	Status       string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (MaterialModel) TableName() string { return "materials" }

type FileModel struct {
	ID           string    `gorm:"primaryKey"`
	ProjectID    string    `gorm:"not null;index"`
	UploadedBy   string    `gorm:"not null"`
	Filename     string    `gorm:"not null"`
	OriginalName string    `gorm:"not null"`
	FileType     string    `gorm:"not null"`
	FileSize     int64     `gorm:"not null"`
	Category     string    `gorm:"not null"`
	StorageKey   string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null;index"`
}

func (FileModel) TableName() string { return "files" }

type MessageModel struct {
	ID          string `gorm:"primaryKey"`
	ProjectID   string `gorm:"index"`
	SenderID    string `gorm:"not null;index"`
	Content     string `gorm:"not null"`
	MessageType string `gorm:"not null"`
	IsRead      bool
	CreatedAt   time.Time `gorm:"not null;index"`
}

func (MessageModel) TableName() string { return "messages" }

type TeamMemberModel struct {
	ID        string    `gorm:"primaryKey"`
	ProjectID string    `gorm:"not null;index"`
	UserID    string    `gorm:"not null;index"`
	Role      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (TeamMemberModel) TableName() string { return "project_team_members" }

type ActivityModel struct {
	ID           string    `gorm:"primaryKey"`
	ProjectID    string    `gorm:"not null;index"`
	UserID       string    `gorm:"not null"`
	ActivityType string    `gorm:"not null"`
	Description  string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null;index"`
}

func (ActivityModel) TableName() string { return "activities" }

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Role:         domain.UserRole(m.Role),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
	}
}

func projectToModel(p domain.Project) ProjectModel {
	var loc datatypes.JSON
	if p.Location != nil {
		if raw, err := json.Marshal(p.Location); err == nil {
			loc = raw
		}
	}
	return ProjectModel{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		Budget:        p.Budget,
		BudgetUsed:    p.BudgetUsed,
		Progress:      p.Progress,
		IsActive:      p.IsActive,
		ManagerID:     p.ManagerID,
		GC:            p.GC,
		DesignCompany: p.DesignCompany,
		Location:      loc,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func projectFromModel(m ProjectModel) domain.Project {
	p := domain.Project{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		Budget:        m.Budget,
		BudgetUsed:    m.BudgetUsed,
		Progress:      m.Progress,
		IsActive:      m.IsActive,
		ManagerID:     m.ManagerID,
		GC:            m.GC,
		DesignCompany: m.DesignCompany,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if len(m.Location) > 0 {
		var loc domain.Location
		if err := json.Unmarshal(m.Location, &loc); err == nil {
			p.Location = &loc
		}
	}
	return p
}

func taskToModel(t domain.Task) TaskModel {
	return TaskModel{
		ID:             t.ID,
		ProjectID:      t.ProjectID,
		Name:           t.Name,
		Description:    t.Description,
		StartDate:      t.StartDate,
		EndDate:        t.EndDate,
		Status:         string(t.Status),
		AssignedUserID: t.AssignedUserID,
		Progress:       t.Progress,
		CompletedAt:    t.CompletedAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func taskFromModel(m TaskModel) domain.Task {
	return domain.Task{
		ID:             m.ID,
		ProjectID:      m.ProjectID,
		Name:           m.Name,
		Description:    m.Description,
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		Status:         domain.TaskStatus(m.Status),
		AssignedUserID: m.AssignedUserID,
		Progress:       m.Progress,
		CompletedAt:    m.CompletedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func messageToModel(msg domain.Message) MessageModel {
	return MessageModel{
		ID:          msg.ID,
		ProjectID:   msg.ProjectID,
		SenderID:    msg.SenderID,
		Content:     msg.Content,
		MessageType: msg.MessageType,
		IsRead:      msg.IsRead,
		CreatedAt:   msg.CreatedAt,
	}
}

func messageFromModel(m MessageModel) domain.Message {
	return domain.Message{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		SenderID:    m.SenderID,
		Content:     m.Content,
		MessageType: m.MessageType,
		IsRead:      m.IsRead,
		CreatedAt:   m.CreatedAt,
	}
}

func fileToModel(f domain.ProjectFile) FileModel {
	return FileModel{
		ID:           f.ID,
		ProjectID:    f.ProjectID,
		UploadedBy:   f.UploadedBy,
		Filename:     f.Filename,
		OriginalName: f.OriginalName,
		FileType:     f.FileType,
		FileSize:     f.FileSize,
		Category:     f.Category,
		StorageKey:   f.StorageKey,
		CreatedAt:    f.CreatedAt,
	}
}

func fileFromModel(m FileModel) domain.ProjectFile {
	return domain.ProjectFile{
		ID:           m.ID,
		ProjectID:    m.ProjectID,
		UploadedBy:   m.UploadedBy,
		Filename:     m.Filename,
		OriginalName: m.OriginalName,
		FileType:     m.FileType,
		FileSize:     m.FileSize,
		Category:     m.Category,
		StorageKey:   m.StorageKey,
		CreatedAt:    m.CreatedAt,
	}
}

func materialToModel(mat domain.Material) MaterialModel {
	return MaterialModel{
		ID:           mat.ID,
		ProjectID:    mat.ProjectID,
		Name:         mat.Name,
		Category:     mat.Category,
		Quantity:     mat.Quantity,
		Unit:         mat.Unit,
		UnitPrice:    mat.UnitPrice,
		TotalPrice:   mat.TotalPrice,
		Supplier:     mat.Supplier,
		OrderDate:    mat.OrderDate,
		DeliveryDate: mat.DeliveryDate,
		Status:       string(mat.Status),
		CreatedAt:    mat.CreatedAt,
	}
}

func materialFromModel(m MaterialModel) domain.Material {
	return domain.Material{
		ID:           m.ID,
		ProjectID:    m.ProjectID,
		Name:         m.Name,
		Category:     m.Category,
		Quantity:     m.Quantity,
		Unit:         m.Unit,
		UnitPrice:    m.UnitPrice,
		TotalPrice:   m.TotalPrice,
		Supplier:     m.Supplier,
		OrderDate:    m.OrderDate,
		DeliveryDate: m.DeliveryDate,
		Status:       domain.MaterialStatus(m.Status),
		CreatedAt:    m.CreatedAt,
	}
}

func personnelToModel(p domain.Personnel) PersonnelModel {
	return PersonnelModel{
		ID:        p.ID,
		UserID:    p.UserID,
		ProjectID: p.ProjectID,
		WorkDate:  p.WorkDate,
		IsPresent: p.IsPresent,
		WorkHours: p.WorkHours,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

func personnelFromModel(m PersonnelModel) domain.Personnel {
	return domain.Personnel{
		ID:        m.ID,
		UserID:    m.UserID,
		ProjectID: m.ProjectID,
		WorkDate:  m.WorkDate,
		IsPresent: m.IsPresent,
		WorkHours: m.WorkHours,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
}

func teamMemberToModel(tm domain.TeamMember) TeamMemberModel {
	return TeamMemberModel{
		ID:        tm.ID,
		ProjectID: tm.ProjectID,
		UserID:    tm.UserID,
		Role:      tm.Role,
		CreatedAt: tm.CreatedAt,
	}
}

func teamMemberFromModel(m TeamMemberModel) domain.TeamMember {
	return domain.TeamMember{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}

func activityToModel(a domain.Activity) ActivityModel {
	return ActivityModel{
		ID:           a.ID,
		ProjectID:    a.ProjectID,
		UserID:       a.UserID,
		ActivityType: a.ActivityType,
		Description:  a.Description,
		CreatedAt:    a.CreatedAt,
	}
}

func activityFromModel(m ActivityModel) domain.Activity {
	return domain.Activity{
		ID:           m.ID,
		ProjectID:    m.ProjectID,
		UserID:       m.UserID,
		ActivityType: m.ActivityType,
		Description:  m.Description,
		CreatedAt:    m.CreatedAt,
	}
}
