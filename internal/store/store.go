package store

import (
	"time"

	"github.com/3sol-fa/RoofConstructionManager/pkg/domain"
)

// Store defines persistence operations for dashboard entities.
type Store interface {
	// users
	CreateUser(domain.User) error
	GetUser(id string) (domain.User, bool, error)
	GetUserByUsername(username string) (domain.User, bool, error)

	// projects
	ListProjects() ([]domain.Project, error)
	GetProject(id string) (domain.Project, bool, error)
	CreateProject(domain.Project) error
	UpdateProject(id string, update ProjectUpdate) (domain.Project, bool, error)

	// tasks
	GetTask(id string) (domain.Task, bool, error)
	ListTasksByProject(projectID string) ([]domain.Task, error)
	ListTasksByUser(userID string) ([]domain.Task, error)
	ListPendingTasksByUser(userID string) ([]domain.Task, error)
	CreateTask(domain.Task) error
	UpdateTask(id string, update TaskUpdate) (domain.Task, bool, error)

	// materials
	ListMaterials(projectID string) ([]domain.Material, error)
	CreateMaterial(domain.Material) error

	// files
	ListFilesByProject(projectID string) ([]domain.ProjectFile, error)
	ListRecentFiles(limit int) ([]domain.ProjectFile, error)
	CreateFile(domain.ProjectFile) error

	// messages
	CreateMessage(domain.Message) error
	ListMessagesByProject(projectID string) ([]domain.Message, error)
	ListRecentMessages(limit int) ([]domain.Message, error)

	// team
	ListTeamMembers(projectID string) ([]domain.TeamMember, error)
	AddTeamMember(domain.TeamMember) error

	// personnel
	ListPersonnel(projectID string) ([]domain.Personnel, error)
	CreatePersonnel(domain.Personnel) error

	// activities
	ListActivities(projectID string) ([]domain.Activity, error)
	CreateActivity(domain.Activity) error
}

// ProjectUpdate carries optional project field changes; nil means unchanged.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Progress    *int
	BudgetUsed  *float64
	IsActive    *bool
}

// TaskUpdate carries optional task field changes; nil means unchanged.
type TaskUpdate struct {
	Name           *string
	Description    *string
	Status         *domain.TaskStatus
	Progress       *int
	AssignedUserID *string
	StartDate      *time.Time
	EndDate        *time.Time
	CompletedAt    *time.Time
}
