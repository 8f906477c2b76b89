package domain

import "time"

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

type MaterialStatus string

const (
	MaterialNeeded    MaterialStatus = "needed"
	MaterialOrdered   MaterialStatus = "ordered"
	MaterialDelivered MaterialStatus = "delivered"
	MaterialUsed      MaterialStatus = "used"
)

type UserRole string

const (
	RoleSiteManager   UserRole = "site_manager"
	RoleWorker        UserRole = "worker"
	RoleSafetyManager UserRole = "safety_manager"
	RoleAdmin         UserRole = "admin"
)

// WorkCondition classifies whether outdoor roofing work is advisable.
type WorkCondition string

const (
	WorkGood    WorkCondition = "good"
	WorkCaution WorkCondition = "caution"
	WorkUnsafe  WorkCondition = "unsafe"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Location is the optional site coordinate attached to a project.
type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type Project struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	Budget        float64   `json:"budget"`
	BudgetUsed    float64   `json:"budgetUsed"`
	Progress      int       `json:"progress"`
	IsActive      bool      `json:"isActive"`
	ManagerID     string    `json:"managerId,omitempty"`
	GC            string    `json:"gc,omitempty"`
	DesignCompany string    `json:"designCompany,omitempty"`
	Location      *Location `json:"location,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Task struct {
	ID             string     `json:"id"`
	ProjectID      string     `json:"projectId"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	StartDate      time.Time  `json:"startDate"`
	EndDate        time.Time  `json:"endDate"`
	Status         TaskStatus `json:"status"`
	AssignedUserID string     `json:"assignedUserId,omitempty"`
	Progress       int        `json:"progress"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Personnel is one attendance record for a user on a project work day.
type Personnel struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProjectID string    `json:"projectId"`
	WorkDate  time.Time `json:"workDate"`
	IsPresent bool      `json:"isPresent"`
	WorkHours float64   `json:"workHours"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Material struct {
	ID           string         `json:"id"`
	ProjectID    string         `json:"projectId"`
	Name         string         `json:"name"`
	Category     string         `json:"category"`
	Quantity     int            `json:"quantity"`
	Unit         string         `json:"unit"`
	UnitPrice    float64        `json:"unitPrice"`
	TotalPrice   float64        `json:"totalPrice"`
	Supplier     string         `json:"supplier,omitempty"`
	OrderDate    *time.Time     `json:"orderDate,omitempty"`
	DeliveryDate *time.Time     `json:"deliveryDate,omitempty"`
	Status       MaterialStatus `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
}

type ProjectFile struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"projectId"`
	UploadedBy   string    `json:"uploadedBy"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	FileType     string    `json:"fileType"`
	FileSize     int64     `json:"fileSize"`
	Category     string    `json:"category"`
	StorageKey   string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Message struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId,omitempty"`
	SenderID    string    `json:"senderId"`
	Content     string    `json:"content"`
	MessageType string    `json:"messageType"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MessageWithSender is the broadcast shape: the stored message enriched
// with the resolved sender profile.
type MessageWithSender struct {
	Message
	Sender *User `json:"sender,omitempty"`
}

type TeamMember struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type Activity struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"projectId"`
	UserID       string    `json:"userId"`
	ActivityType string    `json:"activityType"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"createdAt"`
}

type WeatherReport struct {
	Location      string        `json:"location"`
	Lat           float64       `json:"lat"`
	Lng           float64       `json:"lng"`
	Temperature   float64       `json:"temperature"`
	Humidity      int           `json:"humidity"`
	WindSpeed     float64       `json:"windSpeed"`
	Precipitation float64       `json:"precipitation"`
	Condition     string        `json:"condition"`
	WorkCondition WorkCondition `json:"workCondition"`
	Timestamp     time.Time     `json:"timestamp"`
}

type DashboardStats struct {
	ActiveProjects int     `json:"activeProjects"`
	TotalProjects  int     `json:"totalProjects"`
	CompletedTasks int     `json:"completedTasks"`
	PendingTasks   int     `json:"pendingTasks"`
	BudgetUsed     float64 `json:"budgetUsed"`
	TotalBudget    float64 `json:"totalBudget"`
}
