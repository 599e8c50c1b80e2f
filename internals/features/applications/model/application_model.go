package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	projectModel "leanmaker_backend/internals/features/projects/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
)

// Application statuses
const (
	StatusPending     = "pending"
	StatusReviewing   = "reviewing"
	StatusInterviewed = "interviewed"
	StatusAccepted    = "accepted"
	StatusRejected    = "rejected"
	StatusWithdrawn   = "withdrawn"
	StatusCompleted   = "completed"
)

// ApplicationModel represents the applications table. One row per
// (student, project) pair.
type ApplicationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_application_pair" json:"student_id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_application_pair" json:"project_id"`

	CoverLetter string `gorm:"type:text" json:"cover_letter"`
	Status      string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	CompanyNotes *string `gorm:"type:text" json:"company_notes,omitempty"`
	StudentNotes *string `gorm:"type:text" json:"student_notes,omitempty"`

	PortfolioURL *string `json:"portfolio_url,omitempty"`
	GithubURL    *string `json:"github_url,omitempty"`
	LinkedinURL  *string `json:"linkedin_url,omitempty"`

	CompatibilityScore int `gorm:"not null;default:0" json:"compatibility_score"`

	AppliedAt   time.Time  `gorm:"autoCreateTime" json:"applied_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`

	Student *studentModel.StudentProfileModel `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Project *projectModel.ProjectModel        `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (ApplicationModel) TableName() string {
	return "applications"
}

func (a *ApplicationModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsTerminal reports whether no further review transition is allowed.
func (a *ApplicationModel) IsTerminal() bool {
	switch a.Status {
	case StatusRejected, StatusWithdrawn, StatusCompleted:
		return true
	}
	return false
}

// reviewRank orders the reviewable statuses. Review never moves an
// application to an equal or earlier rank.
var reviewRank = map[string]int{
	StatusPending:     0,
	StatusReviewing:   1,
	StatusInterviewed: 2,
}

// CanReviewTo reports whether a review transition to target is allowed from
// the current status. Rejection is allowed from any reviewable status.
func (a *ApplicationModel) CanReviewTo(target string) bool {
	cur, reviewable := reviewRank[a.Status]
	if !reviewable {
		return false
	}
	if target == StatusRejected {
		return true
	}
	tgt, ok := reviewRank[target]
	return ok && tgt > cur
}

// Assignment statuses
const (
	AssignmentActive    = "active"
	AssignmentCompleted = "completed"
	AssignmentCancelled = "cancelled"
)

// AssignmentModel is the working relationship created when an application
// is accepted (1:1 applications).
type AssignmentModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"application_id"`

	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Tasks     string     `gorm:"type:text" json:"tasks"`
	Status    string     `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	HoursWorked    float64 `gorm:"not null;default:0" json:"hours_worked"`
	TasksCompleted int     `gorm:"not null;default:0" json:"tasks_completed"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Application *ApplicationModel `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
}

func (AssignmentModel) TableName() string {
	return "assignments"
}

func (m *AssignmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Interview statuses and types
const (
	InterviewScheduled = "scheduled"
	InterviewCompleted = "completed"
	InterviewCancelled = "cancelled"
	InterviewNoShow    = "no_show"

	InterviewTypePhone  = "phone"
	InterviewTypeVideo  = "video"
	InterviewTypeOnsite = "onsite"
)

type InterviewModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;index" json:"application_id"`
	InterviewerID uuid.UUID `gorm:"type:uuid;not null" json:"interviewer_id"`

	ScheduledAt     time.Time `gorm:"not null" json:"scheduled_at"`
	DurationMinutes int       `gorm:"not null;default:30" json:"duration_minutes"`
	Type            string    `gorm:"type:varchar(10);not null;default:'video'" json:"type"`
	Status          string    `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status"`

	Rating   *int    `json:"rating,omitempty"`
	Feedback *string `gorm:"type:text" json:"feedback,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Application *ApplicationModel `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
}

func (InterviewModel) TableName() string {
	return "interviews"
}

func (m *InterviewModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
