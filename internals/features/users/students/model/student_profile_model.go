package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	userModel "leanmaker_backend/internals/features/users/user/model"
)

// Student profile statuses
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusSuspended = "suspended"
)

// Strikes at or above this count suspend the student.
const SuspensionThreshold = 3

// StudentProfileModel represents the student_profiles table (1:1 users).
type StudentProfileModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Career         string `gorm:"size:150;not null" json:"career"`
	University     string `gorm:"size:150" json:"university"`
	EducationLevel string `gorm:"size:50" json:"education_level"`
	Semester       int    `json:"semester"`
	GraduationYear int    `json:"graduation_year"`

	Status   string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	APILevel int    `gorm:"not null;default:1" json:"api_level"`
	Strikes  int    `gorm:"not null;default:0" json:"strikes"`

	// GPA is the mean of completed company→student evaluation scores (1..5),
	// 0 while no evaluation exists.
	GPA               float64 `gorm:"not null;default:0" json:"gpa"`
	Rating            float64 `gorm:"not null;default:0" json:"rating"`
	CompletedProjects int     `gorm:"not null;default:0" json:"completed_projects"`
	TotalHours        float64 `gorm:"not null;default:0" json:"total_hours"`

	Availability string         `gorm:"size:50" json:"availability"`
	Skills       datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"skills"`
	Languages    datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"languages"`
	PortfolioURL *string        `json:"portfolio_url,omitempty"`
	GithubURL    *string        `json:"github_url,omitempty"`
	LinkedinURL  *string        `json:"linkedin_url,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *userModel.UserModel `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (StudentProfileModel) TableName() string {
	return "student_profiles"
}

func (s *StudentProfileModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *StudentProfileModel) IsSuspended() bool {
	return s.Status == StatusSuspended
}

// APILevelRequestModel: a student petition for a higher api_level, resolved
// by an admin.
type APILevelRequestModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`

	CurrentLevel   int    `gorm:"not null" json:"current_level"`
	RequestedLevel int    `gorm:"not null" json:"requested_level"`
	Status         string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Feedback       string `gorm:"type:text" json:"feedback"`

	SubmittedAt  time.Time  `gorm:"autoCreateTime" json:"submitted_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	ResolvedByID *uuid.UUID `gorm:"type:uuid" json:"resolved_by_id,omitempty"`

	Student *StudentProfileModel `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (APILevelRequestModel) TableName() string {
	return "api_level_requests"
}

func (r *APILevelRequestModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
