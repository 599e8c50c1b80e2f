package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	userModel "leanmaker_backend/internals/features/users/user/model"
)

// Company statuses
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// CompanyProfileModel represents the companies table (1:1 users).
type CompanyProfileModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	CompanyName  string  `gorm:"size:200;not null" json:"company_name"`
	RUT          string  `gorm:"size:20;unique;not null" json:"rut"`
	Industry     string  `gorm:"size:100" json:"industry"`
	Size         string  `gorm:"size:50" json:"size"`
	Description  string  `gorm:"type:text" json:"description"`
	CompanyEmail string  `gorm:"size:255;unique;not null" json:"company_email"`
	Website      *string `json:"website,omitempty"`
	Address      *string `json:"address,omitempty"`

	Status   string `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Verified bool   `gorm:"not null;default:false" json:"verified"`

	// Rating is the mean of completed student→company evaluation scores.
	Rating            float64 `gorm:"not null;default:0" json:"rating"`
	TotalProjects     int     `gorm:"not null;default:0" json:"total_projects"`
	ProjectsCompleted int     `gorm:"not null;default:0" json:"projects_completed"`
	TotalHoursOffered float64 `gorm:"not null;default:0" json:"total_hours_offered"`

	Technologies datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"technologies"`
	Benefits     datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"benefits"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *userModel.UserModel `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (CompanyProfileModel) TableName() string {
	return "companies"
}

func (m *CompanyProfileModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
