package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	catalogModel "leanmaker_backend/internals/features/catalog/model"
	companyModel "leanmaker_backend/internals/features/users/companies/model"
)

// Modalities
const (
	ModalityRemote = "remote"
	ModalityOnsite = "onsite"
	ModalityHybrid = "hybrid"
)

// ProjectModel represents the projects table.
type ProjectModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	StatusID  uuid.UUID `gorm:"type:uuid;not null;index" json:"status_id"`
	AreaID    *uuid.UUID `gorm:"type:uuid;index" json:"area_id,omitempty"`
	TRLID     *uuid.UUID `gorm:"type:uuid" json:"trl_id,omitempty"`

	Title        string `gorm:"size:200;not null" json:"title"`
	Description  string `gorm:"type:text;not null" json:"description"`
	Requirements string `gorm:"type:text" json:"requirements"`

	MaxStudents     int `gorm:"not null;default:1" json:"max_students"`
	CurrentStudents int `gorm:"not null;default:0" json:"current_students"`
	DurationWeeks   int `json:"duration_weeks"`
	HoursPerWeek    int `json:"hours_per_week"`
	RequiredHours   int `json:"required_hours"`

	Modality    string `gorm:"type:varchar(10);not null;default:'remote'" json:"modality"`
	Difficulty  string `gorm:"size:30" json:"difficulty"`
	MinAPILevel int    `gorm:"not null;default:1" json:"min_api_level"`

	Tags         datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	Technologies datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"technologies"`
	Benefits     datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"benefits"`

	Featured bool `gorm:"not null;default:false" json:"featured"`
	Urgent   bool `gorm:"not null;default:false" json:"urgent"`

	ApplicationsCount int `gorm:"not null;default:0" json:"applications_count"`
	ViewsCount        int `gorm:"not null;default:0" json:"views_count"`

	StartDate        *time.Time `json:"start_date,omitempty"`
	EstimatedEndDate *time.Time `json:"estimated_end_date,omitempty"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`

	// previous status name, so pause can be undone
	PausedFrom *string `gorm:"size:30" json:"paused_from,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Company *companyModel.CompanyProfileModel `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Status  *catalogModel.ProjectStatusModel  `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	Area    *catalogModel.AreaModel           `gorm:"foreignKey:AreaID" json:"area,omitempty"`
	TRL     *catalogModel.TRLLevelModel       `gorm:"foreignKey:TRLID" json:"trl,omitempty"`
}

func (ProjectModel) TableName() string {
	return "projects"
}

func (p *ProjectModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
