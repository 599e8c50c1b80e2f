package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seeded reference tables. Admins may edit them; everything else reads.

// Project status names
const (
	StatusDraft      = "draft"
	StatusPublished  = "published"
	StatusActive     = "active"
	StatusInProgress = "in-progress"
	StatusPaused     = "paused"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusDeleted    = "deleted"
)

type AreaModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;unique;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AreaModel) TableName() string { return "areas" }

func (m *AreaModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type TRLLevelModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Level       int       `gorm:"not null;uniqueIndex" json:"level"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	MinHours    int       `gorm:"not null;default:0" json:"min_hours"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TRLLevelModel) TableName() string { return "trl_levels" }

func (m *TRLLevelModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type ProjectStatusModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:30;unique;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Color       string    `gorm:"size:20" json:"color"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ProjectStatusModel) TableName() string { return "project_statuses" }

func (m *ProjectStatusModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type EvaluationCategoryModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;unique;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (EvaluationCategoryModel) TableName() string { return "evaluation_categories" }

func (m *EvaluationCategoryModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type PlatformSettingModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key         string    `gorm:"size:100;unique;not null" json:"key"`
	Value       string    `gorm:"type:text;not null" json:"value"`
	Description string    `gorm:"type:text" json:"description"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PlatformSettingModel) TableName() string { return "platform_settings" }

func (m *PlatformSettingModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
