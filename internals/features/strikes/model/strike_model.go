package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	studentModel "leanmaker_backend/internals/features/users/students/model"
)

// Severities
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// StrikeModel represents the strikes table. student_profiles.strikes mirrors
// the count of active rows per student.
type StrikeModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"student_id"`
	CompanyID  *uuid.UUID `gorm:"type:uuid;index" json:"company_id,omitempty"`
	ProjectID  *uuid.UUID `gorm:"type:uuid" json:"project_id,omitempty"`
	IssuedByID uuid.UUID  `gorm:"type:uuid;not null" json:"issued_by_id"`

	Reason      string `gorm:"size:200;not null" json:"reason"`
	Description string `gorm:"type:text" json:"description"`
	Severity    string `gorm:"type:varchar(10);not null;default:'medium'" json:"severity"`

	IsActive  bool       `gorm:"not null;default:true;index" json:"is_active"`
	IssuedAt  time.Time  `gorm:"autoCreateTime" json:"issued_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	Student *studentModel.StudentProfileModel `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (StrikeModel) TableName() string {
	return "strikes"
}

func (m *StrikeModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// DisciplinaryRecordModel is an append-only incident log, independent of the
// strike counter.
type DisciplinaryRecordModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"student_id"`
	CompanyID    *uuid.UUID `gorm:"type:uuid" json:"company_id,omitempty"`
	RecordedByID uuid.UUID  `gorm:"type:uuid;not null" json:"recorded_by_id"`

	IncidentDate time.Time `gorm:"type:date;not null" json:"incident_date"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	ActionTaken  string    `gorm:"type:text" json:"action_taken"`
	Severity     string    `gorm:"type:varchar(10);not null;default:'medium'" json:"severity"`
	Resolved     bool      `gorm:"not null;default:false" json:"resolved"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DisciplinaryRecordModel) TableName() string {
	return "disciplinary_records"
}

func (m *DisciplinaryRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
