package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	applicationModel "leanmaker_backend/internals/features/applications/model"
	projectModel "leanmaker_backend/internals/features/projects/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
)

// Hard cap on hours reported for a single day.
const MaxDailyHours = 12.0

// WorkHourModel represents the work_hours table. Students submit entries;
// the owning company approves them.
type WorkHourModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID    uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	ProjectID    uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	AssignmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"assignment_id"`

	Date        time.Time `gorm:"type:date;not null" json:"date"`
	HoursWorked float64   `gorm:"not null" json:"hours_worked"`
	Description string    `gorm:"type:text" json:"description"`
	TaskType    string    `gorm:"size:50" json:"task_type"`

	Approved     bool       `gorm:"not null;default:false;index" json:"approved"`
	ApprovedByID *uuid.UUID `gorm:"type:uuid" json:"approved_by_id,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	Rejected     bool       `gorm:"not null;default:false" json:"rejected"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Student    *studentModel.StudentProfileModel   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Project    *projectModel.ProjectModel          `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignment *applicationModel.AssignmentModel   `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
}

func (WorkHourModel) TableName() string {
	return "work_hours"
}

func (m *WorkHourModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
