package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogModel "leanmaker_backend/internals/features/catalog/model"
	projectModel "leanmaker_backend/internals/features/projects/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
)

// Evaluation directions, types and statuses
const (
	DirectionCompanyToStudent = "company_to_student"
	DirectionStudentToCompany = "student_to_company"

	TypeIntermediate = "intermediate"
	TypeFinal        = "final"

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFlagged   = "flagged"
)

// EvaluationModel represents the evaluations table. One row per
// (project, student, evaluator, category); a completed evaluation is
// immutable except for admins.
type EvaluationModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID   uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_evaluation_key" json:"student_id"`
	EvaluatorID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_evaluation_key" json:"evaluator_id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_evaluation_key" json:"project_id"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_evaluation_key" json:"category_id,omitempty"`

	Score     int    `gorm:"not null" json:"score"`
	Comments  string `gorm:"type:text" json:"comments"`
	Type      string `gorm:"type:varchar(20);not null;default:'final'" json:"type"`
	Direction string `gorm:"type:varchar(30);not null;index" json:"direction"`
	Status    string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	Strengths           *string `gorm:"type:text" json:"strengths,omitempty"`
	AreasForImprovement *string `gorm:"type:text" json:"areas_for_improvement,omitempty"`

	EvaluationDate time.Time `gorm:"autoCreateTime" json:"evaluation_date"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Student  *studentModel.StudentProfileModel     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Project  *projectModel.ProjectModel            `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Category *catalogModel.EvaluationCategoryModel `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (EvaluationModel) TableName() string {
	return "evaluations"
}

func (m *EvaluationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
