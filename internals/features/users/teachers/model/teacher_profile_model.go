package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "leanmaker_backend/internals/features/users/user/model"
)

// TeacherProfileModel represents the teacher_profiles table (1:1 users).
type TeacherProfileModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Department string `gorm:"size:150" json:"department"`
	Position   string `gorm:"size:100" json:"position"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *userModel.UserModel `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (TeacherProfileModel) TableName() string {
	return "teacher_profiles"
}

func (m *TeacherProfileModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SupervisionModel links a teacher to a supervised student. Teacher scope
// checks walk this table.
type SupervisionModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_supervision_pair" json:"teacher_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_supervision_pair" json:"student_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SupervisionModel) TableName() string {
	return "teacher_supervisions"
}

func (m *SupervisionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
