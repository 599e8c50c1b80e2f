package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserModel represents the users table. One row per account; role-specific
// data lives in the profile tables (student_profiles, companies,
// teacher_profiles).
type UserModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email      string    `gorm:"size:255;unique;not null" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	FirstName  string    `gorm:"size:100;not null" json:"first_name"`
	LastName   string    `gorm:"size:100;not null" json:"last_name"`
	Role       string    `gorm:"type:varchar(20);not null;index" json:"role"`
	Phone      *string   `gorm:"size:30" json:"phone,omitempty"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	IsVerified bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

// BeforeCreate keeps inserts working on databases without gen_random_uuid().
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *UserModel) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *UserModel) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(pwd))
}

func (u *UserModel) FullName() string {
	return u.FirstName + " " + u.LastName
}
