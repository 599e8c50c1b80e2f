package dto

import (
	userModel "leanmaker_backend/internals/features/users/user/model"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type VerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// RegisterRequest covers every role; role-specific blocks are validated in
// the service.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Role      string `json:"role" validate:"required,oneof=student company teacher"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`

	// student
	Career         string `json:"career" validate:"omitempty,max=150"`
	University     string `json:"university" validate:"omitempty,max=150"`
	EducationLevel string `json:"education_level" validate:"omitempty,max=50"`
	Semester       int    `json:"semester" validate:"omitempty,min=1,max=14"`
	GraduationYear int    `json:"graduation_year" validate:"omitempty,min=2000,max=2100"`

	// company
	CompanyName  string `json:"company_name" validate:"omitempty,max=200"`
	RUT          string `json:"rut" validate:"omitempty,max=20"`
	Industry     string `json:"industry" validate:"omitempty,max=100"`
	CompanyEmail string `json:"company_email" validate:"omitempty,email"`

	// teacher
	Department string `json:"department" validate:"omitempty,max=150"`
}

// TokenPairResponse is the /api/token/ success body.
type TokenPairResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    UserResponse `json:"user"`
}

type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	IsActive   bool   `json:"is_active"`
	IsVerified bool   `json:"is_verified"`
}

func ToUserResponse(u *userModel.UserModel) UserResponse {
	return UserResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
	}
}
