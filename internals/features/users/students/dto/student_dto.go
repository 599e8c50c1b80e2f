// internals/features/users/students/dto/student_dto.go
package dto

type UpdateStudentProfileRequest struct {
	Career         *string  `json:"career" validate:"omitempty,min=1,max=150"`
	University     *string  `json:"university" validate:"omitempty,max=150"`
	EducationLevel *string  `json:"education_level" validate:"omitempty,max=50"`
	Semester       *int     `json:"semester" validate:"omitempty,min=1,max=14"`
	GraduationYear *int     `json:"graduation_year" validate:"omitempty,min=2000,max=2100"`
	Availability   *string  `json:"availability" validate:"omitempty,max=50"`
	Skills         []string `json:"skills" validate:"omitempty,dive,max=80"`
	Languages      []string `json:"languages" validate:"omitempty,dive,max=80"`
	PortfolioURL   *string  `json:"portfolio_url" validate:"omitempty,url"`
	GithubURL      *string  `json:"github_url" validate:"omitempty,url"`
	LinkedinURL    *string  `json:"linkedin_url" validate:"omitempty,url"`
}

type ChangeStudentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected suspended"`
}

type CreateAPILevelRequest struct {
	RequestedLevel int `json:"requested_level" validate:"required,min=2,max=4"`
}

type ResolveAPILevelRequest struct {
	Approve  bool   `json:"approve"`
	Feedback string `json:"feedback" validate:"omitempty,max=1000"`
}
