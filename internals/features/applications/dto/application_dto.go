// internals/features/applications/dto/application_dto.go
package dto

import "time"

type CreateApplicationRequest struct {
	ProjectID    string  `json:"project_id" validate:"required,uuid4"`
	CoverLetter  string  `json:"cover_letter" validate:"omitempty,max=5000"`
	PortfolioURL *string `json:"portfolio_url" validate:"omitempty,url"`
	GithubURL    *string `json:"github_url" validate:"omitempty,url"`
	LinkedinURL  *string `json:"linkedin_url" validate:"omitempty,url"`
}

type ReviewApplicationRequest struct {
	Status       string  `json:"status" validate:"required,oneof=reviewing interviewed rejected"`
	CompanyNotes *string `json:"company_notes" validate:"omitempty,max=5000"`
}

type ScheduleInterviewRequest struct {
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"omitempty,min=10,max=240"`
	Type            string    `json:"type" validate:"required,oneof=phone video onsite"`
}

type CloseInterviewRequest struct {
	Status   string  `json:"status" validate:"required,oneof=completed cancelled no_show"`
	Rating   *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Feedback *string `json:"feedback" validate:"omitempty,max=5000"`
}
