// internals/features/strikes/dto/strike_dto.go
package dto

import "time"

type IssueStrikeRequest struct {
	StudentID   string     `json:"student_id" validate:"required,uuid4"`
	ProjectID   *string    `json:"project_id" validate:"omitempty,uuid4"`
	Reason      string     `json:"reason" validate:"required,max=200"`
	Description string     `json:"description" validate:"omitempty,max=5000"`
	Severity    string     `json:"severity" validate:"omitempty,oneof=low medium high"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

type CreateDisciplinaryRecordRequest struct {
	StudentID    string  `json:"student_id" validate:"required,uuid4"`
	IncidentDate string  `json:"incident_date" validate:"required,datetime=2006-01-02"`
	Description  string  `json:"description" validate:"required,max=5000"`
	ActionTaken  string  `json:"action_taken" validate:"omitempty,max=5000"`
	Severity     string  `json:"severity" validate:"omitempty,oneof=low medium high"`
	CompanyID    *string `json:"company_id" validate:"omitempty,uuid4"`
}
