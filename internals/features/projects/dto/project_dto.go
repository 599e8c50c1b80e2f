// internals/features/projects/dto/project_dto.go
package dto

import "time"

type CreateProjectRequest struct {
	Title        string  `json:"title" validate:"required,max=200"`
	Description  string  `json:"description" validate:"required,max=10000"`
	Requirements string  `json:"requirements" validate:"omitempty,max=10000"`
	AreaID       *string `json:"area_id" validate:"omitempty,uuid4"`
	TRLID        *string `json:"trl_id" validate:"omitempty,uuid4"`

	MaxStudents   int `json:"max_students" validate:"required,min=1,max=50"`
	DurationWeeks int `json:"duration_weeks" validate:"omitempty,min=1,max=104"`
	HoursPerWeek  int `json:"hours_per_week" validate:"omitempty,min=1,max=45"`
	RequiredHours int `json:"required_hours" validate:"omitempty,min=0"`

	Modality    string `json:"modality" validate:"required,oneof=remote onsite hybrid"`
	Difficulty  string `json:"difficulty" validate:"omitempty,max=30"`
	MinAPILevel int    `json:"min_api_level" validate:"omitempty,min=1,max=4"`

	Tags         []string `json:"tags" validate:"omitempty,dive,max=50"`
	Technologies []string `json:"technologies" validate:"omitempty,dive,max=80"`
	Benefits     []string `json:"benefits" validate:"omitempty,dive,max=120"`

	StartDate        *time.Time `json:"start_date"`
	EstimatedEndDate *time.Time `json:"estimated_end_date"`
}

type UpdateProjectRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string `json:"description" validate:"omitempty,min=1,max=10000"`
	Requirements *string `json:"requirements" validate:"omitempty,max=10000"`
	AreaID       *string `json:"area_id" validate:"omitempty,uuid4"`
	TRLID        *string `json:"trl_id" validate:"omitempty,uuid4"`

	MaxStudents   *int `json:"max_students" validate:"omitempty,min=1,max=50"`
	DurationWeeks *int `json:"duration_weeks" validate:"omitempty,min=1,max=104"`
	HoursPerWeek  *int `json:"hours_per_week" validate:"omitempty,min=1,max=45"`
	RequiredHours *int `json:"required_hours" validate:"omitempty,min=0"`

	Modality    *string `json:"modality" validate:"omitempty,oneof=remote onsite hybrid"`
	Difficulty  *string `json:"difficulty" validate:"omitempty,max=30"`
	MinAPILevel *int    `json:"min_api_level" validate:"omitempty,min=1,max=4"`

	Tags         []string `json:"tags" validate:"omitempty,dive,max=50"`
	Technologies []string `json:"technologies" validate:"omitempty,dive,max=80"`
	Benefits     []string `json:"benefits" validate:"omitempty,dive,max=120"`

	Featured *bool `json:"featured"`
	Urgent   *bool `json:"urgent"`

	StartDate        *time.Time `json:"start_date"`
	EstimatedEndDate *time.Time `json:"estimated_end_date"`
}
