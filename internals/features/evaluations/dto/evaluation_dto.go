// internals/features/evaluations/dto/evaluation_dto.go
package dto

type CreateEvaluationRequest struct {
	StudentID  string  `json:"student_id" validate:"required,uuid4"`
	ProjectID  string  `json:"project_id" validate:"required,uuid4"`
	CategoryID *string `json:"category_id" validate:"omitempty,uuid4"`

	Score               int     `json:"score" validate:"required,min=1,max=5"`
	Comments            string  `json:"comments" validate:"omitempty,max=5000"`
	Type                string  `json:"type" validate:"omitempty,oneof=intermediate final"`
	Strengths           *string `json:"strengths" validate:"omitempty,max=5000"`
	AreasForImprovement *string `json:"areas_for_improvement" validate:"omitempty,max=5000"`
}

type UpdateEvaluationRequest struct {
	Score               *int    `json:"score" validate:"omitempty,min=1,max=5"`
	Comments            *string `json:"comments" validate:"omitempty,max=5000"`
	Status              *string `json:"status" validate:"omitempty,oneof=pending completed flagged"`
	Strengths           *string `json:"strengths" validate:"omitempty,max=5000"`
	AreasForImprovement *string `json:"areas_for_improvement" validate:"omitempty,max=5000"`
}
