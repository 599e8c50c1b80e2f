// internals/features/catalog/dto/catalog_dto.go
package dto

type CreateAreaRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

type UpdateAreaRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active"`
}

type CreateTRLLevelRequest struct {
	Level       int    `json:"level" validate:"required,min=1,max=9"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	MinHours    int    `json:"min_hours" validate:"min=0"`
}

type UpdateTRLLevelRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	MinHours    *int    `json:"min_hours" validate:"omitempty,min=0"`
}

type CreateEvaluationCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

type UpdateSettingRequest struct {
	Value string `json:"value" validate:"required,max=5000"`
}
