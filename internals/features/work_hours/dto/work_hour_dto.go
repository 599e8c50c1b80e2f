// internals/features/work_hours/dto/work_hour_dto.go
package dto

type SubmitWorkHoursRequest struct {
	ProjectID   string  `json:"project_id" validate:"required,uuid4"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	HoursWorked float64 `json:"hours_worked" validate:"required,gt=0"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	TaskType    string  `json:"task_type" validate:"omitempty,max=50"`
}
