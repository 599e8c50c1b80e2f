// internals/features/users/teachers/dto/teacher_dto.go
package dto

type UpdateTeacherProfileRequest struct {
	Department *string `json:"department" validate:"omitempty,max=150"`
	Position   *string `json:"position" validate:"omitempty,max=100"`
}

type AssignSupervisionRequest struct {
	TeacherID string `json:"teacher_id" validate:"required,uuid4"`
	StudentID string `json:"student_id" validate:"required,uuid4"`
}
