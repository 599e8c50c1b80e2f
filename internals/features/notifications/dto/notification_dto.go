// internals/features/notifications/dto/notification_dto.go
package dto

import "time"

type CreateMassNotificationRequest struct {
	Title            string `json:"title" validate:"required,max=200"`
	Message          string `json:"message" validate:"required,max=10000"`
	NotificationType string `json:"notification_type" validate:"omitempty,oneof=info success warning error event"`
	Priority         string `json:"priority" validate:"omitempty,oneof=low normal high"`

	TargetAllStudents  bool     `json:"target_all_students"`
	TargetAllCompanies bool     `json:"target_all_companies"`
	TargetUserIDs      []string `json:"target_user_ids" validate:"omitempty,dive,uuid4"`

	ScheduledAt   *time.Time `json:"scheduled_at"`
	EventDate     *time.Time `json:"event_date"`
	EventLocation *string    `json:"event_location" validate:"omitempty,max=300"`
}

type RespondEventRequest struct {
	Status string  `json:"status" validate:"required,oneof=confirmed maybe declined"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
}
