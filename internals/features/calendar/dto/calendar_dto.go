// internals/features/calendar/dto/calendar_dto.go
package dto

import "time"

type CreateEventRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"omitempty,max=5000"`
	Type        string  `json:"type" validate:"omitempty,max=30"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low normal high"`
	ProjectID   *string `json:"project_id" validate:"omitempty,uuid4"`

	StartAt time.Time `json:"start_at" validate:"required"`
	EndAt   time.Time `json:"end_at" validate:"required"`
	AllDay  bool      `json:"all_day"`

	Location   *string `json:"location" validate:"omitempty,max=300"`
	IsOnline   bool    `json:"is_online"`
	MeetingURL *string `json:"meeting_url" validate:"omitempty,url"`

	ReminderMinutes int      `json:"reminder_minutes" validate:"omitempty,min=0,max=10080"`
	Color           string   `json:"color" validate:"omitempty,max=20"`
	AttendeeIDs     []string `json:"attendee_ids" validate:"omitempty,dive,uuid4"`
}

type UpdateEventRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low normal high"`
	Status      *string `json:"status" validate:"omitempty,oneof=scheduled in_progress completed cancelled postponed"`

	StartAt *time.Time `json:"start_at"`
	EndAt   *time.Time `json:"end_at"`

	Location   *string `json:"location" validate:"omitempty,max=300"`
	MeetingURL *string `json:"meeting_url" validate:"omitempty,url"`

	ReminderMinutes *int    `json:"reminder_minutes" validate:"omitempty,min=0,max=10080"`
	Color           *string `json:"color" validate:"omitempty,max=20"`
}
