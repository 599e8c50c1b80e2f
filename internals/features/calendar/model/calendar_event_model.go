package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Calendar event statuses
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusPostponed  = "postponed"
)

// CalendarEventModel represents the calendar_events table. Visible to the
// owner, the attendees and admins.
type CalendarEventModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	ProjectID *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`

	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Type        string `gorm:"size:30;not null;default:'meeting'" json:"type"`
	Priority    string `gorm:"type:varchar(10);not null;default:'normal'" json:"priority"`
	Status      string `gorm:"type:varchar(15);not null;default:'scheduled';index" json:"status"`

	StartAt time.Time `gorm:"not null;index" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`
	AllDay  bool      `gorm:"not null;default:false" json:"all_day"`

	Location   *string `json:"location,omitempty"`
	IsOnline   bool    `gorm:"not null;default:false" json:"is_online"`
	MeetingURL *string `json:"meeting_url,omitempty"`

	// opaque recurrence rule, stored as provided
	RecurrenceRule  datatypes.JSON `gorm:"type:jsonb" json:"recurrence_rule,omitempty"`
	ReminderMinutes int            `gorm:"not null;default:0" json:"reminder_minutes"`
	Color           string         `gorm:"size:20" json:"color"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Attendees []CalendarEventAttendeeModel `gorm:"foreignKey:EventID" json:"attendees,omitempty"`
}

func (CalendarEventModel) TableName() string {
	return "calendar_events"
}

func (m *CalendarEventModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *CalendarEventModel) IsTerminal() bool {
	return m.Status == StatusCompleted || m.Status == StatusCancelled
}

type CalendarEventAttendeeModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_event_attendee_pair" json:"event_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_event_attendee_pair" json:"user_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CalendarEventAttendeeModel) TableName() string {
	return "calendar_event_attendees"
}

func (m *CalendarEventAttendeeModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// EventReminderModel: one reminder per (event, user, type);
// scheduled_for = event.start_at − minutes_before. Delivery is a separate
// job; this service only records the schedule.
type EventReminderModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_event_reminder_key" json:"event_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_reminder_key" json:"user_id"`

	ReminderType  string    `gorm:"size:20;not null;default:'notification';uniqueIndex:idx_event_reminder_key" json:"reminder_type"`
	MinutesBefore int       `gorm:"not null" json:"minutes_before"`
	ScheduledFor  time.Time `gorm:"not null;index" json:"scheduled_for"`
	IsSent        bool      `gorm:"not null;default:false" json:"is_sent"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (EventReminderModel) TableName() string {
	return "event_reminders"
}

func (m *EventReminderModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
