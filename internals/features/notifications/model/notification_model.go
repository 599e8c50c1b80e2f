package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeWarning = "warning"
	TypeError   = "error"
	TypeEvent   = "event"
)

// Mass notification statuses
const (
	MassDraft     = "draft"
	MassScheduled = "scheduled"
	MassSending   = "sending"
	MassSent      = "sent"
	MassCancelled = "cancelled"
	MassFailed    = "failed"
)

// Event registration statuses
const (
	RegPending    = "pending"
	RegConfirmed  = "confirmed"
	RegMaybe      = "maybe"
	RegDeclined   = "declined"
	RegNoResponse = "no_response"
)

// NotificationModel represents the notifications table, append-only from
// the recipient's point of view.
type NotificationModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipient_id"`

	Title    string `gorm:"size:200;not null" json:"title"`
	Message  string `gorm:"type:text;not null" json:"message"`
	Type     string `gorm:"type:varchar(10);not null;default:'info'" json:"type"`
	Priority string `gorm:"type:varchar(10);not null;default:'normal'" json:"priority"`

	Read     bool       `gorm:"not null;default:false;index" json:"read"`
	ReadAt   *time.Time `json:"read_at,omitempty"`
	Archived bool       `gorm:"not null;default:false" json:"archived"`

	RelatedURL    *string    `json:"related_url,omitempty"`
	ProjectID     *uuid.UUID `gorm:"type:uuid" json:"project_id,omitempty"`
	ApplicationID *uuid.UUID `gorm:"type:uuid" json:"application_id,omitempty"`
	RelatedUserID *uuid.UUID `gorm:"type:uuid" json:"related_user_id,omitempty"`

	// set on rows fanned out from a mass notification, so the read counter
	// on the mass row can follow the per-recipient rows
	MassNotificationID *uuid.UUID `gorm:"type:uuid;index" json:"mass_notification_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func (m *NotificationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MassNotificationModel is an admin fan-out message. Recipients are either
// all students / all companies (flags) or the explicit target tables below.
type MassNotificationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null" json:"creator_id"`

	Title            string `gorm:"size:200;not null" json:"title"`
	Message          string `gorm:"type:text;not null" json:"message"`
	NotificationType string `gorm:"type:varchar(10);not null;default:'info'" json:"notification_type"`
	Priority         string `gorm:"type:varchar(10);not null;default:'normal'" json:"priority"`

	Status      string     `gorm:"type:varchar(10);not null;default:'draft';index" json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	SentAt      *time.Time `json:"sent_at,omitempty"`

	TotalCount  int `gorm:"not null;default:0" json:"total_count"`
	SentCount   int `gorm:"not null;default:0" json:"sent_count"`
	FailedCount int `gorm:"not null;default:0" json:"failed_count"`
	ReadCount   int `gorm:"not null;default:0" json:"read_count"`

	TargetAllStudents  bool `gorm:"not null;default:false" json:"target_all_students"`
	TargetAllCompanies bool `gorm:"not null;default:false" json:"target_all_companies"`

	// set when notification_type = event
	EventDate     *time.Time `json:"event_date,omitempty"`
	EventLocation *string    `json:"event_location,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MassNotificationModel) TableName() string {
	return "mass_notifications"
}

func (m *MassNotificationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MassNotificationTargetModel lists explicit recipients when the all-*
// flags are off.
type MassNotificationTargetModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MassNotificationID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_mass_target_pair" json:"mass_notification_id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_mass_target_pair" json:"user_id"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (MassNotificationTargetModel) TableName() string {
	return "mass_notification_targets"
}

func (m *MassNotificationTargetModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// EventRegistrationModel tracks attendance answers to event-typed mass
// notifications; one row per (event, user).
type EventRegistrationModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MassNotificationID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_event_reg_pair" json:"mass_notification_id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_reg_pair" json:"user_id"`

	Status       string     `gorm:"type:varchar(15);not null;default:'pending'" json:"status"`
	Notes        *string    `gorm:"type:text" json:"notes,omitempty"`
	ResponseDate *time.Time `json:"response_date,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (EventRegistrationModel) TableName() string {
	return "event_registrations"
}

func (m *EventRegistrationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
