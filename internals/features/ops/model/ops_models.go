package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityLogModel is the append-only audit trail.
type ActivityLogModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Action    string    `gorm:"size:100;not null" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	IP        string    `gorm:"size:45" json:"ip"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ActivityLogModel) TableName() string { return "activity_logs" }

func (m *ActivityLogModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ApiKeyModel holds per-user API keys; revoke = is_active false,
// regenerate = fresh random key.
type ApiKeyModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`

	Name       string     `gorm:"size:100;not null" json:"name"`
	Key        string     `gorm:"size:64;unique;not null" json:"key"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`
	UsageCount int        `gorm:"not null;default:0" json:"usage_count"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ApiKeyModel) TableName() string { return "api_keys" }

func (m *ApiKeyModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Key == "" {
		m.Key = GenerateKey()
	}
	return nil
}

// GenerateKey returns a 64-char hex key from 32 random bytes.
func GenerateKey() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process is in trouble anyway
		panic(err)
	}
	return hex.EncodeToString(b)
}

type ApiUsageModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ApiKeyID uuid.UUID `gorm:"type:uuid;not null;index" json:"api_key_id"`

	Endpoint       string `gorm:"size:200;not null" json:"endpoint"`
	Method         string `gorm:"size:10;not null" json:"method"`
	StatusCode     int    `gorm:"not null" json:"status_code"`
	ResponseTimeMs int    `gorm:"not null;default:0" json:"response_time_ms"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ApiUsageModel) TableName() string { return "api_usage" }

func (m *ApiUsageModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ApiRateLimitModel is a policy record; enforcement happens at the edge.
type ApiRateLimitModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Endpoint          string `gorm:"size:200;not null" json:"endpoint"`
	RequestsPerMinute int    `gorm:"not null;default:60" json:"requests_per_minute"`
	RequestsPerHour   int    `gorm:"not null;default:1000" json:"requests_per_hour"`
	IsActive          bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ApiRateLimitModel) TableName() string { return "api_rate_limits" }

func (m *ApiRateLimitModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BackupModel is a metadata record; creation is instant, the actual dump
// runs outside the request path.
type BackupModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedByID uuid.UUID  `gorm:"type:uuid;not null" json:"created_by_id"`
	Name        string     `gorm:"size:150;not null" json:"name"`
	Kind        string     `gorm:"size:30;not null;default:'full'" json:"kind"`
	SizeBytes   int64      `gorm:"not null;default:0" json:"size_bytes"`
	Status      string     `gorm:"type:varchar(15);not null;default:'completed'" json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (BackupModel) TableName() string { return "backups" }

func (m *BackupModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type ReportModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RequestedByID uuid.UUID      `gorm:"type:uuid;not null" json:"requested_by_id"`
	ReportType    string         `gorm:"size:50;not null" json:"report_type"`
	Parameters    datatypes.JSON `gorm:"type:jsonb" json:"parameters,omitempty"`
	Status        string         `gorm:"type:varchar(15);not null;default:'completed'" json:"status"`
	GeneratedAt   *time.Time     `json:"generated_at,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (ReportModel) TableName() string { return "reports" }

func (m *ReportModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
