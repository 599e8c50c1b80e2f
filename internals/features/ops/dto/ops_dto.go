// internals/features/ops/dto/ops_dto.go
package dto

type CreateApiKeyRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type UpsertRateLimitRequest struct {
	UserID            string `json:"user_id" validate:"required,uuid4"`
	Endpoint          string `json:"endpoint" validate:"required,max=200"`
	RequestsPerMinute int    `json:"requests_per_minute" validate:"required,min=1"`
	RequestsPerHour   int    `json:"requests_per_hour" validate:"required,min=1"`
}

type CreateBackupRequest struct {
	Name string `json:"name" validate:"required,max=150"`
	Kind string `json:"kind" validate:"omitempty,oneof=full incremental"`
}

type CreateReportRequest struct {
	ReportType string         `json:"report_type" validate:"required,max=50"`
	Parameters map[string]any `json:"parameters"`
}
