// internals/features/ops/controller/ops_controller.go
package controller

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	opsDTO "leanmaker_backend/internals/features/ops/dto"
	opsModel "leanmaker_backend/internals/features/ops/model"
	helper "leanmaker_backend/internals/helpers"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

type OpsController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewOpsController(db *gorm.DB) *OpsController {
	return &OpsController{DB: db, Validate: validator.New()}
}

// ========================== ACTIVITY LOGS ==========================

// GET /api/activity-logs/
func (oc *OpsController) ListActivityLogs(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)

	q := oc.DB.Model(&opsModel.ActivityLogModel{})
	if user := c.Query("user_id"); user != "" {
		if id, err := uuid.Parse(user); err == nil {
			q = q.Where("user_id = ?", id)
		}
	}
	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list activity logs")
	}

	var logs []opsModel.ActivityLogModel
	if err := q.Order("created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&logs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list activity logs")
	}

	return helper.JsonList(c, "activity logs", logs, helper.BuildPagination(total, paging))
}

// ========================== API KEYS ==========================

// POST /api/api-keys/
func (oc *OpsController) CreateApiKey(c *fiber.Ctx) error {
	ownerID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req opsDTO.CreateApiKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := oc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	key := opsModel.ApiKeyModel{OwnerID: ownerID, Name: req.Name, IsActive: true}
	if err := oc.DB.Create(&key).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not create API key")
	}

	return helper.JsonCreated(c, "api key created", key)
}

// GET /api/api-keys/
func (oc *OpsController) ListApiKeys(c *fiber.Ctx) error {
	ownerID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var keys []opsModel.ApiKeyModel
	if err := oc.DB.Where("owner_id = ?", ownerID).
		Order("created_at DESC").Find(&keys).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list API keys")
	}

	return helper.JsonOK(c, "api keys", keys)
}

func (oc *OpsController) loadOwnKey(c *fiber.Ctx) (*opsModel.ApiKeyModel, error) {
	ownerID, err := authMid.GetUserID(c)
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "Invalid API key id")
	}

	var key opsModel.ApiKeyModel
	if err := oc.DB.First(&key, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		return nil, helper.JsonError(c, fiber.StatusNotFound, "API key not found")
	}
	return &key, nil
}

// Regenerate swaps the secret; the old key stops working immediately.
// POST /api/api-keys/:id/regenerate/
func (oc *OpsController) RegenerateApiKey(c *fiber.Ctx) error {
	key, err := oc.loadOwnKey(c)
	if err != nil {
		return err
	}

	fresh := opsModel.GenerateKey()
	if err := oc.DB.Model(key).Updates(map[string]any{
		"key":       fresh,
		"is_active": true,
	}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not regenerate API key")
	}
	key.Key = fresh
	key.IsActive = true

	return helper.JsonUpdated(c, "api key regenerated", key)
}

// DELETE /api/api-keys/:id/
func (oc *OpsController) RevokeApiKey(c *fiber.Ctx) error {
	key, err := oc.loadOwnKey(c)
	if err != nil {
		return err
	}

	if key.IsActive {
		if err := oc.DB.Model(key).Update("is_active", false).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not revoke API key")
		}
		key.IsActive = false
	}

	return helper.JsonUpdated(c, "api key revoked", key)
}

// GET /api/api-keys/:id/usage/
func (oc *OpsController) ListApiUsage(c *fiber.Ctx) error {
	key, err := oc.loadOwnKey(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c)

	q := oc.DB.Model(&opsModel.ApiUsageModel{}).Where("api_key_id = ?", key.ID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list usage")
	}

	var usage []opsModel.ApiUsageModel
	if err := q.Order("created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&usage).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list usage")
	}

	return helper.JsonList(c, "api usage", usage, helper.BuildPagination(total, paging))
}

// ========================== RATE LIMIT POLICIES ==========================

// UpsertRateLimit creates or updates the per-user endpoint policy.
// PUT /api/rate-limits/
func (oc *OpsController) UpsertRateLimit(c *fiber.Ctx) error {
	var req opsDTO.UpsertRateLimitRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := oc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	userID, _ := uuid.Parse(req.UserID)

	var policy opsModel.ApiRateLimitModel
	err := oc.DB.Where("user_id = ? AND endpoint = ?", userID, req.Endpoint).First(&policy).Error
	if err == gorm.ErrRecordNotFound {
		policy = opsModel.ApiRateLimitModel{
			UserID:            userID,
			Endpoint:          req.Endpoint,
			RequestsPerMinute: req.RequestsPerMinute,
			RequestsPerHour:   req.RequestsPerHour,
			IsActive:          true,
		}
		if err := oc.DB.Create(&policy).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not save rate limit")
		}
		return helper.JsonCreated(c, "rate limit created", policy)
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not save rate limit")
	}

	if err := oc.DB.Model(&policy).Updates(map[string]any{
		"requests_per_minute": req.RequestsPerMinute,
		"requests_per_hour":   req.RequestsPerHour,
		"is_active":           true,
	}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not save rate limit")
	}
	policy.RequestsPerMinute = req.RequestsPerMinute
	policy.RequestsPerHour = req.RequestsPerHour

	return helper.JsonUpdated(c, "rate limit updated", policy)
}

// GET /api/rate-limits/
func (oc *OpsController) ListRateLimits(c *fiber.Ctx) error {
	var policies []opsModel.ApiRateLimitModel
	if err := oc.DB.Order("created_at DESC").Find(&policies).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list rate limits")
	}
	return helper.JsonOK(c, "rate limits", policies)
}

// ========================== BACKUPS ==========================

// CreateBackup records the backup metadata; the dump itself runs out of
// band, so the record completes immediately.
// POST /api/backups/
func (oc *OpsController) CreateBackup(c *fiber.Ctx) error {
	adminID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req opsDTO.CreateBackupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := oc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	now := time.Now().UTC()
	backup := opsModel.BackupModel{
		CreatedByID: adminID,
		Name:        req.Name,
		Kind:        req.Kind,
		Status:      "completed",
		CompletedAt: &now,
	}
	if backup.Kind == "" {
		backup.Kind = "full"
	}
	if err := oc.DB.Create(&backup).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not create backup record")
	}

	return helper.JsonCreated(c, "backup recorded", backup)
}

// GET /api/backups/
func (oc *OpsController) ListBackups(c *fiber.Ctx) error {
	var backups []opsModel.BackupModel
	if err := oc.DB.Order("created_at DESC").Find(&backups).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list backups")
	}
	return helper.JsonOK(c, "backups", backups)
}

// ========================== REPORTS ==========================

// POST /api/reports/
func (oc *OpsController) CreateReport(c *fiber.Ctx) error {
	adminID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req opsDTO.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := oc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	now := time.Now().UTC()
	report := opsModel.ReportModel{
		RequestedByID: adminID,
		ReportType:    req.ReportType,
		Status:        "completed",
		GeneratedAt:   &now,
	}
	if req.Parameters != nil {
		raw, err := sonic.Marshal(req.Parameters)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid report parameters")
		}
		report.Parameters = raw
	}
	if err := oc.DB.Create(&report).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not create report")
	}

	return helper.JsonCreated(c, "report generated", report)
}

// GET /api/reports/
func (oc *OpsController) ListReports(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)

	q := oc.DB.Model(&opsModel.ReportModel{})
	if kind := c.Query("report_type"); kind != "" {
		q = q.Where("report_type = ?", kind)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list reports")
	}

	var reports []opsModel.ReportModel
	if err := q.Order("created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&reports).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list reports")
	}

	return helper.JsonList(c, "reports", reports, helper.BuildPagination(total, paging))
}
