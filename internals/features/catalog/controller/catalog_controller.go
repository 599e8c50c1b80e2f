// internals/features/catalog/controller/catalog_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogDTO "leanmaker_backend/internals/features/catalog/dto"
	catalogModel "leanmaker_backend/internals/features/catalog/model"
	helper "leanmaker_backend/internals/helpers"
)

type CatalogController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{DB: db, Validate: validator.New()}
}

// ========================== AREAS ==========================

// GET /api/areas/
func (cc *CatalogController) ListAreas(c *fiber.Ctx) error {
	var areas []catalogModel.AreaModel
	q := cc.DB.Order("name ASC")
	if c.Query("include_inactive") != "true" {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&areas).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list areas")
	}
	return helper.JsonOK(c, "areas", areas)
}

// POST /api/areas/
func (cc *CatalogController) CreateArea(c *fiber.Ctx) error {
	var req catalogDTO.CreateAreaRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := cc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	area := catalogModel.AreaModel{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		IsActive:    true,
	}
	if err := cc.DB.Create(&area).Error; err != nil {
		return helper.JsonError(c, fiber.StatusConflict, "Area name already exists")
	}
	return helper.JsonCreated(c, "area created", area)
}

// PATCH /api/areas/:id/
func (cc *CatalogController) UpdateArea(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid area id")
	}

	var req catalogDTO.UpdateAreaRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := cc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var area catalogModel.AreaModel
	if err := cc.DB.First(&area, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Area not found")
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := cc.DB.Model(&area).Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update area")
		}
	}

	if err := cc.DB.First(&area, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update area")
	}
	return helper.JsonUpdated(c, "area updated", area)
}

// ========================== TRL LEVELS ==========================

// GET /api/trl-levels/
func (cc *CatalogController) ListTRLLevels(c *fiber.Ctx) error {
	var levels []catalogModel.TRLLevelModel
	if err := cc.DB.Order("level ASC").Find(&levels).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list TRL levels")
	}
	return helper.JsonOK(c, "trl levels", levels)
}

// POST /api/trl-levels/
func (cc *CatalogController) CreateTRLLevel(c *fiber.Ctx) error {
	var req catalogDTO.CreateTRLLevelRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := cc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	level := catalogModel.TRLLevelModel{
		Level:       req.Level,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		MinHours:    req.MinHours,
	}
	if err := cc.DB.Create(&level).Error; err != nil {
		return helper.JsonError(c, fiber.StatusConflict, "TRL level already exists")
	}
	return helper.JsonCreated(c, "trl level created", level)
}

// PATCH /api/trl-levels/:id/
func (cc *CatalogController) UpdateTRLLevel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid TRL level id")
	}

	var req catalogDTO.UpdateTRLLevelRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := cc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var level catalogModel.TRLLevelModel
	if err := cc.DB.First(&level, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "TRL level not found")
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.MinHours != nil {
		updates["min_hours"] = *req.MinHours
	}
	if len(updates) > 0 {
		if err := cc.DB.Model(&level).Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update TRL level")
		}
	}

	if err := cc.DB.First(&level, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update TRL level")
	}
	return helper.JsonUpdated(c, "trl level updated", level)
}

// ========================== PROJECT STATUSES ==========================

// Project statuses are read-only over the API; the seeded set is the
// state machine.
// GET /api/project-statuses/
func (cc *CatalogController) ListProjectStatuses(c *fiber.Ctx) error {
	var statuses []catalogModel.ProjectStatusModel
	if err := cc.DB.Order("name ASC").Find(&statuses).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list project statuses")
	}
	return helper.JsonOK(c, "project statuses", statuses)
}

// ========================== EVALUATION CATEGORIES ==========================

// GET /api/evaluation-categories/
func (cc *CatalogController) ListEvaluationCategories(c *fiber.Ctx) error {
	var categories []catalogModel.EvaluationCategoryModel
	if err := cc.DB.Order("name ASC").Find(&categories).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list categories")
	}
	return helper.JsonOK(c, "evaluation categories", categories)
}

// POST /api/evaluation-categories/
func (cc *CatalogController) CreateEvaluationCategory(c *fiber.Ctx) error {
	var req catalogDTO.CreateEvaluationCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := cc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	category := catalogModel.EvaluationCategoryModel{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := cc.DB.Create(&category).Error; err != nil {
		return helper.JsonError(c, fiber.StatusConflict, "Category name already exists")
	}
	return helper.JsonCreated(c, "evaluation category created", category)
}

// ========================== PLATFORM SETTINGS ==========================

// GET /api/platform-settings/
func (cc *CatalogController) ListSettings(c *fiber.Ctx) error {
	var settings []catalogModel.PlatformSettingModel
	if err := cc.DB.Order("key ASC").Find(&settings).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list settings")
	}
	return helper.JsonOK(c, "platform settings", settings)
}

// PATCH /api/platform-settings/:key/
func (cc *CatalogController) UpdateSetting(c *fiber.Ctx) error {
	key := c.Params("key")

	var req catalogDTO.UpdateSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := cc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var setting catalogModel.PlatformSettingModel
	if err := cc.DB.First(&setting, "key = ?", key).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Setting not found")
	}

	if err := cc.DB.Model(&setting).Update("value", req.Value).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update setting")
	}
	setting.Value = req.Value

	return helper.JsonUpdated(c, "setting updated", setting)
}
