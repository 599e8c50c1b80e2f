// internals/features/users/companies/controller/company_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	companyDTO "leanmaker_backend/internals/features/users/companies/dto"
	companyModel "leanmaker_backend/internals/features/users/companies/model"
	helper "leanmaker_backend/internals/helpers"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

type CompanyController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewCompanyController(db *gorm.DB) *CompanyController {
	return &CompanyController{DB: db, Validate: validator.New()}
}

func (cc *CompanyController) findOwnProfile(c *fiber.Ctx) (*companyModel.CompanyProfileModel, error) {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return nil, err
	}
	var profile companyModel.CompanyProfileModel
	if err := cc.DB.First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GET /api/companies/me/
func (cc *CompanyController) GetMyCompany(c *fiber.Ctx) error {
	profile, err := cc.findOwnProfile(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Company profile not found")
	}
	return helper.JsonOK(c, "company profile", profile)
}

// UpdateMyCompany patches the caller's company profile. RUT, company_email,
// status and the rating counters are never accepted here.
// PATCH /api/companies/me/
func (cc *CompanyController) UpdateMyCompany(c *fiber.Ctx) error {
	profile, err := cc.findOwnProfile(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Company profile not found")
	}

	var req companyDTO.UpdateCompanyProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := cc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	updates := map[string]any{}
	if req.CompanyName != nil {
		updates["company_name"] = strings.TrimSpace(*req.CompanyName)
	}
	if req.Industry != nil {
		updates["industry"] = strings.TrimSpace(*req.Industry)
	}
	if req.Size != nil {
		updates["size"] = strings.TrimSpace(*req.Size)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Technologies != nil {
		updates["technologies"] = helper.StringsToJSON(req.Technologies)
	}
	if req.Benefits != nil {
		updates["benefits"] = helper.StringsToJSON(req.Benefits)
	}
	if len(updates) > 0 {
		if err := cc.DB.Model(profile).Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update profile")
		}
	}

	if err := cc.DB.First(profile, "id = ?", profile.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update profile")
	}
	return helper.JsonUpdated(c, "company profile updated", profile)
}

// ListCompanies: non-admins only see active companies.
// GET /api/companies/
func (cc *CompanyController) ListCompanies(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)
	role := authMid.GetUserRole(c)

	q := cc.DB.Model(&companyModel.CompanyProfileModel{}).Preload("User")
	if role == constants.RoleAdmin {
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
	} else {
		q = q.Where("status = ?", companyModel.StatusActive)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(company_name) LIKE ? OR LOWER(industry) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list companies")
	}

	var companies []companyModel.CompanyProfileModel
	if err := q.Order("created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&companies).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list companies")
	}

	return helper.JsonList(c, "companies", companies, helper.BuildPagination(total, paging))
}

// GET /api/companies/:id/
func (cc *CompanyController) GetCompany(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid company id")
	}

	var profile companyModel.CompanyProfileModel
	if err := cc.DB.Preload("User").First(&profile, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Company not found")
	}

	role := authMid.GetUserRole(c)
	if role != constants.RoleAdmin && profile.Status != companyModel.StatusActive {
		userID, _ := authMid.GetUserID(c)
		if profile.UserID != userID {
			return helper.JsonError(c, fiber.StatusNotFound, "Company not found")
		}
	}

	return helper.JsonOK(c, "company", profile)
}

// ChangeStatus suspends or reactivates a company. Admin only.
// PATCH /api/companies/:id/status/
func (cc *CompanyController) ChangeStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid company id")
	}

	var req companyDTO.ChangeCompanyStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := cc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var profile companyModel.CompanyProfileModel
	if err := cc.DB.First(&profile, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Company not found")
	}

	if err := cc.DB.Model(&profile).Update("status", req.Status).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update status")
	}
	profile.Status = req.Status

	return helper.JsonUpdated(c, "company status updated", profile)
}

// Verify marks a company as vetted. Admin only.
// PATCH /api/companies/:id/verify/
func (cc *CompanyController) Verify(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid company id")
	}

	var profile companyModel.CompanyProfileModel
	if err := cc.DB.First(&profile, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Company not found")
	}

	if !profile.Verified {
		if err := cc.DB.Model(&profile).Update("verified", true).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not verify company")
		}
		profile.Verified = true
	}

	return helper.JsonUpdated(c, "company verified", profile)
}
