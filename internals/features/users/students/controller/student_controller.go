// internals/features/users/students/controller/student_controller.go
package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	strikeService "leanmaker_backend/internals/features/strikes/service"
	studentDTO "leanmaker_backend/internals/features/users/students/dto"
	studentModel "leanmaker_backend/internals/features/users/students/model"
	helper "leanmaker_backend/internals/helpers"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

type StudentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db, Validate: validator.New()}
}

// findOwnProfile resolves the caller's student profile.
func (sc *StudentController) findOwnProfile(c *fiber.Ctx) (*studentModel.StudentProfileModel, error) {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return nil, err
	}
	var profile studentModel.StudentProfileModel
	if err := sc.DB.First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetMyProfile returns the caller's student profile.
// GET /api/students/me/
func (sc *StudentController) GetMyProfile(c *fiber.Ctx) error {
	profile, err := sc.findOwnProfile(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
	}
	return helper.JsonOK(c, "student profile", profile)
}

// UpdateMyProfile patches the caller's student profile. Counters, strikes,
// status and api_level are server-managed and never accepted here.
// PATCH /api/students/me/
func (sc *StudentController) UpdateMyProfile(c *fiber.Ctx) error {
	profile, err := sc.findOwnProfile(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
	}

	var req studentDTO.UpdateStudentProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := sc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	updates := map[string]any{}
	if req.Career != nil {
		updates["career"] = strings.TrimSpace(*req.Career)
	}
	if req.University != nil {
		updates["university"] = strings.TrimSpace(*req.University)
	}
	if req.EducationLevel != nil {
		updates["education_level"] = strings.TrimSpace(*req.EducationLevel)
	}
	if req.Semester != nil {
		updates["semester"] = *req.Semester
	}
	if req.GraduationYear != nil {
		updates["graduation_year"] = *req.GraduationYear
	}
	if req.Availability != nil {
		updates["availability"] = strings.TrimSpace(*req.Availability)
	}
	if req.Skills != nil {
		updates["skills"] = helper.StringsToJSON(req.Skills)
	}
	if req.Languages != nil {
		updates["languages"] = helper.StringsToJSON(req.Languages)
	}
	if req.PortfolioURL != nil {
		updates["portfolio_url"] = *req.PortfolioURL
	}
	if req.GithubURL != nil {
		updates["github_url"] = *req.GithubURL
	}
	if req.LinkedinURL != nil {
		updates["linkedin_url"] = *req.LinkedinURL
	}
	if len(updates) > 0 {
		if err := sc.DB.Model(profile).Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update profile")
		}
	}

	if err := sc.DB.First(profile, "id = ?", profile.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update profile")
	}
	return helper.JsonUpdated(c, "student profile updated", profile)
}

// ListStudents lists student profiles. Companies only see approved students;
// admins see everything and may filter by status.
// GET /api/students/
func (sc *StudentController) ListStudents(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)
	role := authMid.GetUserRole(c)

	q := sc.DB.Model(&studentModel.StudentProfileModel{}).Preload("User")
	if role == constants.RoleAdmin {
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
	} else {
		q = q.Where("status = ?", studentModel.StatusApproved)
	}
	if career := strings.TrimSpace(c.Query("career")); career != "" {
		q = q.Where("LOWER(career) LIKE ?", "%"+strings.ToLower(career)+"%")
	}
	if lvl := c.QueryInt("min_api_level"); lvl > 0 {
		q = q.Where("api_level >= ?", lvl)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list students")
	}

	var students []studentModel.StudentProfileModel
	if err := q.Order("created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&students).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list students")
	}

	return helper.JsonList(c, "students", students, helper.BuildPagination(total, paging))
}

// GetStudent returns one student profile.
// GET /api/students/:id/
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student id")
	}

	var profile studentModel.StudentProfileModel
	if err := sc.DB.Preload("User").First(&profile, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}

	role := authMid.GetUserRole(c)
	if role != constants.RoleAdmin && profile.Status != studentModel.StatusApproved {
		userID, _ := authMid.GetUserID(c)
		if profile.UserID != userID {
			return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
		}
	}

	return helper.JsonOK(c, "student", profile)
}

// ChangeStatus is the admin approval workflow on student profiles.
// PATCH /api/students/:id/status/
func (sc *StudentController) ChangeStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student id")
	}

	var req studentDTO.ChangeStudentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := sc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var profile studentModel.StudentProfileModel
	if err := sc.DB.First(&profile, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}

	// A manual unsuspend is refused while the strike count still demands
	// it. Recount first so since-expired strikes no longer hold it down.
	if profile.Status == studentModel.StatusSuspended && req.Status == studentModel.StatusApproved {
		active, err := strikeService.SyncStrikeCount(sc.DB, &profile)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update status")
		}
		if active >= studentModel.SuspensionThreshold {
			return helper.JsonError(c, fiber.StatusConflict,
				"Student still has an active strike count at the suspension threshold")
		}
	}

	if err := sc.DB.Model(&profile).Update("status", req.Status).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update status")
	}
	profile.Status = req.Status

	return helper.JsonUpdated(c, "student status updated", profile)
}

// ========================== API LEVEL REQUESTS ==========================

// CreateAPILevelRequest opens a petition for a higher api_level.
// POST /api/students/api-level-requests/
func (sc *StudentController) CreateAPILevelRequest(c *fiber.Ctx) error {
	profile, err := sc.findOwnProfile(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
	}

	var req studentDTO.CreateAPILevelRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := sc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	if req.RequestedLevel <= profile.APILevel {
		return helper.JsonError(c, fiber.StatusBadRequest, "Requested level must be above the current level")
	}

	var pending int64
	if err := sc.DB.Model(&studentModel.APILevelRequestModel{}).
		Where("student_id = ? AND status = ?", profile.ID, "pending").
		Count(&pending).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not create request")
	}
	if pending > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "A pending request already exists")
	}

	request := studentModel.APILevelRequestModel{
		StudentID:      profile.ID,
		CurrentLevel:   profile.APILevel,
		RequestedLevel: req.RequestedLevel,
		Status:         "pending",
	}
	if err := sc.DB.Create(&request).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not create request")
	}

	return helper.JsonCreated(c, "api level request created", request)
}

// ListAPILevelRequests: students see their own, admins see all.
// GET /api/students/api-level-requests/
func (sc *StudentController) ListAPILevelRequests(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)
	role := authMid.GetUserRole(c)

	q := sc.DB.Model(&studentModel.APILevelRequestModel{}).Preload("Student")
	if role == constants.RoleAdmin {
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
	} else {
		profile, err := sc.findOwnProfile(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
		}
		q = q.Where("student_id = ?", profile.ID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list requests")
	}

	var requests []studentModel.APILevelRequestModel
	if err := q.Order("submitted_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&requests).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list requests")
	}

	return helper.JsonList(c, "api level requests", requests, helper.BuildPagination(total, paging))
}

// ResolveAPILevelRequest approves or rejects a pending petition. Approval
// bumps the student's api_level in the same transaction.
// PATCH /api/students/api-level-requests/:id/
func (sc *StudentController) ResolveAPILevelRequest(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request id")
	}
	adminID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req studentDTO.ResolveAPILevelRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := sc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var request studentModel.APILevelRequestModel
	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "id = ?", id).Error; err != nil {
			return err
		}
		if request.Status != "pending" {
			return gorm.ErrInvalidData
		}

		now := time.Now().UTC()
		status := "rejected"
		if req.Approve {
			status = "approved"
			if err := tx.Model(&studentModel.StudentProfileModel{}).
				Where("id = ?", request.StudentID).
				Update("api_level", request.RequestedLevel).Error; err != nil {
				return err
			}
		}

		return tx.Model(&request).Updates(map[string]any{
			"status":         status,
			"feedback":       req.Feedback,
			"resolved_at":    now,
			"resolved_by_id": adminID,
		}).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.JsonError(c, fiber.StatusNotFound, "Request not found")
		}
		if err == gorm.ErrInvalidData {
			return helper.JsonError(c, fiber.StatusConflict, "Request already resolved")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not resolve request")
	}

	return helper.JsonUpdated(c, "api level request resolved", request)
}
