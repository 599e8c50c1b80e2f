// internals/features/strikes/controller/strike_controller.go
package controller

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	notificationModel "leanmaker_backend/internals/features/notifications/model"
	strikeDTO "leanmaker_backend/internals/features/strikes/dto"
	strikeModel "leanmaker_backend/internals/features/strikes/model"
	strikeService "leanmaker_backend/internals/features/strikes/service"
	companyModel "leanmaker_backend/internals/features/users/companies/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
	helper "leanmaker_backend/internals/helpers"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

type StrikeController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewStrikeController(db *gorm.DB) *StrikeController {
	return &StrikeController{DB: db, Validate: validator.New()}
}

// Issue files a strike, recounts the student's active strikes and suspends
// the profile once the count reaches the threshold, all in one transaction.
// POST /api/strikes/
func (sc *StrikeController) Issue(c *fiber.Ctx) error {
	issuerID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	role := authMid.GetUserRole(c)

	var req strikeDTO.IssueStrikeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := sc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	studentID, _ := uuid.Parse(req.StudentID)
	var student studentModel.StudentProfileModel
	if err := sc.DB.First(&student, "id = ?", studentID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}

	strike := strikeModel.StrikeModel{
		StudentID:   studentID,
		IssuedByID:  issuerID,
		Reason:      req.Reason,
		Description: req.Description,
		Severity:    req.Severity,
		IsActive:    true,
		ExpiresAt:   req.ExpiresAt,
	}
	if strike.Severity == "" {
		strike.Severity = strikeModel.SeverityMedium
	}
	if req.ProjectID != nil {
		if id, err := uuid.Parse(*req.ProjectID); err == nil {
			strike.ProjectID = &id
		}
	}
	if role == constants.RoleCompany {
		var company companyModel.CompanyProfileModel
		if err := sc.DB.First(&company, "user_id = ?", issuerID).Error; err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Company profile not found")
		}
		strike.CompanyID = &company.ID
	}

	var suspended bool
	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&strike).Error; err != nil {
			return err
		}
		count, err := strikeService.SyncStrikeCount(tx, &student)
		if err != nil {
			return err
		}
		suspended = count >= studentModel.SuspensionThreshold

		note := notificationModel.NotificationModel{
			RecipientID:   student.UserID,
			Title:         "Strike issued",
			Message:       "A strike has been registered against your profile: " + req.Reason,
			Type:          notificationModel.TypeWarning,
			Priority:      "high",
			ProjectID:     strike.ProjectID,
			RelatedUserID: &issuerID,
		}
		return tx.Create(&note).Error
	})
	if err != nil {
		log.Println("[ERROR] issue strike:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not issue strike")
	}

	return helper.JsonCreated(c, "strike issued", fiber.Map{
		"strike":    strike,
		"suspended": suspended,
	})
}

// List: students see their own strikes, admins all, companies those they
// issued.
// GET /api/strikes/
func (sc *StrikeController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)
	role := authMid.GetUserRole(c)
	userID, _ := authMid.GetUserID(c)

	q := sc.DB.Model(&strikeModel.StrikeModel{}).Preload("Student.User")
	switch role {
	case constants.RoleAdmin:
		if student := c.Query("student_id"); student != "" {
			if id, err := uuid.Parse(student); err == nil {
				q = q.Where("student_id = ?", id)
			}
		}
	case constants.RoleStudent:
		var student studentModel.StudentProfileModel
		if err := sc.DB.First(&student, "user_id = ?", userID).Error; err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
		}
		q = q.Where("student_id = ?", student.ID)
	case constants.RoleCompany:
		var company companyModel.CompanyProfileModel
		if err := sc.DB.First(&company, "user_id = ?", userID).Error; err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Company profile not found")
		}
		q = q.Where("company_id = ?", company.ID)
	default:
		return helper.JsonError(c, fiber.StatusForbidden, "Strikes are not visible for this role")
	}

	if active := c.Query("is_active"); active != "" {
		q = q.Where("is_active = ?", active == "true")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list strikes")
	}

	var strikes []strikeModel.StrikeModel
	if err := q.Order("issued_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&strikes).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list strikes")
	}

	return helper.JsonList(c, "strikes", strikes, helper.BuildPagination(total, paging))
}

// Deactivate retires a strike and lifts the suspension when the recount
// drops below the threshold. Admin only.
// POST /api/strikes/:id/deactivate/
func (sc *StrikeController) Deactivate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid strike id")
	}

	var strike strikeModel.StrikeModel
	if err := sc.DB.First(&strike, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Strike not found")
	}
	if !strike.IsActive {
		return helper.JsonOK(c, "strike already inactive", strike)
	}

	var student studentModel.StudentProfileModel
	if err := sc.DB.First(&student, "id = ?", strike.StudentID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not deactivate strike")
	}

	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&strike).Update("is_active", false).Error; err != nil {
			return err
		}
		_, err := strikeService.SyncStrikeCount(tx, &student)
		return err
	})
	if err != nil {
		log.Println("[ERROR] deactivate strike:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not deactivate strike")
	}
	strike.IsActive = false

	return helper.JsonUpdated(c, "strike deactivated", strike)
}

// ========================== DISCIPLINARY RECORDS ==========================

// POST /api/disciplinary-records/
func (sc *StrikeController) CreateRecord(c *fiber.Ctx) error {
	recorderID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req strikeDTO.CreateDisciplinaryRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := sc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	studentID, _ := uuid.Parse(req.StudentID)
	var student studentModel.StudentProfileModel
	if err := sc.DB.First(&student, "id = ?", studentID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}
	incidentDate, _ := time.Parse("2006-01-02", req.IncidentDate)

	record := strikeModel.DisciplinaryRecordModel{
		StudentID:    studentID,
		RecordedByID: recorderID,
		IncidentDate: incidentDate,
		Description:  req.Description,
		ActionTaken:  req.ActionTaken,
		Severity:     req.Severity,
	}
	if record.Severity == "" {
		record.Severity = strikeModel.SeverityMedium
	}
	if req.CompanyID != nil {
		if id, err := uuid.Parse(*req.CompanyID); err == nil {
			record.CompanyID = &id
		}
	}

	if err := sc.DB.Create(&record).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not create record")
	}

	return helper.JsonCreated(c, "disciplinary record created", record)
}

// GET /api/disciplinary-records/
func (sc *StrikeController) ListRecords(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)

	q := sc.DB.Model(&strikeModel.DisciplinaryRecordModel{})
	if student := c.Query("student_id"); student != "" {
		if id, err := uuid.Parse(student); err == nil {
			q = q.Where("student_id = ?", id)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list records")
	}

	var records []strikeModel.DisciplinaryRecordModel
	if err := q.Order("incident_date DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&records).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list records")
	}

	return helper.JsonList(c, "disciplinary records", records, helper.BuildPagination(total, paging))
}

// PATCH /api/disciplinary-records/:id/resolve/
func (sc *StrikeController) ResolveRecord(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid record id")
	}

	var record strikeModel.DisciplinaryRecordModel
	if err := sc.DB.First(&record, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Record not found")
	}
	if !record.Resolved {
		if err := sc.DB.Model(&record).Update("resolved", true).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not resolve record")
		}
		record.Resolved = true
	}

	return helper.JsonUpdated(c, "disciplinary record resolved", record)
}
