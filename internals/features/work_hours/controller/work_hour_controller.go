// internals/features/work_hours/controller/work_hour_controller.go
package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leanmaker_backend/internals/constants"
	applicationModel "leanmaker_backend/internals/features/applications/model"
	projectModel "leanmaker_backend/internals/features/projects/model"
	companyModel "leanmaker_backend/internals/features/users/companies/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
	workHourDTO "leanmaker_backend/internals/features/work_hours/dto"
	workHourModel "leanmaker_backend/internals/features/work_hours/model"
	helper "leanmaker_backend/internals/helpers"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

type WorkHourController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewWorkHourController(db *gorm.DB) *WorkHourController {
	return &WorkHourController{DB: db, Validate: validator.New()}
}

func (wc *WorkHourController) ownStudent(c *fiber.Ctx) (*studentModel.StudentProfileModel, error) {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return nil, err
	}
	var student studentModel.StudentProfileModel
	if err := wc.DB.First(&student, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (wc *WorkHourController) ownCompany(c *fiber.Ctx) (*companyModel.CompanyProfileModel, error) {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return nil, err
	}
	var company companyModel.CompanyProfileModel
	if err := wc.DB.First(&company, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// Submit files a work entry against an active assignment on the project.
// The date may not be in the future and hours are capped per day.
// POST /api/work-hours/
func (wc *WorkHourController) Submit(c *fiber.Ctx) error {
	student, err := wc.ownStudent(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
	}

	var req workHourDTO.SubmitWorkHoursRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := wc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	if req.HoursWorked > workHourModel.MaxDailyHours {
		return helper.JsonError(c, fiber.StatusBadRequest, "hours_worked exceeds the daily cap")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.After(today) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Hours cannot be reported for a future date")
	}

	projectID, _ := uuid.Parse(req.ProjectID)
	var project projectModel.ProjectModel
	if err := wc.DB.First(&project, "id = ?", projectID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Project not found")
	}

	// the assignment is found through the accepted application
	var assignment applicationModel.AssignmentModel
	err = wc.DB.
		Joins("JOIN applications a ON a.id = assignments.application_id").
		Where("a.student_id = ? AND a.project_id = ? AND assignments.status = ?",
			student.ID, project.ID, applicationModel.AssignmentActive).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusForbidden, "No active assignment on this project")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not submit hours")
	}

	entry := workHourModel.WorkHourModel{
		StudentID:    student.ID,
		ProjectID:    project.ID,
		CompanyID:    project.CompanyID,
		AssignmentID: assignment.ID,
		Date:         date,
		HoursWorked:  req.HoursWorked,
		Description:  req.Description,
		TaskType:     req.TaskType,
	}
	if err := wc.DB.Create(&entry).Error; err != nil {
		log.Println("[ERROR] submit work hours:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not submit hours")
	}

	return helper.JsonCreated(c, "work hours submitted", entry)
}

// List is role-scoped: students see their own entries, companies those on
// their projects, admins everything.
// GET /api/work-hours/
func (wc *WorkHourController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)

	q := wc.DB.Model(&workHourModel.WorkHourModel{}).
		Preload("Student.User").Preload("Project")

	switch authMid.GetUserRole(c) {
	case constants.RoleAdmin:
	case constants.RoleStudent:
		student, err := wc.ownStudent(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
		}
		q = q.Where("student_id = ?", student.ID)
	case constants.RoleCompany:
		company, err := wc.ownCompany(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Company profile not found")
		}
		q = q.Where("company_id = ?", company.ID)
	default:
		return helper.JsonError(c, fiber.StatusForbidden, "Work hours are not visible for this role")
	}

	if project := c.Query("project_id"); project != "" {
		if id, err := uuid.Parse(project); err == nil {
			q = q.Where("project_id = ?", id)
		}
	}
	if approved := c.Query("approved"); approved != "" {
		q = q.Where("approved = ?", approved == "true")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list work hours")
	}

	var entries []workHourModel.WorkHourModel
	if err := q.Order("date DESC, created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&entries).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list work hours")
	}

	return helper.JsonList(c, "work hours", entries, helper.BuildPagination(total, paging))
}

// loadCompanyEntry fetches :id and enforces owning-company-or-admin.
func (wc *WorkHourController) loadCompanyEntry(c *fiber.Ctx) (*workHourModel.WorkHourModel, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "Invalid work hour id")
	}

	var entry workHourModel.WorkHourModel
	if err := wc.DB.First(&entry, "id = ?", id).Error; err != nil {
		return nil, helper.JsonError(c, fiber.StatusNotFound, "Work hour entry not found")
	}

	if authMid.GetUserRole(c) == constants.RoleAdmin {
		return &entry, nil
	}
	company, err := wc.ownCompany(c)
	if err != nil || company.ID != entry.CompanyID {
		return nil, helper.JsonError(c, fiber.StatusForbidden, "Not an entry on your projects")
	}
	return &entry, nil
}

// lockForUpdate takes a row lock where the engine supports it. SQLite
// serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Approve marks an entry approved and adds the hours to the running totals.
// The approved flag is re-read under a row lock so the totals move at most
// once per entry. Approving twice is a no-op.
// POST /api/work-hours/:id/approve/
func (wc *WorkHourController) Approve(c *fiber.Ctx) error {
	entry, err := wc.loadCompanyEntry(c)
	if err != nil {
		return err
	}

	approverID, _ := authMid.GetUserID(c)
	now := time.Now().UTC()
	var alreadyApproved, wasRejected bool
	err = wc.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(entry, "id = ?", entry.ID).Error; err != nil {
			return err
		}
		if entry.Approved {
			alreadyApproved = true
			return nil
		}
		if entry.Rejected {
			wasRejected = true
			return nil
		}
		if err := tx.Model(entry).Updates(map[string]any{
			"approved":       true,
			"approved_by_id": approverID,
			"approved_at":    now,
		}).Error; err != nil {
			return err
		}
		return applyHourTotals(tx, entry, entry.HoursWorked)
	})
	if err != nil {
		log.Println("[ERROR] approve work hours:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not approve hours")
	}
	if alreadyApproved {
		return helper.JsonOK(c, "work hours already approved", entry)
	}
	if wasRejected {
		return helper.JsonError(c, fiber.StatusConflict, "Entry was rejected")
	}
	entry.Approved = true
	entry.ApprovedByID = &approverID
	entry.ApprovedAt = &now

	return helper.JsonUpdated(c, "work hours approved", entry)
}

// Unapprove rolls an approval back, subtracting the hours again.
// POST /api/work-hours/:id/unapprove/
func (wc *WorkHourController) Unapprove(c *fiber.Ctx) error {
	entry, err := wc.loadCompanyEntry(c)
	if err != nil {
		return err
	}

	var notApproved bool
	err = wc.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(entry, "id = ?", entry.ID).Error; err != nil {
			return err
		}
		if !entry.Approved {
			notApproved = true
			return nil
		}
		if err := tx.Model(entry).Updates(map[string]any{
			"approved":       false,
			"approved_by_id": nil,
			"approved_at":    nil,
		}).Error; err != nil {
			return err
		}
		return applyHourTotals(tx, entry, -entry.HoursWorked)
	})
	if err != nil {
		log.Println("[ERROR] unapprove work hours:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not unapprove hours")
	}
	if notApproved {
		return helper.JsonOK(c, "work hours not approved", entry)
	}
	entry.Approved = false
	entry.ApprovedByID = nil
	entry.ApprovedAt = nil

	return helper.JsonUpdated(c, "work hours unapproved", entry)
}

// Reject marks an unapproved entry rejected. Rejecting an approved entry
// first rolls the totals back.
// POST /api/work-hours/:id/reject/
func (wc *WorkHourController) Reject(c *fiber.Ctx) error {
	entry, err := wc.loadCompanyEntry(c)
	if err != nil {
		return err
	}

	var alreadyRejected bool
	err = wc.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(entry, "id = ?", entry.ID).Error; err != nil {
			return err
		}
		if entry.Rejected {
			alreadyRejected = true
			return nil
		}
		wasApproved := entry.Approved
		if err := tx.Model(entry).Updates(map[string]any{
			"rejected":       true,
			"approved":       false,
			"approved_by_id": nil,
			"approved_at":    nil,
		}).Error; err != nil {
			return err
		}
		if wasApproved {
			return applyHourTotals(tx, entry, -entry.HoursWorked)
		}
		return nil
	})
	if err != nil {
		log.Println("[ERROR] reject work hours:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not reject hours")
	}
	if alreadyRejected {
		return helper.JsonOK(c, "work hours already rejected", entry)
	}
	entry.Rejected = true
	entry.Approved = false

	return helper.JsonUpdated(c, "work hours rejected", entry)
}

// applyHourTotals shifts the aggregated hour counters by delta.
func applyHourTotals(tx *gorm.DB, entry *workHourModel.WorkHourModel, delta float64) error {
	if err := tx.Model(&studentModel.StudentProfileModel{}).
		Where("id = ?", entry.StudentID).
		Update("total_hours", gorm.Expr("total_hours + ?", delta)).Error; err != nil {
		return err
	}
	if err := tx.Model(&applicationModel.AssignmentModel{}).
		Where("id = ?", entry.AssignmentID).
		Update("hours_worked", gorm.Expr("hours_worked + ?", delta)).Error; err != nil {
		return err
	}
	return tx.Model(&companyModel.CompanyProfileModel{}).
		Where("id = ?", entry.CompanyID).
		Update("total_hours_offered", gorm.Expr("total_hours_offered + ?", delta)).Error
}
