// internals/features/applications/controller/application_controller.go
package controller

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leanmaker_backend/internals/constants"
	applicationDTO "leanmaker_backend/internals/features/applications/dto"
	applicationModel "leanmaker_backend/internals/features/applications/model"
	catalogModel "leanmaker_backend/internals/features/catalog/model"
	notificationModel "leanmaker_backend/internals/features/notifications/model"
	projectModel "leanmaker_backend/internals/features/projects/model"
	projectService "leanmaker_backend/internals/features/projects/service"
	strikeService "leanmaker_backend/internals/features/strikes/service"
	companyModel "leanmaker_backend/internals/features/users/companies/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
	helper "leanmaker_backend/internals/helpers"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

type ApplicationController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewApplicationController(db *gorm.DB) *ApplicationController {
	return &ApplicationController{DB: db, Validate: validator.New()}
}

var (
	errProjectFull     = errors.New("project is full")
	errNotPublished    = errors.New("project is not open for applications")
	errAlreadyApplied  = errors.New("already applied")
	errStudentBlocked  = errors.New("student cannot apply")
	errAlreadyResolved = errors.New("application already resolved")
)

// lockForUpdate takes a row lock where the engine supports it; sqlite
// serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (ac *ApplicationController) ownStudent(c *fiber.Ctx) (*studentModel.StudentProfileModel, error) {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return nil, err
	}
	var student studentModel.StudentProfileModel
	if err := ac.DB.First(&student, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (ac *ApplicationController) ownCompany(c *fiber.Ctx) (*companyModel.CompanyProfileModel, error) {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return nil, err
	}
	var company companyModel.CompanyProfileModel
	if err := ac.DB.First(&company, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// Create files an application against a published project with free
// capacity. The applications_count bump rides in the same transaction.
// POST /api/applications/
func (ac *ApplicationController) Create(c *fiber.Ctx) error {
	student, err := ac.ownStudent(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
	}
	if student.IsSuspended() {
		return helper.JsonError(c, fiber.StatusForbidden, "Suspended students cannot apply to projects")
	}

	var req applicationDTO.CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	projectID, _ := uuid.Parse(req.ProjectID)

	var application applicationModel.ApplicationModel
	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		var project projectModel.ProjectModel
		if err := tx.First(&project, "id = ?", projectID).Error; err != nil {
			return err
		}

		statusName, err := projectService.StatusName(tx, project.StatusID)
		if err != nil {
			return err
		}
		if statusName != catalogModel.StatusPublished {
			return errNotPublished
		}
		if project.CurrentStudents >= project.MaxStudents {
			return errProjectFull
		}
		if project.MinAPILevel > student.APILevel {
			return errStudentBlocked
		}

		var dup int64
		if err := tx.Model(&applicationModel.ApplicationModel{}).
			Where("student_id = ? AND project_id = ?", student.ID, project.ID).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return errAlreadyApplied
		}

		application = applicationModel.ApplicationModel{
			StudentID:    student.ID,
			ProjectID:    project.ID,
			CoverLetter:  req.CoverLetter,
			Status:       applicationModel.StatusPending,
			PortfolioURL: req.PortfolioURL,
			GithubURL:    req.GithubURL,
			LinkedinURL:  req.LinkedinURL,
		}
		if err := tx.Create(&application).Error; err != nil {
			return err
		}

		return tx.Model(&projectModel.ProjectModel{}).
			Where("id = ?", project.ID).
			Update("applications_count", gorm.Expr("applications_count + 1")).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Project not found")
		case errors.Is(err, errNotPublished):
			return helper.JsonError(c, fiber.StatusConflict, "Project is not open for applications")
		case errors.Is(err, errProjectFull):
			return helper.JsonError(c, fiber.StatusConflict, "Project has no free spots")
		case errors.Is(err, errStudentBlocked):
			return helper.JsonError(c, fiber.StatusForbidden, "Your API level is below the project requirement")
		case errors.Is(err, errAlreadyApplied):
			return helper.JsonError(c, fiber.StatusConflict, "You already applied to this project")
		default:
			log.Println("[ERROR] create application:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not create application")
		}
	}

	return helper.JsonCreated(c, "application created", application)
}

// List is role-scoped: students see their own applications, companies see
// applications to their projects, admins see all.
// GET /api/applications/
func (ac *ApplicationController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)
	role := authMid.GetUserRole(c)

	q := ac.DB.Model(&applicationModel.ApplicationModel{}).
		Preload("Student.User").Preload("Project")

	switch role {
	case constants.RoleAdmin:
	case constants.RoleStudent:
		student, err := ac.ownStudent(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
		}
		q = q.Where("student_id = ?", student.ID)
	case constants.RoleCompany:
		company, err := ac.ownCompany(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Company profile not found")
		}
		q = q.Where("project_id IN (?)", ac.DB.Table("projects").
			Select("id").Where("company_id = ?", company.ID))
	default:
		return helper.JsonError(c, fiber.StatusForbidden, "Applications are not visible for this role")
	}

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if project := c.Query("project_id"); project != "" {
		if id, err := uuid.Parse(project); err == nil {
			q = q.Where("project_id = ?", id)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list applications")
	}

	var applications []applicationModel.ApplicationModel
	if err := q.Order("applied_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&applications).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list applications")
	}

	return helper.JsonList(c, "applications", applications, helper.BuildPagination(total, paging))
}

// loadScopedApplication fetches :id and enforces visibility. On failure the
// response is already written.
func (ac *ApplicationController) loadScopedApplication(c *fiber.Ctx) (*applicationModel.ApplicationModel, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "Invalid application id")
	}

	var application applicationModel.ApplicationModel
	if err := ac.DB.Preload("Student.User").Preload("Project").
		First(&application, "id = ?", id).Error; err != nil {
		return nil, helper.JsonError(c, fiber.StatusNotFound, "Application not found")
	}

	switch authMid.GetUserRole(c) {
	case constants.RoleAdmin:
		return &application, nil
	case constants.RoleStudent:
		student, err := ac.ownStudent(c)
		if err != nil || student.ID != application.StudentID {
			return nil, helper.JsonError(c, fiber.StatusForbidden, "Not your application")
		}
		return &application, nil
	case constants.RoleCompany:
		company, err := ac.ownCompany(c)
		if err != nil || application.Project == nil || application.Project.CompanyID != company.ID {
			return nil, helper.JsonError(c, fiber.StatusForbidden, "Not an application to your project")
		}
		return &application, nil
	}
	return nil, helper.JsonError(c, fiber.StatusForbidden, "Applications are not visible for this role")
}

// GET /api/applications/:id/
func (ac *ApplicationController) Get(c *fiber.Ctx) error {
	application, err := ac.loadScopedApplication(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "application", application)
}

// Review moves a pending or reviewing application forward (reviewing,
// interviewed, rejected). Accepting goes through Accept.
// PATCH /api/applications/:id/review/
func (ac *ApplicationController) Review(c *fiber.Ctx) error {
	application, err := ac.loadScopedApplication(c)
	if err != nil {
		return err
	}

	var req applicationDTO.ReviewApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	if application.IsTerminal() || application.Status == applicationModel.StatusAccepted {
		return helper.JsonError(c, fiber.StatusConflict, "Application already resolved")
	}
	if !application.CanReviewTo(req.Status) {
		return helper.JsonError(c, fiber.StatusConflict, "Application review only moves forward")
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"status":      req.Status,
		"reviewed_at": now,
	}
	if req.CompanyNotes != nil {
		updates["company_notes"] = *req.CompanyNotes
	}
	if req.Status == applicationModel.StatusRejected {
		updates["responded_at"] = now
	}
	if err := ac.DB.Model(application).Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update application")
	}
	application.Status = req.Status

	if req.Status == applicationModel.StatusRejected {
		ac.notifyStudent(application, "Application rejected",
			"Your application was not selected this time.", notificationModel.TypeWarning)
	}

	return helper.JsonUpdated(c, "application reviewed", application)
}

// Accept takes one free spot atomically: the project row is locked, the
// capacity re-checked, the counter bumped and the assignment created in a
// single transaction. Re-accepting an accepted application is a no-op.
// POST /api/applications/:id/accept/
func (ac *ApplicationController) Accept(c *fiber.Ctx) error {
	application, err := ac.loadScopedApplication(c)
	if err != nil {
		return err
	}

	if application.Status == applicationModel.StatusAccepted {
		return helper.JsonOK(c, "application already accepted", application)
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		var fresh applicationModel.ApplicationModel
		if err := lockForUpdate(tx).
			First(&fresh, "id = ?", application.ID).Error; err != nil {
			return err
		}
		if fresh.Status == applicationModel.StatusAccepted {
			return nil
		}
		if fresh.IsTerminal() {
			return errAlreadyResolved
		}

		var student studentModel.StudentProfileModel
		if err := tx.First(&student, "id = ?", fresh.StudentID).Error; err != nil {
			return err
		}
		// recount instead of trusting the mirror so a suspension backed
		// only by since-expired strikes lifts right here
		activeStrikes, err := strikeService.SyncStrikeCount(tx, &student)
		if err != nil {
			return err
		}
		if activeStrikes >= studentModel.SuspensionThreshold {
			return errStudentBlocked
		}

		var project projectModel.ProjectModel
		if err := lockForUpdate(tx).
			First(&project, "id = ?", fresh.ProjectID).Error; err != nil {
			return err
		}
		if project.CurrentStudents >= project.MaxStudents {
			return errProjectFull
		}

		now := time.Now().UTC()
		if err := tx.Model(&fresh).Updates(map[string]any{
			"status":       applicationModel.StatusAccepted,
			"responded_at": now,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&projectModel.ProjectModel{}).
			Where("id = ?", project.ID).
			Update("current_students", gorm.Expr("current_students + 1")).Error; err != nil {
			return err
		}

		assignment := applicationModel.AssignmentModel{
			ApplicationID: fresh.ID,
			StartDate:     project.StartDate,
			Status:        applicationModel.AssignmentActive,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}

		note := notificationModel.NotificationModel{
			RecipientID:   student.UserID,
			Title:         "Application accepted",
			Message:       fmt.Sprintf("You were accepted into the project %q.", project.Title),
			Type:          notificationModel.TypeSuccess,
			Priority:      "high",
			ProjectID:     &project.ID,
			ApplicationID: &fresh.ID,
		}
		if err := tx.Create(&note).Error; err != nil {
			return err
		}

		application.Status = applicationModel.StatusAccepted
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errProjectFull):
			return helper.JsonError(c, fiber.StatusConflict, "Project has no free spots")
		case errors.Is(err, errStudentBlocked):
			return helper.JsonError(c, fiber.StatusConflict, "Suspended students cannot be accepted")
		case errors.Is(err, errAlreadyResolved):
			return helper.JsonError(c, fiber.StatusConflict, "Application already resolved")
		default:
			log.Println("[ERROR] accept application:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not accept application")
		}
	}

	return helper.JsonUpdated(c, "application accepted", application)
}

// Withdraw lets the student pull a non-terminal application. Withdrawing an
// accepted one releases the project spot.
// POST /api/applications/:id/withdraw/
func (ac *ApplicationController) Withdraw(c *fiber.Ctx) error {
	application, err := ac.loadScopedApplication(c)
	if err != nil {
		return err
	}
	if application.IsTerminal() {
		return helper.JsonError(c, fiber.StatusConflict, "Application already resolved")
	}

	wasAccepted := application.Status == applicationModel.StatusAccepted
	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(application).Updates(map[string]any{
			"status":       applicationModel.StatusWithdrawn,
			"responded_at": time.Now().UTC(),
		}).Error; err != nil {
			return err
		}
		if !wasAccepted {
			return nil
		}
		if err := tx.Model(&applicationModel.AssignmentModel{}).
			Where("application_id = ? AND status = ?", application.ID, applicationModel.AssignmentActive).
			Update("status", applicationModel.AssignmentCancelled).Error; err != nil {
			return err
		}
		return tx.Model(&projectModel.ProjectModel{}).
			Where("id = ? AND current_students > 0", application.ProjectID).
			Update("current_students", gorm.Expr("current_students - 1")).Error
	})
	if err != nil {
		log.Println("[ERROR] withdraw application:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not withdraw application")
	}
	application.Status = applicationModel.StatusWithdrawn

	return helper.JsonUpdated(c, "application withdrawn", application)
}

func (ac *ApplicationController) notifyStudent(application *applicationModel.ApplicationModel, title, message, kind string) {
	var student studentModel.StudentProfileModel
	if err := ac.DB.First(&student, "id = ?", application.StudentID).Error; err != nil {
		return
	}
	note := notificationModel.NotificationModel{
		RecipientID:   student.UserID,
		Title:         title,
		Message:       message,
		Type:          kind,
		Priority:      "normal",
		ProjectID:     &application.ProjectID,
		ApplicationID: &application.ID,
	}
	if err := ac.DB.Create(&note).Error; err != nil {
		log.Println("[ERROR] notify student:", err)
	}
}
