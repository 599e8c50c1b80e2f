// internals/features/evaluations/controller/evaluation_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	applicationModel "leanmaker_backend/internals/features/applications/model"
	evaluationDTO "leanmaker_backend/internals/features/evaluations/dto"
	evaluationModel "leanmaker_backend/internals/features/evaluations/model"
	projectModel "leanmaker_backend/internals/features/projects/model"
	companyModel "leanmaker_backend/internals/features/users/companies/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
	helper "leanmaker_backend/internals/helpers"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

type EvaluationController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewEvaluationController(db *gorm.DB) *EvaluationController {
	return &EvaluationController{DB: db, Validate: validator.New()}
}

var errNoWorkingLink = errors.New("no accepted application links the parties")

// Create files an evaluation. Companies grade students on their projects,
// students grade the company behind a project they worked on. The affected
// average is recomputed in the same transaction.
// POST /api/evaluations/
func (ec *EvaluationController) Create(c *fiber.Ctx) error {
	role := authMid.GetUserRole(c)
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req evaluationDTO.CreateEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ec.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	studentID, _ := uuid.Parse(req.StudentID)
	projectID, _ := uuid.Parse(req.ProjectID)

	var project projectModel.ProjectModel
	if err := ec.DB.First(&project, "id = ?", projectID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Project not found")
	}

	var direction string
	switch role {
	case constants.RoleCompany:
		var company companyModel.CompanyProfileModel
		if err := ec.DB.First(&company, "user_id = ?", userID).Error; err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Company profile not found")
		}
		if company.ID != project.CompanyID {
			return helper.JsonError(c, fiber.StatusForbidden, "Not your project")
		}
		direction = evaluationModel.DirectionCompanyToStudent
	case constants.RoleStudent:
		var student studentModel.StudentProfileModel
		if err := ec.DB.First(&student, "user_id = ?", userID).Error; err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
		}
		if student.ID != studentID {
			return helper.JsonError(c, fiber.StatusForbidden, "Students evaluate as themselves")
		}
		direction = evaluationModel.DirectionStudentToCompany
	case constants.RoleAdmin:
		direction = evaluationModel.DirectionCompanyToStudent
	default:
		return helper.JsonError(c, fiber.StatusForbidden, "This role does not file evaluations")
	}

	if err := ec.requireWorkedTogether(studentID, projectID); err != nil {
		return helper.JsonError(c, fiber.StatusConflict, "Student never worked on this project")
	}

	evaluation := evaluationModel.EvaluationModel{
		StudentID:           studentID,
		EvaluatorID:         userID,
		ProjectID:           projectID,
		Score:               req.Score,
		Comments:            req.Comments,
		Type:                req.Type,
		Direction:           direction,
		Status:              evaluationModel.StatusCompleted,
		Strengths:           req.Strengths,
		AreasForImprovement: req.AreasForImprovement,
	}
	if evaluation.Type == "" {
		evaluation.Type = evaluationModel.TypeFinal
	}
	if req.CategoryID != nil {
		if id, err := uuid.Parse(*req.CategoryID); err == nil {
			evaluation.CategoryID = &id
		}
	}

	err = ec.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&evaluation).Error; err != nil {
			return err
		}
		return recomputeAverages(tx, &evaluation, project.CompanyID)
	})
	if err != nil {
		log.Println("[ERROR] create evaluation:", err)
		return helper.JsonError(c, fiber.StatusConflict, "Could not create evaluation, it may already exist")
	}

	return helper.JsonCreated(c, "evaluation created", evaluation)
}

func (ec *EvaluationController) requireWorkedTogether(studentID, projectID uuid.UUID) error {
	var n int64
	err := ec.DB.Model(&applicationModel.ApplicationModel{}).
		Where("student_id = ? AND project_id = ? AND status IN ?",
			studentID, projectID,
			[]string{applicationModel.StatusAccepted, applicationModel.StatusCompleted}).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return errNoWorkingLink
	}
	return nil
}

// recomputeAverages refreshes student_profiles.gpa/rating or
// companies.rating from the completed evaluations of the direction just
// touched. Zero evaluations leave the average at 0.
func recomputeAverages(tx *gorm.DB, evaluation *evaluationModel.EvaluationModel, companyID uuid.UUID) error {
	switch evaluation.Direction {
	case evaluationModel.DirectionCompanyToStudent:
		var avg *float64
		if err := tx.Model(&evaluationModel.EvaluationModel{}).
			Where("student_id = ? AND direction = ? AND status = ?",
				evaluation.StudentID, evaluation.Direction, evaluationModel.StatusCompleted).
			Select("AVG(score)").Scan(&avg).Error; err != nil {
			return err
		}
		value := 0.0
		if avg != nil {
			value = *avg
		}
		return tx.Model(&studentModel.StudentProfileModel{}).
			Where("id = ?", evaluation.StudentID).
			Updates(map[string]any{"gpa": value, "rating": value}).Error

	case evaluationModel.DirectionStudentToCompany:
		var avg *float64
		if err := tx.Model(&evaluationModel.EvaluationModel{}).
			Joins("JOIN projects p ON p.id = evaluations.project_id").
			Where("p.company_id = ? AND evaluations.direction = ? AND evaluations.status = ?",
				companyID, evaluation.Direction, evaluationModel.StatusCompleted).
			Select("AVG(evaluations.score)").Scan(&avg).Error; err != nil {
			return err
		}
		value := 0.0
		if avg != nil {
			value = *avg
		}
		return tx.Model(&companyModel.CompanyProfileModel{}).
			Where("id = ?", companyID).
			Update("rating", value).Error
	}
	return nil
}

// List is role-scoped like the other review surfaces.
// GET /api/evaluations/
func (ec *EvaluationController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)
	role := authMid.GetUserRole(c)
	userID, _ := authMid.GetUserID(c)

	q := ec.DB.Model(&evaluationModel.EvaluationModel{}).
		Preload("Student.User").Preload("Project").Preload("Category")

	switch role {
	case constants.RoleAdmin:
	case constants.RoleStudent:
		var student studentModel.StudentProfileModel
		if err := ec.DB.First(&student, "user_id = ?", userID).Error; err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
		}
		q = q.Where("student_id = ? OR evaluator_id = ?", student.ID, userID)
	case constants.RoleCompany:
		var company companyModel.CompanyProfileModel
		if err := ec.DB.First(&company, "user_id = ?", userID).Error; err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Company profile not found")
		}
		q = q.Where("project_id IN (?)", ec.DB.Table("projects").
			Select("id").Where("company_id = ?", company.ID))
	default:
		return helper.JsonError(c, fiber.StatusForbidden, "Evaluations are not visible for this role")
	}

	if direction := c.Query("direction"); direction != "" {
		q = q.Where("direction = ?", direction)
	}
	if project := c.Query("project_id"); project != "" {
		if id, err := uuid.Parse(project); err == nil {
			q = q.Where("project_id = ?", id)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list evaluations")
	}

	var evaluations []evaluationModel.EvaluationModel
	if err := q.Order("evaluation_date DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&evaluations).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list evaluations")
	}

	return helper.JsonList(c, "evaluations", evaluations, helper.BuildPagination(total, paging))
}

// Update edits an evaluation. Completed evaluations are frozen for everyone
// but admins.
// PATCH /api/evaluations/:id/
func (ec *EvaluationController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid evaluation id")
	}

	var req evaluationDTO.UpdateEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ec.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var evaluation evaluationModel.EvaluationModel
	if err := ec.DB.First(&evaluation, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Evaluation not found")
	}

	role := authMid.GetUserRole(c)
	userID, _ := authMid.GetUserID(c)
	if role != constants.RoleAdmin {
		if evaluation.Status == evaluationModel.StatusCompleted {
			return helper.JsonError(c, fiber.StatusConflict, "Completed evaluations cannot be edited")
		}
		if evaluation.EvaluatorID != userID {
			return helper.JsonError(c, fiber.StatusForbidden, "Not your evaluation")
		}
	}

	updates := map[string]any{}
	if req.Score != nil {
		updates["score"] = *req.Score
	}
	if req.Comments != nil {
		updates["comments"] = *req.Comments
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Strengths != nil {
		updates["strengths"] = *req.Strengths
	}
	if req.AreasForImprovement != nil {
		updates["areas_for_improvement"] = *req.AreasForImprovement
	}

	var project projectModel.ProjectModel
	if err := ec.DB.First(&project, "id = ?", evaluation.ProjectID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update evaluation")
	}

	err = ec.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&evaluation).Updates(updates).Error; err != nil {
				return err
			}
		}
		if err := tx.First(&evaluation, "id = ?", evaluation.ID).Error; err != nil {
			return err
		}
		return recomputeAverages(tx, &evaluation, project.CompanyID)
	})
	if err != nil {
		log.Println("[ERROR] update evaluation:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update evaluation")
	}

	return helper.JsonUpdated(c, "evaluation updated", evaluation)
}
