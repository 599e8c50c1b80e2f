// internals/features/projects/controller/project_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	catalogModel "leanmaker_backend/internals/features/catalog/model"
	projectDTO "leanmaker_backend/internals/features/projects/dto"
	projectModel "leanmaker_backend/internals/features/projects/model"
	projectService "leanmaker_backend/internals/features/projects/service"
	companyModel "leanmaker_backend/internals/features/users/companies/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
	helper "leanmaker_backend/internals/helpers"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

type ProjectController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewProjectController(db *gorm.DB) *ProjectController {
	return &ProjectController{DB: db, Validate: validator.New()}
}

func (pc *ProjectController) ownCompany(c *fiber.Ctx) (*companyModel.CompanyProfileModel, error) {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return nil, err
	}
	var company companyModel.CompanyProfileModel
	if err := pc.DB.First(&company, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// Create inserts a draft project owned by the calling company.
// POST /api/projects/
func (pc *ProjectController) Create(c *fiber.Ctx) error {
	company, err := pc.ownCompany(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Company profile not found")
	}
	if company.Status != companyModel.StatusActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Company is not active")
	}

	var req projectDTO.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := pc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	draft, err := projectService.StatusRef(pc.DB, catalogModel.StatusDraft)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not create project")
	}

	project := projectModel.ProjectModel{
		CompanyID:        company.ID,
		StatusID:         draft.ID,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		Requirements:     req.Requirements,
		MaxStudents:      req.MaxStudents,
		DurationWeeks:    req.DurationWeeks,
		HoursPerWeek:     req.HoursPerWeek,
		RequiredHours:    req.RequiredHours,
		Modality:         req.Modality,
		Difficulty:       req.Difficulty,
		MinAPILevel:      req.MinAPILevel,
		Tags:             helper.StringsToJSON(req.Tags),
		Technologies:     helper.StringsToJSON(req.Technologies),
		Benefits:         helper.StringsToJSON(req.Benefits),
		StartDate:        req.StartDate,
		EstimatedEndDate: req.EstimatedEndDate,
	}
	if project.MinAPILevel == 0 {
		project.MinAPILevel = 1
	}
	if req.AreaID != nil {
		if id, err := uuid.Parse(*req.AreaID); err == nil {
			project.AreaID = &id
		}
	}
	if req.TRLID != nil {
		if id, err := uuid.Parse(*req.TRLID); err == nil {
			project.TRLID = &id
		}
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		return tx.Model(&companyModel.CompanyProfileModel{}).
			Where("id = ?", company.ID).
			Update("total_projects", gorm.Expr("total_projects + 1")).Error
	})
	if err != nil {
		log.Println("[ERROR] create project:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not create project")
	}

	return helper.JsonCreated(c, "project created", project)
}

// Update edits the mutable fields. Owner company or admin.
// PATCH /api/projects/:id/
func (pc *ProjectController) Update(c *fiber.Ctx) error {
	project, err := pc.loadOwnedProject(c)
	if err != nil {
		return err
	}

	var req projectDTO.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := pc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Requirements != nil {
		updates["requirements"] = *req.Requirements
	}
	if req.AreaID != nil {
		if id, err := uuid.Parse(*req.AreaID); err == nil {
			updates["area_id"] = id
		}
	}
	if req.TRLID != nil {
		if id, err := uuid.Parse(*req.TRLID); err == nil {
			updates["trl_id"] = id
		}
	}
	if req.MaxStudents != nil {
		if *req.MaxStudents < project.CurrentStudents {
			return helper.JsonError(c, fiber.StatusBadRequest,
				"max_students cannot drop below the number of accepted students")
		}
		updates["max_students"] = *req.MaxStudents
	}
	if req.DurationWeeks != nil {
		updates["duration_weeks"] = *req.DurationWeeks
	}
	if req.HoursPerWeek != nil {
		updates["hours_per_week"] = *req.HoursPerWeek
	}
	if req.RequiredHours != nil {
		updates["required_hours"] = *req.RequiredHours
	}
	if req.Modality != nil {
		updates["modality"] = *req.Modality
	}
	if req.Difficulty != nil {
		updates["difficulty"] = *req.Difficulty
	}
	if req.MinAPILevel != nil {
		updates["min_api_level"] = *req.MinAPILevel
	}
	if req.Tags != nil {
		updates["tags"] = helper.StringsToJSON(req.Tags)
	}
	if req.Technologies != nil {
		updates["technologies"] = helper.StringsToJSON(req.Technologies)
	}
	if req.Benefits != nil {
		updates["benefits"] = helper.StringsToJSON(req.Benefits)
	}
	if req.Featured != nil {
		if authMid.GetUserRole(c) != constants.RoleAdmin {
			return helper.JsonError(c, fiber.StatusForbidden, "Only admins may feature projects")
		}
		updates["featured"] = *req.Featured
	}
	if req.Urgent != nil {
		updates["urgent"] = *req.Urgent
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EstimatedEndDate != nil {
		updates["estimated_end_date"] = *req.EstimatedEndDate
	}
	if len(updates) > 0 {
		if err := pc.DB.Model(project).Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update project")
		}
	}

	if err := pc.DB.Preload("Status").Preload("Area").Preload("TRL").
		First(project, "id = ?", project.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update project")
	}
	return helper.JsonUpdated(c, "project updated", project)
}

// loadOwnedProject fetches the :id project and enforces owner-or-admin.
// On failure it has already written the response.
func (pc *ProjectController) loadOwnedProject(c *fiber.Ctx) (*projectModel.ProjectModel, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "Invalid project id")
	}

	var project projectModel.ProjectModel
	if err := pc.DB.First(&project, "id = ?", id).Error; err != nil {
		return nil, helper.JsonError(c, fiber.StatusNotFound, "Project not found")
	}

	if authMid.GetUserRole(c) == constants.RoleAdmin {
		return &project, nil
	}
	company, err := pc.ownCompany(c)
	if err != nil || company.ID != project.CompanyID {
		return nil, helper.JsonError(c, fiber.StatusForbidden, "Not your project")
	}
	return &project, nil
}

// List is role-scoped: companies see their own projects, students see
// published ones, admins see everything.
// GET /api/projects/
func (pc *ProjectController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)
	role := authMid.GetUserRole(c)

	q := pc.DB.Model(&projectModel.ProjectModel{}).
		Preload("Company").Preload("Status").Preload("Area").Preload("TRL")

	switch role {
	case constants.RoleAdmin, constants.RoleTeacher:
		if status := c.Query("status"); status != "" {
			ref, err := projectService.StatusRef(pc.DB, status)
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, "Unknown status filter")
			}
			q = q.Where("status_id = ?", ref.ID)
		}
	case constants.RoleCompany:
		company, err := pc.ownCompany(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Company profile not found")
		}
		q = q.Where("company_id = ?", company.ID)
		if status := c.Query("status"); status != "" {
			ref, err := projectService.StatusRef(pc.DB, status)
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, "Unknown status filter")
			}
			q = q.Where("status_id = ?", ref.ID)
		}
	default:
		published, err := projectService.StatusRef(pc.DB, catalogModel.StatusPublished)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list projects")
		}
		q = q.Where("status_id = ?", published.ID)
	}

	q = applyProjectFilters(c, q)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list projects")
	}

	var projects []projectModel.ProjectModel
	if err := q.Order("featured DESC, created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&projects).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list projects")
	}

	return helper.JsonList(c, "projects", projects, helper.BuildPagination(total, paging))
}

func applyProjectFilters(c *fiber.Ctx, q *gorm.DB) *gorm.DB {
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if area := c.Query("area_id"); area != "" {
		if id, err := uuid.Parse(area); err == nil {
			q = q.Where("area_id = ?", id)
		}
	}
	if modality := c.Query("modality"); modality != "" {
		q = q.Where("modality = ?", modality)
	}
	if lvl := c.QueryInt("max_api_level"); lvl > 0 {
		q = q.Where("min_api_level <= ?", lvl)
	}
	return q
}

// ListAvailable returns the published projects the calling student can
// actually apply to: free capacity, api_level satisfied, not yet applied.
// GET /api/projects/available/
func (pc *ProjectController) ListAvailable(c *fiber.Ctx) error {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	var student studentModel.StudentProfileModel
	if err := pc.DB.First(&student, "user_id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student profile not found")
	}
	if student.IsSuspended() {
		return helper.JsonError(c, fiber.StatusForbidden, "Suspended students cannot browse available projects")
	}

	published, err := projectService.StatusRef(pc.DB, catalogModel.StatusPublished)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list projects")
	}

	paging := helper.ResolvePaging(c)
	q := pc.DB.Model(&projectModel.ProjectModel{}).
		Preload("Company").Preload("Status").Preload("Area").Preload("TRL").
		Where("status_id = ?", published.ID).
		Where("current_students < max_students").
		Where("min_api_level <= ?", student.APILevel).
		Where("id NOT IN (?)", pc.DB.Table("applications").
			Select("project_id").Where("student_id = ?", student.ID))

	q = applyProjectFilters(c, q)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list projects")
	}

	var projects []projectModel.ProjectModel
	if err := q.Order("featured DESC, published_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&projects).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list projects")
	}

	return helper.JsonList(c, "available projects", projects, helper.BuildPagination(total, paging))
}

// Get returns one project and bumps views_count best effort.
// GET /api/projects/:id/
func (pc *ProjectController) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid project id")
	}

	var project projectModel.ProjectModel
	if err := pc.DB.Preload("Company").Preload("Status").Preload("Area").Preload("TRL").
		First(&project, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Project not found")
	}

	role := authMid.GetUserRole(c)
	if role == constants.RoleStudent {
		name, err := projectService.StatusName(pc.DB, project.StatusID)
		if err != nil || name == catalogModel.StatusDraft || name == catalogModel.StatusDeleted {
			return helper.JsonError(c, fiber.StatusNotFound, "Project not found")
		}
		// view counting is best effort, a failure never blocks the read
		if err := pc.DB.Model(&project).
			Update("views_count", gorm.Expr("views_count + 1")).Error; err != nil {
			log.Println("[ERROR] views_count:", err)
		}
	}

	return helper.JsonOK(c, "project", project)
}

// ChangeStatus drives the plain transitions (publish, activate, start,
// complete, cancel).
func (pc *ProjectController) ChangeStatus(target string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		project, err := pc.loadOwnedProject(c)
		if err != nil {
			return err
		}
		if err := projectService.Transition(pc.DB, project, target); err != nil {
			if errors.Is(err, projectService.ErrBadTransition) {
				return helper.JsonError(c, fiber.StatusConflict, err.Error())
			}
			log.Println("[ERROR] project transition:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not change project status")
		}
		return pc.respondWithProject(c, project.ID, "project status updated")
	}
}

// POST /api/projects/:id/pause/
func (pc *ProjectController) Pause(c *fiber.Ctx) error {
	project, err := pc.loadOwnedProject(c)
	if err != nil {
		return err
	}
	if err := projectService.Pause(pc.DB, project); err != nil {
		if errors.Is(err, projectService.ErrBadTransition) {
			return helper.JsonError(c, fiber.StatusConflict, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not pause project")
	}
	return pc.respondWithProject(c, project.ID, "project paused")
}

// POST /api/projects/:id/resume/
func (pc *ProjectController) Resume(c *fiber.Ctx) error {
	project, err := pc.loadOwnedProject(c)
	if err != nil {
		return err
	}
	if err := projectService.Resume(pc.DB, project); err != nil {
		if errors.Is(err, projectService.ErrBadTransition) {
			return helper.JsonError(c, fiber.StatusConflict, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not resume project")
	}
	return pc.respondWithProject(c, project.ID, "project resumed")
}

// Delete moves the project to the deleted status. The row stays for
// history.
// DELETE /api/projects/:id/
func (pc *ProjectController) Delete(c *fiber.Ctx) error {
	project, err := pc.loadOwnedProject(c)
	if err != nil {
		return err
	}
	if err := projectService.Transition(pc.DB, project, catalogModel.StatusDeleted); err != nil {
		if errors.Is(err, projectService.ErrBadTransition) {
			return helper.JsonError(c, fiber.StatusConflict, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not delete project")
	}
	return helper.JsonDeleted(c, "project deleted", nil)
}

func (pc *ProjectController) respondWithProject(c *fiber.Ctx, id uuid.UUID, message string) error {
	var project projectModel.ProjectModel
	if err := pc.DB.Preload("Status").First(&project, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not load project")
	}
	return helper.JsonUpdated(c, message, project)
}
