// internals/features/applications/controller/interview_controller.go
package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applicationDTO "leanmaker_backend/internals/features/applications/dto"
	applicationModel "leanmaker_backend/internals/features/applications/model"
	helper "leanmaker_backend/internals/helpers"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

// ScheduleInterview books an interview for a non-terminal application and
// flips it to interviewed.
// POST /api/applications/:id/interviews/
func (ac *ApplicationController) ScheduleInterview(c *fiber.Ctx) error {
	application, err := ac.loadScopedApplication(c)
	if err != nil {
		return err
	}
	if application.IsTerminal() || application.Status == applicationModel.StatusAccepted {
		return helper.JsonError(c, fiber.StatusConflict, "Application already resolved")
	}

	var req applicationDTO.ScheduleInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	if req.ScheduledAt.Before(time.Now()) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Interview must be scheduled in the future")
	}

	interviewerID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	interview := applicationModel.InterviewModel{
		ApplicationID:   application.ID,
		InterviewerID:   interviewerID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Type:            req.Type,
		Status:          applicationModel.InterviewScheduled,
	}
	if interview.DurationMinutes == 0 {
		interview.DurationMinutes = 30
	}

	if err := ac.DB.Create(&interview).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not schedule interview")
	}
	if application.Status != applicationModel.StatusInterviewed {
		if err := ac.DB.Model(application).
			Update("status", applicationModel.StatusInterviewed).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not schedule interview")
		}
	}

	ac.notifyStudent(application, "Interview scheduled",
		"An interview has been scheduled for your application.", "info")

	return helper.JsonCreated(c, "interview scheduled", interview)
}

// ListInterviews returns the interviews of one application.
// GET /api/applications/:id/interviews/
func (ac *ApplicationController) ListInterviews(c *fiber.Ctx) error {
	application, err := ac.loadScopedApplication(c)
	if err != nil {
		return err
	}

	var interviews []applicationModel.InterviewModel
	if err := ac.DB.
		Where("application_id = ?", application.ID).
		Order("scheduled_at ASC").
		Find(&interviews).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list interviews")
	}

	return helper.JsonOK(c, "interviews", interviews)
}

// CloseInterview records the outcome of a scheduled interview.
// PATCH /api/interviews/:id/
func (ac *ApplicationController) CloseInterview(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid interview id")
	}

	var req applicationDTO.CloseInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var interview applicationModel.InterviewModel
	if err := ac.DB.Preload("Application.Project").
		First(&interview, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Interview not found")
	}
	if interview.Status != applicationModel.InterviewScheduled {
		return helper.JsonError(c, fiber.StatusConflict, "Interview already closed")
	}

	updates := map[string]any{"status": req.Status}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.Feedback != nil {
		updates["feedback"] = *req.Feedback
	}
	if err := ac.DB.Model(&interview).Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not close interview")
	}
	interview.Status = req.Status

	return helper.JsonUpdated(c, "interview closed", interview)
}
