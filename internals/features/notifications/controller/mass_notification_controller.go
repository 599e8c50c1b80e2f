// internals/features/notifications/controller/mass_notification_controller.go
package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	notificationDTO "leanmaker_backend/internals/features/notifications/dto"
	notificationModel "leanmaker_backend/internals/features/notifications/model"
	userModel "leanmaker_backend/internals/features/users/user/model"
	helper "leanmaker_backend/internals/helpers"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

var errNoRecipients = errors.New("mass notification has no recipients")

// CreateMass drafts a mass notification. Sending is a separate step.
// POST /api/mass-notifications/
func (nc *NotificationController) CreateMass(c *fiber.Ctx) error {
	creatorID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req notificationDTO.CreateMassNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := nc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	if !req.TargetAllStudents && !req.TargetAllCompanies && len(req.TargetUserIDs) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Mass notification needs at least one target")
	}
	if req.NotificationType == notificationModel.TypeEvent && req.EventDate == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Event notifications need an event_date")
	}

	mass := notificationModel.MassNotificationModel{
		CreatorID:          creatorID,
		Title:              req.Title,
		Message:            req.Message,
		NotificationType:   req.NotificationType,
		Priority:           req.Priority,
		Status:             notificationModel.MassDraft,
		ScheduledAt:        req.ScheduledAt,
		TargetAllStudents:  req.TargetAllStudents,
		TargetAllCompanies: req.TargetAllCompanies,
		EventDate:          req.EventDate,
		EventLocation:      req.EventLocation,
	}
	if mass.NotificationType == "" {
		mass.NotificationType = notificationModel.TypeInfo
	}
	if mass.Priority == "" {
		mass.Priority = "normal"
	}
	if req.ScheduledAt != nil {
		mass.Status = notificationModel.MassScheduled
	}

	err = nc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&mass).Error; err != nil {
			return err
		}
		for _, raw := range req.TargetUserIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				continue
			}
			target := notificationModel.MassNotificationTargetModel{
				MassNotificationID: mass.ID,
				UserID:             id,
			}
			if err := tx.Create(&target).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Println("[ERROR] create mass notification:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not create mass notification")
	}

	return helper.JsonCreated(c, "mass notification created", mass)
}

// ListMass is the admin overview.
// GET /api/mass-notifications/
func (nc *NotificationController) ListMass(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)

	q := nc.DB.Model(&notificationModel.MassNotificationModel{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list mass notifications")
	}

	var items []notificationModel.MassNotificationModel
	if err := q.Order("created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&items).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list mass notifications")
	}

	return helper.JsonList(c, "mass notifications", items, helper.BuildPagination(total, paging))
}

// Send materializes the recipient set, writes one notification per
// recipient and, for event notifications, one pending event registration
// each. The whole fan-out is a single transaction.
// POST /api/mass-notifications/:id/send/
func (nc *NotificationController) Send(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid mass notification id")
	}

	var mass notificationModel.MassNotificationModel
	if err := nc.DB.First(&mass, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Mass notification not found")
	}
	switch mass.Status {
	case notificationModel.MassDraft, notificationModel.MassScheduled, notificationModel.MassFailed:
	case notificationModel.MassSent:
		return helper.JsonOK(c, "mass notification already sent", mass)
	default:
		return helper.JsonError(c, fiber.StatusConflict, "Mass notification cannot be sent from its current status")
	}

	var attempted int
	err = nc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&mass).Update("status", notificationModel.MassSending).Error; err != nil {
			return err
		}

		recipients, err := resolveRecipients(tx, &mass)
		if err != nil {
			return err
		}
		if len(recipients) == 0 {
			return errNoRecipients
		}
		attempted = len(recipients)

		now := time.Now().UTC()
		for _, userID := range recipients {
			note := notificationModel.NotificationModel{
				RecipientID:        userID,
				Title:              mass.Title,
				Message:            mass.Message,
				Type:               mass.NotificationType,
				Priority:           mass.Priority,
				MassNotificationID: &mass.ID,
			}
			if err := tx.Create(&note).Error; err != nil {
				return err
			}
			if mass.NotificationType == notificationModel.TypeEvent {
				reg := notificationModel.EventRegistrationModel{
					MassNotificationID: mass.ID,
					UserID:             userID,
					Status:             notificationModel.RegPending,
				}
				if err := tx.Create(&reg).Error; err != nil {
					return err
				}
			}
		}

		return tx.Model(&mass).Updates(map[string]any{
			"status":      notificationModel.MassSent,
			"sent_at":     now,
			"total_count": len(recipients),
			"sent_count":  len(recipients),
		}).Error
	})
	if err != nil {
		// leave a trace instead of silently resetting to draft
		if uerr := nc.DB.Model(&mass).Updates(map[string]any{
			"status":       notificationModel.MassFailed,
			"total_count":  attempted,
			"failed_count": attempted,
		}).Error; uerr != nil {
			log.Println("[ERROR] mark mass notification failed:", uerr)
		}
		if errors.Is(err, errNoRecipients) {
			return helper.JsonError(c, fiber.StatusConflict, "Mass notification resolved to zero recipients")
		}
		log.Println("[ERROR] send mass notification:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not send mass notification")
	}

	if err := nc.DB.First(&mass, "id = ?", mass.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not load mass notification")
	}
	return helper.JsonUpdated(c, "mass notification sent", mass)
}

// resolveRecipients unions the flag-driven audiences with the explicit
// target rows, deduplicated.
func resolveRecipients(tx *gorm.DB, mass *notificationModel.MassNotificationModel) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]bool{}
	var out []uuid.UUID

	addRole := func(role string) error {
		var ids []uuid.UUID
		if err := tx.Model(&userModel.UserModel{}).
			Where("role = ? AND is_active = ?", role, true).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
		return nil
	}

	if mass.TargetAllStudents {
		if err := addRole(constants.RoleStudent); err != nil {
			return nil, err
		}
	}
	if mass.TargetAllCompanies {
		if err := addRole(constants.RoleCompany); err != nil {
			return nil, err
		}
	}

	var explicit []uuid.UUID
	if err := tx.Model(&notificationModel.MassNotificationTargetModel{}).
		Where("mass_notification_id = ?", mass.ID).
		Pluck("user_id", &explicit).Error; err != nil {
		return nil, err
	}
	for _, id := range explicit {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	return out, nil
}

// CancelMass stops a draft or scheduled fan-out.
// POST /api/mass-notifications/:id/cancel/
func (nc *NotificationController) CancelMass(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid mass notification id")
	}

	var mass notificationModel.MassNotificationModel
	if err := nc.DB.First(&mass, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Mass notification not found")
	}
	if mass.Status != notificationModel.MassDraft && mass.Status != notificationModel.MassScheduled {
		return helper.JsonError(c, fiber.StatusConflict, "Only drafts and scheduled notifications can be cancelled")
	}

	if err := nc.DB.Model(&mass).Update("status", notificationModel.MassCancelled).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not cancel mass notification")
	}
	mass.Status = notificationModel.MassCancelled

	return helper.JsonUpdated(c, "mass notification cancelled", mass)
}

// RespondEvent records the caller's attendance answer to an event.
// POST /api/mass-notifications/:id/respond/
func (nc *NotificationController) RespondEvent(c *fiber.Ctx) error {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid mass notification id")
	}

	var req notificationDTO.RespondEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := nc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var registration notificationModel.EventRegistrationModel
	if err := nc.DB.First(&registration,
		"mass_notification_id = ? AND user_id = ?", id, userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "You are not registered for this event")
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"status":        req.Status,
		"response_date": now,
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if err := nc.DB.Model(&registration).Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not record response")
	}
	registration.Status = req.Status

	return helper.JsonUpdated(c, "event response recorded", registration)
}

// ListEventRegistrations shows who answered what. Admin only.
// GET /api/mass-notifications/:id/registrations/
func (nc *NotificationController) ListEventRegistrations(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid mass notification id")
	}
	paging := helper.ResolvePaging(c)

	q := nc.DB.Model(&notificationModel.EventRegistrationModel{}).
		Where("mass_notification_id = ?", id)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list registrations")
	}

	var registrations []notificationModel.EventRegistrationModel
	if err := q.Order("created_at ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&registrations).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list registrations")
	}

	return helper.JsonList(c, "event registrations", registrations, helper.BuildPagination(total, paging))
}
