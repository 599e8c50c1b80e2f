// internals/features/notifications/controller/notification_controller.go
package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	notificationModel "leanmaker_backend/internals/features/notifications/model"
	helper "leanmaker_backend/internals/helpers"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

type NotificationController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db, Validate: validator.New()}
}

// List returns the caller's notifications, newest first.
// GET /api/notifications/
func (nc *NotificationController) List(c *fiber.Ctx) error {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	paging := helper.ResolvePaging(c)

	q := nc.DB.Model(&notificationModel.NotificationModel{}).
		Where("recipient_id = ?", userID)
	if c.Query("include_archived") != "true" {
		q = q.Where("archived = ?", false)
	}
	if read := c.Query("read"); read != "" {
		q = q.Where("read = ?", read == "true")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list notifications")
	}

	var notifications []notificationModel.NotificationModel
	if err := q.Order("created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&notifications).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list notifications")
	}

	return helper.JsonList(c, "notifications", notifications, helper.BuildPagination(total, paging))
}

// UnreadCount returns the badge number.
// GET /api/notifications/unread-count/
func (nc *NotificationController) UnreadCount(c *fiber.Ctx) error {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var count int64
	if err := nc.DB.Model(&notificationModel.NotificationModel{}).
		Where("recipient_id = ? AND read = ? AND archived = ?", userID, false, false).
		Count(&count).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not count notifications")
	}

	return helper.JsonOK(c, "unread count", fiber.Map{"unread": count})
}

// loadOwnNotification fetches :id scoped to the caller.
func (nc *NotificationController) loadOwnNotification(c *fiber.Ctx) (*notificationModel.NotificationModel, error) {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "Invalid notification id")
	}

	var notification notificationModel.NotificationModel
	if err := nc.DB.First(&notification, "id = ? AND recipient_id = ?", id, userID).Error; err != nil {
		return nil, helper.JsonError(c, fiber.StatusNotFound, "Notification not found")
	}
	return &notification, nil
}

// SetRead marks one notification read or unread.
// PATCH /api/notifications/:id/read/ and /api/notifications/:id/unread/
func (nc *NotificationController) SetRead(read bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notification, err := nc.loadOwnNotification(c)
		if err != nil {
			return err
		}

		updates := map[string]any{"read": read}
		if read {
			now := time.Now().UTC()
			updates["read_at"] = now
		} else {
			updates["read_at"] = nil
		}
		wasRead := notification.Read
		err = nc.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(notification).Updates(updates).Error; err != nil {
				return err
			}
			// the mass counter only ever counts up; flipping back to
			// unread does not take a read away
			if read && !wasRead && notification.MassNotificationID != nil {
				return tx.Model(&notificationModel.MassNotificationModel{}).
					Where("id = ?", *notification.MassNotificationID).
					Update("read_count", gorm.Expr("read_count + 1")).Error
			}
			return nil
		})
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update notification")
		}
		notification.Read = read

		return helper.JsonUpdated(c, "notification updated", notification)
	}
}

// MarkAllRead flips every unread notification of the caller.
// POST /api/notifications/mark-all-read/
func (nc *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	now := time.Now().UTC()
	var updated int64
	err = nc.DB.Transaction(func(tx *gorm.DB) error {
		var fanned []struct {
			MassNotificationID uuid.UUID
			N                  int
		}
		if err := tx.Model(&notificationModel.NotificationModel{}).
			Select("mass_notification_id, COUNT(*) AS n").
			Where("recipient_id = ? AND read = ? AND mass_notification_id IS NOT NULL", userID, false).
			Group("mass_notification_id").
			Scan(&fanned).Error; err != nil {
			return err
		}
		for _, f := range fanned {
			if err := tx.Model(&notificationModel.MassNotificationModel{}).
				Where("id = ?", f.MassNotificationID).
				Update("read_count", gorm.Expr("read_count + ?", f.N)).Error; err != nil {
				return err
			}
		}

		res := tx.Model(&notificationModel.NotificationModel{}).
			Where("recipient_id = ? AND read = ?", userID, false).
			Updates(map[string]any{"read": true, "read_at": now})
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected
		return nil
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not mark notifications read")
	}

	return helper.JsonUpdated(c, "notifications marked read", fiber.Map{"updated": updated})
}

// Archive hides a notification from the default listing.
// PATCH /api/notifications/:id/archive/
func (nc *NotificationController) Archive(c *fiber.Ctx) error {
	notification, err := nc.loadOwnNotification(c)
	if err != nil {
		return err
	}

	if !notification.Archived {
		if err := nc.DB.Model(notification).Update("archived", true).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Could not archive notification")
		}
		notification.Archived = true
	}

	return helper.JsonUpdated(c, "notification archived", notification)
}
