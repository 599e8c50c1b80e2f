// internals/features/calendar/controller/calendar_controller.go
package controller

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	calendarDTO "leanmaker_backend/internals/features/calendar/dto"
	calendarModel "leanmaker_backend/internals/features/calendar/model"
	helper "leanmaker_backend/internals/helpers"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

type CalendarController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewCalendarController(db *gorm.DB) *CalendarController {
	return &CalendarController{DB: db, Validate: validator.New()}
}

// Create books an event with the caller as owner. Attendees get a reminder
// row when reminder_minutes is set.
// POST /api/calendar/events/
func (cc *CalendarController) Create(c *fiber.Ctx) error {
	ownerID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req calendarDTO.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := cc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	if !req.StartAt.Before(req.EndAt) {
		return helper.JsonError(c, fiber.StatusBadRequest, "start_at must be before end_at")
	}

	event := calendarModel.CalendarEventModel{
		OwnerID:         ownerID,
		Title:           req.Title,
		Description:     req.Description,
		Type:            req.Type,
		Priority:        req.Priority,
		Status:          calendarModel.StatusScheduled,
		StartAt:         req.StartAt,
		EndAt:           req.EndAt,
		AllDay:          req.AllDay,
		Location:        req.Location,
		IsOnline:        req.IsOnline,
		MeetingURL:      req.MeetingURL,
		ReminderMinutes: req.ReminderMinutes,
		Color:           req.Color,
	}
	if event.Type == "" {
		event.Type = "meeting"
	}
	if event.Priority == "" {
		event.Priority = "normal"
	}
	if req.ProjectID != nil {
		if id, err := uuid.Parse(*req.ProjectID); err == nil {
			event.ProjectID = &id
		}
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		attendeeIDs := []uuid.UUID{ownerID}
		for _, raw := range req.AttendeeIDs {
			id, err := uuid.Parse(raw)
			if err != nil || id == ownerID {
				continue
			}
			attendeeIDs = append(attendeeIDs, id)
		}
		for _, userID := range attendeeIDs {
			attendee := calendarModel.CalendarEventAttendeeModel{
				EventID: event.ID,
				UserID:  userID,
			}
			if err := tx.Create(&attendee).Error; err != nil {
				return err
			}
			if event.ReminderMinutes > 0 {
				reminder := calendarModel.EventReminderModel{
					EventID:       event.ID,
					UserID:        userID,
					ReminderType:  "notification",
					MinutesBefore: event.ReminderMinutes,
					ScheduledFor:  event.StartAt.Add(-time.Duration(event.ReminderMinutes) * time.Minute),
				}
				if err := tx.Create(&reminder).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Println("[ERROR] create calendar event:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not create event")
	}

	return helper.JsonCreated(c, "event created", event)
}

// List returns the events the caller owns or attends, admins see all.
// Optional from/to window on start_at.
// GET /api/calendar/events/
func (cc *CalendarController) List(c *fiber.Ctx) error {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	paging := helper.ResolvePaging(c)

	q := cc.DB.Model(&calendarModel.CalendarEventModel{}).Preload("Attendees")
	if authMid.GetUserRole(c) != constants.RoleAdmin {
		q = q.Where("owner_id = ? OR id IN (?)", userID,
			cc.DB.Table("calendar_event_attendees").
				Select("event_id").Where("user_id = ?", userID))
	}

	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			q = q.Where("start_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			q = q.Where("start_at < ?", t)
		}
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list events")
	}

	var events []calendarModel.CalendarEventModel
	if err := q.Order("start_at ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&events).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not list events")
	}

	return helper.JsonList(c, "events", events, helper.BuildPagination(total, paging))
}

// loadVisibleEvent fetches :id and checks owner/attendee/admin visibility.
func (cc *CalendarController) loadVisibleEvent(c *fiber.Ctx, requireOwner bool) (*calendarModel.CalendarEventModel, error) {
	userID, err := authMid.GetUserID(c)
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "Invalid event id")
	}

	var event calendarModel.CalendarEventModel
	if err := cc.DB.Preload("Attendees").First(&event, "id = ?", id).Error; err != nil {
		return nil, helper.JsonError(c, fiber.StatusNotFound, "Event not found")
	}

	if authMid.GetUserRole(c) == constants.RoleAdmin || event.OwnerID == userID {
		return &event, nil
	}
	if requireOwner {
		return nil, helper.JsonError(c, fiber.StatusForbidden, "Only the owner may modify this event")
	}
	for _, attendee := range event.Attendees {
		if attendee.UserID == userID {
			return &event, nil
		}
	}
	return nil, helper.JsonError(c, fiber.StatusNotFound, "Event not found")
}

// GET /api/calendar/events/:id/
func (cc *CalendarController) Get(c *fiber.Ctx) error {
	event, err := cc.loadVisibleEvent(c, false)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "event", event)
}

// Update edits a non-terminal event. Owner or admin.
// PATCH /api/calendar/events/:id/
func (cc *CalendarController) Update(c *fiber.Ctx) error {
	event, err := cc.loadVisibleEvent(c, true)
	if err != nil {
		return err
	}
	if event.IsTerminal() {
		return helper.JsonError(c, fiber.StatusConflict, "Completed or cancelled events cannot be edited")
	}

	var req calendarDTO.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := cc.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	start := event.StartAt
	end := event.EndAt
	if req.StartAt != nil {
		start = *req.StartAt
	}
	if req.EndAt != nil {
		end = *req.EndAt
	}
	if !start.Before(end) {
		return helper.JsonError(c, fiber.StatusBadRequest, "start_at must be before end_at")
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.StartAt != nil {
		updates["start_at"] = *req.StartAt
	}
	if req.EndAt != nil {
		updates["end_at"] = *req.EndAt
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.MeetingURL != nil {
		updates["meeting_url"] = *req.MeetingURL
	}
	if req.ReminderMinutes != nil {
		updates["reminder_minutes"] = *req.ReminderMinutes
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(event).Updates(updates).Error; err != nil {
				return err
			}
		}
		if err := tx.First(event, "id = ?", event.ID).Error; err != nil {
			return err
		}
		// a moved start or changed lead time reschedules the pending reminders
		if req.StartAt != nil || req.ReminderMinutes != nil {
			if event.ReminderMinutes > 0 {
				return tx.Model(&calendarModel.EventReminderModel{}).
					Where("event_id = ? AND is_sent = ?", event.ID, false).
					Updates(map[string]any{
						"minutes_before": event.ReminderMinutes,
						"scheduled_for":  event.StartAt.Add(-time.Duration(event.ReminderMinutes) * time.Minute),
					}).Error
			}
			return tx.Where("event_id = ? AND is_sent = ?", event.ID, false).
				Delete(&calendarModel.EventReminderModel{}).Error
		}
		return nil
	})
	if err != nil {
		log.Println("[ERROR] update calendar event:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not update event")
	}

	return helper.JsonUpdated(c, "event updated", event)
}

// Delete removes an event with its attendees and reminders.
// DELETE /api/calendar/events/:id/
func (cc *CalendarController) Delete(c *fiber.Ctx) error {
	event, err := cc.loadVisibleEvent(c, true)
	if err != nil {
		return err
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).
			Delete(&calendarModel.EventReminderModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).
			Delete(&calendarModel.CalendarEventAttendeeModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(event).Error
	})
	if err != nil {
		log.Println("[ERROR] delete calendar event:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not delete event")
	}

	return helper.JsonDeleted(c, "event deleted", nil)
}

// AddAttendee invites another user. Owner or admin, idempotent.
// POST /api/calendar/events/:id/attendees/:userId/
func (cc *CalendarController) AddAttendee(c *fiber.Ctx) error {
	event, err := cc.loadVisibleEvent(c, true)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	for _, attendee := range event.Attendees {
		if attendee.UserID == userID {
			return helper.JsonOK(c, "already an attendee", attendee)
		}
	}

	attendee := calendarModel.CalendarEventAttendeeModel{EventID: event.ID, UserID: userID}
	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&attendee).Error; err != nil {
			return err
		}
		if event.ReminderMinutes > 0 {
			reminder := calendarModel.EventReminderModel{
				EventID:       event.ID,
				UserID:        userID,
				ReminderType:  "notification",
				MinutesBefore: event.ReminderMinutes,
				ScheduledFor:  event.StartAt.Add(-time.Duration(event.ReminderMinutes) * time.Minute),
			}
			return tx.Create(&reminder).Error
		}
		return nil
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not add attendee")
	}

	return helper.JsonCreated(c, "attendee added", attendee)
}

// RemoveAttendee uninvites a user and drops their pending reminders.
// DELETE /api/calendar/events/:id/attendees/:userId/
func (cc *CalendarController) RemoveAttendee(c *fiber.Ctx) error {
	event, err := cc.loadVisibleEvent(c, true)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}
	if userID == event.OwnerID {
		return helper.JsonError(c, fiber.StatusBadRequest, "The owner cannot be removed")
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ? AND user_id = ? AND is_sent = ?", event.ID, userID, false).
			Delete(&calendarModel.EventReminderModel{}).Error; err != nil {
			return err
		}
		return tx.Where("event_id = ? AND user_id = ?", event.ID, userID).
			Delete(&calendarModel.CalendarEventAttendeeModel{}).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not remove attendee")
	}

	return helper.JsonDeleted(c, "attendee removed", nil)
}
