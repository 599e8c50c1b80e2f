package controller_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	calendarModel "leanmaker_backend/internals/features/calendar/model"
	calendarRoute "leanmaker_backend/internals/features/calendar/route"
	"leanmaker_backend/internals/testutil"
)

func newCalendarApp(db *gorm.DB) *fiber.App {
	return testutil.NewApp(func(api fiber.Router) {
		calendarRoute.CalendarRoutes(api, db)
	})
}

func createEvent(t *testing.T, app *fiber.App, token string, extra fiber.Map) map[string]any {
	t.Helper()
	payload := fiber.Map{
		"title":    "Reunión de avance",
		"start_at": "2030-05-01T10:00:00Z",
		"end_at":   "2030-05-01T11:00:00Z",
	}
	for k, v := range extra {
		payload[k] = v
	}
	resp := testutil.Request(t, app, "POST", "/api/calendar/events/", token, payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return testutil.DecodeBody(t, resp)["data"].(map[string]any)
}

func TestCreateEventSchedulesReminders(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newCalendarApp(db)
	owner, token := testutil.NewUser(t, db, constants.RoleCompany, "dueno@acme.cl")
	guest, _ := testutil.NewUser(t, db, constants.RoleStudent, "invitado@inacapmail.cl")

	data := createEvent(t, app, token, fiber.Map{
		"reminder_minutes": 30,
		"attendee_ids":     []string{guest.ID.String()},
	})
	eventID := data["id"].(string)

	// owner and guest both attend and both get a reminder
	var attendees int64
	require.NoError(t, db.Model(&calendarModel.CalendarEventAttendeeModel{}).
		Where("event_id = ?", eventID).Count(&attendees).Error)
	assert.Equal(t, int64(2), attendees)

	var reminder calendarModel.EventReminderModel
	require.NoError(t, db.Where("event_id = ? AND user_id = ?", eventID, owner.ID).
		First(&reminder).Error)
	expected, _ := time.Parse(time.RFC3339, "2030-05-01T09:30:00Z")
	assert.True(t, reminder.ScheduledFor.Equal(expected),
		"scheduled_for = %s", reminder.ScheduledFor)
}

func TestCreateEventRejectsInvertedRange(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newCalendarApp(db)
	_, token := testutil.NewUser(t, db, constants.RoleCompany, "dueno@acme.cl")

	resp := testutil.Request(t, app, "POST", "/api/calendar/events/", token, fiber.Map{
		"title":    "Al revés",
		"start_at": "2030-05-01T11:00:00Z",
		"end_at":   "2030-05-01T10:00:00Z",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRescheduleMovesReminders(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newCalendarApp(db)
	owner, token := testutil.NewUser(t, db, constants.RoleCompany, "dueno@acme.cl")

	data := createEvent(t, app, token, fiber.Map{"reminder_minutes": 60})
	eventID := data["id"].(string)

	resp := testutil.Request(t, app, "PATCH",
		fmt.Sprintf("/api/calendar/events/%s/", eventID), token, fiber.Map{
			"start_at": "2030-05-02T10:00:00Z",
			"end_at":   "2030-05-02T11:00:00Z",
		})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reminder calendarModel.EventReminderModel
	require.NoError(t, db.Where("event_id = ? AND user_id = ?", eventID, owner.ID).
		First(&reminder).Error)
	expected, _ := time.Parse(time.RFC3339, "2030-05-02T09:00:00Z")
	assert.True(t, reminder.ScheduledFor.Equal(expected),
		"scheduled_for = %s", reminder.ScheduledFor)
}

func TestAttendeeVisibilityAndOwnerGuard(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newCalendarApp(db)
	_, ownerToken := testutil.NewUser(t, db, constants.RoleCompany, "dueno@acme.cl")
	guest, guestToken := testutil.NewUser(t, db, constants.RoleStudent, "invitado@inacapmail.cl")
	_, strangerToken := testutil.NewUser(t, db, constants.RoleStudent, "extrano@inacapmail.cl")

	data := createEvent(t, app, ownerToken, fiber.Map{
		"attendee_ids": []string{guest.ID.String()},
	})
	eventID := data["id"].(string)

	resp := testutil.Request(t, app, "GET",
		fmt.Sprintf("/api/calendar/events/%s/", eventID), guestToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = testutil.Request(t, app, "GET",
		fmt.Sprintf("/api/calendar/events/%s/", eventID), strangerToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// attendees cannot edit
	resp = testutil.Request(t, app, "PATCH",
		fmt.Sprintf("/api/calendar/events/%s/", eventID), guestToken,
		fiber.Map{"title": "Secuestrado"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRemoveAttendeeButNeverOwner(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newCalendarApp(db)
	owner, ownerToken := testutil.NewUser(t, db, constants.RoleCompany, "dueno@acme.cl")
	guest, _ := testutil.NewUser(t, db, constants.RoleStudent, "invitado@inacapmail.cl")

	data := createEvent(t, app, ownerToken, fiber.Map{
		"attendee_ids": []string{guest.ID.String()},
	})
	eventID := data["id"].(string)

	resp := testutil.Request(t, app, "DELETE",
		fmt.Sprintf("/api/calendar/events/%s/attendees/%s/", eventID, guest.ID), ownerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = testutil.Request(t, app, "DELETE",
		fmt.Sprintf("/api/calendar/events/%s/attendees/%s/", eventID, owner.ID), ownerToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeleteEventCascades(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newCalendarApp(db)
	_, token := testutil.NewUser(t, db, constants.RoleCompany, "dueno@acme.cl")

	data := createEvent(t, app, token, fiber.Map{"reminder_minutes": 15})
	eventID := data["id"].(string)

	resp := testutil.Request(t, app, "DELETE",
		fmt.Sprintf("/api/calendar/events/%s/", eventID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var events, attendees, reminders int64
	db.Model(&calendarModel.CalendarEventModel{}).Where("id = ?", eventID).Count(&events)
	db.Model(&calendarModel.CalendarEventAttendeeModel{}).Where("event_id = ?", eventID).Count(&attendees)
	db.Model(&calendarModel.EventReminderModel{}).Where("event_id = ?", eventID).Count(&reminders)
	assert.Zero(t, events)
	assert.Zero(t, attendees)
	assert.Zero(t, reminders)
}
