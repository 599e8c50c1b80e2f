package controller_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	notificationModel "leanmaker_backend/internals/features/notifications/model"
	notificationRoute "leanmaker_backend/internals/features/notifications/route"
	"leanmaker_backend/internals/testutil"
)

func newNotificationApp(db *gorm.DB) *fiber.App {
	return testutil.NewApp(func(api fiber.Router) {
		notificationRoute.NotificationRoutes(api, db)
	})
}

func TestReadUnreadAndArchive(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newNotificationApp(db)
	user, token := testutil.NewUser(t, db, constants.RoleStudent, "noti@inacapmail.cl")

	note := notificationModel.NotificationModel{
		RecipientID: user.ID,
		Title:       "Bienvenido",
		Message:     "Tu cuenta fue creada.",
	}
	require.NoError(t, db.Create(&note).Error)

	resp := testutil.Request(t, app, "GET", "/api/notifications/unread-count/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := testutil.DecodeBody(t, resp)
	assert.EqualValues(t, 1, body["data"].(map[string]any)["unread"])

	resp = testutil.Request(t, app, "PATCH",
		fmt.Sprintf("/api/notifications/%s/read/", note.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fresh notificationModel.NotificationModel
	require.NoError(t, db.First(&fresh, "id = ?", note.ID).Error)
	assert.True(t, fresh.Read)
	assert.NotNil(t, fresh.ReadAt)

	resp = testutil.Request(t, app, "PATCH",
		fmt.Sprintf("/api/notifications/%s/unread/", note.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, db.First(&fresh, "id = ?", note.ID).Error)
	assert.False(t, fresh.Read)
	assert.Nil(t, fresh.ReadAt)

	resp = testutil.Request(t, app, "PATCH",
		fmt.Sprintf("/api/notifications/%s/archive/", note.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// archived entries drop out of the default listing
	resp = testutil.Request(t, app, "GET", "/api/notifications/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = testutil.DecodeBody(t, resp)
	assert.Len(t, body["data"].([]any), 0)
}

func TestOthersNotificationsAreInvisible(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newNotificationApp(db)
	owner, _ := testutil.NewUser(t, db, constants.RoleStudent, "owner@inacapmail.cl")
	_, intruderToken := testutil.NewUser(t, db, constants.RoleStudent, "intruso@inacapmail.cl")

	note := notificationModel.NotificationModel{
		RecipientID: owner.ID,
		Title:       "Privado",
		Message:     "Solo para el dueño.",
	}
	require.NoError(t, db.Create(&note).Error)

	resp := testutil.Request(t, app, "PATCH",
		fmt.Sprintf("/api/notifications/%s/read/", note.ID), intruderToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMassNotificationSendFansOut(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newNotificationApp(db)

	_, adminToken := testutil.NewUser(t, db, constants.RoleAdmin, "admin@leanmaker.cl")
	studentA, _ := testutil.NewStudent(t, db, "uno@inacapmail.cl")
	studentB, _ := testutil.NewStudent(t, db, "dos@inacapmail.cl")
	company, _ := testutil.NewCompany(t, db, "empresa@acme.cl")

	resp := testutil.Request(t, app, "POST", "/api/mass-notifications/", adminToken, fiber.Map{
		"title":               "Mantención programada",
		"message":             "La plataforma estará caída el sábado.",
		"target_all_students": true,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	mass := testutil.DecodeBody(t, resp)["data"].(map[string]any)
	massID := mass["id"].(string)

	resp = testutil.Request(t, app, "POST",
		fmt.Sprintf("/api/mass-notifications/%s/send/", massID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&notificationModel.NotificationModel{}).
		Where("recipient_id IN ?", []uuid.UUID{studentA.UserID, studentB.UserID}).
		Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// companies were not targeted
	require.NoError(t, db.Model(&notificationModel.NotificationModel{}).
		Where("recipient_id = ?", company.UserID).Count(&count).Error)
	assert.Zero(t, count)

	var fresh notificationModel.MassNotificationModel
	require.NoError(t, db.First(&fresh, "id = ?", massID).Error)
	assert.Equal(t, notificationModel.MassSent, fresh.Status)
	assert.Equal(t, 2, fresh.TotalCount)

	// re-send is a no-op
	resp = testutil.Request(t, app, "POST",
		fmt.Sprintf("/api/mass-notifications/%s/send/", massID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, db.Model(&notificationModel.NotificationModel{}).
		Where("recipient_id = ?", studentA.UserID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMassReadCounterFollowsRecipients(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newNotificationApp(db)

	_, adminToken := testutil.NewUser(t, db, constants.RoleAdmin, "admin@leanmaker.cl")
	studentA, tokenA := testutil.NewStudent(t, db, "uno@inacapmail.cl")
	_, tokenB := testutil.NewStudent(t, db, "dos@inacapmail.cl")

	resp := testutil.Request(t, app, "POST", "/api/mass-notifications/", adminToken, fiber.Map{
		"title":               "Resultados publicados",
		"message":             "Revisa el estado de tus postulaciones.",
		"target_all_students": true,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	massID := testutil.DecodeBody(t, resp)["data"].(map[string]any)["id"].(string)

	resp = testutil.Request(t, app, "POST",
		fmt.Sprintf("/api/mass-notifications/%s/send/", massID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// every fanned-out row points back at the mass notification
	var fanned notificationModel.NotificationModel
	require.NoError(t, db.First(&fanned, "recipient_id = ?", studentA.UserID).Error)
	require.NotNil(t, fanned.MassNotificationID)
	assert.Equal(t, massID, fanned.MassNotificationID.String())

	resp = testutil.Request(t, app, "PATCH",
		fmt.Sprintf("/api/notifications/%s/read/", fanned.ID), tokenA, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var mass notificationModel.MassNotificationModel
	require.NoError(t, db.First(&mass, "id = ?", massID).Error)
	assert.Equal(t, 1, mass.ReadCount)

	// re-reading does not double count; unreading does not count down
	resp = testutil.Request(t, app, "PATCH",
		fmt.Sprintf("/api/notifications/%s/read/", fanned.ID), tokenA, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = testutil.Request(t, app, "PATCH",
		fmt.Sprintf("/api/notifications/%s/unread/", fanned.ID), tokenA, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, db.First(&mass, "id = ?", massID).Error)
	assert.Equal(t, 1, mass.ReadCount)

	// mark-all-read picks up the other recipient
	resp = testutil.Request(t, app, "POST", "/api/notifications/mark-all-read/", tokenB, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, db.First(&mass, "id = ?", massID).Error)
	assert.Equal(t, 2, mass.ReadCount)
}

func TestEventMassNotificationCreatesRegistrations(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newNotificationApp(db)

	_, adminToken := testutil.NewUser(t, db, constants.RoleAdmin, "admin@leanmaker.cl")
	student, studentToken := testutil.NewStudent(t, db, "uno@inacapmail.cl")

	resp := testutil.Request(t, app, "POST", "/api/mass-notifications/", adminToken, fiber.Map{
		"title":               "Feria de proyectos",
		"message":             "Inscríbete en la feria anual.",
		"notification_type":   "event",
		"event_date":          "2030-10-01T10:00:00Z",
		"event_location":      "Campus Santiago",
		"target_all_students": true,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	massID := testutil.DecodeBody(t, resp)["data"].(map[string]any)["id"].(string)

	resp = testutil.Request(t, app, "POST",
		fmt.Sprintf("/api/mass-notifications/%s/send/", massID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var registration notificationModel.EventRegistrationModel
	require.NoError(t, db.Where("mass_notification_id = ? AND user_id = ?", massID, student.UserID).
		First(&registration).Error)
	assert.Equal(t, notificationModel.RegPending, registration.Status)

	resp = testutil.Request(t, app, "POST",
		fmt.Sprintf("/api/mass-notifications/%s/respond/", massID), studentToken,
		fiber.Map{"status": "confirmed"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&registration, "id = ?", registration.ID).Error)
	assert.Equal(t, notificationModel.RegConfirmed, registration.Status)
	assert.NotNil(t, registration.ResponseDate)
}

func TestMassNotificationNeedsRecipients(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newNotificationApp(db)
	_, adminToken := testutil.NewUser(t, db, constants.RoleAdmin, "admin@leanmaker.cl")

	resp := testutil.Request(t, app, "POST", "/api/mass-notifications/", adminToken, fiber.Map{
		"title":   "Sin destino",
		"message": "Nadie recibirá esto.",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
