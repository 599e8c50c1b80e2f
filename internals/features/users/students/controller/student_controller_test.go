package controller_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	strikeModel "leanmaker_backend/internals/features/strikes/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
	studentRoute "leanmaker_backend/internals/features/users/students/route"
	"leanmaker_backend/internals/testutil"
)

func newStudentApp(db *gorm.DB) *fiber.App {
	return testutil.NewApp(func(api fiber.Router) {
		studentRoute.StudentRoutes(api, db)
	})
}

func TestUpdateOwnProfile(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newStudentApp(db)
	student, token := testutil.NewStudent(t, db, "alumno@inacapmail.cl")

	resp := testutil.Request(t, app, "PATCH", "/api/students/me/", token, fiber.Map{
		"career":   "Ingeniería Informática",
		"semester": 7,
		"skills":   []string{"Go", "PostgreSQL"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fresh studentModel.StudentProfileModel
	require.NoError(t, db.First(&fresh, "id = ?", student.ID).Error)
	assert.Equal(t, "Ingeniería Informática", fresh.Career)
	assert.Equal(t, 7, fresh.Semester)
}

func TestCompaniesOnlySeeApprovedStudents(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newStudentApp(db)
	_, companyToken := testutil.NewCompany(t, db, "empresa@acme.cl")

	approved, _ := testutil.NewStudent(t, db, "aprobado@inacapmail.cl")
	pending, _ := testutil.NewStudent(t, db, "pendiente@inacapmail.cl")
	require.NoError(t, db.Model(pending).
		Update("status", studentModel.StatusPending).Error)

	resp := testutil.Request(t, app, "GET", "/api/students/", companyToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	items := testutil.DecodeBody(t, resp)["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, approved.ID.String(), items[0].(map[string]any)["id"])

	resp = testutil.Request(t, app, "GET",
		fmt.Sprintf("/api/students/%s/", pending.ID), companyToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminApprovesPendingStudent(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newStudentApp(db)
	_, adminToken := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")
	student, _ := testutil.NewStudent(t, db, "alumno@inacapmail.cl")
	require.NoError(t, db.Model(student).
		Update("status", studentModel.StatusPending).Error)

	resp := testutil.Request(t, app, "PATCH",
		fmt.Sprintf("/api/students/%s/status/", student.ID), adminToken,
		fiber.Map{"status": studentModel.StatusApproved})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fresh studentModel.StudentProfileModel
	require.NoError(t, db.First(&fresh, "id = ?", student.ID).Error)
	assert.Equal(t, studentModel.StatusApproved, fresh.Status)
}

func suspendWithStrikes(t *testing.T, db *gorm.DB, student *studentModel.StudentProfileModel, expiresAt *time.Time) {
	t.Helper()
	for i := 0; i < studentModel.SuspensionThreshold; i++ {
		require.NoError(t, db.Create(&strikeModel.StrikeModel{
			StudentID:  student.ID,
			IssuedByID: student.UserID,
			Reason:     "Incumplimiento de horario",
			IsActive:   true,
			ExpiresAt:  expiresAt,
		}).Error)
	}
	require.NoError(t, db.Model(student).Updates(map[string]any{
		"status":  studentModel.StatusSuspended,
		"strikes": studentModel.SuspensionThreshold,
	}).Error)
}

func TestManualUnsuspendBlockedAtThreshold(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newStudentApp(db)
	_, adminToken := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")
	student, _ := testutil.NewStudent(t, db, "alumno@inacapmail.cl")
	suspendWithStrikes(t, db, student, nil)

	resp := testutil.Request(t, app, "PATCH",
		fmt.Sprintf("/api/students/%s/status/", student.ID), adminToken,
		fiber.Map{"status": studentModel.StatusApproved})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestManualUnsuspendSucceedsOnceStrikesExpire(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newStudentApp(db)
	_, adminToken := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")
	student, _ := testutil.NewStudent(t, db, "alumno@inacapmail.cl")
	expired := time.Now().UTC().Add(-time.Hour)
	suspendWithStrikes(t, db, student, &expired)

	resp := testutil.Request(t, app, "PATCH",
		fmt.Sprintf("/api/students/%s/status/", student.ID), adminToken,
		fiber.Map{"status": studentModel.StatusApproved})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fresh studentModel.StudentProfileModel
	require.NoError(t, db.First(&fresh, "id = ?", student.ID).Error)
	assert.Equal(t, studentModel.StatusApproved, fresh.Status)
	assert.Zero(t, fresh.Strikes)
}

func TestAPILevelRequestLifecycle(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newStudentApp(db)
	_, adminToken := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")
	student, studentToken := testutil.NewStudent(t, db, "alumno@inacapmail.cl")

	resp := testutil.Request(t, app, "POST", "/api/students/api-level-requests/",
		studentToken, fiber.Map{"requested_level": 2})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := testutil.DecodeBody(t, resp)["data"].(map[string]any)
	requestID := data["id"].(string)

	// one open petition at a time
	resp = testutil.Request(t, app, "POST", "/api/students/api-level-requests/",
		studentToken, fiber.Map{"requested_level": 3})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = testutil.Request(t, app, "PATCH",
		"/api/students/api-level-requests/"+requestID+"/", adminToken,
		fiber.Map{"approve": true, "feedback": "Cumple los requisitos"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fresh studentModel.StudentProfileModel
	require.NoError(t, db.First(&fresh, "id = ?", student.ID).Error)
	assert.Equal(t, 2, fresh.APILevel)

	// resolving twice is refused
	resp = testutil.Request(t, app, "PATCH",
		"/api/students/api-level-requests/"+requestID+"/", adminToken,
		fiber.Map{"approve": false})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestAPILevelRequestMustRaiseLevel(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newStudentApp(db)
	_, studentToken := testutil.NewStudent(t, db, "alumno@inacapmail.cl")

	resp := testutil.Request(t, app, "POST", "/api/students/api-level-requests/",
		studentToken, fiber.Map{"requested_level": 1})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
