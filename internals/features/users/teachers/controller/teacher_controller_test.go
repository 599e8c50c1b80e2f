package controller_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	teacherModel "leanmaker_backend/internals/features/users/teachers/model"
	teacherRoute "leanmaker_backend/internals/features/users/teachers/route"
	"leanmaker_backend/internals/testutil"
)

func newTeacherApp(db *gorm.DB) *fiber.App {
	return testutil.NewApp(func(api fiber.Router) {
		teacherRoute.TeacherRoutes(api, db)
	})
}

func newTeacher(t *testing.T, db *gorm.DB, email string) (*teacherModel.TeacherProfileModel, string) {
	t.Helper()
	user, token := testutil.NewUser(t, db, "teacher", email)
	profile := teacherModel.TeacherProfileModel{
		UserID:     user.ID,
		Department: "Informática",
	}
	require.NoError(t, db.Create(&profile).Error)
	return &profile, token
}

func TestUpdateOwnTeacherProfile(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newTeacherApp(db)
	teacher, token := newTeacher(t, db, "docente@inacap.cl")

	resp := testutil.Request(t, app, "PATCH", "/api/teachers/me/", token, fiber.Map{
		"department": "Mecánica",
		"position":   "Coordinador de prácticas",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fresh teacherModel.TeacherProfileModel
	require.NoError(t, db.First(&fresh, "id = ?", teacher.ID).Error)
	assert.Equal(t, "Mecánica", fresh.Department)
	assert.Equal(t, "Coordinador de prácticas", fresh.Position)
}

func TestSupervisionAssignmentAndListing(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newTeacherApp(db)
	_, adminToken := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")
	teacher, teacherToken := newTeacher(t, db, "docente@inacap.cl")
	student, _ := testutil.NewStudent(t, db, "alumno@inacapmail.cl")
	testutil.NewStudent(t, db, "otro@inacapmail.cl")

	resp := testutil.Request(t, app, "POST", "/api/teachers/supervisions/", adminToken,
		fiber.Map{"teacher_id": teacher.ID.String(), "student_id": student.ID.String()})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// repeating the link is a no-op
	resp = testutil.Request(t, app, "POST", "/api/teachers/supervisions/", adminToken,
		fiber.Map{"teacher_id": teacher.ID.String(), "student_id": student.ID.String()})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&teacherModel.SupervisionModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	resp = testutil.Request(t, app, "GET", "/api/teachers/me/students/", teacherToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	items := testutil.DecodeBody(t, resp)["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, student.ID.String(), items[0].(map[string]any)["id"])
}

func TestRemoveSupervision(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newTeacherApp(db)
	_, adminToken := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")
	teacher, _ := newTeacher(t, db, "docente@inacap.cl")
	student, _ := testutil.NewStudent(t, db, "alumno@inacapmail.cl")

	supervision := teacherModel.SupervisionModel{TeacherID: teacher.ID, StudentID: student.ID}
	require.NoError(t, db.Create(&supervision).Error)
	path := fmt.Sprintf("/api/teachers/supervisions/%s/", supervision.ID)

	resp := testutil.Request(t, app, "DELETE", path, adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = testutil.Request(t, app, "DELETE", path, adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTeachersCannotAssignSupervisions(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newTeacherApp(db)
	teacher, teacherToken := newTeacher(t, db, "docente@inacap.cl")
	student, _ := testutil.NewStudent(t, db, "alumno@inacapmail.cl")

	resp := testutil.Request(t, app, "POST", "/api/teachers/supervisions/", teacherToken,
		fiber.Map{"teacher_id": teacher.ID.String(), "student_id": student.ID.String()})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
