package controller_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	applicationModel "leanmaker_backend/internals/features/applications/model"
	catalogModel "leanmaker_backend/internals/features/catalog/model"
	evaluationRoute "leanmaker_backend/internals/features/evaluations/route"
	companyModel "leanmaker_backend/internals/features/users/companies/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
	"leanmaker_backend/internals/testutil"
)

func newEvaluationApp(db *gorm.DB) *fiber.App {
	return testutil.NewApp(func(api fiber.Router) {
		evaluationRoute.EvaluationRoutes(api, db)
	})
}

func linkStudentToProject(t *testing.T, db *gorm.DB, studentID, projectID uuid.UUID) {
	t.Helper()
	require.NoError(t, db.Create(&applicationModel.ApplicationModel{
		ProjectID: projectID,
		StudentID: studentID,
		Status:    applicationModel.StatusCompleted,
	}).Error)
}

func TestCompanyEvaluationUpdatesStudentGPA(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newEvaluationApp(db)

	company, companyToken := testutil.NewCompany(t, db, "empresa@acme.cl")
	student, _ := testutil.NewStudent(t, db, "alumno@inacapmail.cl")
	projectA := testutil.NewProject(t, db, company.ID, catalogModel.StatusCompleted, 1)
	projectB := testutil.NewProject(t, db, company.ID, catalogModel.StatusCompleted, 1)
	linkStudentToProject(t, db, student.ID, projectA.ID)
	linkStudentToProject(t, db, student.ID, projectB.ID)

	resp := testutil.Request(t, app, "POST", "/api/evaluations/", companyToken, fiber.Map{
		"student_id": student.ID.String(),
		"project_id": projectA.ID.String(),
		"score":      5,
		"comments":   "Excelente trabajo",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = testutil.Request(t, app, "POST", "/api/evaluations/", companyToken, fiber.Map{
		"student_id": student.ID.String(),
		"project_id": projectB.ID.String(),
		"score":      3,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var fresh studentModel.StudentProfileModel
	require.NoError(t, db.First(&fresh, "id = ?", student.ID).Error)
	assert.InDelta(t, 4.0, fresh.GPA, 0.001)
	assert.InDelta(t, 4.0, fresh.Rating, 0.001)
}

func TestStudentEvaluationUpdatesCompanyRating(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newEvaluationApp(db)

	company, _ := testutil.NewCompany(t, db, "empresa@acme.cl")
	student, studentToken := testutil.NewStudent(t, db, "alumno@inacapmail.cl")
	project := testutil.NewProject(t, db, company.ID, catalogModel.StatusCompleted, 1)
	linkStudentToProject(t, db, student.ID, project.ID)

	resp := testutil.Request(t, app, "POST", "/api/evaluations/", studentToken, fiber.Map{
		"student_id": student.ID.String(),
		"project_id": project.ID.String(),
		"score":      4,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var fresh companyModel.CompanyProfileModel
	require.NoError(t, db.First(&fresh, "id = ?", company.ID).Error)
	assert.InDelta(t, 4.0, fresh.Rating, 0.001)
}

func TestEvaluationNeedsSharedProject(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newEvaluationApp(db)

	company, companyToken := testutil.NewCompany(t, db, "empresa@acme.cl")
	student, _ := testutil.NewStudent(t, db, "alumno@inacapmail.cl")
	project := testutil.NewProject(t, db, company.ID, catalogModel.StatusCompleted, 1)

	resp := testutil.Request(t, app, "POST", "/api/evaluations/", companyToken, fiber.Map{
		"student_id": student.ID.String(),
		"project_id": project.ID.String(),
		"score":      5,
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestStudentCannotEvaluateAsSomeoneElse(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newEvaluationApp(db)

	company, _ := testutil.NewCompany(t, db, "empresa@acme.cl")
	student, _ := testutil.NewStudent(t, db, "uno@inacapmail.cl")
	other, otherToken := testutil.NewStudent(t, db, "dos@inacapmail.cl")
	project := testutil.NewProject(t, db, company.ID, catalogModel.StatusCompleted, 1)
	linkStudentToProject(t, db, student.ID, project.ID)

	resp := testutil.Request(t, app, "POST", "/api/evaluations/", otherToken, fiber.Map{
		"student_id": student.ID.String(),
		"project_id": project.ID.String(),
		"score":      5,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	_ = other
}
