package controller_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	applicationModel "leanmaker_backend/internals/features/applications/model"
	catalogModel "leanmaker_backend/internals/features/catalog/model"
	companyModel "leanmaker_backend/internals/features/users/companies/model"
	studentModel "leanmaker_backend/internals/features/users/students/model"
	workHourRoute "leanmaker_backend/internals/features/work_hours/route"
	"leanmaker_backend/internals/testutil"
)

type hoursFixture struct {
	app          *fiber.App
	db           *gorm.DB
	company      *companyModel.CompanyProfileModel
	companyToken string
	student      *studentModel.StudentProfileModel
	studentToken string
	projectID    string
}

func newHoursFixture(t *testing.T) *hoursFixture {
	t.Helper()
	db := testutil.OpenDB(t)
	app := testutil.NewApp(func(api fiber.Router) {
		workHourRoute.WorkHourRoutes(api, db)
	})

	company, companyToken := testutil.NewCompany(t, db, "empresa@acme.cl")
	student, studentToken := testutil.NewStudent(t, db, "alumno@inacapmail.cl")
	project := testutil.NewProject(t, db, company.ID, catalogModel.StatusInProgress, 1)

	application := applicationModel.ApplicationModel{
		ProjectID: project.ID,
		StudentID: student.ID,
		Status:    applicationModel.StatusAccepted,
	}
	require.NoError(t, db.Create(&application).Error)
	require.NoError(t, db.Create(&applicationModel.AssignmentModel{
		ApplicationID: application.ID,
		Status:        applicationModel.AssignmentActive,
	}).Error)

	return &hoursFixture{
		app: app, db: db,
		company: company, companyToken: companyToken,
		student: student, studentToken: studentToken,
		projectID: project.ID.String(),
	}
}

func (f *hoursFixture) submit(t *testing.T, hours float64) map[string]any {
	t.Helper()
	resp := testutil.Request(t, f.app, "POST", "/api/work-hours/", f.studentToken, fiber.Map{
		"project_id":   f.projectID,
		"date":         "2026-08-20",
		"hours_worked": hours,
		"description":  "Desarrollo de módulos",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return testutil.DecodeBody(t, resp)["data"].(map[string]any)
}

func TestSubmitRejectsOverDailyCap(t *testing.T) {
	f := newHoursFixture(t)
	resp := testutil.Request(t, f.app, "POST", "/api/work-hours/", f.studentToken, fiber.Map{
		"project_id":   f.projectID,
		"date":         "2026-08-20",
		"hours_worked": 13.0,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitRejectsFutureDate(t *testing.T) {
	f := newHoursFixture(t)
	resp := testutil.Request(t, f.app, "POST", "/api/work-hours/", f.studentToken, fiber.Map{
		"project_id":   f.projectID,
		"date":         "2099-01-01",
		"hours_worked": 4.0,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitNeedsActiveAssignment(t *testing.T) {
	f := newHoursFixture(t)
	stranger := testutil.NewProject(t, f.db, f.company.ID, catalogModel.StatusInProgress, 1)

	resp := testutil.Request(t, f.app, "POST", "/api/work-hours/", f.studentToken, fiber.Map{
		"project_id":   stranger.ID.String(),
		"date":         "2026-08-20",
		"hours_worked": 4.0,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestApproveShiftsTotalsAndUnapproveRestores(t *testing.T) {
	f := newHoursFixture(t)
	entry := f.submit(t, 6.0)
	entryID := entry["id"].(string)

	resp := testutil.Request(t, f.app, "POST",
		fmt.Sprintf("/api/work-hours/%s/approve/", entryID), f.companyToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var freshStudent studentModel.StudentProfileModel
	require.NoError(t, f.db.First(&freshStudent, "id = ?", f.student.ID).Error)
	assert.InDelta(t, 6.0, freshStudent.TotalHours, 0.001)

	var freshCompany companyModel.CompanyProfileModel
	require.NoError(t, f.db.First(&freshCompany, "id = ?", f.company.ID).Error)
	assert.InDelta(t, 6.0, freshCompany.TotalHoursOffered, 0.001)

	// approving twice does not double-count
	resp = testutil.Request(t, f.app, "POST",
		fmt.Sprintf("/api/work-hours/%s/approve/", entryID), f.companyToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, f.db.First(&freshStudent, "id = ?", f.student.ID).Error)
	assert.InDelta(t, 6.0, freshStudent.TotalHours, 0.001)

	resp = testutil.Request(t, f.app, "POST",
		fmt.Sprintf("/api/work-hours/%s/unapprove/", entryID), f.companyToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, f.db.First(&freshStudent, "id = ?", f.student.ID).Error)
	assert.InDelta(t, 0.0, freshStudent.TotalHours, 0.001)
	require.NoError(t, f.db.First(&freshCompany, "id = ?", f.company.ID).Error)
	assert.InDelta(t, 0.0, freshCompany.TotalHoursOffered, 0.001)
}

func TestApproveRechecksEntryInsideTransaction(t *testing.T) {
	f := newHoursFixture(t)
	entry := f.submit(t, 6.0)
	entryID := entry["id"].(string)

	// approve the row out of band right after the handler's first read,
	// the way a second approver racing it would
	flipped := false
	require.NoError(t, f.db.Callback().Query().After("gorm:query").
		Register("test:approve_between_reads", func(tx *gorm.DB) {
			if flipped || tx.Statement.Table != "work_hours" {
				return
			}
			flipped = true
			other := f.db.Session(&gorm.Session{NewDB: true})
			assert.NoError(t, other.Exec(
				"UPDATE work_hours SET approved = ? WHERE id = ?", true, entryID).Error)
			assert.NoError(t, other.Exec(
				"UPDATE student_profiles SET total_hours = total_hours + 6 WHERE id = ?",
				f.student.ID).Error)
			assert.NoError(t, other.Exec(
				"UPDATE companies SET total_hours_offered = total_hours_offered + 6 WHERE id = ?",
				f.company.ID).Error)
		}))
	defer f.db.Callback().Query().Remove("test:approve_between_reads")

	resp := testutil.Request(t, f.app, "POST",
		fmt.Sprintf("/api/work-hours/%s/approve/", entryID), f.companyToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// the losing approval must not add the hours a second time
	var freshStudent studentModel.StudentProfileModel
	require.NoError(t, f.db.First(&freshStudent, "id = ?", f.student.ID).Error)
	assert.InDelta(t, 6.0, freshStudent.TotalHours, 0.001)

	var freshCompany companyModel.CompanyProfileModel
	require.NoError(t, f.db.First(&freshCompany, "id = ?", f.company.ID).Error)
	assert.InDelta(t, 6.0, freshCompany.TotalHoursOffered, 0.001)
}

func TestRejectApprovedEntryRollsBackTotals(t *testing.T) {
	f := newHoursFixture(t)
	entry := f.submit(t, 5.0)
	entryID := entry["id"].(string)

	resp := testutil.Request(t, f.app, "POST",
		fmt.Sprintf("/api/work-hours/%s/approve/", entryID), f.companyToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = testutil.Request(t, f.app, "POST",
		fmt.Sprintf("/api/work-hours/%s/reject/", entryID), f.companyToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var freshStudent studentModel.StudentProfileModel
	require.NoError(t, f.db.First(&freshStudent, "id = ?", f.student.ID).Error)
	assert.InDelta(t, 0.0, freshStudent.TotalHours, 0.001)

	// an approved→rejected entry cannot be re-approved
	resp = testutil.Request(t, f.app, "POST",
		fmt.Sprintf("/api/work-hours/%s/approve/", entryID), f.companyToken, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestStudentCannotApprove(t *testing.T) {
	f := newHoursFixture(t)
	entry := f.submit(t, 3.0)

	resp := testutil.Request(t, f.app, "POST",
		fmt.Sprintf("/api/work-hours/%s/approve/", entry["id"]), f.studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
