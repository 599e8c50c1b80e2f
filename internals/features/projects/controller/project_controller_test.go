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
	projectModel "leanmaker_backend/internals/features/projects/model"
	projectRoute "leanmaker_backend/internals/features/projects/route"
	companyModel "leanmaker_backend/internals/features/users/companies/model"
	"leanmaker_backend/internals/testutil"
)

func newProjectApp(db *gorm.DB) *fiber.App {
	return testutil.NewApp(func(api fiber.Router) {
		projectRoute.ProjectRoutes(api, db)
	})
}

func TestCreateProjectStartsAsDraft(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newProjectApp(db)
	company, token := testutil.NewCompany(t, db, "empresa@acme.cl")

	resp := testutil.Request(t, app, "POST", "/api/projects/", token, fiber.Map{
		"title":        "Plataforma de inventario",
		"description":  "Sistema web para bodegas.",
		"max_students": 2,
		"modality":     "remote",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := testutil.DecodeBody(t, resp)["data"].(map[string]any)

	var project projectModel.ProjectModel
	require.NoError(t, db.First(&project, "id = ?", data["id"]).Error)
	assert.Equal(t, testutil.StatusID(t, db, catalogModel.StatusDraft), project.StatusID)
	assert.Equal(t, 1, project.MinAPILevel)

	var fresh companyModel.CompanyProfileModel
	require.NoError(t, db.First(&fresh, "id = ?", company.ID).Error)
	assert.Equal(t, 1, fresh.TotalProjects)
}

func TestInactiveCompanyCannotCreate(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newProjectApp(db)
	company, token := testutil.NewCompany(t, db, "empresa@acme.cl")
	require.NoError(t, db.Model(company).Update("status", companyModel.StatusSuspended).Error)

	resp := testutil.Request(t, app, "POST", "/api/projects/", token, fiber.Map{
		"title":        "Prohibido",
		"description":  "No debería crearse.",
		"max_students": 1,
		"modality":     "remote",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLifecycleEndpoints(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newProjectApp(db)
	company, token := testutil.NewCompany(t, db, "empresa@acme.cl")
	project := testutil.NewProject(t, db, company.ID, catalogModel.StatusDraft, 1)
	base := fmt.Sprintf("/api/projects/%s", project.ID)

	for _, step := range []string{"publish", "activate", "start"} {
		resp := testutil.Request(t, app, "POST", base+"/"+step+"/", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, step)
	}

	resp := testutil.Request(t, app, "POST", base+"/pause/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = testutil.Request(t, app, "POST", base+"/resume/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = testutil.Request(t, app, "POST", base+"/complete/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// completed projects only leave through deletion
	resp = testutil.Request(t, app, "POST", base+"/publish/", token, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestDeleteAndRestore(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newProjectApp(db)
	company, token := testutil.NewCompany(t, db, "empresa@acme.cl")
	project := testutil.NewProject(t, db, company.ID, catalogModel.StatusDraft, 1)
	base := fmt.Sprintf("/api/projects/%s", project.ID)

	resp := testutil.Request(t, app, "DELETE", base+"/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fresh projectModel.ProjectModel
	require.NoError(t, db.First(&fresh, "id = ?", project.ID).Error)
	assert.Equal(t, testutil.StatusID(t, db, catalogModel.StatusDeleted), fresh.StatusID)

	resp = testutil.Request(t, app, "POST", base+"/restore/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, db.First(&fresh, "id = ?", project.ID).Error)
	assert.Equal(t, testutil.StatusID(t, db, catalogModel.StatusDraft), fresh.StatusID)
}

func TestOnlyOwnerManagesProject(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newProjectApp(db)
	owner, _ := testutil.NewCompany(t, db, "duena@acme.cl")
	_, otherToken := testutil.NewCompany(t, db, "otra@empresa.cl")
	project := testutil.NewProject(t, db, owner.ID, catalogModel.StatusDraft, 1)

	resp := testutil.Request(t, app, "POST",
		fmt.Sprintf("/api/projects/%s/publish/", project.ID), otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAvailableProjectsFiltering(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newProjectApp(db)
	company, _ := testutil.NewCompany(t, db, "empresa@acme.cl")
	student, studentToken := testutil.NewStudent(t, db, "alumno@inacapmail.cl")

	visible := testutil.NewProject(t, db, company.ID, catalogModel.StatusPublished, 2)
	testutil.NewProject(t, db, company.ID, catalogModel.StatusDraft, 2)

	advanced := testutil.NewProject(t, db, company.ID, catalogModel.StatusPublished, 2)
	require.NoError(t, db.Model(advanced).Update("min_api_level", 3).Error)

	full := testutil.NewProject(t, db, company.ID, catalogModel.StatusPublished, 1)
	require.NoError(t, db.Model(full).Update("current_students", 1).Error)

	applied := testutil.NewProject(t, db, company.ID, catalogModel.StatusPublished, 2)
	require.NoError(t, db.Create(&applicationModel.ApplicationModel{
		ProjectID: applied.ID,
		StudentID: student.ID,
		Status:    applicationModel.StatusPending,
	}).Error)

	resp := testutil.Request(t, app, "GET", "/api/projects/available/", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	items := testutil.DecodeBody(t, resp)["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, visible.ID.String(), items[0].(map[string]any)["id"])
}

func TestStudentCannotSeeDrafts(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newProjectApp(db)
	company, _ := testutil.NewCompany(t, db, "empresa@acme.cl")
	_, studentToken := testutil.NewStudent(t, db, "alumno@inacapmail.cl")
	draft := testutil.NewProject(t, db, company.ID, catalogModel.StatusDraft, 1)

	resp := testutil.Request(t, app, "GET",
		fmt.Sprintf("/api/projects/%s/", draft.ID), studentToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateCannotShrinkBelowCurrentStudents(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newProjectApp(db)
	company, token := testutil.NewCompany(t, db, "empresa@acme.cl")
	project := testutil.NewProject(t, db, company.ID, catalogModel.StatusPublished, 3)
	require.NoError(t, db.Model(project).Update("current_students", 2).Error)

	resp := testutil.Request(t, app, "PATCH",
		fmt.Sprintf("/api/projects/%s/", project.ID), token,
		fiber.Map{"max_students": 1})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
