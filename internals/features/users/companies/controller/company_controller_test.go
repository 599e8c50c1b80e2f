package controller_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	companyModel "leanmaker_backend/internals/features/users/companies/model"
	companyRoute "leanmaker_backend/internals/features/users/companies/route"
	"leanmaker_backend/internals/testutil"
)

func newCompanyApp(db *gorm.DB) *fiber.App {
	return testutil.NewApp(func(api fiber.Router) {
		companyRoute.CompanyRoutes(api, db)
	})
}

func TestUpdateOwnCompany(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newCompanyApp(db)
	company, token := testutil.NewCompany(t, db, "empresa@acme.cl")

	resp := testutil.Request(t, app, "PATCH", "/api/companies/me/", token, fiber.Map{
		"industry":     "Logística",
		"size":         "51-200",
		"technologies": []string{"Go", "React"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fresh companyModel.CompanyProfileModel
	require.NoError(t, db.First(&fresh, "id = ?", company.ID).Error)
	assert.Equal(t, "Logística", fresh.Industry)
	assert.Equal(t, "51-200", fresh.Size)
}

func TestNonAdminsOnlySeeActiveCompanies(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newCompanyApp(db)
	_, studentToken := testutil.NewStudent(t, db, "alumno@inacapmail.cl")

	active, _ := testutil.NewCompany(t, db, "activa@acme.cl")
	suspended, _ := testutil.NewCompany(t, db, "castigada@acme.cl")
	require.NoError(t, db.Model(suspended).
		Update("status", companyModel.StatusSuspended).Error)

	resp := testutil.Request(t, app, "GET", "/api/companies/", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	items := testutil.DecodeBody(t, resp)["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, active.ID.String(), items[0].(map[string]any)["id"])

	resp = testutil.Request(t, app, "GET",
		fmt.Sprintf("/api/companies/%s/", suspended.ID), studentToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminSuspendsAndReactivates(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newCompanyApp(db)
	_, adminToken := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")
	company, _ := testutil.NewCompany(t, db, "empresa@acme.cl")
	base := fmt.Sprintf("/api/companies/%s/status/", company.ID)

	resp := testutil.Request(t, app, "PATCH", base, adminToken,
		fiber.Map{"status": companyModel.StatusSuspended})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fresh companyModel.CompanyProfileModel
	require.NoError(t, db.First(&fresh, "id = ?", company.ID).Error)
	assert.Equal(t, companyModel.StatusSuspended, fresh.Status)

	resp = testutil.Request(t, app, "PATCH", base, adminToken,
		fiber.Map{"status": companyModel.StatusActive})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, db.First(&fresh, "id = ?", company.ID).Error)
	assert.Equal(t, companyModel.StatusActive, fresh.Status)
}

func TestVerifyIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newCompanyApp(db)
	_, adminToken := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")
	company, _ := testutil.NewCompany(t, db, "empresa@acme.cl")
	path := fmt.Sprintf("/api/companies/%s/verify/", company.ID)

	for i := 0; i < 2; i++ {
		resp := testutil.Request(t, app, "PATCH", path, adminToken, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	var fresh companyModel.CompanyProfileModel
	require.NoError(t, db.First(&fresh, "id = ?", company.ID).Error)
	assert.True(t, fresh.Verified)
}

func TestOnlyAdminsChangeCompanyStatus(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newCompanyApp(db)
	company, ownToken := testutil.NewCompany(t, db, "empresa@acme.cl")

	resp := testutil.Request(t, app, "PATCH",
		fmt.Sprintf("/api/companies/%s/status/", company.ID), ownToken,
		fiber.Map{"status": companyModel.StatusActive})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
