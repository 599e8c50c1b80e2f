package controller_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	catalogModel "leanmaker_backend/internals/features/catalog/model"
	catalogRoute "leanmaker_backend/internals/features/catalog/route"
	"leanmaker_backend/internals/testutil"
)

func newCatalogApp(db *gorm.DB) *fiber.App {
	return testutil.NewApp(func(api fiber.Router) {
		catalogRoute.CatalogRoutes(api, db)
	})
}

func TestAreaCRUDAndVisibility(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newCatalogApp(db)
	_, adminToken := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")
	_, studentToken := testutil.NewStudent(t, db, "alumno@inacapmail.cl")

	resp := testutil.Request(t, app, "POST", "/api/areas/", adminToken,
		fiber.Map{"name": "Tecnología", "description": "Desarrollo de software"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	areaID := testutil.DecodeBody(t, resp)["data"].(map[string]any)["id"].(string)

	// duplicate names are rejected by the unique index
	resp = testutil.Request(t, app, "POST", "/api/areas/", adminToken,
		fiber.Map{"name": "Tecnología"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = testutil.Request(t, app, "PATCH", "/api/areas/"+areaID+"/", adminToken,
		fiber.Map{"is_active": false})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// inactive areas drop out of the default listing
	resp = testutil.Request(t, app, "GET", "/api/areas/", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, testutil.DecodeBody(t, resp)["data"].([]any))

	resp = testutil.Request(t, app, "GET", "/api/areas/?include_inactive=true", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, testutil.DecodeBody(t, resp)["data"].([]any), 1)
}

func TestTRLLevelCreateAndUpdate(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newCatalogApp(db)
	_, adminToken := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")

	resp := testutil.Request(t, app, "POST", "/api/trl-levels/", adminToken, fiber.Map{
		"level":     1,
		"name":      "Principios básicos",
		"min_hours": 20,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	levelID := testutil.DecodeBody(t, resp)["data"].(map[string]any)["id"].(string)

	resp = testutil.Request(t, app, "POST", "/api/trl-levels/", adminToken, fiber.Map{
		"level": 1,
		"name":  "Duplicado",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = testutil.Request(t, app, "PATCH", "/api/trl-levels/"+levelID+"/", adminToken,
		fiber.Map{"min_hours": 30})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fresh catalogModel.TRLLevelModel
	require.NoError(t, db.First(&fresh, "id = ?", levelID).Error)
	assert.Equal(t, 30, fresh.MinHours)
}

func TestProjectStatusesListIsSeeded(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newCatalogApp(db)
	_, token := testutil.NewStudent(t, db, "alumno@inacapmail.cl")

	resp := testutil.Request(t, app, "GET", "/api/project-statuses/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	items := testutil.DecodeBody(t, resp)["data"].([]any)
	assert.Len(t, items, 8)
}

func TestPlatformSettingUpdateByKey(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newCatalogApp(db)
	_, adminToken := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")
	require.NoError(t, db.Create(&catalogModel.PlatformSettingModel{
		Key:   "max_strikes",
		Value: "3",
	}).Error)

	resp := testutil.Request(t, app, "PATCH", "/api/platform-settings/max_strikes/",
		adminToken, fiber.Map{"value": "4"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fresh catalogModel.PlatformSettingModel
	require.NoError(t, db.First(&fresh, "key = ?", "max_strikes").Error)
	assert.Equal(t, "4", fresh.Value)

	resp = testutil.Request(t, app, "PATCH", "/api/platform-settings/no_such_key/",
		adminToken, fiber.Map{"value": "x"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCatalogMutationIsAdminOnly(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newCatalogApp(db)
	_, companyToken := testutil.NewCompany(t, db, "empresa@acme.cl")

	resp := testutil.Request(t, app, "POST", "/api/areas/", companyToken,
		fiber.Map{"name": "Intrusa"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = testutil.Request(t, app, "POST", "/api/evaluation-categories/", companyToken,
		fiber.Map{"name": "Intrusa"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
