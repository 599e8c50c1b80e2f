package controller_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	opsModel "leanmaker_backend/internals/features/ops/model"
	opsRoute "leanmaker_backend/internals/features/ops/route"
	"leanmaker_backend/internals/testutil"
)

func newOpsApp(db *gorm.DB) *fiber.App {
	return testutil.NewApp(func(api fiber.Router) {
		opsRoute.OpsRoutes(api, db)
	})
}

func TestApiKeyLifecycle(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newOpsApp(db)
	_, token := testutil.NewCompany(t, db, "empresa@acme.cl")

	resp := testutil.Request(t, app, "POST", "/api/api-keys/", token,
		fiber.Map{"name": "Integración ERP"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := testutil.DecodeBody(t, resp)["data"].(map[string]any)
	keyID := data["id"].(string)
	secret := data["key"].(string)
	assert.Len(t, secret, 64)

	resp = testutil.Request(t, app, "POST",
		fmt.Sprintf("/api/api-keys/%s/regenerate/", keyID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	rotated := testutil.DecodeBody(t, resp)["data"].(map[string]any)["key"].(string)
	assert.NotEqual(t, secret, rotated)

	resp = testutil.Request(t, app, "DELETE",
		fmt.Sprintf("/api/api-keys/%s/", keyID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fresh opsModel.ApiKeyModel
	require.NoError(t, db.First(&fresh, "id = ?", keyID).Error)
	assert.False(t, fresh.IsActive)
}

func TestApiKeysAreOwnerScoped(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newOpsApp(db)
	_, ownerToken := testutil.NewCompany(t, db, "empresa@acme.cl")
	_, intruderToken := testutil.NewCompany(t, db, "otra@empresa.cl")

	resp := testutil.Request(t, app, "POST", "/api/api-keys/", ownerToken,
		fiber.Map{"name": "Clave propia"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	keyID := testutil.DecodeBody(t, resp)["data"].(map[string]any)["id"].(string)

	resp = testutil.Request(t, app, "DELETE",
		fmt.Sprintf("/api/api-keys/%s/", keyID), intruderToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = testutil.Request(t, app, "GET", "/api/api-keys/", intruderToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, testutil.DecodeBody(t, resp)["data"].([]any))
}

func TestRateLimitUpsert(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newOpsApp(db)
	_, adminToken := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")
	target, _ := testutil.NewUser(t, db, "company", "empresa@acme.cl")

	body := fiber.Map{
		"user_id":             target.ID.String(),
		"endpoint":            "/api/projects/",
		"requests_per_minute": 30,
		"requests_per_hour":   600,
	}
	resp := testutil.Request(t, app, "PUT", "/api/rate-limits/", adminToken, body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body["requests_per_minute"] = 10
	resp = testutil.Request(t, app, "PUT", "/api/rate-limits/", adminToken, body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var policies []opsModel.ApiRateLimitModel
	require.NoError(t, db.Find(&policies).Error)
	require.Len(t, policies, 1)
	assert.Equal(t, 10, policies[0].RequestsPerMinute)
}

func TestBackupRecordCompletesImmediately(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newOpsApp(db)
	_, adminToken := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")

	resp := testutil.Request(t, app, "POST", "/api/backups/", adminToken,
		fiber.Map{"name": "respaldo-semanal"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := testutil.DecodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, "completed", data["status"])
	assert.Equal(t, "full", data["kind"])
	assert.NotNil(t, data["completed_at"])
}

func TestReportGeneration(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newOpsApp(db)
	_, adminToken := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")

	resp := testutil.Request(t, app, "POST", "/api/reports/", adminToken, fiber.Map{
		"report_type": "strikes",
		"parameters":  fiber.Map{"from": "2026-01-01", "to": "2026-06-30"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = testutil.Request(t, app, "GET", "/api/reports/?report_type=strikes", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, testutil.DecodeBody(t, resp)["data"].([]any), 1)

	resp = testutil.Request(t, app, "GET", "/api/reports/?report_type=hours", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, testutil.DecodeBody(t, resp)["data"].([]any))
}

func TestOpsAdminGuards(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newOpsApp(db)
	_, studentToken := testutil.NewStudent(t, db, "alumno@inacapmail.cl")

	for _, path := range []string{"/api/activity-logs/", "/api/rate-limits/", "/api/backups/", "/api/reports/"} {
		resp := testutil.Request(t, app, "GET", path, studentToken, nil)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, path)
	}
}
