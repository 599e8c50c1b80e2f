package middlewares_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	opsModel "leanmaker_backend/internals/features/ops/model"
	helper "leanmaker_backend/internals/helpers"
	"leanmaker_backend/internals/middlewares"
	authMid "leanmaker_backend/internals/middlewares/auth"
	"leanmaker_backend/internals/testutil"
)

func newLoggedApp(db *gorm.DB) *fiber.App {
	return testutil.NewApp(func(api fiber.Router) {
		api.Use(middlewares.ActivityLogMiddleware(db))
		group := api.Group("/things", authMid.AuthMiddleware(db))
		group.Get("/", func(c *fiber.Ctx) error {
			return helper.JsonOK(c, "things", []string{})
		})
		group.Post("/", func(c *fiber.Ctx) error {
			return helper.JsonCreated(c, "thing created", nil)
		})
	})
}

func TestMutationsAreAudited(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newLoggedApp(db)
	user, token := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")

	resp := testutil.Request(t, app, "POST", "/api/things/", token, fiber.Map{})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var logs []opsModel.ActivityLogModel
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, user.ID, logs[0].UserID)
	assert.Equal(t, "POST /api/things/", logs[0].Action)
}

func TestReadsAndFailuresAreNotAudited(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newLoggedApp(db)
	_, token := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")

	resp := testutil.Request(t, app, "GET", "/api/things/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// unauthenticated mutation fails and stays out of the audit trail
	resp = testutil.Request(t, app, "POST", "/api/things/", "", fiber.Map{})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&opsModel.ActivityLogModel{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestApiKeyUsageIsRecorded(t *testing.T) {
	db := testutil.OpenDB(t)
	app := newLoggedApp(db)
	user, token := testutil.NewUser(t, db, "admin", "admin@leanmaker.cl")

	apiKey := opsModel.ApiKeyModel{OwnerID: user.ID, Name: "integración", IsActive: true}
	require.NoError(t, db.Create(&apiKey).Error)

	req := testutil.NewRequest(t, "GET", "/api/things/", token, nil)
	req.Header.Set("X-API-Key", apiKey.Key)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var usage []opsModel.ApiUsageModel
	require.NoError(t, db.Find(&usage).Error)
	require.Len(t, usage, 1)
	assert.Equal(t, apiKey.ID, usage[0].ApiKeyID)
	assert.Equal(t, "GET", usage[0].Method)

	var fresh opsModel.ApiKeyModel
	require.NoError(t, db.First(&fresh, "id = ?", apiKey.ID).Error)
	assert.Equal(t, 1, fresh.UsageCount)
	assert.NotNil(t, fresh.LastUsedAt)
}
