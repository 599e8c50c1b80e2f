// internals/features/ops/route/ops_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	opsController "leanmaker_backend/internals/features/ops/controller"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

func OpsRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := opsController.NewOpsController(db)

	authed := authMid.AuthMiddleware(db)
	adminOnly := authMid.OnlyRoles(constants.RoleErrorAdmin("platform operations"), constants.RoleAdmin)

	api.Get("/activity-logs/", authed, adminOnly, ctrl.ListActivityLogs)

	keys := api.Group("/api-keys", authed)
	keys.Post("/", ctrl.CreateApiKey)
	keys.Get("/", ctrl.ListApiKeys)
	keys.Post("/:id/regenerate/", ctrl.RegenerateApiKey)
	keys.Delete("/:id/", ctrl.RevokeApiKey)
	keys.Get("/:id/usage/", ctrl.ListApiUsage)

	limits := api.Group("/rate-limits", authed, adminOnly)
	limits.Put("/", ctrl.UpsertRateLimit)
	limits.Get("/", ctrl.ListRateLimits)

	backups := api.Group("/backups", authed, adminOnly)
	backups.Post("/", ctrl.CreateBackup)
	backups.Get("/", ctrl.ListBackups)

	reports := api.Group("/reports", authed, adminOnly)
	reports.Post("/", ctrl.CreateReport)
	reports.Get("/", ctrl.ListReports)
}
