// internals/features/catalog/route/catalog_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	catalogController "leanmaker_backend/internals/features/catalog/controller"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

// CatalogRoutes mounts the reference tables. Everyone authenticated reads;
// admins mutate.
func CatalogRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := catalogController.NewCatalogController(db)

	authed := authMid.AuthMiddleware(db)
	adminOnly := authMid.OnlyRoles(constants.RoleErrorAdmin("catalog administration"), constants.RoleAdmin)

	areas := api.Group("/areas", authed)
	areas.Get("/", ctrl.ListAreas)
	areas.Post("/", adminOnly, ctrl.CreateArea)
	areas.Patch("/:id/", adminOnly, ctrl.UpdateArea)

	trl := api.Group("/trl-levels", authed)
	trl.Get("/", ctrl.ListTRLLevels)
	trl.Post("/", adminOnly, ctrl.CreateTRLLevel)
	trl.Patch("/:id/", adminOnly, ctrl.UpdateTRLLevel)

	api.Get("/project-statuses/", authed, ctrl.ListProjectStatuses)

	categories := api.Group("/evaluation-categories", authed)
	categories.Get("/", ctrl.ListEvaluationCategories)
	categories.Post("/", adminOnly, ctrl.CreateEvaluationCategory)

	settings := api.Group("/platform-settings", authed)
	settings.Get("/", ctrl.ListSettings)
	settings.Patch("/:key/", adminOnly, ctrl.UpdateSetting)
}
