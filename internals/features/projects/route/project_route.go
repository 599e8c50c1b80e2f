// internals/features/projects/route/project_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	catalogModel "leanmaker_backend/internals/features/catalog/model"
	projectController "leanmaker_backend/internals/features/projects/controller"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

func ProjectRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := projectController.NewProjectController(db)

	projects := api.Group("/projects", authMid.AuthMiddleware(db))

	companyOrAdmin := authMid.OnlyRoles(
		constants.RoleErrorCompany("project management"),
		constants.RoleCompany, constants.RoleAdmin,
	)
	studentOnly := authMid.OnlyRoles(constants.RoleErrorStudent("available projects"), constants.RoleStudent)

	projects.Get("/available/", studentOnly, ctrl.ListAvailable)

	projects.Get("/", ctrl.List)
	projects.Post("/", companyOrAdmin, ctrl.Create)
	projects.Get("/:id/", ctrl.Get)
	projects.Patch("/:id/", companyOrAdmin, ctrl.Update)
	projects.Delete("/:id/", companyOrAdmin, ctrl.Delete)

	projects.Post("/:id/publish/", companyOrAdmin, ctrl.ChangeStatus(catalogModel.StatusPublished))
	projects.Post("/:id/activate/", companyOrAdmin, ctrl.ChangeStatus(catalogModel.StatusActive))
	projects.Post("/:id/start/", companyOrAdmin, ctrl.ChangeStatus(catalogModel.StatusInProgress))
	projects.Post("/:id/complete/", companyOrAdmin, ctrl.ChangeStatus(catalogModel.StatusCompleted))
	projects.Post("/:id/cancel/", companyOrAdmin, ctrl.ChangeStatus(catalogModel.StatusCancelled))
	projects.Post("/:id/restore/", companyOrAdmin, ctrl.ChangeStatus(catalogModel.StatusDraft))
	projects.Post("/:id/pause/", companyOrAdmin, ctrl.Pause)
	projects.Post("/:id/resume/", companyOrAdmin, ctrl.Resume)
}
