// internals/features/applications/route/application_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	applicationController "leanmaker_backend/internals/features/applications/controller"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

func ApplicationRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := applicationController.NewApplicationController(db)

	studentOnly := authMid.OnlyRoles(constants.RoleErrorStudent("applications"), constants.RoleStudent)
	companyOrAdmin := authMid.OnlyRoles(
		constants.RoleErrorCompany("application review"),
		constants.RoleCompany, constants.RoleAdmin,
	)

	applications := api.Group("/applications", authMid.AuthMiddleware(db))
	applications.Post("/", studentOnly, ctrl.Create)
	applications.Get("/", ctrl.List)
	applications.Get("/:id/", ctrl.Get)
	applications.Patch("/:id/review/", companyOrAdmin, ctrl.Review)
	applications.Post("/:id/accept/", companyOrAdmin, ctrl.Accept)
	applications.Post("/:id/withdraw/", studentOnly, ctrl.Withdraw)
	applications.Post("/:id/interviews/", companyOrAdmin, ctrl.ScheduleInterview)
	applications.Get("/:id/interviews/", ctrl.ListInterviews)

	api.Patch("/interviews/:id/", authMid.AuthMiddleware(db), companyOrAdmin, ctrl.CloseInterview)
}
