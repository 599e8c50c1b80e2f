// internals/features/dashboard/route/dashboard_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	dashboardController "leanmaker_backend/internals/features/dashboard/controller"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

func DashboardRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := dashboardController.NewDashboardController(db)

	dashboard := api.Group("/dashboard", authMid.AuthMiddleware(db))

	dashboard.Get("/me/", ctrl.Me)
	dashboard.Get("/admin/",
		authMid.OnlyRoles(constants.RoleErrorAdmin("the admin dashboard"), constants.RoleAdmin),
		ctrl.Admin)
	dashboard.Get("/company/",
		authMid.OnlyRoles(constants.RoleErrorCompany("the company dashboard"), constants.RoleCompany),
		ctrl.Company)
	dashboard.Get("/student/",
		authMid.OnlyRoles(constants.RoleErrorStudent("the student dashboard"), constants.RoleStudent),
		ctrl.Student)
}
