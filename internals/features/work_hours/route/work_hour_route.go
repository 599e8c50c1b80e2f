// internals/features/work_hours/route/work_hour_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	workHourController "leanmaker_backend/internals/features/work_hours/controller"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

func WorkHourRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := workHourController.NewWorkHourController(db)

	studentOnly := authMid.OnlyRoles(constants.RoleErrorStudent("work hour submission"), constants.RoleStudent)
	companyOrAdmin := authMid.OnlyRoles(
		constants.RoleErrorCompany("work hour approval"),
		constants.RoleCompany, constants.RoleAdmin,
	)

	hours := api.Group("/work-hours", authMid.AuthMiddleware(db))
	hours.Post("/", studentOnly, ctrl.Submit)
	hours.Get("/", ctrl.List)
	hours.Post("/:id/approve/", companyOrAdmin, ctrl.Approve)
	hours.Post("/:id/unapprove/", companyOrAdmin, ctrl.Unapprove)
	hours.Post("/:id/reject/", companyOrAdmin, ctrl.Reject)
}
