// internals/features/strikes/route/strike_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	strikeController "leanmaker_backend/internals/features/strikes/controller"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

func StrikeRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := strikeController.NewStrikeController(db)

	authed := authMid.AuthMiddleware(db)
	companyOrAdmin := authMid.OnlyRoles(
		constants.RoleErrorCompany("strike management"),
		constants.RoleCompany, constants.RoleAdmin,
	)
	adminOnly := authMid.OnlyRoles(constants.RoleErrorAdmin("strike administration"), constants.RoleAdmin)
	staffOnly := authMid.OnlyRoles(
		constants.RoleErrorStaff("disciplinary records"),
		constants.RoleAdmin, constants.RoleTeacher,
	)

	strikes := api.Group("/strikes", authed)
	strikes.Post("/", companyOrAdmin, ctrl.Issue)
	strikes.Get("/", ctrl.List)
	strikes.Post("/:id/deactivate/", adminOnly, ctrl.Deactivate)

	records := api.Group("/disciplinary-records", authed, staffOnly)
	records.Post("/", ctrl.CreateRecord)
	records.Get("/", ctrl.ListRecords)
	records.Patch("/:id/resolve/", ctrl.ResolveRecord)
}
