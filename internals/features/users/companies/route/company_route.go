// internals/features/users/companies/route/company_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	companyController "leanmaker_backend/internals/features/users/companies/controller"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

func CompanyRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := companyController.NewCompanyController(db)

	companies := api.Group("/companies", authMid.AuthMiddleware(db))

	companyOnly := authMid.OnlyRoles(constants.RoleErrorCompany("company profiles"), constants.RoleCompany)
	adminOnly := authMid.OnlyRoles(constants.RoleErrorAdmin("company administration"), constants.RoleAdmin)

	companies.Get("/me/", companyOnly, ctrl.GetMyCompany)
	companies.Patch("/me/", companyOnly, ctrl.UpdateMyCompany)

	companies.Get("/", ctrl.ListCompanies)
	companies.Get("/:id/", ctrl.GetCompany)
	companies.Patch("/:id/status/", adminOnly, ctrl.ChangeStatus)
	companies.Patch("/:id/verify/", adminOnly, ctrl.Verify)
}
