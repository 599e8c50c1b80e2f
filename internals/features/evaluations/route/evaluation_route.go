// internals/features/evaluations/route/evaluation_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	evaluationController "leanmaker_backend/internals/features/evaluations/controller"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

func EvaluationRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := evaluationController.NewEvaluationController(db)

	evaluations := api.Group("/evaluations", authMid.AuthMiddleware(db))

	canEvaluate := authMid.OnlyRoles(
		"Only students, companies or admins may file evaluations.",
		constants.RoleStudent, constants.RoleCompany, constants.RoleAdmin,
	)

	evaluations.Post("/", canEvaluate, ctrl.Create)
	evaluations.Get("/", ctrl.List)
	evaluations.Patch("/:id/", canEvaluate, ctrl.Update)
}
