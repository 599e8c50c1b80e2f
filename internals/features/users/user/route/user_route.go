// internals/features/users/user/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	userController "leanmaker_backend/internals/features/users/user/controller"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

func UserRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := userController.NewUserController(db)

	users := api.Group("/users", authMid.AuthMiddleware(db))

	users.Get("/profile/", ctrl.GetProfile)
	users.Patch("/profile/", ctrl.UpdateProfile)

	adminOnly := authMid.OnlyRoles(constants.RoleErrorAdmin("user management"), constants.RoleAdmin)
	users.Get("/", adminOnly, ctrl.ListUsers)
	users.Get("/:id/", adminOnly, ctrl.GetUser)
	users.Patch("/:id/activate/", adminOnly, ctrl.SetUserActive(true))
	users.Patch("/:id/deactivate/", adminOnly, ctrl.SetUserActive(false))
}
