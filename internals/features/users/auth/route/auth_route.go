// internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "leanmaker_backend/internals/features/users/auth/controller"
	"leanmaker_backend/internals/middlewares"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

// AuthRoutes mounts the token and account endpoints.
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	token := api.Group("/token")
	token.Post("/", middlewares.LoginRateLimiter(), ctrl.Login)
	token.Post("/refresh/", ctrl.RefreshToken)
	token.Post("/verify/", ctrl.VerifyToken)

	auth := api.Group("/auth")
	auth.Post("/register/", middlewares.RegisterRateLimiter(), ctrl.Register)
	auth.Post("/login-google/", middlewares.LoginRateLimiter(), ctrl.LoginGoogle)
	auth.Post("/logout/", authMid.AuthMiddleware(db), ctrl.Logout)

	api.Post("/users/change-password/", authMid.AuthMiddleware(db), ctrl.ChangePassword)
}
