// internals/features/users/students/route/student_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	studentController "leanmaker_backend/internals/features/users/students/controller"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

func StudentRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := studentController.NewStudentController(db)

	students := api.Group("/students", authMid.AuthMiddleware(db))

	studentOnly := authMid.OnlyRoles(constants.RoleErrorStudent("student profiles"), constants.RoleStudent)
	adminOnly := authMid.OnlyRoles(constants.RoleErrorAdmin("student administration"), constants.RoleAdmin)

	students.Get("/me/", studentOnly, ctrl.GetMyProfile)
	students.Patch("/me/", studentOnly, ctrl.UpdateMyProfile)

	students.Post("/api-level-requests/", studentOnly, ctrl.CreateAPILevelRequest)
	students.Get("/api-level-requests/", ctrl.ListAPILevelRequests)
	students.Patch("/api-level-requests/:id/", adminOnly, ctrl.ResolveAPILevelRequest)

	students.Get("/", ctrl.ListStudents)
	students.Get("/:id/", ctrl.GetStudent)
	students.Patch("/:id/status/", adminOnly, ctrl.ChangeStatus)
}
