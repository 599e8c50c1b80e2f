// internals/features/users/teachers/route/teacher_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	teacherController "leanmaker_backend/internals/features/users/teachers/controller"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

func TeacherRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := teacherController.NewTeacherController(db)

	teachers := api.Group("/teachers", authMid.AuthMiddleware(db))

	teacherOnly := authMid.OnlyRoles("Only teachers may access teacher profiles.", constants.RoleTeacher)
	adminOnly := authMid.OnlyRoles(constants.RoleErrorAdmin("teacher administration"), constants.RoleAdmin)

	teachers.Get("/me/", teacherOnly, ctrl.GetMyProfile)
	teachers.Patch("/me/", teacherOnly, ctrl.UpdateMyProfile)
	teachers.Get("/me/students/", teacherOnly, ctrl.ListMyStudents)

	teachers.Post("/supervisions/", adminOnly, ctrl.AssignSupervision)
	teachers.Delete("/supervisions/:id/", adminOnly, ctrl.RemoveSupervision)

	teachers.Get("/", adminOnly, ctrl.ListTeachers)
}
