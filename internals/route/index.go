package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	applicationRoute "leanmaker_backend/internals/features/applications/route"
	calendarRoute "leanmaker_backend/internals/features/calendar/route"
	catalogRoute "leanmaker_backend/internals/features/catalog/route"
	dashboardRoute "leanmaker_backend/internals/features/dashboard/route"
	evaluationRoute "leanmaker_backend/internals/features/evaluations/route"
	notificationRoute "leanmaker_backend/internals/features/notifications/route"
	opsRoute "leanmaker_backend/internals/features/ops/route"
	projectRoute "leanmaker_backend/internals/features/projects/route"
	strikeRoute "leanmaker_backend/internals/features/strikes/route"
	authRoute "leanmaker_backend/internals/features/users/auth/route"
	companyRoute "leanmaker_backend/internals/features/users/companies/route"
	studentRoute "leanmaker_backend/internals/features/users/students/route"
	teacherRoute "leanmaker_backend/internals/features/users/teachers/route"
	userRoute "leanmaker_backend/internals/features/users/user/route"
	workHourRoute "leanmaker_backend/internals/features/work_hours/route"
	"leanmaker_backend/internals/middlewares"
)

var startTime time.Time

// SetupRoutes mounts every feature under /api. Registration order matters
// inside each feature file (literal paths before :id), not between features.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app)

	api := app.Group("/api")
	api.Use(middlewares.ActivityLogMiddleware(db))

	log.Println("[INFO] Mounting auth & user routes...")
	authRoute.AuthRoutes(api, db)
	userRoute.UserRoutes(api, db)
	studentRoute.StudentRoutes(api, db)
	companyRoute.CompanyRoutes(api, db)
	teacherRoute.TeacherRoutes(api, db)

	log.Println("[INFO] Mounting catalog routes...")
	catalogRoute.CatalogRoutes(api, db)

	log.Println("[INFO] Mounting project pipeline routes...")
	projectRoute.ProjectRoutes(api, db)
	applicationRoute.ApplicationRoutes(api, db)
	workHourRoute.WorkHourRoutes(api, db)
	evaluationRoute.EvaluationRoutes(api, db)
	strikeRoute.StrikeRoutes(api, db)

	log.Println("[INFO] Mounting notification & calendar routes...")
	notificationRoute.NotificationRoutes(api, db)
	calendarRoute.CalendarRoutes(api, db)

	log.Println("[INFO] Mounting dashboard & ops routes...")
	dashboardRoute.DashboardRoutes(api, db)
	opsRoute.OpsRoutes(api, db)
}
