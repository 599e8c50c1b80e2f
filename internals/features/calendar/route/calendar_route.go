// internals/features/calendar/route/calendar_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	calendarController "leanmaker_backend/internals/features/calendar/controller"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

func CalendarRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := calendarController.NewCalendarController(db)

	events := api.Group("/calendar/events", authMid.AuthMiddleware(db))
	events.Post("/", ctrl.Create)
	events.Get("/", ctrl.List)
	events.Get("/:id/", ctrl.Get)
	events.Patch("/:id/", ctrl.Update)
	events.Delete("/:id/", ctrl.Delete)
	events.Post("/:id/attendees/:userId/", ctrl.AddAttendee)
	events.Delete("/:id/attendees/:userId/", ctrl.RemoveAttendee)
}
