// internals/features/notifications/route/notification_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leanmaker_backend/internals/constants"
	notificationController "leanmaker_backend/internals/features/notifications/controller"
	authMid "leanmaker_backend/internals/middlewares/auth"
)

func NotificationRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := notificationController.NewNotificationController(db)

	authed := authMid.AuthMiddleware(db)
	adminOnly := authMid.OnlyRoles(constants.RoleErrorAdmin("mass notifications"), constants.RoleAdmin)

	notifications := api.Group("/notifications", authed)
	notifications.Get("/", ctrl.List)
	notifications.Get("/unread-count/", ctrl.UnreadCount)
	notifications.Post("/mark-all-read/", ctrl.MarkAllRead)
	notifications.Patch("/:id/read/", ctrl.SetRead(true))
	notifications.Patch("/:id/unread/", ctrl.SetRead(false))
	notifications.Patch("/:id/archive/", ctrl.Archive)

	mass := api.Group("/mass-notifications", authed)
	mass.Post("/", adminOnly, ctrl.CreateMass)
	mass.Get("/", adminOnly, ctrl.ListMass)
	mass.Post("/:id/send/", adminOnly, ctrl.Send)
	mass.Post("/:id/cancel/", adminOnly, ctrl.CancelMass)
	mass.Get("/:id/registrations/", adminOnly, ctrl.ListEventRegistrations)
	mass.Post("/:id/respond/", ctrl.RespondEvent)
}
