package notification

import (
	"meetup-api/core/database"
	"meetup-api/core/middleware"
	"meetup-api/core/push"
	"meetup-api/modules/notification/controller"
	"meetup-api/modules/notification/repository"
	"meetup-api/modules/notification/router"
	"meetup-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init wires the notification module and returns the service so other
// modules can fan out notifications through it.
func Init(e *echo.Group, db database.IDatabase, sender push.Sender, mw *middleware.Middleware) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo, sender)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(e, mw)

	return svc
}
