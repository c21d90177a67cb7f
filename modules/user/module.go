package user

import (
	"meetup-api/core/database"
	"meetup-api/core/middleware"
	notifService "meetup-api/modules/notification/service"
	"meetup-api/modules/user/controller"
	"meetup-api/modules/user/repository"
	"meetup-api/modules/user/router"
	"meetup-api/modules/user/service"

	"github.com/labstack/echo/v4"
)

// Init wires the user module. The repository is returned so other modules
// can resolve user names for notification messages.
func Init(public *echo.Group, private *echo.Group, db database.IDatabase, notifs *notifService.NotificationService, mw *middleware.Middleware) *repository.UserRepository {
	repo := repository.NewUserRepository(db)
	svc := service.NewUserService(repo, notifs)
	ctrl := controller.NewUserController(svc)

	router.NewUserRouter(ctrl).Register(public, private, mw)

	return repo
}
