package event

import (
	"meetup-api/core/database"
	"meetup-api/core/middleware"
	"meetup-api/modules/event/controller"
	"meetup-api/modules/event/repository"
	"meetup-api/modules/event/router"
	"meetup-api/modules/event/service"
	notifService "meetup-api/modules/notification/service"
	reminderService "meetup-api/modules/reminder/service"

	"github.com/labstack/echo/v4"
)

// Init wires the event module. The repository is returned so the reminder
// worker can resolve participants when a reminder fires.
func Init(e *echo.Group, db database.IDatabase, reminders reminderService.ReminderServiceInterface, notifs *notifService.NotificationService, users service.UserSource, mw *middleware.Middleware) *repository.EventRepository {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, reminders, notifs, users)
	ctrl := controller.NewEventController(svc)

	router.NewEventRouter(ctrl).Register(e, mw)

	return repo
}
