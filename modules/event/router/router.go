package router

import (
	"meetup-api/core/middleware"
	"meetup-api/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	controller *controller.EventController
}

func NewEventRouter(controller *controller.EventController) *EventRouter {
	return &EventRouter{controller: controller}
}

func (r *EventRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/events", mw.AuthMiddleware())

	group.POST("", r.controller.CreateEvent)
	group.GET("", r.controller.GetUpcomingEvents)
	group.GET("/mine", r.controller.GetMyEvents)
	group.GET("/joined", r.controller.GetJoinedEvents)
	group.GET("/:id", r.controller.GetEvent)
	group.PUT("/:id", r.controller.UpdateEvent)
	group.DELETE("/:id", r.controller.DeleteEvent)

	group.POST("/:id/join", r.controller.JoinEvent)
	group.POST("/:id/leave", r.controller.LeaveEvent)
}
