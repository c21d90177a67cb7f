package router

import (
	"meetup-api/core/middleware"
	"meetup-api/modules/presence/controller"

	"github.com/labstack/echo/v4"
)

type PresenceRouter struct {
	controller *controller.PresenceController
}

func NewPresenceRouter(controller *controller.PresenceController) *PresenceRouter {
	return &PresenceRouter{controller: controller}
}

func (r *PresenceRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/events/:id/typing", mw.AuthMiddleware())
	group.PUT("", r.controller.SetTyping)
	group.GET("", r.controller.GetTyping)
}
