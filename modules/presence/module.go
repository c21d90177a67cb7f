package presence

import (
	"meetup-api/core/cache"
	"meetup-api/core/middleware"
	"meetup-api/modules/presence/controller"
	"meetup-api/modules/presence/router"
	"meetup-api/modules/presence/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, c cache.Cache, users service.UserSource, mw *middleware.Middleware) {
	svc := service.NewPresenceService(c, users)
	ctrl := controller.NewPresenceController(svc)

	router.NewPresenceRouter(ctrl).Register(e, mw)
}
