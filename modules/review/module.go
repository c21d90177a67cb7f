package review

import (
	"meetup-api/core/database"
	"meetup-api/core/middleware"
	"meetup-api/modules/review/controller"
	"meetup-api/modules/review/repository"
	"meetup-api/modules/review/router"
	"meetup-api/modules/review/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.IDatabase, events service.EventSource, mw *middleware.Middleware) {
	repo := repository.NewReviewRepository(db)
	svc := service.NewReviewService(repo, events)
	ctrl := controller.NewReviewController(svc)

	router.NewReviewRouter(ctrl).Register(e, mw)
}
