package router

import (
	"meetup-api/core/middleware"
	"meetup-api/modules/review/controller"

	"github.com/labstack/echo/v4"
)

type ReviewRouter struct {
	controller *controller.ReviewController
}

func NewReviewRouter(controller *controller.ReviewController) *ReviewRouter {
	return &ReviewRouter{controller: controller}
}

func (r *ReviewRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/reviews", mw.AuthMiddleware())
	group.POST("", r.controller.SubmitReview)
	group.GET("/organizer/:id", r.controller.GetOrganizerReviews)
}
