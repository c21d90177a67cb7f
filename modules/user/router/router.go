package router

import (
	"meetup-api/core/middleware"
	"meetup-api/modules/user/controller"

	"github.com/labstack/echo/v4"
)

type UserRouter struct {
	controller *controller.UserController
}

func NewUserRouter(controller *controller.UserController) *UserRouter {
	return &UserRouter{controller: controller}
}

func (r *UserRouter) Register(public *echo.Group, private *echo.Group, mw *middleware.Middleware) {
	auth := public.Group("/auth")
	auth.POST("/register", r.controller.Register)
	auth.POST("/login", r.controller.Login)

	users := private.Group("/users", mw.AuthMiddleware())
	users.GET("/me", r.controller.GetMe)
	users.PUT("/push-token", r.controller.UpdatePushToken)

	admin := private.Group("/admin/users", mw.AuthMiddleware(), mw.AdminMiddleware())
	admin.GET("/pending", r.controller.ListPending)
	admin.POST("/:id/approve", r.controller.Approve)
	admin.POST("/:id/reject", r.controller.Reject)
}
