package controller

import (
	"meetup-api/core/controller"
	"meetup-api/core/errors"
	"meetup-api/core/middleware"
	"meetup-api/core/params"
	"meetup-api/modules/user/dto"
	"meetup-api/modules/user/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UserController struct {
	service service.UserServiceInterface
	controller.BaseController
}

func NewUserController(service service.UserServiceInterface) *UserController {
	return &UserController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Register creates a new account in the pending state.
// @Summary Register
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.AuthResponse
// @Router /public/auth/register [post]
func (c *UserController) Register(ctx echo.Context) error {
	req := new(dto.RegisterRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.Register(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Registered successfully")
}

// Login authenticates a user and refreshes their push token.
// @Summary Login
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Router /public/auth/login [post]
func (c *UserController) Login(ctx echo.Context) error {
	req := new(dto.LoginRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.Login(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Logged in successfully")
}

// GetMe returns the current user's profile, approval state and badges.
// @Summary Get profile
// @Tags User
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Router /private/users/me [get]
func (c *UserController) GetMe(ctx echo.Context) error {
	userID := middleware.UserIDFromContext(ctx)

	result, appErr := c.service.GetMe(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Profile retrieved successfully")
}

// UpdatePushToken stores a fresh device token for the current user.
// @Summary Update push token
// @Tags User
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdatePushTokenRequest true "Push token"
// @Success 200 {object} map[string]string
// @Router /private/users/push-token [put]
func (c *UserController) UpdatePushToken(ctx echo.Context) error {
	userID := middleware.UserIDFromContext(ctx)

	req := new(dto.UpdatePushTokenRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	if appErr := c.service.UpdatePushToken(ctx.Request().Context(), userID, req.PushToken); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Push token updated successfully")
}

// ListPending returns users waiting for review (admin only).
// @Summary List pending users
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /private/admin/users/pending [get]
func (c *UserController) ListPending(ctx echo.Context) error {
	queryParams := params.NewQueryParams(ctx)

	users, total, appErr := c.service.ListPending(ctx.Request().Context(), *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, map[string]interface{}{
		"items":       users,
		"total_items": total,
	}, "Pending users retrieved successfully")
}

// Approve activates a pending user (admin only).
// @Summary Approve user
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} dto.UserResponse
// @Router /private/admin/users/{id}/approve [post]
func (c *UserController) Approve(ctx echo.Context) error {
	role := middleware.RoleFromContext(ctx)

	userID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user id", nil)
	}

	result, appErr := c.service.Approve(ctx.Request().Context(), role, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "User approved successfully")
}

// Reject declines a pending user (admin only).
// @Summary Reject user
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} dto.UserResponse
// @Router /private/admin/users/{id}/reject [post]
func (c *UserController) Reject(ctx echo.Context) error {
	role := middleware.RoleFromContext(ctx)

	userID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user id", nil)
	}

	result, appErr := c.service.Reject(ctx.Request().Context(), role, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "User rejected successfully")
}
