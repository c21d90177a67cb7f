package controller

import (
	"meetup-api/core/controller"
	"meetup-api/core/errors"
	"meetup-api/core/middleware"
	"meetup-api/modules/presence/dto"
	"meetup-api/modules/presence/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type PresenceController struct {
	service service.PresenceServiceInterface
	controller.BaseController
}

func NewPresenceController(service service.PresenceServiceInterface) *PresenceController {
	return &PresenceController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// SetTyping marks the current user as typing (or not) in an event's chat.
// @Summary Set typing indicator
// @Tags Presence
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event id"
// @Param request body dto.SetTypingRequest true "Typing flag"
// @Success 200 {object} map[string]string
// @Router /private/events/{id}/typing [put]
func (c *PresenceController) SetTyping(ctx echo.Context) error {
	userID := middleware.UserIDFromContext(ctx)

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id", nil)
	}

	req := new(dto.SetTypingRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	if appErr := c.service.SetTyping(ctx.Request().Context(), eventID, userID, req.IsTyping); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Typing state updated")
}

// GetTyping lists who is typing in an event's chat, excluding the caller.
// @Summary Get typing indicators
// @Tags Presence
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {array} dto.TypingUserResponse
// @Router /private/events/{id}/typing [get]
func (c *PresenceController) GetTyping(ctx echo.Context) error {
	userID := middleware.UserIDFromContext(ctx)

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id", nil)
	}

	result, appErr := c.service.GetTyping(ctx.Request().Context(), eventID, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Typing state retrieved")
}
