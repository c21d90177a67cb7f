package controller

import (
	"meetup-api/core/controller"
	"meetup-api/core/errors"
	"meetup-api/core/middleware"
	"meetup-api/core/params"
	"meetup-api/modules/event/dto"
	"meetup-api/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EventController struct {
	service service.EventServiceInterface
	controller.BaseController
}

func NewEventController(service service.EventServiceInterface) *EventController {
	return &EventController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// CreateEvent creates a new event owned by the current user.
// @Summary Create event
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event data"
// @Success 201 {object} dto.EventResponse
// @Router /private/events [post]
func (c *EventController) CreateEvent(ctx echo.Context) error {
	userID := middleware.UserIDFromContext(ctx)

	req := new(dto.CreateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.CreateEvent(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Event created successfully")
}

// GetUpcomingEvents returns the public feed of upcoming events.
// @Summary List upcoming events
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Name filter"
// @Success 200 {object} dto.PaginatedEventResponse
// @Router /private/events [get]
func (c *EventController) GetUpcomingEvents(ctx echo.Context) error {
	queryParams := params.NewQueryParams(ctx)

	result, appErr := c.service.GetUpcomingEvents(ctx.Request().Context(), *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Events retrieved successfully")
}

// GetMyEvents returns events created by the current user.
// @Summary List my events
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.EventResponse
// @Router /private/events/mine [get]
func (c *EventController) GetMyEvents(ctx echo.Context) error {
	userID := middleware.UserIDFromContext(ctx)

	result, appErr := c.service.GetMyEvents(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Events retrieved successfully")
}

// GetJoinedEvents returns events the current user participates in.
// @Summary List joined events
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.EventResponse
// @Router /private/events/joined [get]
func (c *EventController) GetJoinedEvents(ctx echo.Context) error {
	userID := middleware.UserIDFromContext(ctx)

	result, appErr := c.service.GetJoinedEvents(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Events retrieved successfully")
}

// GetEvent returns one event with its participant list.
// @Summary Get event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} dto.EventResponse
// @Router /private/events/{id} [get]
func (c *EventController) GetEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id", nil)
	}

	result, appErr := c.service.GetEventByID(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event retrieved successfully")
}

// UpdateEvent applies creator edits to an event.
// @Summary Update event
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event id"
// @Param request body dto.UpdateEventRequest true "Fields to update"
// @Success 200 {object} dto.EventResponse
// @Router /private/events/{id} [put]
func (c *EventController) UpdateEvent(ctx echo.Context) error {
	userID := middleware.UserIDFromContext(ctx)

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id", nil)
	}

	req := new(dto.UpdateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.UpdateEvent(ctx.Request().Context(), eventID, userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event updated successfully")
}

// DeleteEvent removes an event (creator or admin).
// @Summary Delete event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} map[string]string
// @Router /private/events/{id} [delete]
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	userID := middleware.UserIDFromContext(ctx)
	role := middleware.RoleFromContext(ctx)

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id", nil)
	}

	if appErr := c.service.DeleteEvent(ctx.Request().Context(), eventID, userID, role); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Event deleted successfully")
}

// JoinEvent adds the current user to the event's participants.
// @Summary Join event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} map[string]string
// @Router /private/events/{id}/join [post]
func (c *EventController) JoinEvent(ctx echo.Context) error {
	userID := middleware.UserIDFromContext(ctx)

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id", nil)
	}

	if appErr := c.service.JoinEvent(ctx.Request().Context(), eventID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Joined event successfully")
}

// LeaveEvent removes the current user from the event's participants.
// @Summary Leave event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} map[string]string
// @Router /private/events/{id}/leave [post]
func (c *EventController) LeaveEvent(ctx echo.Context) error {
	userID := middleware.UserIDFromContext(ctx)

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id", nil)
	}

	if appErr := c.service.LeaveEvent(ctx.Request().Context(), eventID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Left event successfully")
}
