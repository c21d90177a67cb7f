package controller

import (
	"meetup-api/core/controller"
	"meetup-api/core/errors"
	"meetup-api/core/middleware"
	"meetup-api/core/params"
	"meetup-api/modules/review/dto"
	"meetup-api/modules/review/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ReviewController struct {
	service service.ReviewServiceInterface
	controller.BaseController
}

func NewReviewController(service service.ReviewServiceInterface) *ReviewController {
	return &ReviewController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// SubmitReview rates an event's organizer after the event.
// @Summary Submit review
// @Tags Review
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SubmitReviewRequest true "Review data"
// @Success 201 {object} dto.ReviewResponse
// @Router /private/reviews [post]
func (c *ReviewController) SubmitReview(ctx echo.Context) error {
	userID := middleware.UserIDFromContext(ctx)

	req := new(dto.SubmitReviewRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.SubmitReview(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Review submitted successfully")
}

// GetOrganizerReviews lists reviews received by an organizer.
// @Summary List organizer reviews
// @Tags Review
// @Security BearerAuth
// @Produce json
// @Param id path string true "Organizer id"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /private/reviews/organizer/{id} [get]
func (c *ReviewController) GetOrganizerReviews(ctx echo.Context) error {
	organizerID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid organizer id", nil)
	}

	queryParams := params.NewQueryParams(ctx)
	reviews, total, appErr := c.service.GetOrganizerReviews(ctx.Request().Context(), organizerID, *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, map[string]interface{}{
		"items":       reviews,
		"total_items": total,
	}, "Reviews retrieved successfully")
}
