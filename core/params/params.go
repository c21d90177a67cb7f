package params

import (
	"strconv"

	"meetup-api/core/constants"

	"github.com/labstack/echo/v4"
)

// QueryParams holds common list-endpoint query parameters.
type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
}

func NewQueryParams(ctx echo.Context) *QueryParams {
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))
	if limit < 1 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}

	return &QueryParams{
		PageNumber: page,
		PageSize:   limit,
		Search:     ctx.QueryParam("search"),
	}
}
