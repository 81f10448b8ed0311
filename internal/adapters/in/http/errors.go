package http

import (
	"errors"
	"net/http"

	"careplan/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps domain errors onto status codes. Unexpected errors get the
// generic fallback message so storage details do not leak to the client.
func writeError(ctx echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return badRequest(ctx, err.Error())
	default:
		ctx.Logger().Errorf("%s: %v", fallback, err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: fallback,
		})
	}
}
