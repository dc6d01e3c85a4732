package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lodging-booking/internal/logging"
	"github.com/iliyamo/lodging-booking/internal/service"
)

// requestTimeout bounds every store round trip made on behalf of a request.
const requestTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}

// serviceError maps a service error to its response.  Validation failures
// are the caller's fault and echo their message; anything else is logged
// and answered with the generic fallback.
func serviceError(c echo.Context, err error, fallback string) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return fail(c, http.StatusBadRequest, verr.Message)
	}
	if errors.Is(err, service.ErrBookingNotFound) {
		return fail(c, http.StatusNotFound, "Booking not found")
	}
	logging.FromContext(c.Request().Context()).Error(fallback, slog.String("error", err.Error()))
	return fail(c, http.StatusInternalServerError, fallback)
}
