package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

var errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")

// userID reads the caller set by the auth middleware.
func userID(c echo.Context) (uuid.UUID, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return uuid.Nil, errUnauthorized
	}
	id, err := uuid.Parse(p.UserID)
	if err != nil {
		return uuid.Nil, errUnauthorized
	}
	return id, nil
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	}
	return id, nil
}

// svcError maps service sentinels onto HTTP responses and logs the failure once.
func svcError(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", http.StatusBadRequest, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	case errors.Is(err, service.ErrUnauthorized):
		l.Warn(event, "status", http.StatusUnauthorized, "error", err)
		return errUnauthorized
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", http.StatusNotFound, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", http.StatusConflict, "error", err)
		return echo.NewHTTPError(http.StatusConflict, "Conflict")
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
