package handlers

import (
	"github.com/conduitlabs/conduit/backend/internal/apperrors"
	"github.com/labstack/echo/v4"
)

// httpError maps a service/repository error onto its HTTP status.
func httpError(err error) error {
	return echo.NewHTTPError(apperrors.HTTPStatus(err), err.Error())
}
