package handlers

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/deepsr2003/micro-telegram/internal/application/constant"
	"github.com/deepsr2003/micro-telegram/internal/domain/apperr"
)

// respondError maps a domain error onto its HTTP status class. Store
// failures surface as 500 and are logged; client-caused failures carry
// their message through.
func respondError(c echo.Context, err error) error {
	kind := apperr.KindOf(err)

	if kind == apperr.Internal {
		slog.Error("internal error", slog.Any(constant.Error, err))
		return c.JSON(apperr.HTTPStatus(kind), map[string]string{"error": "server error"})
	}

	return c.JSON(apperr.HTTPStatus(kind), map[string]string{
		"error": err.Error(),
		"kind":  kind.String(),
	})
}
