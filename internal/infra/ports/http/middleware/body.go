package middleware

import (
	"bytes"
	"io"

	"github.com/labstack/echo/v4"
)

// readBody drains the request body and puts a fresh reader back so the
// handler's Bind still works.
func readBody(c echo.Context) ([]byte, error) {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}

	c.Request().Body = io.NopCloser(bytes.NewReader(raw))

	return raw, nil
}
