package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "authd/internal/errors"
)

// dataResponse wraps every successful payload under a "data" key.
type dataResponse struct {
	Data interface{} `json:"data"`
}

// respondError translates a domain error into the error envelope.
func respondError(c echo.Context, err error) error {
	status, body := apperrors.MapError(err)
	return c.JSON(status, body)
}

// badRequest returns a 400 validation envelope.
func badRequest(c echo.Context, detail string) error {
	return c.JSON(http.StatusBadRequest,
		apperrors.NewErrorResponse(http.StatusBadRequest, "Validation Error", detail, ""))
}
