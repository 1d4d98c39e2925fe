package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"authd/internal/auth"
	apperrors "authd/internal/errors"
	"authd/internal/service"
)

// UserHandler handles profile and account lifecycle endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateUserRequest is a merge update: absent fields stay untouched.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=64"`
	LastName  *string `json:"lastName" validate:"omitempty,max=64"`
	Email     *string `json:"email" validate:"omitempty,email,max=512"`
	Password  *string `json:"password" validate:"omitempty,max=70"`
	IsAdmin   *bool   `json:"isAdmin"`
}

// ReplaceUserRequest is a whole-document replace: required fields apply
// exactly as on registration.
type ReplaceUserRequest struct {
	FirstName string `json:"firstName" validate:"required,max=64"`
	LastName  string `json:"lastName" validate:"omitempty,max=64"`
	Email     string `json:"email" validate:"required,email,max=512"`
	Password  string `json:"password" validate:"required,max=70"`
	IsAdmin   bool   `json:"isAdmin"`
}

// Me godoc
// @Summary Fetch the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	id, err := userIDFromToken(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	user, err := h.svc.CurrentUser(c.Request().Context(), id, c.RealIP())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: user})
}

// Update godoc
// @Summary Merge-update a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Malformed identifiers read the same as missing records.
		return respondError(c, apperrors.ErrUserNotFound)
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.svc.Update(c.Request().Context(), id, service.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: user})
}

// Replace godoc
// @Summary Replace a user document
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body ReplaceUserRequest true "Replacement document"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/users/{id} [put]
func (h *UserHandler) Replace(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, apperrors.ErrUserNotFound)
	}

	var req ReplaceUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.svc.Replace(c.Request().Context(), id, service.ReplaceUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: user})
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, apperrors.ErrUserNotFound)
	}

	user, err := h.svc.Delete(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: user})
}

// userIDFromToken pulls the verified claims the JWT middleware stored on
// the context and parses the bound user identifier.
func userIDFromToken(c echo.Context) (uuid.UUID, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, echo.ErrUnauthorized
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return uuid.Nil, echo.ErrUnauthorized
	}
	return uuid.Parse(claims.UserID)
}
