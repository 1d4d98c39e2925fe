package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "authd/internal/errors"
	"authd/internal/service"
)

// AuthHandler handles registration and token issuance.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,max=64"`
	LastName  string `json:"lastName" validate:"omitempty,max=64"`
	Email     string `json:"email" validate:"required,email,max=512"`
	Password  string `json:"password" validate:"required,max=70"`
}

// TokenRequest represents a credentials-for-token exchange.
type TokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/users [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			return c.JSON(http.StatusBadRequest, apperrors.NewErrorResponse(
				http.StatusBadRequest,
				"Validation Error",
				fmt.Sprintf("Email address '%s' is already registered.", req.Email),
				"/data/attributes/email",
			))
		}
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, dataResponse{Data: user})
}

// IssueToken godoc
// @Summary Authenticate and issue a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Credentials"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/tokens [post]
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.authService.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, dataResponse{Data: TokenResponse{Token: token}})
}
