package handler

import (
	"net/http"

	"github.com/beckernir/AUCA-HR/internal/middleware"
	"github.com/beckernir/AUCA-HR/internal/service"
	"github.com/labstack/echo/v4"
)

// AuthHandler exposes login, refresh and logout
type AuthHandler struct {
	auth service.AuthManager
}

// NewAuthHandler creates the auth handler
func NewAuthHandler(auth service.AuthManager) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	tokens, err := h.auth.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}

	tokens, err := h.auth.Refresh(requestContext(c), req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /auth/logout. The route sits behind auth middleware so
// the access token has already been validated.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := middleware.AccessToken(c)
	if token == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	if err := h.auth.Logout(requestContext(c), token); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
