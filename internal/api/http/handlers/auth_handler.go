package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board-service/internal/api/dto"
	"github.com/spec-kit/job-board-service/internal/auth"
	"github.com/spec-kit/job-board-service/internal/domain"
	"github.com/spec-kit/job-board-service/internal/service"
	apperrors "github.com/spec-kit/job-board-service/pkg/util"
)

// AuthHandler exposes the OAuth sign-in endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login GET /auth/github/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	authURL, err := h.auth.BeginLogin(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"auth_url": authURL}})
}

// Callback GET /auth/github/callback.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" {
		return apperrors.NewValidationError("code required", nil)
	}

	user, token, exp, err := h.auth.CompleteLogin(c.Context(), state, code)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	return c.JSON(fiber.Map{"data": userResponse(principal.User)})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
	}
}
