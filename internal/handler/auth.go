package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/audiofx/api/internal/model"
	"github.com/audiofx/api/internal/service"
	"github.com/audiofx/api/pkg/response"
)

// Wire error details clients match on. These strings are part of the
// contract and must not change.
const (
	detailInvalidCredentials = "Invalid credentials"
	detailUserExists         = "User already exists"
	detailEmailExists        = "Email already registered"
)

type AuthHandler struct {
	service   *service.AuthService
	validator *validator.Validate
}

func NewAuthHandler(svc *service.AuthService, v *validator.Validate) *AuthHandler {
	return &AuthHandler{service: svc, validator: v}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Username, email and a password of at least 8 characters are required")
	}

	result, err := h.service.Register(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			return response.ValidationError(c, detailUserExists)
		}
		if errors.Is(err, service.ErrEmailExists) {
			return response.Conflict(c, detailEmailExists)
		}
		return response.ServiceError(c, "Failed to register")
	}

	return response.OK(c, result)
}

// Login handles POST /api/login. A bad username and a bad password are
// indistinguishable in the response.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Username and password are required")
	}

	result, err := h.service.Login(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return response.Unauthorized(c, detailInvalidCredentials)
		}
		return response.ServiceError(c, "Failed to log in")
	}

	return response.OK(c, result)
}
