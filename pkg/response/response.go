// Package response standardizes API response envelopes. Error bodies
// carry a human-readable "detail" field, which is what clients key off,
// plus a stable machine code.
package response

import "github.com/gofiber/fiber/v2"

// Error codes
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeNotFound        = "NOT_FOUND"
	CodeRateLimited     = "RATE_LIMITED"
	CodeServiceError    = "SERVICE_ERROR"
)

type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func Error(c *fiber.Ctx, status int, code, detail string) error {
	return c.Status(status).JSON(ErrorResponse{
		Detail: detail,
		Code:   code,
	})
}

func ValidationError(c *fiber.Ctx, detail string) error {
	return Error(c, fiber.StatusBadRequest, CodeValidationError, detail)
}

func Unauthorized(c *fiber.Ctx, detail string) error {
	return Error(c, fiber.StatusUnauthorized, CodeUnauthorized, detail)
}

func Conflict(c *fiber.Ctx, detail string) error {
	return Error(c, fiber.StatusConflict, CodeValidationError, detail)
}

func NotFound(c *fiber.Ctx, detail string) error {
	return Error(c, fiber.StatusNotFound, CodeNotFound, detail)
}

func RateLimited(c *fiber.Ctx) error {
	return Error(c, fiber.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded")
}

func ServiceError(c *fiber.Ctx, detail string) error {
	return Error(c, fiber.StatusInternalServerError, CodeServiceError, detail)
}

func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func Accepted(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusAccepted).JSON(data)
}
