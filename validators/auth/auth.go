package authValidator

import (
	"strings"

	"coursebox/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRequest is the parsed body of a register call.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest is the parsed body of a login call.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register validates a registration request body.
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
		}

		if strings.TrimSpace(reqData.Name) == "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Name is required")
		}
		if strings.TrimSpace(reqData.Email) == "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Email is required")
		}
		if len(reqData.Password) < 8 {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Password must be at least 8 characters long")
		}
		if reqData.Role == "" {
			reqData.Role = "user"
		}
		if reqData.Role != "user" && reqData.Role != "teacher" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid role")
		}

		c.Locals("registerRequest", reqData)
		return c.Next()
	}
}

// Login validates a login request body.
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
		}

		if strings.TrimSpace(reqData.Email) == "" || reqData.Password == "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Email and password are required")
		}

		c.Locals("loginRequest", reqData)
		return c.Next()
	}
}
