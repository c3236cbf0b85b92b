package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/nfe-feed/internal/config"
	"github.com/foxxcyber/nfe-feed/internal/services"
)

// GenericErrorMessage is the only failure detail callers ever see
const GenericErrorMessage = "whoops! something went wrong."

// Handler holds all handler dependencies
type Handler struct {
	cfg *config.Config
	nfe *services.NFEService
}

// New creates a new Handler instance
func New(cfg *config.Config, nfe *services.NFEService) *Handler {
	return &Handler{
		cfg: cfg,
		nfe: nfe,
	}
}

// ErrorHandler is a custom error handler for Fiber.
// Only routing errors and panics land here; pipeline failures answer 200 through Failure.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := GenericErrorMessage

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(APIResponse{
		OK:    false,
		Error: &APIError{Message: message},
	})
}

// APIResponse is the envelope of every response
type APIResponse struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error *APIError   `json:"error,omitempty"`
}

// APIError is the generic error payload
type APIError struct {
	Message string `json:"message"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		OK:   true,
		Data: data,
	})
}

// Failure returns an error envelope. The status stays 200, callers check "ok".
func Failure(c *fiber.Ctx, message string) error {
	return c.JSON(APIResponse{
		OK:    false,
		Error: &APIError{Message: message},
	})
}

// Healthcheck reports that the process is up
func (h *Handler) Healthcheck(c *fiber.Ctx) error {
	return c.JSON(APIResponse{OK: true})
}
