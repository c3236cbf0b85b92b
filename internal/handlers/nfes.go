package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/foxxcyber/nfe-feed/internal/models"
)

// ParseNFE loads the invoice page at the posted URL, exports its items and returns them
func (h *Handler) ParseNFE(c *fiber.Ctx) error {
	var req models.ParseNFERequest
	if err := c.BodyParser(&req); err != nil {
		return Failure(c, "invalid request body")
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		return Failure(c, "url is required")
	}

	result, err := h.nfe.Process(c.UserContext(), url)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("nfe pipeline failed")
		return Failure(c, GenericErrorMessage)
	}

	return Success(c, result.Items)
}
