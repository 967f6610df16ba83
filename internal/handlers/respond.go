package handlers

import (
	"errors"
	"strconv"

	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/onboarding"
	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/uploads"
	"github.com/SahilDudhatWork/Synthia.AI/internal/companion/workflow"
	"github.com/SahilDudhatWork/Synthia.AI/internal/logger"
	"github.com/SahilDudhatWork/Synthia.AI/internal/repo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func errorStatus(err error) int {
	var fe *fiber.Error
	var uploadErr *uploads.ValidationError
	var stepErr *onboarding.ValidationError
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &uploadErr),
		errors.As(err, &stepErr),
		errors.Is(err, workflow.ErrInvalidRequest),
		errors.Is(err, repo.ErrMissingIdentifier):
		return fiber.StatusBadRequest
	case errors.Is(err, workflow.ErrChatNotOwned):
		return fiber.StatusForbidden
	case errors.Is(err, repo.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError answers with {"error": ...}. Server side failures are logged.
func respondError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.Log.WithError(err).WithField("path", c.Path()).Error("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": workflow.FriendlyError(err),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// parseID parses an optional uuid; "" gives uuid.Nil.
func parseID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(raw)
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return fallback
}
