package controllers

import (
	"errors"

	"wms-engine/repositories"

	"github.com/gofiber/fiber/v2"
)

// respondError maps the repository error taxonomy onto HTTP statuses:
// shortages are unprocessable, missing records are 404, finalized documents
// and state conflicts are 409, bad input is 400.
func respondError(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, repositories.ErrInsufficientStock),
		errors.Is(err, repositories.ErrInsufficientAllocatable):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, repositories.ErrUnknownRecord):
		status = fiber.StatusNotFound
	case errors.Is(err, repositories.ErrAlreadyFinalized),
		errors.Is(err, repositories.ErrInvalidTransition),
		errors.Is(err, repositories.ErrConcurrentModification):
		status = fiber.StatusConflict
	case errors.Is(err, repositories.ErrValidation):
		status = fiber.StatusBadRequest
	}

	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

func actorID(ctx *fiber.Ctx) int {
	if userID, ok := ctx.Locals("userID").(float64); ok {
		return int(userID)
	}
	return 0
}
