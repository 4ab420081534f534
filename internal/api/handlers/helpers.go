package handlers

import (
	"errors"
	"strconv"

	"github.com/campaignflow/campaign-api/internal/service"
	"github.com/campaignflow/campaign-api/internal/workflow"
	"github.com/gofiber/fiber/v2"
)

func GetUserID(c *fiber.Ctx) int64 {
	userID, _ := strconv.Atoi(c.Locals("user_id").(string))
	return int64(userID)
}

// statusFromError maps service and workflow sentinels onto HTTP codes;
// anything unrecognized is a 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, workflow.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrSubscriptionRequired):
		return fiber.StatusPaymentRequired
	case errors.Is(err, workflow.ErrPastSchedule),
		errors.Is(err, workflow.ErrAlreadyPublished),
		errors.Is(err, workflow.ErrNoIntegration):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusFromError(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
