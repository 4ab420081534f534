package handlers

import (
	"log/slog"

	"github.com/campaignflow/campaign-api/internal/service"
	"github.com/campaignflow/campaign-api/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type WebhookHandler struct {
	s service.SubscriptionService
}

func NewWebhookHandler(service service.SubscriptionService) *WebhookHandler {
	return &WebhookHandler{s: service}
}

func (h *WebhookHandler) HandleSubscriptionEvent(c *fiber.Ctx) error {
	var payload transfer.SubscriptionEvent
	if err := c.BodyParser(&payload); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse payload",
		})
	}

	if err := h.s.HandleSubscription(c.Context(), &payload); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to process event",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
