package handlers

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/campaignflow/campaign-api/internal/service"
	"github.com/campaignflow/campaign-api/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type IntegrationHandler struct {
	s service.TwitterService
}

func NewIntegrationHandler(service service.TwitterService) *IntegrationHandler {
	return &IntegrationHandler{s: service}
}

// ConnectTwitter starts the OAuth2 PKCE flow. An optional campaign_id query
// parameter scopes the integration to one campaign.
func (h *IntegrationHandler) ConnectTwitter(c *fiber.Ctx) error {
	state, err := utils.GenerateRandomKey(16)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	verifier, err := utils.GenerateRandomKey(32)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "twitter_oauth_state",
		Value:    state,
		HTTPOnly: true,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "twitter_oauth_verifier",
		Value:    verifier,
		HTTPOnly: true,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
	})
	if campaignID := c.Query("campaign_id"); campaignID != "" {
		c.Cookie(&fiber.Cookie{
			Name:     "twitter_oauth_campaign",
			Value:    campaignID,
			HTTPOnly: true,
			Path:     "/",
			Expires:  time.Now().Add(10 * time.Minute),
		})
	}

	return c.Redirect(h.s.AuthURL(state, verifier))
}

func (h *IntegrationHandler) TwitterCallbackHandler(c *fiber.Ctx) error {
	userID := GetUserID(c)

	if c.Query("state") == "" || c.Query("state") != c.Cookies("twitter_oauth_state") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid state",
		})
	}

	var campaignID sql.NullInt64
	if raw := c.Cookies("twitter_oauth_campaign"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			campaignID = sql.NullInt64{Int64: id, Valid: true}
		}
	}

	err := h.s.Callback(c.Context(), c.Query("code"), c.Cookies("twitter_oauth_verifier"), userID, campaignID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to connect Twitter account",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Twitter account connected",
	})
}

func (h *IntegrationHandler) ListIntegrations(c *fiber.Ctx) error {
	userID := GetUserID(c)

	integrations, err := h.s.List(c.Context(), userID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(integrations)
}

func (h *IntegrationHandler) RemoveIntegration(c *fiber.Ctx) error {
	userID := GetUserID(c)
	integrationID := c.QueryInt("id", 0)

	if err := h.s.Remove(c.Context(), userID, int64(integrationID)); err != nil {
		return errorJSON(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}
