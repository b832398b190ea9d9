package chatbotController

import (
	"strings"

	"edutrek/middleware"
	"edutrek/services/chatbot"

	"github.com/gofiber/fiber/v2"
)

var service *chatbot.Service

// UseService injects the chatbot client.
func UseService(s *chatbot.Service) {
	service = s
}

// Message answers one chat message. Upstream failures degrade to the FAQ
// table, so this endpoint never errors on model trouble.
func Message(c *fiber.Ctx) error {
	reqData := new(struct {
		Message string `json:"message"`
	})
	if err := c.BodyParser(reqData); err != nil || strings.TrimSpace(reqData.Message) == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Message is required!", nil)
	}

	reply, fromModel := service.Reply(strings.TrimSpace(reqData.Message))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reply generated!", fiber.Map{
		"reply":     reply,
		"fromModel": fromModel,
	})
}
