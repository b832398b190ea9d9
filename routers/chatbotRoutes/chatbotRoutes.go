package chatbotRoutes

import (
	chatbotControllers "edutrek/controllers/chatbot"

	"github.com/gofiber/fiber/v2"
)

func SetupChatbotRoutes(app *fiber.App) {
	app.Post("/api/chatbot/message", chatbotControllers.Message)
}
