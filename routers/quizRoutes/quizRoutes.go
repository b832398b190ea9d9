package quizRoutes

import (
	quizControllers "edutrek/controllers/quiz"
	"edutrek/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/api/quiz", middleware.JWTMiddleware)

	quizGroup.Post("/start", quizControllers.StartQuiz)
	quizGroup.Post("/submit", quizControllers.SubmitQuiz)
}
