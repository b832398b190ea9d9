package paymentRoutes

import (
	paymentControllers "edutrek/controllers/payment"
	"edutrek/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/api/payments")

	paymentGroup.Get("/providers", paymentControllers.ListProviders)
	paymentGroup.Post("/checkout", middleware.JWTMiddleware, paymentControllers.CreateCheckout)
}
