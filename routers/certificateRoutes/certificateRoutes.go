package certificateRoutes

import (
	certificateControllers "edutrek/controllers/certificate"
	"edutrek/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupCertificateRoutes(app *fiber.App) {
	certGroup := app.Group("/api/certificates")

	// Public verification by certificate number
	certGroup.Get("/validate/:number", certificateControllers.ValidateCertificate)

	certGroup.Use(middleware.JWTMiddleware)
	certGroup.Get("/mine", certificateControllers.GetMyCertificates)
	certGroup.Post("/issue/:courseId", certificateControllers.IssueCertificate)
	certGroup.Get("/download/:number", certificateControllers.DownloadCertificate)
}
