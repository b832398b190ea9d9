package authRoutes

import (
	authControllers "edutrek/controllers/auth"
	"edutrek/middleware"
	"edutrek/models"
	authValidators "edutrek/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api/auth")

	authGroup.Post("/register", authValidators.Register(), authControllers.Register)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, authControllers.GetMe)
	authGroup.Put("/me", middleware.JWTMiddleware, authControllers.UpdateMe)
	authGroup.Post("/logout", middleware.JWTMiddleware, authControllers.Logout)
	authGroup.Patch("/reset-password/:userId", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin), authControllers.AdminResetPassword)
}
