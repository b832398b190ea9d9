package adminRoutes

import (
	adminControllers "edutrek/controllers/admin"
	"edutrek/middleware"
	"edutrek/models"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/api/admin", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin))

	adminGroup.Get("/stats", adminControllers.GetPlatformStats)
	adminGroup.Get("/users", adminControllers.GetAllUsers)
	adminGroup.Put("/users/:userId", adminControllers.UpdateUser)
	adminGroup.Delete("/users/:userId", adminControllers.DeleteUser)
	adminGroup.Get("/courses", adminControllers.GetAllCourses)
	adminGroup.Patch("/courses/:courseId/publish", adminControllers.SetCoursePublished)
}
