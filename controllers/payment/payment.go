package paymentController

import (
	"strings"
	"time"

	"edutrek/database"
	"edutrek/middleware"
	course "edutrek/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var supportedProviders = map[string]bool{
	"stripe":   true,
	"razorpay": true,
	"paypal":   true,
}

// CreateCheckout opens a checkout intent for a paid course. Actual gateway
// integration lives behind the returned checkoutId; this endpoint validates
// the purchase and hands the client what it needs to start the provider
// flow.
func CreateCheckout(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		CourseID uint   `json:"courseId"`
		Provider string `json:"provider"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.CourseID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseId and provider are required!", nil)
	}

	provider := strings.ToLower(reqData.Provider)
	if !supportedProviders[provider] {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unsupported payment provider!", nil)
	}

	db := database.Database.Db
	var crs course.Course
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", reqData.CourseID, false, true).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var existing course.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, crs.ID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout created!", fiber.Map{
		"checkoutId": uuid.NewString(),
		"provider":   provider,
		"courseId":   crs.ID,
		"amount":     crs.Price,
		"currency":   "USD",
		"createdAt":  time.Now(),
	})
}

// ListProviders reports the payment methods the platform accepts.
func ListProviders(c *fiber.Ctx) error {
	providers := make([]string, 0, len(supportedProviders))
	for p := range supportedProviders {
		providers = append(providers, p)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Providers fetched!", providers)
}
