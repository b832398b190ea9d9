package courseValidator

import (
	"strings"

	"edutrek/middleware"
	"edutrek/progress"

	"github.com/gofiber/fiber/v2"
)

// VideoProgressRequest addresses one lesson unit by its position in the
// course's ordered layout. watchTimeSec is advisory.
type VideoProgressRequest struct {
	ModuleIndex  int  `json:"moduleIndex"`
	VideoIndex   int  `json:"videoIndex"`
	WatchTimeSec *int `json:"watchTimeSec"`
}

// CreateCourse validator middleware
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string  `json:"title"`
			Description string  `json:"description"`
			Category    string  `json:"category"`
			Price       float64 `json:"price"`
			Curriculum  string  `json:"curriculum"`
			IsPublished *bool   `json:"is_published"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if strings.TrimSpace(reqData.Category) == "" {
			errors["category"] = "Category is required!"
		}
		if reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// VideoProgress validates the lesson-unit completion body. A body that
// round-trips through a lesson key must address a non-negative coordinate;
// range against the actual course layout is the controller's job.
func VideoProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(VideoProgressRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.ModuleIndex < 0 {
			errors["moduleIndex"] = "moduleIndex cannot be negative!"
		}
		if reqData.VideoIndex < 0 {
			errors["videoIndex"] = "videoIndex cannot be negative!"
		}
		if reqData.WatchTimeSec != nil && *reqData.WatchTimeSec < 0 {
			errors["watchTimeSec"] = "watchTimeSec cannot be negative!"
		}
		if _, _, ok := progress.ParseLessonKey(progress.LessonKey(reqData.ModuleIndex, reqData.VideoIndex)); !ok {
			errors["moduleIndex"] = "Invalid lesson coordinate!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVideoProgress", reqData)
		return c.Next()
	}
}
