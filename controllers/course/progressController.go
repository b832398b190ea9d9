package controllers

import (
	"edutrek/database"
	"edutrek/logger"
	"edutrek/middleware"
	"edutrek/progress"
	courseValidator "edutrek/validators/course"

	"github.com/gofiber/fiber/v2"
)

// TrackVideoCompletion records one watched lesson unit and recomputes the
// enrollment's derived progress. The unit is addressed by (moduleIndex,
// videoIndex) against the course's current ordered layout. Marking is
// idempotent and completion never regresses.
func TrackVideoCompletion(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("courseId")
	if err != nil || courseID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	reqData, ok := c.Locals("validatedVideoProgress").(*courseValidator.VideoProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if _, err := loadCourse(uint(courseID)); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	enrollment, err := loadEnrollment(userID, uint(courseID))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	structure, err := loadStructure(uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load course content!", nil)
	}

	video := structure.VideoAt(reqData.ModuleIndex, reqData.VideoIndex)
	if video == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Video not found in course layout!", nil)
	}

	if reqData.WatchTimeSec != nil && !progress.MeetsWatchPolicy(*reqData.WatchTimeSec, video.DurationSec) {
		logger.Warn("watch time below threshold, recording anyway",
			"userId", userID, "courseId", courseID,
			"watched", *reqData.WatchTimeSec, "threshold", progress.WatchThreshold(video.DurationSec))
	}

	keys := enrollment.LessonKeys()
	keys, added := progress.MarkCompleted(keys, reqData.ModuleIndex, reqData.VideoIndex)

	definition, err := loadAssessment(uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load assessment!", nil)
	}

	summary := progress.Summarize(keys, structure.TotalUnits(), definition != nil)

	if added || enrollment.Progress != summary.Progress {
		enrollment.SetLessonKeys(keys)
		enrollment.Progress = summary.Progress
		enrollment.IsCompleted = summary.IsCompleted
		if err := database.Database.Db.Save(enrollment).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
		}
	}

	message := "Video already marked as completed."
	if added {
		message = "Video marked as completed."
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"videoKey":          progress.LessonKey(reqData.ModuleIndex, reqData.VideoIndex),
		"progress":          summary.Progress,
		"completedVideos":   summary.Completed,
		"totalVideos":       summary.Total,
		"assessmentEnabled": summary.AssessmentEnabled,
		"completedLessons":  keys,
	})
}

// GetStudentProgress returns the derived progress view for the requesting
// student's enrollment in one course.
func GetStudentProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("courseId")
	if err != nil || courseID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	enrollment, err := loadEnrollment(userID, uint(courseID))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	structure, err := loadStructure(uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load course content!", nil)
	}

	definition, err := loadAssessment(uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load assessment!", nil)
	}

	summary := progress.Summarize(enrollment.LessonKeys(), structure.TotalUnits(), definition != nil)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"progress":            summary.Progress,
		"completedVideos":     summary.Completed,
		"totalVideos":         summary.Total,
		"isCompleted":         summary.IsCompleted,
		"assessmentEnabled":   summary.AssessmentEnabled,
		"completedLessons":    enrollment.LessonKeys(),
		"certificateEligible": enrollment.CertificateEligible,
		"attemptCount":        enrollment.AttemptCount,
		"lastScore":           enrollment.LastScore,
	})
}
