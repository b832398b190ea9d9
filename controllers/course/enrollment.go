package controllers

import (
	"time"

	"edutrek/database"
	"edutrek/middleware"
	"edutrek/models"
	course "edutrek/models/course"
	"edutrek/services/mailer"

	"github.com/gofiber/fiber/v2"
)

// EnrollCourse enrolls the requesting student in a published course.
// Re-enrolling is idempotent; a soft-deleted enrollment is revived with its
// progress intact.
func EnrollCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("courseId")
	if err != nil || courseID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	crs, err := loadCourse(uint(courseID))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !crs.IsPublished {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Course is not published!", nil)
	}

	db := database.Database.Db
	var existing course.Enrollment
	err = db.Where("user_id = ? AND course_id = ?", userID, crs.ID).First(&existing).Error
	if err == nil {
		if !existing.IsDeleted {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Already enrolled!", existing)
		}
		existing.IsDeleted = false
		if err := db.Save(&existing).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled successfully!", existing)
	}

	enrollment := course.Enrollment{
		UserID:     userID,
		CourseID:   crs.ID,
		EnrolledAt: time.Now(),
	}
	if err := db.Create(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}
	db.Model(crs).Update("students_enrolled", crs.StudentsEnrolled+1)

	var user models.User
	if err := db.First(&user, userID).Error; err == nil {
		go mailer.New().SendEnrollmentEmail(user.Name, user.Email, crs.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled successfully!", enrollment)
}

// UnenrollCourse soft-deletes the requesting student's enrollment.
func UnenrollCourse(c *fiber.Ctx) error {
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

	enrollment.IsDeleted = true
	if err := database.Database.Db.Save(enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unenrolled successfully!", nil)
}

// GetMyCourses lists the requesting student's active enrollments with course
// details.
func GetMyCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db
	var enrollments []course.Enrollment
	if err := db.Where("user_id = ? AND is_deleted = ?", userID, false).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	result := make([]fiber.Map, 0, len(enrollments))
	for _, e := range enrollments {
		var crs course.Course
		if err := db.Where("id = ? AND is_deleted = ?", e.CourseID, false).First(&crs).Error; err != nil {
			continue
		}
		result = append(result, fiber.Map{
			"course":     crs,
			"enrollment": e,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled courses fetched!", result)
}
