package controllers

import (
	"strings"

	"edutrek/database"
	"edutrek/middleware"
	"edutrek/models"
	course "edutrek/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists published courses with pagination.
func GetAllCourses(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 12)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&course.Course{}).Where("is_deleted = ? AND is_published = ?", false, true)

	if category := c.Query("category"); category != "" {
		db = db.Where("category = ?", strings.ToLower(category))
	}

	var total int64
	db.Count(&total)

	var courses []course.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// SearchCourses performs a case-insensitive title/description search over
// published courses.
func SearchCourses(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Search query is required!", nil)
	}

	pattern := "%" + strings.ToLower(q) + "%"
	var courses []course.Course
	if err := database.Database.Db.
		Where("is_deleted = ? AND is_published = ?", false, true).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Limit(50).Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Search failed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Search results fetched!", courses)
}

// GetCourseByID returns one course with its module/video layout.
func GetCourseByID(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	crs, err := loadCourse(uint(courseID))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	structure, err := loadStructure(crs.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	a, err := loadAssessment(crs.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	modules := make([]fiber.Map, len(structure.Modules))
	for i, mod := range structure.Modules {
		modules[i] = fiber.Map{
			"id":     mod.ID,
			"title":  mod.Title,
			"videos": structure.Videos[i],
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":        crs,
		"modules":       modules,
		"hasAssessment": a != nil,
		"totalVideos":   structure.TotalUnits(),
	})
}

// CreateCourse creates a draft course owned by the requesting instructor.
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Price       float64 `json:"price"`
		Curriculum  string  `json:"curriculum"`
		IsPublished *bool   `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	crs := course.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		Category:     strings.ToLower(reqData.Category),
		Price:        reqData.Price,
		Curriculum:   reqData.Curriculum,
		InstructorID: userID,
	}
	if reqData.IsPublished != nil {
		crs.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Create(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course created successfully!", crs)
}

// UpdateCourse updates course fields. Instructors may only touch their own
// courses; admins may touch any.
func UpdateCourse(c *fiber.Ctx) error {
	crs, err := requireOwnedCourse(c, "id")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	reqData := new(struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Category    *string  `json:"category"`
		Price       *float64 `json:"price"`
		Curriculum  *string  `json:"curriculum"`
		IsPublished *bool    `json:"is_published"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Title != nil && *reqData.Title != "" {
		crs.Title = *reqData.Title
	}
	if reqData.Description != nil {
		crs.Description = *reqData.Description
	}
	if reqData.Category != nil && *reqData.Category != "" {
		crs.Category = strings.ToLower(*reqData.Category)
	}
	if reqData.Price != nil && *reqData.Price >= 0 {
		crs.Price = *reqData.Price
	}
	if reqData.Curriculum != nil {
		crs.Curriculum = *reqData.Curriculum
	}
	if reqData.IsPublished != nil {
		crs.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", crs)
}

// DeleteCourse soft-deletes a course.
func DeleteCourse(c *fiber.Ctx) error {
	crs, err := requireOwnedCourse(c, "id")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	crs.IsDeleted = true
	if err := database.Database.Db.Save(crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// GetInstructorCourses lists the requesting instructor's courses with
// enrollment and assessment-outcome stats.
func GetInstructorCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db
	query := db.Where("is_deleted = ?", false)
	if role, _ := c.Locals("role").(string); role != models.RoleAdmin {
		query = query.Where("instructor_id = ?", userID)
	}

	var courses []course.Course
	if err := query.Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	result := make([]fiber.Map, len(courses))
	for i, crs := range courses {
		var enrolled, passed int64
		db.Model(&course.Enrollment{}).Where("course_id = ? AND is_deleted = ?", crs.ID, false).Count(&enrolled)
		db.Model(&course.Enrollment{}).Where("course_id = ? AND is_deleted = ? AND certificate_eligible = ?", crs.ID, false, true).Count(&passed)
		result[i] = fiber.Map{
			"course": crs,
			"assessmentStats": fiber.Map{
				"total":  enrolled,
				"passed": passed,
			},
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Instructor courses fetched!", result)
}

// GetEnrolledStudents lists students enrolled in a course with their
// completion records.
func GetEnrolledStudents(c *fiber.Ctx) error {
	crs, err := requireOwnedCourse(c, "courseId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	db := database.Database.Db
	var enrollments []course.Enrollment
	if err := db.Where("course_id = ? AND is_deleted = ?", crs.ID, false).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}

	students := make([]fiber.Map, 0, len(enrollments))
	for _, e := range enrollments {
		var user models.User
		if err := db.Where("id = ? AND is_deleted = ?", e.UserID, false).First(&user).Error; err != nil {
			continue
		}
		students = append(students, fiber.Map{
			"id":                  user.ID,
			"name":                user.Name,
			"email":               user.Email,
			"progress":            e.Progress,
			"isCompleted":         e.IsCompleted,
			"certificateEligible": e.CertificateEligible,
			"lastScore":           e.LastScore,
			"enrolledAt":          e.EnrolledAt,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled students fetched!", students)
}

// requireOwnedCourse loads the course from the named route param and checks
// the requester owns it (or is admin).
func requireOwnedCourse(c *fiber.Ctx, param string) (*course.Course, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, errUnauthorized()
	}

	courseID, err := c.ParamsInt(param)
	if err != nil || courseID <= 0 {
		return nil, errInvalidCourseID()
	}

	crs, err := loadCourse(uint(courseID))
	if err != nil {
		return nil, err
	}

	role, _ := c.Locals("role").(string)
	if role != models.RoleAdmin && crs.InstructorID != userID {
		return nil, errNotCourseOwner()
	}
	return crs, nil
}
