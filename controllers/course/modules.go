package controllers

import (
	"edutrek/database"
	"edutrek/middleware"
	course "edutrek/models/course"

	"github.com/gofiber/fiber/v2"
)

// AddModule appends a module to a course. Order defaults to the end of the
// current layout.
func AddModule(c *fiber.Ctx) error {
	crs, err := requireOwnedCourse(c, "courseId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	reqData := new(struct {
		Title      string `json:"title"`
		OrderIndex *int   `json:"orderIndex"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Title == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Module title is required!", nil)
	}

	db := database.Database.Db
	orderIndex := 0
	if reqData.OrderIndex != nil {
		orderIndex = *reqData.OrderIndex
	} else {
		var count int64
		db.Model(&course.Module{}).Where("course_id = ? AND is_deleted = ?", crs.ID, false).Count(&count)
		orderIndex = int(count)
	}

	mod := course.Module{
		CourseID:   crs.ID,
		Title:      reqData.Title,
		OrderIndex: orderIndex,
	}
	if err := db.Create(&mod).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module added successfully!", mod)
}

// UpdateModule renames or reorders a module.
func UpdateModule(c *fiber.Ctx) error {
	crs, err := requireOwnedCourse(c, "courseId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	moduleID, err := c.ParamsInt("moduleId")
	if err != nil || moduleID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module ID!", nil)
	}

	db := database.Database.Db
	var mod course.Module
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, crs.ID, false).First(&mod).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData := new(struct {
		Title      *string `json:"title"`
		OrderIndex *int    `json:"orderIndex"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.Title != nil && *reqData.Title != "" {
		mod.Title = *reqData.Title
	}
	if reqData.OrderIndex != nil && *reqData.OrderIndex >= 0 {
		mod.OrderIndex = *reqData.OrderIndex
	}

	if err := db.Save(&mod).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", mod)
}

// DeleteModule soft-deletes a module and its videos.
func DeleteModule(c *fiber.Ctx) error {
	crs, err := requireOwnedCourse(c, "courseId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	moduleID, err := c.ParamsInt("moduleId")
	if err != nil || moduleID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module ID!", nil)
	}

	db := database.Database.Db
	var mod course.Module
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, crs.ID, false).First(&mod).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	mod.IsDeleted = true
	if err := db.Save(&mod).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}
	db.Model(&course.Video{}).Where("module_id = ?", mod.ID).Update("is_deleted", true)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}

// AddVideo appends a video to a module.
func AddVideo(c *fiber.Ctx) error {
	crs, err := requireOwnedCourse(c, "courseId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	moduleID, err := c.ParamsInt("moduleId")
	if err != nil || moduleID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module ID!", nil)
	}

	db := database.Database.Db
	var mod course.Module
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, crs.ID, false).First(&mod).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData := new(struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		DurationSec int    `json:"durationSec"`
		OrderIndex  *int   `json:"orderIndex"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Title == "" || reqData.URL == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Video title and url are required!", nil)
	}

	orderIndex := 0
	if reqData.OrderIndex != nil {
		orderIndex = *reqData.OrderIndex
	} else {
		var count int64
		db.Model(&course.Video{}).Where("module_id = ? AND is_deleted = ?", mod.ID, false).Count(&count)
		orderIndex = int(count)
	}

	video := course.Video{
		ModuleID:    mod.ID,
		Title:       reqData.Title,
		URL:         reqData.URL,
		DurationSec: reqData.DurationSec,
		OrderIndex:  orderIndex,
	}
	if err := db.Create(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add video!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video added successfully!", video)
}

// DeleteVideo soft-deletes a video.
func DeleteVideo(c *fiber.Ctx) error {
	crs, err := requireOwnedCourse(c, "courseId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	videoID, err := c.ParamsInt("videoId")
	if err != nil || videoID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid video ID!", nil)
	}

	db := database.Database.Db
	var video course.Video
	if err := db.Joins("JOIN modules ON modules.id = videos.module_id").
		Where("videos.id = ? AND modules.course_id = ? AND videos.is_deleted = ?", videoID, crs.ID, false).
		First(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	video.IsDeleted = true
	if err := db.Save(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete video!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video deleted successfully!", nil)
}
