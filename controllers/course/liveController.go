package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"edutrek/cache"
	"edutrek/middleware"

	"github.com/gofiber/fiber/v2"
)

// liveStore backs ephemeral live-class state. Wired once from main.
var liveStore cache.Store

// UseCacheStore injects the cache backing live sessions.
func UseCacheStore(store cache.Store) {
	liveStore = store
}

const liveSessionTTL = 6 * time.Hour

type liveSession struct {
	CourseID     uint      `json:"courseId"`
	InstructorID uint      `json:"instructorId"`
	Title        string    `json:"title"`
	StreamURL    string    `json:"streamUrl"`
	StartedAt    time.Time `json:"startedAt"`
}

func liveKey(courseID uint) string {
	return fmt.Sprintf("live:%d", courseID)
}

// StartLiveSession opens a live class for a course the instructor owns.
func StartLiveSession(c *fiber.Ctx) error {
	crs, err := requireOwnedCourse(c, "courseId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	reqData := new(struct {
		Title     string `json:"title"`
		StreamURL string `json:"streamUrl"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Title == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Live session title is required!", nil)
	}

	ctx := context.Background()
	if _, err := liveStore.Get(ctx, liveKey(crs.ID)); err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A live session is already running for this course!", nil)
	}

	session := liveSession{
		CourseID:     crs.ID,
		InstructorID: crs.InstructorID,
		Title:        reqData.Title,
		StreamURL:    reqData.StreamURL,
		StartedAt:    time.Now(),
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start live session!", nil)
	}
	if err := liveStore.Set(ctx, liveKey(crs.ID), payload, liveSessionTTL); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start live session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Live session started!", session)
}

// StopLiveSession ends the course's running live class.
func StopLiveSession(c *fiber.Ctx) error {
	crs, err := requireOwnedCourse(c, "courseId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	ctx := context.Background()
	if _, err := liveStore.Get(ctx, liveKey(crs.ID)); err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No live session running for this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to stop live session!", nil)
	}
	if err := liveStore.Delete(ctx, liveKey(crs.ID)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to stop live session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Live session stopped.", nil)
}

// GetLiveSession reports whether a live class is running for a course.
func GetLiveSession(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("courseId")
	if err != nil || courseID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	payload, err := liveStore.Get(context.Background(), liveKey(uint(courseID)))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "No live session running.", fiber.Map{"live": false})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch live session!", nil)
	}

	var session liveSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch live session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Live session fetched!", fiber.Map{
		"live":    true,
		"session": session,
	})
}
