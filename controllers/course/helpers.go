package controllers

import (
	"errors"

	"edutrek/database"
	course "edutrek/models/course"
	"edutrek/utils"

	"gorm.io/gorm"
)

// courseStructure is the ordered module/video layout of a course, the basis
// for lesson-unit addressing: a unit is (position of module in course,
// position of video in module).
type courseStructure struct {
	Modules []course.Module
	Videos  [][]course.Video // parallel to Modules
}

// TotalUnits counts every video across all modules.
func (s *courseStructure) TotalUnits() int {
	n := 0
	for _, vs := range s.Videos {
		n += len(vs)
	}
	return n
}

// VideoAt resolves a lesson-unit coordinate, nil when out of range.
func (s *courseStructure) VideoAt(moduleIndex, videoIndex int) *course.Video {
	if moduleIndex < 0 || moduleIndex >= len(s.Modules) {
		return nil
	}
	if videoIndex < 0 || videoIndex >= len(s.Videos[moduleIndex]) {
		return nil
	}
	return &s.Videos[moduleIndex][videoIndex]
}

func loadCourse(courseID uint) (*course.Course, error) {
	var crs course.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("Course not found!")
		}
		return nil, err
	}
	return &crs, nil
}

func loadStructure(courseID uint) (*courseStructure, error) {
	db := database.Database.Db

	var modules []course.Module
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc, id asc").Find(&modules).Error; err != nil {
		return nil, err
	}

	structure := &courseStructure{Modules: modules, Videos: make([][]course.Video, len(modules))}
	for i, mod := range modules {
		var videos []course.Video
		if err := db.Where("module_id = ? AND is_deleted = ?", mod.ID, false).
			Order("order_index asc, id asc").Find(&videos).Error; err != nil {
			return nil, err
		}
		structure.Videos[i] = videos
	}
	return structure, nil
}

// loadAssessment returns the course's assessment definition, nil when none
// exists.
func loadAssessment(courseID uint) (*course.Assessment, error) {
	var a course.Assessment
	err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func errUnauthorized() error {
	return utils.NewAuthError("Unauthorized!")
}

func errInvalidCourseID() error {
	return utils.NewValidationError("Invalid course ID!")
}

func errNotCourseOwner() error {
	return utils.NewPermissionError("You do not own this course!")
}

func loadEnrollment(userID, courseID uint) (*course.Enrollment, error) {
	var e course.Enrollment
	err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFoundError("Enrollment not found!")
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
