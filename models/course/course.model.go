package course

import "gorm.io/gorm"

// Course represents a learning course
type Course struct {
	gorm.Model
	Title            string  `json:"title" gorm:"not null"`
	Description      string  `json:"description" gorm:"type:text"`
	Category         string  `json:"category" gorm:"default:'general'"`
	Price            float64 `json:"price" gorm:"default:0"`
	Curriculum       string  `json:"curriculum" gorm:"type:text"`
	ThumbnailURL     string  `json:"thumbnail_url"`
	InstructorID     uint    `json:"instructor_id" gorm:"index;not null"`
	IsPublished      bool    `json:"is_published" gorm:"default:false"`
	StudentsEnrolled int     `json:"students_enrolled" gorm:"default:0"`
	IsDeleted        bool    `json:"-" gorm:"default:false"`
}
