package course

import "gorm.io/gorm"

// Module represents a section within a course
type Module struct {
	gorm.Model
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index" gorm:"default:0"` // Module order in course
	IsDeleted  bool   `json:"-" gorm:"default:false"`
}

// Video is one lesson unit inside a module. Its position is addressed on
// the wire by the (moduleIndex, videoIndex) pair, not by row ID.
type Video struct {
	gorm.Model
	ModuleID    uint   `json:"module_id" gorm:"index;not null"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	DurationSec int    `json:"duration_sec" gorm:"default:0"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}
