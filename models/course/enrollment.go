package course

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enrollment links one student to one course and carries the completion
// record: which lesson units were watched, derived progress, and the
// assessment outcome.
type Enrollment struct {
	gorm.Model
	UserID              uint           `json:"user_id" gorm:"index:idx_enrollment_user_course,unique;not null"`
	CourseID            uint           `json:"course_id" gorm:"index:idx_enrollment_user_course,unique;not null"`
	Progress            int            `json:"progress" gorm:"default:0"` // percent 0-100, non-decreasing
	IsCompleted         bool           `json:"is_completed" gorm:"default:false"`
	CertificateEligible bool           `json:"certificate_eligible" gorm:"default:false"`
	CompletedLessons    datatypes.JSON `json:"completed_lessons"` // array of "m-v" lesson keys
	AttemptCount        int            `json:"attempt_count" gorm:"default:0"`
	LastScore           *int           `json:"last_score"`
	LastAttemptAt       *time.Time     `json:"last_attempt_at"`
	CertificateID       *string        `json:"certificate_id" gorm:"uniqueIndex"`
	EnrolledAt          time.Time      `json:"enrolled_at"`
	CompletedAt         *time.Time     `json:"completed_at"`
	IsDeleted           bool           `json:"-" gorm:"default:false"`
}

// LessonKeys decodes the completed lesson set.
func (e *Enrollment) LessonKeys() []string {
	var keys []string
	if len(e.CompletedLessons) == 0 {
		return keys
	}
	if err := json.Unmarshal(e.CompletedLessons, &keys); err != nil {
		return nil
	}
	return keys
}

// SetLessonKeys encodes the completed lesson set.
func (e *Enrollment) SetLessonKeys(keys []string) {
	raw, _ := json.Marshal(keys)
	e.CompletedLessons = datatypes.JSON(raw)
}
