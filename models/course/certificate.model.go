package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is the issued record for a passed course. Rendering (PDF/QR)
// is delegated to an external service; this row is the source of truth for
// validation.
type Certificate struct {
	gorm.Model
	CertificateNumber string    `json:"certificate_number" gorm:"uniqueIndex;not null"`
	UserID            uint      `json:"user_id" gorm:"index;not null"`
	CourseID          uint      `json:"course_id" gorm:"index;not null"`
	EnrollmentID      uint      `json:"enrollment_id" gorm:"index;not null"`
	IssuedAt          time.Time `json:"issued_at"`
	IsDeleted         bool      `json:"-" gorm:"default:false"`
}
