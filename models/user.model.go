package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

type User struct {
	gorm.Model
	Name      string         `json:"name" gorm:"not null"`
	Email     string         `json:"email" gorm:"unique;not null"`
	Password  string         `json:"-" gorm:"not null"`
	Role      string         `json:"role" gorm:"default:'student'"` // student, instructor, admin
	AvatarURL string         `json:"avatar_url" gorm:"default:''"`
	Degree    string         `json:"degree" gorm:"default:''"`
	Badges    datatypes.JSON `json:"badges"` // array of badge names
	Points    int            `json:"points" gorm:"default:0"`
	LastLogin *time.Time     `json:"last_login"`
	IsDeleted bool           `json:"-" gorm:"default:false"`
}
