package course

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question is one entry of an assessment question bank, stored as JSON on
// the Assessment row. AnswerIndex is never serialized to students; the
// "omitempty"-free json tag is intentional so instructors see it.
type Question struct {
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
	Explanation string   `json:"explanation,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"` // easy, medium, hard
}

// Assessment is the instructor-authored question set for a course. A course
// has at most one; creating a new one replaces it and bumps Version so
// in-flight attempts against the old definition can be rejected.
type Assessment struct {
	gorm.Model
	CourseID        uint           `json:"course_id" gorm:"uniqueIndex;not null"`
	Title           string         `json:"title" gorm:"not null"`
	Description     string         `json:"description" gorm:"type:text"`
	Questions       datatypes.JSON `json:"-"`
	PassingScore    int            `json:"passingScore" gorm:"default:70"` // percent
	DurationMinutes *int           `json:"duration"`                       // nil means untimed
	MaxAttempts     int            `json:"maxAttempts" gorm:"default:3"`
	Version         uint           `json:"version" gorm:"default:1"`
	IsDeleted       bool           `json:"-" gorm:"default:false"`
}

// QuestionBank decodes the stored question list.
func (a *Assessment) QuestionBank() ([]Question, error) {
	var qs []Question
	if len(a.Questions) == 0 {
		return qs, nil
	}
	if err := json.Unmarshal(a.Questions, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// SetQuestionBank encodes the question list into the JSON column.
func (a *Assessment) SetQuestionBank(qs []Question) error {
	raw, err := json.Marshal(qs)
	if err != nil {
		return err
	}
	a.Questions = datatypes.JSON(raw)
	return nil
}
