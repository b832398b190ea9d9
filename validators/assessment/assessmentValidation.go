package assessmentValidator

import (
	"fmt"

	"edutrek/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// QuestionRequest is one question of an assessment definition.
type QuestionRequest struct {
	Question    string   `json:"question" validate:"required,min=3"`
	Options     []string `json:"options" validate:"required,min=2,max=8,dive,required"`
	AnswerIndex int      `json:"answerIndex" validate:"gte=0"`
	Explanation string   `json:"explanation"`
	Difficulty  string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// DefinitionRequest creates or replaces a course's assessment.
type DefinitionRequest struct {
	Title        string            `json:"title" validate:"required,min=3"`
	Description  string            `json:"description"`
	Duration     *int              `json:"duration" validate:"omitempty,gt=0,lte=480"`
	PassingScore *int              `json:"passingScore" validate:"omitempty,gte=1,lte=100"`
	MaxAttempts  *int              `json:"maxAttempts" validate:"omitempty,gte=1,lte=10"`
	Questions    []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// AnswerRequest carries only the student's selection. Any other field a
// client sends, correct answers included, is dropped here.
type AnswerRequest struct {
	SelectedIndex int `json:"selectedIndex" validate:"gte=-1"`
}

// SubmissionRequest grades one attempt.
type SubmissionRequest struct {
	Answers   []AnswerRequest `json:"answers" validate:"required,dive"`
	TimeTaken int             `json:"timeTaken" validate:"gte=0"`
}

// Definition validator middleware
func Definition() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(DefinitionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		errors := make(map[string]string)
		for i, q := range reqData.Questions {
			if q.AnswerIndex >= len(q.Options) {
				errors[fmt.Sprintf("questions[%d].answerIndex", i)] = "answerIndex is out of range for the given options!"
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAssessment", reqData)
		return c.Next()
	}
}

// Submission validator middleware
func Submission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmissionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errors[fe.Field()] = fmt.Sprintf("Failed validation on '%s'!", fe.Tag())
		}
		return errors
	}
	errors["body"] = err.Error()
	return errors
}
