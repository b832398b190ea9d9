package quizController

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"edutrek/assessment"
	"edutrek/cache"
	"edutrek/config"
	"edutrek/database"
	"edutrek/middleware"
	"edutrek/models"
	course "edutrek/models/course"
	"edutrek/services/chatbot"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	store   cache.Store
	service *chatbot.Service
)

// Use injects the quiz cache and the question generator.
func Use(s cache.Store, bot *chatbot.Service) {
	store = s
	service = bot
}

type quizAttempt struct {
	UserID    uint              `json:"userId"`
	Topic     string            `json:"topic"`
	Questions []course.Question `json:"questions"`
}

func quizKey(id string) string {
	return "quiz:" + id
}

type quizQuestion struct {
	Index    int      `json:"index"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// StartQuiz generates a practice quiz on a topic. The question bank, answer
// key included, lives only in the cache; the client sees prompts and
// options.
func StartQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Topic      string `json:"topic"`
		Difficulty string `json:"difficulty"`
		Count      int    `json:"count"`
	})
	if err := c.BodyParser(reqData); err != nil || strings.TrimSpace(reqData.Topic) == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz topic is required!", nil)
	}
	if reqData.Count <= 0 || reqData.Count > 20 {
		reqData.Count = 5
	}
	difficulty := strings.ToLower(reqData.Difficulty)
	if difficulty != "easy" && difficulty != "hard" {
		difficulty = "medium"
	}

	questions, err := service.GenerateQuiz(reqData.Topic, difficulty, reqData.Count)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	attempt := quizAttempt{UserID: userID, Topic: reqData.Topic, Questions: questions}
	payload, err := json.Marshal(attempt)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start quiz!", nil)
	}

	quizID := uuid.NewString()
	ttl := time.Duration(config.AppConfig.QuizAttemptTTL) * time.Minute
	if err := store.Set(context.Background(), quizKey(quizID), payload, ttl); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start quiz!", nil)
	}

	view := make([]quizQuestion, len(questions))
	for i, q := range questions {
		view[i] = quizQuestion{Index: i, Question: q.Prompt, Options: q.Options}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz generated!", fiber.Map{
		"quizId":     quizID,
		"topic":      reqData.Topic,
		"difficulty": difficulty,
		"questions":  view,
		"expiresIn":  int(ttl.Seconds()),
	})
}

// SubmitQuiz grades a practice quiz. One submission per attempt: the cached
// bank is deleted on grading. Correct answers earn 10 points each.
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		QuizID  string `json:"quizId"`
		Answers []struct {
			SelectedIndex int `json:"selectedIndex"`
		} `json:"answers"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.QuizID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "quizId and answers are required!", nil)
	}

	ctx := context.Background()
	payload, err := store.Get(ctx, quizKey(reqData.QuizID))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz expired or already submitted!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade quiz!", nil)
	}

	var attempt quizAttempt
	if err := json.Unmarshal(payload, &attempt); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade quiz!", nil)
	}
	if attempt.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This quiz belongs to another user!", nil)
	}

	answers := make([]assessment.Answer, len(reqData.Answers))
	for i, a := range reqData.Answers {
		answers[i] = assessment.Answer{SelectedIndex: a.SelectedIndex}
	}

	result := assessment.Score(attempt.Questions, answers, assessment.DefaultPassingScore)
	_ = store.Delete(ctx, quizKey(reqData.QuizID))

	points := result.Correct * 10
	if points > 0 {
		database.Database.Db.Model(&models.User{}).
			Where("id = ?", userID).
			Update("points", gorm.Expr("points + ?", points))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz graded!", fiber.Map{
		"topic":        attempt.Topic,
		"result":       result,
		"pointsEarned": points,
	})
}
