package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"edutrek/assessment"
	"edutrek/cache"
	"edutrek/config"
	"edutrek/database"
	"edutrek/middleware"
	"edutrek/models"
	course "edutrek/models/course"
	assessmentValidators "edutrek/validators/assessment"
	courseValidators "edutrek/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

var testDBSeq int

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	testDBSeq++
	dsn := fmt.Sprintf("file:flow%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: glogger.Default.LogMode(glogger.Silent)})
	require.NoError(t, err)

	database.Database = database.DbInstance{Db: db}
	database.RunMigrations(db)

	UseSessionController(assessment.NewController(AutoSubmitExpired, ChargeAbandoned))
	UseCacheStore(cache.NewMemoryStore())

	app := fiber.New()
	g := app.Group("/api/courses", middleware.JWTMiddleware)
	g.Put("/:courseId/video-progress", courseValidators.VideoProgress(), TrackVideoCompletion)
	g.Get("/:courseId/progress", GetStudentProgress)
	g.Get("/:courseId/assessment", GetAssessmentStatus)
	g.Post("/:courseId/assessment/start", StartAttempt)
	g.Post("/:courseId/assessment/session/event", SessionEvent)
	g.Post("/:courseId/assessment/submit", assessmentValidators.Submission(), SubmitAssessment)
	return app
}

// seedCourse creates a student enrolled in a published course with one
// module of two videos and a two-question assessment.
func seedCourse(t *testing.T) (student models.User, crs course.Course, token string) {
	t.Helper()
	db := database.Database.Db

	student = models.User{Name: "Asha Verma", Email: "asha@example.com", Password: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	instructor := models.User{Name: "Ravi Nair", Email: "ravi@example.com", Password: "x", Role: models.RoleInstructor}
	require.NoError(t, db.Create(&instructor).Error)

	crs = course.Course{Title: "Go Fundamentals", Category: "programming", InstructorID: instructor.ID, IsPublished: true}
	require.NoError(t, db.Create(&crs).Error)

	mod := course.Module{CourseID: crs.ID, Title: "Basics", OrderIndex: 0}
	require.NoError(t, db.Create(&mod).Error)
	for i, title := range []string{"Intro", "Types"} {
		v := course.Video{ModuleID: mod.ID, Title: title, URL: "https://cdn.example.com/v", DurationSec: 300, OrderIndex: i}
		require.NoError(t, db.Create(&v).Error)
	}

	def := course.Assessment{CourseID: crs.ID, Title: "Final", PassingScore: 70, MaxAttempts: 3, Version: 1}
	require.NoError(t, def.SetQuestionBank([]course.Question{
		{Prompt: "What declares a variable?", Options: []string{"var", "let", "def"}, AnswerIndex: 0},
		{Prompt: "Zero value of int?", Options: []string{"nil", "0", "undefined"}, AnswerIndex: 1},
	}))
	require.NoError(t, db.Create(&def).Error)

	enrollment := course.Enrollment{UserID: student.ID, CourseID: crs.ID}
	require.NoError(t, db.Create(&enrollment).Error)

	token, err := middleware.GenerateJWT(student.ID, student.Name, student.Role, student.Email)
	require.NoError(t, err)
	return student, crs, token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var envelope struct {
		Status  bool                   `json:"status"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope.Data
}

func TestVideoGateUnlocksAssessment(t *testing.T) {
	app := setupApp(t)
	_, crs, token := seedCourse(t)
	base := fmt.Sprintf("/api/courses/%d", crs.ID)

	resp, data := doJSON(t, app, "PUT", base+"/video-progress", token, fiber.Map{"moduleIndex": 0, "videoIndex": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(50), data["progress"])
	require.False(t, data["assessmentEnabled"].(bool))

	// Marking the same video again must not move anything.
	resp, data = doJSON(t, app, "PUT", base+"/video-progress", token, fiber.Map{"moduleIndex": 0, "videoIndex": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(50), data["progress"])

	resp, data = doJSON(t, app, "PUT", base+"/video-progress", token, fiber.Map{"moduleIndex": 0, "videoIndex": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(100), data["progress"])
	require.True(t, data["assessmentEnabled"].(bool))
}

func TestAssessmentStatusWithoutEnrollment(t *testing.T) {
	app := setupApp(t)
	_, crs, _ := seedCourse(t)
	base := fmt.Sprintf("/api/courses/%d", crs.ID)

	outsider := models.User{Name: "Meera Iyer", Email: "meera@example.com", Password: "x", Role: models.RoleStudent}
	require.NoError(t, database.Database.Db.Create(&outsider).Error)
	token, err := middleware.GenerateJWT(outsider.ID, outsider.Name, outsider.Role, outsider.Email)
	require.NoError(t, err)

	// Not enrolled is still a 200: the course page renders the locked view.
	resp, data := doJSON(t, app, "GET", base+"/assessment", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, data["isEnrolled"].(bool))
	require.True(t, data["hasAssessment"].(bool))
	require.False(t, data["assessmentEnabled"].(bool))
	require.Equal(t, float64(0), data["progress"])
	require.Equal(t, float64(0), data["completedVideos"])
	require.Equal(t, float64(2), data["totalVideos"])
	require.Empty(t, data["completedLessons"])
	require.Equal(t, "Final", data["title"])
	require.NotContains(t, data, "questions")
}

func TestAssessmentStatusReportsEnrollmentFields(t *testing.T) {
	app := setupApp(t)
	_, crs, token := seedCourse(t)
	base := fmt.Sprintf("/api/courses/%d", crs.ID)

	doJSON(t, app, "PUT", base+"/video-progress", token, fiber.Map{"moduleIndex": 0, "videoIndex": 0})

	resp, data := doJSON(t, app, "GET", base+"/assessment", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, data["isEnrolled"].(bool))
	require.Equal(t, float64(50), data["progress"])
	lessons := data["completedLessons"].([]interface{})
	require.Len(t, lessons, 1)
	require.Equal(t, "0-0", lessons[0])
}

func TestSubmitRejectedWhileGateClosed(t *testing.T) {
	app := setupApp(t)
	_, crs, token := seedCourse(t)
	base := fmt.Sprintf("/api/courses/%d", crs.ID)

	resp, data := doJSON(t, app, "POST", base+"/assessment/submit", token, fiber.Map{
		"answers": []fiber.Map{{"selectedIndex": 0}, {"selectedIndex": 1}},
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Contains(t, data, "videoProgress")
}

func TestFullAssessmentFlow(t *testing.T) {
	app := setupApp(t)
	student, crs, token := seedCourse(t)
	base := fmt.Sprintf("/api/courses/%d", crs.ID)

	doJSON(t, app, "PUT", base+"/video-progress", token, fiber.Map{"moduleIndex": 0, "videoIndex": 0})
	doJSON(t, app, "PUT", base+"/video-progress", token, fiber.Map{"moduleIndex": 0, "videoIndex": 1})

	resp, data := doJSON(t, app, "POST", base+"/assessment/start", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, data, "session")
	questions := data["questions"].([]interface{})
	require.Len(t, questions, 2)
	for _, q := range questions {
		_, leaked := q.(map[string]interface{})["answerIndex"]
		require.False(t, leaked, "answer key must not reach the client")
	}

	// A proctoring violation puts the session into its grace period.
	resp, data = doJSON(t, app, "POST", base+"/assessment/session/event", token, fiber.Map{"type": "fullscreen_exit"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, string(assessment.StateGrace), data["state"])

	resp, data = doJSON(t, app, "POST", base+"/assessment/session/event", token, fiber.Map{"type": "fullscreen_restore"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, string(assessment.StateInProgress), data["state"])

	resp, data = doJSON(t, app, "POST", base+"/assessment/submit", token, fiber.Map{
		"answers": []fiber.Map{{"selectedIndex": 0}, {"selectedIndex": 1}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := data["result"].(map[string]interface{})
	require.Equal(t, float64(100), result["score"])
	require.True(t, result["passed"].(bool))
	require.True(t, result["certificateEligible"].(bool))

	var enrollment course.Enrollment
	require.NoError(t, database.Database.Db.
		Where("user_id = ? AND course_id = ?", student.ID, crs.ID).First(&enrollment).Error)
	require.True(t, enrollment.CertificateEligible)
	require.Equal(t, 1, enrollment.AttemptCount)
	require.NotNil(t, enrollment.LastScore)
	require.Equal(t, 100, *enrollment.LastScore)
}

func TestAttemptLimitEnforced(t *testing.T) {
	app := setupApp(t)
	student, crs, token := seedCourse(t)
	base := fmt.Sprintf("/api/courses/%d", crs.ID)

	doJSON(t, app, "PUT", base+"/video-progress", token, fiber.Map{"moduleIndex": 0, "videoIndex": 0})
	doJSON(t, app, "PUT", base+"/video-progress", token, fiber.Map{"moduleIndex": 0, "videoIndex": 1})

	require.NoError(t, database.Database.Db.Model(&course.Enrollment{}).
		Where("user_id = ? AND course_id = ?", student.ID, crs.ID).
		Update("attempt_count", 3).Error)

	resp, _ := doJSON(t, app, "POST", base+"/assessment/start", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", base+"/assessment/submit", token, fiber.Map{
		"answers": []fiber.Map{{"selectedIndex": 0}, {"selectedIndex": 1}},
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRestartedAttemptsCountAgainstLimit(t *testing.T) {
	app := setupApp(t)
	student, crs, token := seedCourse(t)
	base := fmt.Sprintf("/api/courses/%d", crs.ID)

	doJSON(t, app, "PUT", base+"/video-progress", token, fiber.Map{"moduleIndex": 0, "videoIndex": 0})
	doJSON(t, app, "PUT", base+"/video-progress", token, fiber.Map{"moduleIndex": 0, "videoIndex": 1})

	attemptCount := func() int {
		var e course.Enrollment
		require.NoError(t, database.Database.Db.
			Where("user_id = ? AND course_id = ?", student.ID, crs.ID).First(&e).Error)
		return e.AttemptCount
	}

	// Each restart abandons the previous session and charges it: the limit
	// cannot be dodged by starting over instead of cancelling.
	for i := 0; i < 4; i++ {
		resp, _ := doJSON(t, app, "POST", base+"/assessment/start", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, i, attemptCount())
	}

	resp, _ := doJSON(t, app, "POST", base+"/assessment/start", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, 3, attemptCount())
}

func TestSubmitAgainstReplacedDefinitionRejected(t *testing.T) {
	app := setupApp(t)
	_, crs, token := seedCourse(t)
	base := fmt.Sprintf("/api/courses/%d", crs.ID)

	doJSON(t, app, "PUT", base+"/video-progress", token, fiber.Map{"moduleIndex": 0, "videoIndex": 0})
	doJSON(t, app, "PUT", base+"/video-progress", token, fiber.Map{"moduleIndex": 0, "videoIndex": 1})

	resp, _ := doJSON(t, app, "POST", base+"/assessment/start", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Instructor replaces the definition mid-attempt.
	require.NoError(t, database.Database.Db.Model(&course.Assessment{}).
		Where("course_id = ?", crs.ID).Update("version", 2).Error)

	resp, _ = doJSON(t, app, "POST", base+"/assessment/submit", token, fiber.Map{
		"answers": []fiber.Map{{"selectedIndex": 0}, {"selectedIndex": 1}},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}
