package controllers

import (
	"errors"
	"time"

	"edutrek/assessment"
	"edutrek/config"
	"edutrek/database"
	"edutrek/logger"
	"edutrek/middleware"
	course "edutrek/models/course"
	"edutrek/progress"
	"edutrek/utils"
	assessmentValidator "edutrek/validators/assessment"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// sessions holds the process-wide proctored attempt controller. Wired once
// from main before routes are mounted.
var sessions *assessment.Controller

// UseSessionController injects the attempt controller.
func UseSessionController(ctrl *assessment.Controller) {
	sessions = ctrl
}

// Sessions exposes the injected controller for the background sweeper.
func Sessions() *assessment.Controller {
	return sessions
}

// studentQuestion is a question as served to a student: the answer key and
// explanation never leave the server before submission.
type studentQuestion struct {
	Index    int      `json:"index"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func stripAnswerKey(questions []course.Question) []studentQuestion {
	out := make([]studentQuestion, len(questions))
	for i, q := range questions {
		out[i] = studentQuestion{Index: i, Question: q.Prompt, Options: q.Options}
	}
	return out
}

// GetAssessmentStatus reports the assessment gate for the requesting
// student: whether a definition exists, whether the video gate is open, and
// how many attempts remain. A student who never enrolled still gets the
// locked view (isEnrolled false, zero progress) so the course page can
// render it. Questions are included (answer key stripped) only for an
// enrolled student with the gate open and attempts remaining.
func GetAssessmentStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("courseId")
	if err != nil || courseID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	if _, err := loadCourse(uint(courseID)); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	enrollment, err := loadEnrollment(userID, uint(courseID))
	if err != nil {
		var notFound *utils.NotFoundError
		if !errors.As(err, &notFound) {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load enrollment!", nil)
		}
		enrollment = nil
	}
	isEnrolled := enrollment != nil

	structure, err := loadStructure(uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load course content!", nil)
	}

	definition, err := loadAssessment(uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load assessment!", nil)
	}

	keys := []string{}
	if isEnrolled {
		if lk := enrollment.LessonKeys(); lk != nil {
			keys = lk
		}
	}
	summary := progress.Summarize(keys, structure.TotalUnits(), definition != nil)

	data := fiber.Map{
		"isEnrolled":        isEnrolled,
		"hasAssessment":     definition != nil,
		"assessmentEnabled": isEnrolled && summary.AssessmentEnabled,
		"progress":          summary.Progress,
		"completedVideos":   summary.Completed,
		"totalVideos":       summary.Total,
		"completedLessons":  keys,
	}
	if isEnrolled {
		data["attemptCount"] = enrollment.AttemptCount
		data["lastScore"] = enrollment.LastScore
		data["certificateEligible"] = enrollment.CertificateEligible
	} else {
		data["attemptCount"] = 0
		data["lastScore"] = nil
		data["certificateEligible"] = false
	}

	if definition == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No assessment for this course.", data)
	}

	attemptCount := 0
	if isEnrolled {
		attemptCount = enrollment.AttemptCount
	}
	attemptsLeft := definition.MaxAttempts - attemptCount
	if attemptsLeft < 0 {
		attemptsLeft = 0
	}
	data["title"] = definition.Title
	data["description"] = definition.Description
	data["passingScore"] = definition.PassingScore
	data["duration"] = definition.DurationMinutes
	data["maxAttempts"] = definition.MaxAttempts
	data["attemptsLeft"] = attemptsLeft

	if isEnrolled && summary.AssessmentEnabled && attemptsLeft > 0 {
		questions, err := definition.QuestionBank()
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load assessment!", nil)
		}
		data["questions"] = stripAnswerKey(questions)
	}

	if isEnrolled {
		if s := sessions.Lookup(userID, uint(courseID)); s != nil {
			data["session"] = sessionView(s)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment status fetched!", data)
}

// CreateOrReplaceAssessment installs the course's assessment definition.
// Replacing an existing definition bumps its version so in-flight attempts
// against the old bank are rejected at submission.
func CreateOrReplaceAssessment(c *fiber.Ctx) error {
	crs, err := requireOwnedCourse(c, "courseId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	reqData, ok := c.Locals("validatedAssessment").(*assessmentValidator.DefinitionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	questions := make([]course.Question, len(reqData.Questions))
	for i, q := range reqData.Questions {
		questions[i] = course.Question{
			Prompt:      q.Question,
			Options:     q.Options,
			AnswerIndex: q.AnswerIndex,
			Explanation: q.Explanation,
			Difficulty:  q.Difficulty,
		}
	}

	db := database.Database.Db
	existing, err := loadAssessment(crs.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save assessment!", nil)
	}

	definition := existing
	if definition == nil {
		definition = &course.Assessment{CourseID: crs.ID, Version: 1}
	} else {
		definition.Version++
	}

	definition.Title = reqData.Title
	definition.Description = reqData.Description
	definition.DurationMinutes = reqData.Duration
	if reqData.PassingScore != nil {
		definition.PassingScore = *reqData.PassingScore
	} else if definition.PassingScore == 0 {
		definition.PassingScore = assessment.DefaultPassingScore
	}
	if reqData.MaxAttempts != nil {
		definition.MaxAttempts = *reqData.MaxAttempts
	}
	if err := definition.SetQuestionBank(questions); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question bank!", nil)
	}

	if err := db.Save(definition).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save assessment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment saved successfully!", fiber.Map{
		"assessment":    definition,
		"questionCount": len(questions),
	})
}

// DeleteAssessment soft-deletes a course's assessment definition.
func DeleteAssessment(c *fiber.Ctx) error {
	crs, err := requireOwnedCourse(c, "courseId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	definition, err := loadAssessment(crs.ID)
	if err != nil || definition == nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found!", nil)
	}

	definition.IsDeleted = true
	if err := database.Database.Db.Save(definition).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete assessment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment deleted successfully!", nil)
}

// StartAttempt opens a proctored attempt session. Requires the video gate
// open and attempts remaining; an existing active session for the same
// (user, course) is abandoned and replaced.
func StartAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("courseId")
	if err != nil || courseID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	enrollment, definition, _, errResp := gateCheck(c, userID, uint(courseID))
	if errResp != nil {
		return errResp(c)
	}

	if enrollment.AttemptCount >= definition.MaxAttempts {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Maximum attempts reached!", fiber.Map{
			"attemptCount": enrollment.AttemptCount,
			"maxAttempts":  definition.MaxAttempts,
		})
	}

	questions, err := definition.QuestionBank()
	if err != nil || len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Assessment has no questions!", nil)
	}

	s := assessment.NewSession(
		uuid.NewString(),
		userID,
		uint(courseID),
		definition.Version,
		len(questions),
		definition.DurationMinutes,
		config.AppConfig.GraceSeconds,
	)
	sessions.Add(s)

	logger.Info("assessment attempt started",
		"sessionId", s.ID, "userId", userID, "courseId", courseID, "version", definition.Version)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt started!", fiber.Map{
		"session":   sessionView(s),
		"questions": stripAnswerKey(questions),
	})
}

// GetSessionStatus reports the live state of the requesting student's
// active attempt.
func GetSessionStatus(c *fiber.Ctx) error {
	s, errResp := requireSession(c)
	if errResp != nil {
		return errResp(c)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session status fetched!", sessionView(s))
}

// SessionAnswer records one answer selection on the active attempt.
func SessionAnswer(c *fiber.Ctx) error {
	s, errResp := requireSession(c)
	if errResp != nil {
		return errResp(c)
	}

	reqData := new(struct {
		QuestionIndex int `json:"questionIndex"`
		SelectedIndex int `json:"selectedIndex"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if !s.Select(reqData.QuestionIndex, reqData.SelectedIndex) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Answer rejected: session not active or index out of range!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer recorded!", sessionView(s))
}

// SessionEvent applies a proctoring event to the active attempt. Leaving
// fullscreen or hiding the tab starts the grace countdown; restoring either
// cancels it.
func SessionEvent(c *fiber.Ctx) error {
	s, errResp := requireSession(c)
	if errResp != nil {
		return errResp(c)
	}

	reqData := new(struct {
		Type string `json:"type"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	switch reqData.Type {
	case "fullscreen_exit", "visibility_hidden":
		s.Violation()
	case "fullscreen_restore", "visibility_visible":
		s.Restore()
	default:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown proctoring event!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Event applied!", sessionView(s))
}

// CancelAttempt abandons the active attempt without scoring it. The attempt
// still counts against the limit.
func CancelAttempt(c *fiber.Ctx) error {
	s, errResp := requireSession(c)
	if errResp != nil {
		return errResp(c)
	}

	s.Abandon()
	sessions.Remove(s.ID)

	if err := chargeAttempt(s.UserID, s.CourseID); err != nil {
		logger.Error("failed to record abandoned attempt", "sessionId", s.ID, "error", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt cancelled.", nil)
}

// SubmitAssessment grades the requesting student's submission. The gate is
// re-checked at submission time; closed gate, exhausted attempts, and
// submissions against a replaced definition are all rejected.
func SubmitAssessment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("courseId")
	if err != nil || courseID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	reqData, ok := c.Locals("validatedSubmission").(*assessmentValidator.SubmissionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	enrollment, definition, _, errResp := gateCheck(c, userID, uint(courseID))
	if errResp != nil {
		return errResp(c)
	}

	if enrollment.AttemptCount >= definition.MaxAttempts {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Maximum attempts reached!", fiber.Map{
			"attemptCount": enrollment.AttemptCount,
			"maxAttempts":  definition.MaxAttempts,
		})
	}

	answers := make([]assessment.Answer, len(reqData.Answers))
	for i, a := range reqData.Answers {
		answers[i] = assessment.Answer{SelectedIndex: a.SelectedIndex}
	}

	timeTaken := reqData.TimeTaken
	if s := sessions.Lookup(userID, uint(courseID)); s != nil {
		if s.DefinitionVersion != definition.Version {
			s.Abandon()
			sessions.Remove(s.ID)
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Assessment was updated while you were taking it. Please start over.", nil)
		}
		if !s.BeginSubmit() {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Submission already in progress!", nil)
		}
		timeTaken = s.TimeTaken()
		s.Finish()
		sessions.Remove(s.ID)
	}

	result, err := gradeAndPersist(enrollment, definition, answers)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save result!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment submitted successfully!", fiber.Map{
		"result":       result,
		"timeTaken":    timeTaken,
		"attemptCount": enrollment.AttemptCount,
		"attemptsLeft": maxInt(definition.MaxAttempts-enrollment.AttemptCount, 0),
	})
}

// AutoSubmitExpired is the controller's expiry hook: it grades whatever
// answers the session holds when its exam timer or grace period runs out.
func AutoSubmitExpired(s *assessment.Session) {
	enrollment, err := loadEnrollment(s.UserID, s.CourseID)
	if err != nil {
		logger.Error("auto-submit: enrollment lookup failed", "sessionId", s.ID, "error", err)
		s.Reopen()
		return
	}

	definition, err := loadAssessment(s.CourseID)
	if err != nil || definition == nil {
		logger.Error("auto-submit: assessment lookup failed", "sessionId", s.ID, "error", err)
		s.Reopen()
		return
	}

	if s.DefinitionVersion != definition.Version {
		logger.Warn("auto-submit: definition replaced mid-attempt, abandoning",
			"sessionId", s.ID, "sessionVersion", s.DefinitionVersion, "currentVersion", definition.Version)
		s.Abandon()
		sessions.Remove(s.ID)
		if err := chargeAttempt(s.UserID, s.CourseID); err != nil {
			logger.Error("auto-submit: failed to record abandoned attempt", "sessionId", s.ID, "error", err)
		}
		return
	}

	result, err := gradeAndPersist(enrollment, definition, s.Answers())
	if err != nil {
		logger.Error("auto-submit: persist failed, reopening session", "sessionId", s.ID, "error", err)
		s.Reopen()
		return
	}

	s.Finish()
	sessions.Remove(s.ID)
	logger.Info("assessment auto-submitted",
		"sessionId", s.ID, "userId", s.UserID, "courseId", s.CourseID,
		"score", result.Score, "passed", result.Passed)
}

// gradeAndPersist scores a submission and records the attempt on the
// enrollment. Certificate eligibility latches on: a later failed attempt
// never revokes it.
func gradeAndPersist(enrollment *course.Enrollment, definition *course.Assessment, answers []assessment.Answer) (*assessment.Result, error) {
	questions, err := definition.QuestionBank()
	if err != nil {
		return nil, err
	}

	result := assessment.Score(questions, answers, definition.PassingScore)

	now := time.Now()
	enrollment.AttemptCount++
	enrollment.LastScore = &result.Score
	enrollment.LastAttemptAt = &now
	if result.CertificateEligible {
		enrollment.CertificateEligible = true
		if enrollment.CompletedAt == nil {
			enrollment.CompletedAt = &now
		}
	}

	if err := database.Database.Db.Save(enrollment).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// ChargeAbandoned is the controller's abandon hook: sessions dropped
// without a submission (restart replaced them, or the sweeper caught them
// idle) still count against the attempt limit.
func ChargeAbandoned(s *assessment.Session) {
	if err := chargeAttempt(s.UserID, s.CourseID); err != nil {
		logger.Error("failed to record abandoned attempt",
			"sessionId", s.ID, "userId", s.UserID, "courseId", s.CourseID, "error", err)
	}
}

// chargeAttempt increments the attempt counter without a score, used for
// abandoned sessions.
func chargeAttempt(userID, courseID uint) error {
	enrollment, err := loadEnrollment(userID, courseID)
	if err != nil {
		return err
	}
	now := time.Now()
	enrollment.AttemptCount++
	enrollment.LastAttemptAt = &now
	return database.Database.Db.Save(enrollment).Error
}

func sessionView(s *assessment.Session) fiber.Map {
	answers := s.Answers()
	answered := 0
	for _, a := range answers {
		if a.SelectedIndex != assessment.Unanswered {
			answered++
		}
	}
	view := fiber.Map{
		"sessionId": s.ID,
		"state":     s.State(),
		"answered":  answered,
		"total":     len(answers),
	}
	if left := s.TimeLeft(); left != assessment.Untimed {
		view["timeLeft"] = left
	}
	if s.State() == assessment.StateGrace {
		view["graceLeft"] = s.GraceLeft()
	}
	return view
}

type respondFunc func(*fiber.Ctx) error

// requireSession resolves the requesting student's active session for the
// course in the route.
func requireSession(c *fiber.Ctx) (*assessment.Session, respondFunc) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}
	}

	courseID, err := c.ParamsInt("courseId")
	if err != nil || courseID <= 0 {
		return nil, func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}
	}

	s := sessions.Lookup(userID, uint(courseID))
	if s == nil {
		return nil, func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No active assessment session!", nil)
		}
	}
	return s, nil
}

// gateCheck loads the enrollment and assessment and enforces the video
// gate. A closed gate responds 403 with the current progress so the client
// can show what is left to watch.
func gateCheck(c *fiber.Ctx, userID, courseID uint) (*course.Enrollment, *course.Assessment, progress.Summary, respondFunc) {
	var zero progress.Summary

	enrollment, err := loadEnrollment(userID, courseID)
	if err != nil {
		e := err
		return nil, nil, zero, func(c *fiber.Ctx) error { return middleware.ErrorResponse(c, e) }
	}

	definition, err := loadAssessment(courseID)
	if err != nil {
		return nil, nil, zero, func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load assessment!", nil)
		}
	}
	if definition == nil {
		return nil, nil, zero, func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "This course has no assessment!", nil)
		}
	}

	structure, err := loadStructure(courseID)
	if err != nil {
		return nil, nil, zero, func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load course content!", nil)
		}
	}

	summary := progress.Summarize(enrollment.LessonKeys(), structure.TotalUnits(), true)
	if !summary.AssessmentEnabled {
		return nil, nil, zero, func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Complete all course videos to unlock the assessment!", fiber.Map{
				"videoProgress": fiber.Map{
					"progress":        summary.Progress,
					"completedVideos": summary.Completed,
					"totalVideos":     summary.Total,
				},
			})
		}
	}

	return enrollment, definition, summary, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
