package courseRoutes

import (
	courseControllers "edutrek/controllers/course"
	"edutrek/middleware"
	"edutrek/models"
	assessmentValidators "edutrek/validators/assessment"
	courseValidators "edutrek/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/api/courses")

	// Public catalogue
	courseGroup.Get("/", courseControllers.GetAllCourses)
	courseGroup.Get("/search", courseControllers.SearchCourses)
	courseGroup.Get("/:id", courseControllers.GetCourseByID)

	// Everything below needs a logged-in user.
	courseGroup.Use(middleware.JWTMiddleware)

	instructor := middleware.RequireRoles(models.RoleInstructor, models.RoleAdmin)

	// Authoring
	courseGroup.Post("/", instructor, courseValidators.CreateCourse(), courseControllers.CreateCourse)
	courseGroup.Put("/:id", instructor, courseControllers.UpdateCourse)
	courseGroup.Delete("/:id", instructor, courseControllers.DeleteCourse)
	courseGroup.Get("/instructor/mine", instructor, courseControllers.GetInstructorCourses)
	courseGroup.Get("/:courseId/students", instructor, courseControllers.GetEnrolledStudents)

	courseGroup.Post("/:courseId/modules", instructor, courseControllers.AddModule)
	courseGroup.Put("/:courseId/modules/:moduleId", instructor, courseControllers.UpdateModule)
	courseGroup.Delete("/:courseId/modules/:moduleId", instructor, courseControllers.DeleteModule)
	courseGroup.Post("/:courseId/modules/:moduleId/videos", instructor, courseControllers.AddVideo)
	courseGroup.Delete("/:courseId/videos/:videoId", instructor, courseControllers.DeleteVideo)

	// Enrollment and progress
	courseGroup.Post("/:courseId/enroll", courseControllers.EnrollCourse)
	courseGroup.Delete("/:courseId/enroll", courseControllers.UnenrollCourse)
	courseGroup.Get("/enrolled/mine", courseControllers.GetMyCourses)
	courseGroup.Put("/:courseId/video-progress", courseValidators.VideoProgress(), courseControllers.TrackVideoCompletion)
	courseGroup.Get("/:courseId/progress", courseControllers.GetStudentProgress)

	// Assessment definition (instructor) and the proctored attempt flow
	courseGroup.Post("/:courseId/assessment/definition", instructor, assessmentValidators.Definition(), courseControllers.CreateOrReplaceAssessment)
	courseGroup.Delete("/:courseId/assessment/definition", instructor, courseControllers.DeleteAssessment)

	courseGroup.Get("/:courseId/assessment", courseControllers.GetAssessmentStatus)
	courseGroup.Post("/:courseId/assessment/start", courseControllers.StartAttempt)
	courseGroup.Get("/:courseId/assessment/session", courseControllers.GetSessionStatus)
	courseGroup.Post("/:courseId/assessment/session/answer", courseControllers.SessionAnswer)
	courseGroup.Post("/:courseId/assessment/session/event", courseControllers.SessionEvent)
	courseGroup.Delete("/:courseId/assessment/session", courseControllers.CancelAttempt)
	courseGroup.Post("/:courseId/assessment/submit", assessmentValidators.Submission(), courseControllers.SubmitAssessment)

	// Live classes
	courseGroup.Post("/:courseId/live", instructor, courseControllers.StartLiveSession)
	courseGroup.Delete("/:courseId/live", instructor, courseControllers.StopLiveSession)
	courseGroup.Get("/:courseId/live", courseControllers.GetLiveSession)
}
