package learningRoutes

import (
	controllers "learnhub/controllers/learningController"
	"learnhub/middleware"
	validators "learnhub/validators/learningValidator"

	"github.com/gofiber/fiber/v2"
)

// SetupLearningRoutes mounts lecture progress, section quiz and admin progress endpoints.
func SetupLearningRoutes(app *fiber.App, h *controllers.Handler) {
	staffOnly := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleTeacher)

	progressGroup := app.Group("/api/lecture-progress", middleware.JWTMiddleware)
	progressGroup.Post("/update", validators.UpdateProgress(), h.UpdateLectureProgress)
	progressGroup.Get("/by-lecture/:lectureId/by-user/:userId", h.GetLectureProgress)
	progressGroup.Get("/section/:sectionId", h.GetSectionProgress)

	quizGroup := app.Group("/api/section-quiz", middleware.JWTMiddleware)
	quizGroup.Post("/create", staffOnly, validators.CreateQuiz(), h.CreateQuiz)
	quizGroup.Post("/question/create", staffOnly, validators.CreateQuestion(), h.CreateQuestion)
	quizGroup.Put("/question/update/:id", staffOnly, validators.UpdateQuestion(), h.UpdateQuestion)
	quizGroup.Delete("/question/delete/:id", staffOnly, h.DeleteQuestion)
	quizGroup.Get("/quiz/:id", h.GetQuiz)
	quizGroup.Get("/section/:sectionId", h.GetSectionQuizzes)
	quizGroup.Get("/result/:userId/:sectionId", h.GetQuizResults)
	quizGroup.Post("/submit", validators.SubmitQuiz(), h.SubmitQuiz)
	quizGroup.Delete("/delete/:id", staffOnly, h.DeleteQuiz)

	adminGroup := app.Group("/api/user-progress", middleware.JWTMiddleware, staffOnly)
	adminGroup.Get("/course/:courseId/users", h.GetCourseLearners)
	adminGroup.Get("/user/:userId/courses", h.GetUserCourses)
	adminGroup.Get("/compute/:userCourseId", h.ComputeProgress)
	adminGroup.Get("/lectures/:userId/:courseId", h.GetUserCourseLectures)
	adminGroup.Get("/all-users-course", h.GetAllUsersProgress)
}
