package learningController

import (
	"learnhub/middleware"
	"learnhub/services/progress"
	"learnhub/services/quiz"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
)

// Handler serves lecture progress, section quizzes and the admin progress reports.
type Handler struct {
	Progress *progress.Service
	Quizzes  *quiz.Service
}

func idParam(c *fiber.Ctx, name string) (uint, bool) {
	id, err := utils.ParamUint(c, name)
	if err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+name+"!", nil)
		return 0, false
	}
	return id, true
}

// actingUser resolves a user id from the route or body against the token.
func actingUser(c *fiber.Ctx, requested uint) (uint, bool) {
	userID, err := middleware.ActingUser(c, requested)
	if err != nil {
		_ = middleware.ErrorResponse(c, err)
		return 0, false
	}
	return userID, true
}
