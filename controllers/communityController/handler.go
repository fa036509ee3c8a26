package communityController

import (
	"learnhub/middleware"
	"learnhub/services/discussion"
	"learnhub/services/review"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
)

// Handler serves the forum, lecture comments and course reviews.
type Handler struct {
	Forum    *discussion.ForumService
	Comments *discussion.CommentService
	Reviews  *review.Service
}

func idParam(c *fiber.Ctx, name string) (uint, bool) {
	id, err := utils.ParamUint(c, name)
	if err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+name+"!", nil)
		return 0, false
	}
	return id, true
}

func actingUser(c *fiber.Ctx, requested uint) (uint, bool) {
	userID, err := middleware.ActingUser(c, requested)
	if err != nil {
		_ = middleware.ErrorResponse(c, err)
		return 0, false
	}
	return userID, true
}
