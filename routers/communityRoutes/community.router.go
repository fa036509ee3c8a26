package communityRoutes

import (
	controllers "learnhub/controllers/communityController"
	"learnhub/middleware"
	validators "learnhub/validators/communityValidator"

	"github.com/gofiber/fiber/v2"
)

// SetupCommunityRoutes mounts the forum, comment and review endpoints.
func SetupCommunityRoutes(app *fiber.App, h *controllers.Handler) {
	forumGroup := app.Group("/api/forum")
	forumGroup.Get("/topics", h.GetTopics)
	forumGroup.Get("/topics/filter", h.FilterTopics)
	forumGroup.Get("/topic/:id", h.GetTopicDetail)
	forumGroup.Post("/topic/create", middleware.JWTMiddleware, validators.CreateTopic(), h.CreateTopic)
	forumGroup.Post("/topic/upvote", middleware.JWTMiddleware, validators.UpvoteTopic(), h.UpvoteTopic)
	forumGroup.Post("/reply/create", middleware.JWTMiddleware, validators.CreateReply(), h.CreateReply)
	forumGroup.Post("/reply/upvote", middleware.JWTMiddleware, validators.UpvoteReply(), h.UpvoteReply)

	commentGroup := app.Group("/api/comments")
	commentGroup.Post("/add", middleware.JWTMiddleware, validators.AddComment(), h.AddComment)
	commentGroup.Post("/like", middleware.JWTMiddleware, validators.LikeComment(), h.LikeComment)
	commentGroup.Post("/unlike", middleware.JWTMiddleware, validators.LikeComment(), h.UnlikeComment)
	commentGroup.Get("/:lectureId", h.GetComments)

	reviewGroup := app.Group("/api/course-review")
	reviewGroup.Get("/review-form", h.GetReviewForm)
	reviewGroup.Put("/review-form", middleware.JWTMiddleware, middleware.RequireRole(middleware.RoleAdmin), validators.UpdateReviewForm(), h.UpdateReviewForm)
	reviewGroup.Get("/", h.GetReviews)
	reviewGroup.Post("/:courseId/review", middleware.JWTMiddleware, validators.SubmitReview(), h.SubmitReview)
	reviewGroup.Get("/:courseId/my-review", middleware.JWTMiddleware, h.GetMyReview)
}
