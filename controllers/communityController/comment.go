package communityController

import (
	"learnhub/middleware"
	"learnhub/services/discussion"
	validators "learnhub/validators/communityValidator"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) AddComment(c *fiber.Ctx) error {
	req := middleware.Validated[validators.CommentRequest](c, "validatedComment")
	userID, ok := actingUser(c, req.UserID)
	if !ok {
		return nil
	}

	comment, err := h.Comments.Add(c.UserContext(), discussion.CommentInput{
		LectureID: req.LectureID,
		UserID:    userID,
		ParentID:  req.ParentID,
		Content:   req.Content,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Comment added successfully!", comment)
}

func (h *Handler) GetComments(c *fiber.Ctx) error {
	lectureID, ok := idParam(c, "lectureId")
	if !ok {
		return nil
	}
	tree, err := h.Comments.Tree(c.UserContext(), lectureID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Comments fetched successfully!", tree)
}

func (h *Handler) LikeComment(c *fiber.Ctx) error {
	req := middleware.Validated[validators.CommentLikeRequest](c, "validatedCommentLike")
	userID, ok := actingUser(c, req.UserID)
	if !ok {
		return nil
	}

	comment, err := h.Comments.Like(c.UserContext(), req.CommentID, userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Comment liked", comment)
}

func (h *Handler) UnlikeComment(c *fiber.Ctx) error {
	req := middleware.Validated[validators.CommentLikeRequest](c, "validatedCommentLike")
	userID, ok := actingUser(c, req.UserID)
	if !ok {
		return nil
	}

	comment, err := h.Comments.Unlike(c.UserContext(), req.CommentID, userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Comment unliked", comment)
}
