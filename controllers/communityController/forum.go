package communityController

import (
	"strings"

	"learnhub/middleware"
	"learnhub/repository"
	"learnhub/services/discussion"
	"learnhub/utils"
	validators "learnhub/validators/communityValidator"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateTopic(c *fiber.Ctx) error {
	req := middleware.Validated[validators.TopicRequest](c, "validatedTopic")
	userID, ok := actingUser(c, req.UserID)
	if !ok {
		return nil
	}

	topic, err := h.Forum.CreateTopic(c.UserContext(), discussion.TopicInput{
		UserID:   userID,
		CourseID: req.CourseID,
		Title:    req.Title,
		Content:  req.Content,
		PostType: req.PostType,
		Tags:     req.Tags,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Topic created successfully!", topic)
}

// GetTopics pages topics newest first with ?search and ?courseId.
func (h *Handler) GetTopics(c *fiber.Ctx) error {
	page, err := h.Forum.ListTopics(c.UserContext(), repository.TopicFilter{
		Page:     utils.PageFromQuery(c, 10),
		Search:   c.Query("search"),
		CourseID: utils.QueryUint(c, "courseId"),
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Topics fetched successfully!", page)
}

// FilterTopics reads ?type and a comma separated ?tags list.
func (h *Handler) FilterTopics(c *fiber.Ctx) error {
	var tags []string
	if raw := c.Query("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}
	topics, err := h.Forum.FilterTopics(c.UserContext(), c.Query("type"), tags)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Topics fetched successfully!", topics)
}

func (h *Handler) GetTopicDetail(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	detail, err := h.Forum.TopicDetail(c.UserContext(), id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Topic fetched successfully!", detail)
}

func (h *Handler) CreateReply(c *fiber.Ctx) error {
	req := middleware.Validated[validators.ReplyRequest](c, "validatedReply")
	userID, ok := actingUser(c, req.UserID)
	if !ok {
		return nil
	}

	reply, err := h.Forum.CreateReply(c.UserContext(), discussion.ReplyInput{
		TopicID:  req.TopicID,
		UserID:   userID,
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Reply created successfully!", reply)
}

func (h *Handler) UpvoteTopic(c *fiber.Ctx) error {
	req := middleware.Validated[validators.TopicVoteRequest](c, "validatedTopicVote")
	userID, ok := actingUser(c, req.UserID)
	if !ok {
		return nil
	}

	topic, err := h.Forum.ToggleTopicUpvote(c.UserContext(), req.TopicID, userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Upvote toggled", topic)
}

func (h *Handler) UpvoteReply(c *fiber.Ctx) error {
	req := middleware.Validated[validators.ReplyVoteRequest](c, "validatedReplyVote")
	userID, ok := actingUser(c, req.UserID)
	if !ok {
		return nil
	}

	reply, err := h.Forum.ToggleReplyUpvote(c.UserContext(), req.ReplyID, userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Upvote toggled", reply)
}
