package communityValidator

import (
	"strings"

	"learnhub/middleware"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
)

type TopicRequest struct {
	UserID   uint     `json:"userId"`
	CourseID *uint    `json:"course_id"`
	Title    string   `json:"title" validate:"required,max=255"`
	Content  string   `json:"content" validate:"required"`
	PostType string   `json:"post_type"`
	Tags     []string `json:"tags" validate:"max=10"`
}

type ReplyRequest struct {
	TopicID  uint   `json:"topicId" validate:"required"`
	ParentID *uint  `json:"parentId"`
	UserID   uint   `json:"userId"`
	Content  string `json:"content"`
}

type TopicVoteRequest struct {
	TopicID uint `json:"topicId" validate:"required"`
	UserID  uint `json:"userId"`
}

type ReplyVoteRequest struct {
	ReplyID uint `json:"replyId" validate:"required"`
	UserID  uint `json:"userId"`
}

type CommentRequest struct {
	LectureID uint   `json:"lectureId" validate:"required"`
	ParentID  *uint  `json:"parentId"`
	UserID    uint   `json:"userId"`
	Content   string `json:"content" validate:"required,max=2000"`
}

type CommentLikeRequest struct {
	CommentID uint `json:"commentId" validate:"required"`
	UserID    uint `json:"userId"`
}

type ReviewFormRequest struct {
	Questions []models.ReviewQuestion `json:"questions"`
}

type ReviewRequest struct {
	UserID       uint                  `json:"userId"`
	Rating       int                   `json:"rating" validate:"required,gte=1,lte=5"`
	Satisfaction bool                  `json:"satisfaction"`
	Comment      string                `json:"comment" validate:"max=5000"`
	Answers      []models.ReviewAnswer `json:"answers"`
}

func CreateTopic() fiber.Handler {
	return middleware.Body[TopicRequest]("validatedTopic", func(r *TopicRequest, errors map[string]string) {
		if strings.TrimSpace(r.Title) == "" {
			errors["title"] = "title is required!"
		}
	})
}

// CreateReply leaves empty content to the service, which answers 400.
func CreateReply() fiber.Handler {
	return middleware.Body[ReplyRequest]("validatedReply")
}

func UpvoteTopic() fiber.Handler {
	return middleware.Body[TopicVoteRequest]("validatedTopicVote")
}

func UpvoteReply() fiber.Handler {
	return middleware.Body[ReplyVoteRequest]("validatedReplyVote")
}

func AddComment() fiber.Handler {
	return middleware.Body[CommentRequest]("validatedComment", func(r *CommentRequest, errors map[string]string) {
		if strings.TrimSpace(r.Content) == "" {
			errors["content"] = "content is required!"
		}
	})
}

func LikeComment() fiber.Handler {
	return middleware.Body[CommentLikeRequest]("validatedCommentLike")
}

func UpdateReviewForm() fiber.Handler {
	return middleware.Body[ReviewFormRequest]("validatedReviewForm", func(r *ReviewFormRequest, errors map[string]string) {
		if r.Questions == nil {
			errors["questions"] = "questions must be an array!"
		}
	})
}

func SubmitReview() fiber.Handler {
	return middleware.Body[ReviewRequest]("validatedReview")
}
