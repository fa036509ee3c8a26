package discussion

import (
	"context"
	"errors"
	"sort"
	"strings"

	"learnhub/apperror"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"
)

type CommentService struct {
	comments    repository.CommentRepo
	lectures    repository.LectureRepo
	enrollments repository.EnrollmentRepo
	users       repository.UserRepo
	log         *logger.Logger
}

func NewCommentService(comments repository.CommentRepo, lectures repository.LectureRepo, enrollments repository.EnrollmentRepo, users repository.UserRepo, baseLog *logger.Logger) *CommentService {
	return &CommentService{
		comments:    comments,
		lectures:    lectures,
		enrollments: enrollments,
		users:       users,
		log:         baseLog.With("service", "CommentService"),
	}
}

type CommentInput struct {
	LectureID uint
	UserID    uint
	ParentID  *uint
	Content   string
}

type CommentNode struct {
	models.Comment
	LikeCount int           `json:"like_count"`
	Author    *Author       `json:"author"`
	Replies   []CommentNode `json:"replies"`
}

// Add posts a comment. Only learners enrolled in the lecture's course may comment.
func (s *CommentService) Add(ctx context.Context, in CommentInput) (*models.Comment, error) {
	if in.UserID == 0 {
		return nil, apperror.BadRequest("userId is required")
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperror.BadRequest("Content is required")
	}

	lecture, err := s.lectures.GetByID(ctx, in.LectureID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Lecture not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load lecture")
	}

	_, err = s.enrollments.Find(ctx, in.UserID, lecture.CourseID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Unauthorized("You have not purchased this course")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to check enrollment")
	}

	var parentID *uint
	if in.ParentID != nil && *in.ParentID != 0 {
		parent, err := s.comment(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.LectureID != lecture.ID {
			return nil, apperror.BadRequest("Parent comment belongs to another lecture")
		}
		id := parent.ID
		parentID = &id
	}

	c := &models.Comment{
		LectureID: lecture.ID,
		UserID:    in.UserID,
		ParentID:  parentID,
		Content:   content,
		Likes:     models.NewIDSet(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, apperror.Internal(err, "Failed to create comment")
	}
	return c, nil
}

// Tree returns the lecture's comments nested by parent. Every sibling list is ordered by
// like count, most liked first, ties keeping posting order.
func (s *CommentService) Tree(ctx context.Context, lectureID uint) ([]CommentNode, error) {
	list, err := s.comments.ListByLecture(ctx, lectureID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list comments")
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Likes.Len() > list[j].Likes.Len() })

	ids := make([]uint, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.UserID)
	}
	authors, err := loadAuthors(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	forest := BuildForest(list,
		func(c models.Comment) uint { return c.ID },
		func(c models.Comment) *uint { return c.ParentID },
	)
	return Render(forest, func(c models.Comment, children []CommentNode) CommentNode {
		return CommentNode{Comment: c, LikeCount: c.Likes.Len(), Author: authors[c.UserID], Replies: children}
	}), nil
}

func (s *CommentService) Like(ctx context.Context, commentID, userID uint) (*models.Comment, error) {
	c, err := s.comment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !c.Likes.Add(userID) {
		return nil, apperror.BadRequest("Already liked")
	}
	if err := s.comments.Save(ctx, c); err != nil {
		return nil, apperror.Internal(err, "Failed to like comment")
	}
	return c, nil
}

// Unlike is idempotent.
func (s *CommentService) Unlike(ctx context.Context, commentID, userID uint) (*models.Comment, error) {
	c, err := s.comment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.Likes.Remove(userID) {
		if err := s.comments.Save(ctx, c); err != nil {
			return nil, apperror.Internal(err, "Failed to unlike comment")
		}
	}
	return c, nil
}

func (s *CommentService) comment(ctx context.Context, id uint) (*models.Comment, error) {
	c, err := s.comments.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Comment not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load comment")
	}
	return c, nil
}
