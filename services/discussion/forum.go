package discussion

import (
	"context"
	"errors"
	"strings"

	"learnhub/apperror"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"
)

const (
	PostDiscussion   = "discussion"
	PostQuestion     = "question"
	PostAnnouncement = "announcement"
)

var postTypes = map[string]bool{PostDiscussion: true, PostQuestion: true, PostAnnouncement: true}

type ForumService struct {
	forum   repository.ForumRepo
	courses repository.CourseRepo
	users   repository.UserRepo
	log     *logger.Logger
}

func NewForumService(forum repository.ForumRepo, courses repository.CourseRepo, users repository.UserRepo, baseLog *logger.Logger) *ForumService {
	return &ForumService{forum: forum, courses: courses, users: users, log: baseLog.With("service", "ForumService")}
}

type TopicInput struct {
	UserID   uint
	CourseID *uint
	Title    string
	Content  string
	PostType string
	Tags     []string
}

type ReplyInput struct {
	TopicID  uint
	UserID   uint
	ParentID *uint
	Content  string
}

type TopicView struct {
	models.ForumTopic
	ReplyCount int64   `json:"reply_count"`
	Author     *Author `json:"author"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type TopicPage struct {
	Topics     []TopicView `json:"topics"`
	Pagination Pagination  `json:"pagination"`
}

type ReplyNode struct {
	models.ForumReply
	Author  *Author     `json:"author"`
	Replies []ReplyNode `json:"replies"`
}

type TopicDetail struct {
	Topic   TopicView   `json:"topic"`
	Replies []ReplyNode `json:"replies"`
}

func (s *ForumService) CreateTopic(ctx context.Context, in TopicInput) (*models.ForumTopic, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, apperror.BadRequest("Title and content are required")
	}
	postType := strings.ToLower(strings.TrimSpace(in.PostType))
	if postType == "" {
		postType = PostDiscussion
	}
	if !postTypes[postType] {
		return nil, apperror.Validation("Unknown post type")
	}

	var courseID *uint
	if in.CourseID != nil && *in.CourseID != 0 {
		if _, err := s.courses.GetByID(ctx, *in.CourseID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.NotFound("Course not found")
			}
			return nil, apperror.Internal(err, "Failed to load course")
		}
		id := *in.CourseID
		courseID = &id
	}

	topic := &models.ForumTopic{
		UserID:   in.UserID,
		CourseID: courseID,
		Title:    title,
		Content:  content,
		PostType: postType,
		Tags:     normalizeTags(in.Tags),
		Upvotes:  models.NewIDSet(),
	}
	if err := s.forum.CreateTopic(ctx, topic); err != nil {
		return nil, apperror.Internal(err, "Failed to create topic")
	}
	return topic, nil
}

// ListTopics pages topics newest first, matching search against topic and course titles.
func (s *ForumService) ListTopics(ctx context.Context, f repository.TopicFilter) (*TopicPage, error) {
	if f.Page.Page < 1 {
		f.Page.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	topics, total, err := s.forum.ListTopics(ctx, f)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list topics")
	}
	views, err := s.decorate(ctx, topics)
	if err != nil {
		return nil, err
	}
	return &TopicPage{
		Topics: views,
		Pagination: Pagination{
			Page:       f.Page.Page,
			Limit:      f.Limit,
			Total:      total,
			TotalPages: (total + int64(f.Limit) - 1) / int64(f.Limit),
		},
	}, nil
}

// FilterTopics narrows by post type and keeps topics carrying any of tags.
func (s *ForumService) FilterTopics(ctx context.Context, postType string, tags []string) ([]TopicView, error) {
	topics, _, err := s.forum.ListTopics(ctx, repository.TopicFilter{PostType: strings.ToLower(strings.TrimSpace(postType))})
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list topics")
	}
	want := normalizeTags(tags)
	if len(want) > 0 {
		kept := topics[:0]
		for _, t := range topics {
			if hasAnyTag(t.Tags, want) {
				kept = append(kept, t)
			}
		}
		topics = kept
	}
	return s.decorate(ctx, topics)
}

func (s *ForumService) TopicDetail(ctx context.Context, id uint) (*TopicDetail, error) {
	topic, err := s.topic(ctx, id)
	if err != nil {
		return nil, err
	}
	replies, err := s.forum.ListReplies(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list replies")
	}

	ids := []uint{topic.UserID}
	for _, r := range replies {
		ids = append(ids, r.UserID)
	}
	authors, err := loadAuthors(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	forest := BuildForest(replies,
		func(r models.ForumReply) uint { return r.ID },
		func(r models.ForumReply) *uint { return r.ParentID },
	)
	tree := Render(forest, func(r models.ForumReply, children []ReplyNode) ReplyNode {
		return ReplyNode{ForumReply: r, Author: authors[r.UserID], Replies: children}
	})

	return &TopicDetail{
		Topic:   TopicView{ForumTopic: *topic, ReplyCount: int64(len(replies)), Author: authors[topic.UserID]},
		Replies: tree,
	}, nil
}

func (s *ForumService) CreateReply(ctx context.Context, in ReplyInput) (*models.ForumReply, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperror.BadRequest("Content is required")
	}
	if _, err := s.topic(ctx, in.TopicID); err != nil {
		return nil, err
	}

	var parentID *uint
	if in.ParentID != nil && *in.ParentID != 0 {
		parent, err := s.reply(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.TopicID != in.TopicID {
			return nil, apperror.BadRequest("Parent reply belongs to another topic")
		}
		id := parent.ID
		parentID = &id
	}

	reply := &models.ForumReply{
		TopicID:  in.TopicID,
		UserID:   in.UserID,
		ParentID: parentID,
		Content:  content,
		Upvotes:  models.NewIDSet(),
	}
	if err := s.forum.CreateReply(ctx, reply); err != nil {
		return nil, apperror.Internal(err, "Failed to create reply")
	}
	return reply, nil
}

func (s *ForumService) ToggleTopicUpvote(ctx context.Context, topicID, userID uint) (*models.ForumTopic, error) {
	topic, err := s.topic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	topic.Upvotes.Toggle(userID)
	if err := s.forum.SaveTopic(ctx, topic); err != nil {
		return nil, apperror.Internal(err, "Failed to update topic")
	}
	return topic, nil
}

func (s *ForumService) ToggleReplyUpvote(ctx context.Context, replyID, userID uint) (*models.ForumReply, error) {
	reply, err := s.reply(ctx, replyID)
	if err != nil {
		return nil, err
	}
	reply.Upvotes.Toggle(userID)
	if err := s.forum.SaveReply(ctx, reply); err != nil {
		return nil, apperror.Internal(err, "Failed to update reply")
	}
	return reply, nil
}

func (s *ForumService) decorate(ctx context.Context, topics []models.ForumTopic) ([]TopicView, error) {
	ids := make([]uint, 0, len(topics))
	userIDs := make([]uint, 0, len(topics))
	for _, t := range topics {
		ids = append(ids, t.ID)
		userIDs = append(userIDs, t.UserID)
	}
	counts, err := s.forum.ReplyCounts(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to count replies")
	}
	authors, err := loadAuthors(ctx, s.users, userIDs)
	if err != nil {
		return nil, err
	}
	views := make([]TopicView, 0, len(topics))
	for _, t := range topics {
		views = append(views, TopicView{ForumTopic: t, ReplyCount: counts[t.ID], Author: authors[t.UserID]})
	}
	return views, nil
}

func (s *ForumService) topic(ctx context.Context, id uint) (*models.ForumTopic, error) {
	t, err := s.forum.GetTopic(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Topic not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load topic")
	}
	return t, nil
}

func (s *ForumService) reply(ctx context.Context, id uint) (*models.ForumReply, error) {
	r, err := s.forum.GetReply(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Reply not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load reply")
	}
	return r, nil
}

func normalizeTags(tags []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func hasAnyTag(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
