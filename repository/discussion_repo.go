package repository

import (
	"context"
	"strings"

	"learnhub/logger"
	"learnhub/models"

	"gorm.io/gorm"
)

type forumRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewForumRepo(db *gorm.DB, baseLog *logger.Logger) ForumRepo {
	return &forumRepo{db: db, log: baseLog.With("repo", "ForumRepo")}
}

func (r *forumRepo) CreateTopic(ctx context.Context, t *models.ForumTopic) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *forumRepo) GetTopic(ctx context.Context, id uint) (*models.ForumTopic, error) {
	var t models.ForumTopic
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *forumRepo) SaveTopic(ctx context.Context, t *models.ForumTopic) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// ListTopics matches Search against the topic title and the linked course's title and teacher.
func (r *forumRepo) ListTopics(ctx context.Context, f TopicFilter) ([]models.ForumTopic, int64, error) {
	var (
		topics []models.ForumTopic
		total  int64
	)
	q := r.db.WithContext(ctx).Model(&models.ForumTopic{})
	if f.CourseID != 0 {
		q = q.Where("course_id = ?", f.CourseID)
	}
	if f.PostType != "" {
		q = q.Where("post_type = ?", f.PostType)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		courses := r.db.Model(&models.Course{}).Select("id").
			Where("LOWER(title) LIKE ? OR LOWER(name_teacher) LIKE ?", like, like)
		q = q.Where("LOWER(title) LIKE ? OR course_id IN (?)", like, courses)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := f.Page.apply(q).Order("created_at desc, id desc").Find(&topics).Error; err != nil {
		return nil, 0, err
	}
	return topics, total, nil
}

func (r *forumRepo) ReplyCounts(ctx context.Context, topicIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(topicIDs))
	if len(topicIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		TopicID uint
		Count   int64
	}
	err := r.db.WithContext(ctx).Model(&models.ForumReply{}).
		Select("topic_id, COUNT(*) AS count").
		Where("topic_id IN ?", topicIDs).
		Group("topic_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.TopicID] = row.Count
	}
	return counts, nil
}

func (r *forumRepo) CreateReply(ctx context.Context, reply *models.ForumReply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *forumRepo) GetReply(ctx context.Context, id uint) (*models.ForumReply, error) {
	var reply models.ForumReply
	if err := r.db.WithContext(ctx).First(&reply, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &reply, nil
}

func (r *forumRepo) SaveReply(ctx context.Context, reply *models.ForumReply) error {
	return r.db.WithContext(ctx).Save(reply).Error
}

func (r *forumRepo) ListReplies(ctx context.Context, topicID uint) ([]models.ForumReply, error) {
	var replies []models.ForumReply
	err := r.db.WithContext(ctx).Where("topic_id = ?", topicID).
		Order("created_at asc, id asc").Find(&replies).Error
	return replies, err
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func (r *commentRepo) Create(ctx context.Context, c *models.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *commentRepo) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var c models.Comment
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *commentRepo) Save(ctx context.Context, c *models.Comment) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *commentRepo) ListByLecture(ctx context.Context, lectureID uint) ([]models.Comment, error) {
	var list []models.Comment
	err := r.db.WithContext(ctx).Where("lecture_id = ?", lectureID).Order("id asc").Find(&list).Error
	return list, err
}
