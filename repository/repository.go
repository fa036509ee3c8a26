package repository

import (
	"context"
	"errors"
	"time"

	"learnhub/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("record not found")

// Page is 1-based. A zero Limit means no paging.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Limit <= 0 {
		return db
	}
	return db.Offset(p.Offset()).Limit(p.Limit)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	List(ctx context.Context, page Page) ([]models.User, int64, error)
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	Save(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id uint) error
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type CategoryRepo interface {
	Create(ctx context.Context, c *models.Category) error
	Save(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	HasChildren(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) error
	// List returns categories ordered by id.
	List(ctx context.Context, activeOnly bool) ([]models.Category, error)
	ListByRootIDs(ctx context.Context, rootIDs []uint) ([]models.Category, error)
}

type CourseFilter struct {
	Page
	TeacherID   uint
	CategoryIDs []uint
	Query       string
	ExcludeID   uint
}

type CourseRepo interface {
	Create(ctx context.Context, c *models.Course) error
	Save(ctx context.Context, c *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Course, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, f CourseFilter) ([]models.Course, int64, error)
	IncrementStudentCount(ctx context.Context, id uint, delta int) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
}

type SectionRepo interface {
	Create(ctx context.Context, s *models.Section) error
	Save(ctx context.Context, s *models.Section) error
	GetByID(ctx context.Context, id uint) (*models.Section, error)
	Delete(ctx context.Context, id uint) error
	ListByCourse(ctx context.Context, courseID uint) ([]models.Section, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	UpdatePositions(ctx context.Context, courseID uint, positions map[uint]int) error
}

type LectureRepo interface {
	Create(ctx context.Context, l *models.Lecture) error
	Save(ctx context.Context, l *models.Lecture) error
	GetByID(ctx context.Context, id uint) (*models.Lecture, error)
	Delete(ctx context.Context, id uint) error
	DeleteBySection(ctx context.Context, sectionID uint) error
	ListBySection(ctx context.Context, sectionID uint) ([]models.Lecture, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	CountBySection(ctx context.Context, sectionID uint) (int64, error)
	UpdatePositions(ctx context.Context, sectionID uint, positions map[uint]int) error
}

type EnrollmentRepo interface {
	Create(ctx context.Context, uc *models.UserCourse) error
	Save(ctx context.Context, uc *models.UserCourse) error
	GetByID(ctx context.Context, id uint) (*models.UserCourse, error)
	Find(ctx context.Context, userID, courseID uint) (*models.UserCourse, error)
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint) ([]models.UserCourse, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.UserCourse, error)
	ListUserIDs(ctx context.Context) ([]uint, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type LectureProgressRepo interface {
	Find(ctx context.Context, userID, lectureID uint) (*models.LectureProgress, error)
	Create(ctx context.Context, p *models.LectureProgress) error
	Save(ctx context.Context, p *models.LectureProgress) error
	CountCompleted(ctx context.Context, userID, courseID uint) (int64, error)
	ListByUserCourse(ctx context.Context, userID, courseID uint) ([]models.LectureProgress, error)
	// ListBySection returns every learner's records when userID is 0.
	ListBySection(ctx context.Context, sectionID, userID uint) ([]models.LectureProgress, error)
}

type FavoriteRepo interface {
	Find(ctx context.Context, userID, courseID uint) (*models.FavoriteCourse, error)
	Create(ctx context.Context, f *models.FavoriteCourse) error
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint) ([]models.FavoriteCourse, error)
}

type QuizRepo interface {
	Create(ctx context.Context, q *models.SectionQuiz) error
	// GetByID loads the quiz with its questions and options in order.
	GetByID(ctx context.Context, id uint) (*models.SectionQuiz, error)
	ListBySection(ctx context.Context, sectionID uint) ([]models.SectionQuiz, error)
	CountBySection(ctx context.Context, sectionID uint) (int64, error)
	// Delete removes the quiz together with its questions, options and results.
	Delete(ctx context.Context, id uint) error
	CreateQuestion(ctx context.Context, q *models.QuizQuestion) error
	GetQuestion(ctx context.Context, id uint) (*models.QuizQuestion, error)
	// ReplaceQuestion updates the question and swaps its options for q.Options.
	ReplaceQuestion(ctx context.Context, q *models.QuizQuestion) error
	DeleteQuestion(ctx context.Context, id uint) error
	CountQuestions(ctx context.Context, quizID uint) (int64, error)
	// UpsertResult writes r keyed by (user, section, quiz) and reloads it.
	UpsertResult(ctx context.Context, r *models.SectionQuizResult) error
	ListResults(ctx context.Context, userID, sectionID uint) ([]models.SectionQuizResult, error)
}

type TopicFilter struct {
	Page
	Search   string
	CourseID uint
	PostType string
}

type ForumRepo interface {
	CreateTopic(ctx context.Context, t *models.ForumTopic) error
	GetTopic(ctx context.Context, id uint) (*models.ForumTopic, error)
	SaveTopic(ctx context.Context, t *models.ForumTopic) error
	// ListTopics orders newest first.
	ListTopics(ctx context.Context, f TopicFilter) ([]models.ForumTopic, int64, error)
	ReplyCounts(ctx context.Context, topicIDs []uint) (map[uint]int64, error)
	CreateReply(ctx context.Context, r *models.ForumReply) error
	GetReply(ctx context.Context, id uint) (*models.ForumReply, error)
	SaveReply(ctx context.Context, r *models.ForumReply) error
	// ListReplies orders oldest first.
	ListReplies(ctx context.Context, topicID uint) ([]models.ForumReply, error)
}

type CommentRepo interface {
	Create(ctx context.Context, c *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	Save(ctx context.Context, c *models.Comment) error
	ListByLecture(ctx context.Context, lectureID uint) ([]models.Comment, error)
}

type ReviewRepo interface {
	GetForm(ctx context.Context) (*models.ReviewForm, error)
	SaveForm(ctx context.Context, f *models.ReviewForm) error
	Find(ctx context.Context, courseID, userID uint) (*models.CourseReview, error)
	Save(ctx context.Context, r *models.CourseReview) error
	List(ctx context.Context, userID uint, page Page) ([]models.CourseReview, int64, error)
	RatingStats(ctx context.Context, courseID uint) (float64, int64, error)
}

type PricingRepo interface {
	GetByID(ctx context.Context, id uint) (*models.CoursePricing, error)
	GetByCourse(ctx context.Context, courseID uint) (*models.CoursePricing, error)
	Save(ctx context.Context, p *models.CoursePricing) error
	List(ctx context.Context) ([]models.CoursePricing, error)
	Increment(ctx context.Context, courseID uint, column string) error
}

type PaymentRepo interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, page Page) ([]models.Payment, int64, error)
	// SumSuccess totals successful payments; nil bounds are open.
	SumSuccess(ctx context.Context, from, to *time.Time) (float64, int64, error)
}
