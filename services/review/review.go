// Package review owns the course review form and learner reviews.
package review

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"learnhub/apperror"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Service struct {
	reviews     repository.ReviewRepo
	courses     repository.CourseRepo
	users       repository.UserRepo
	enrollments repository.EnrollmentRepo
	log         *logger.Logger
}

func NewService(
	reviews repository.ReviewRepo,
	courses repository.CourseRepo,
	users repository.UserRepo,
	enrollments repository.EnrollmentRepo,
	baseLog *logger.Logger,
) *Service {
	return &Service{
		reviews:     reviews,
		courses:     courses,
		users:       users,
		enrollments: enrollments,
		log:         baseLog.With("service", "ReviewService"),
	}
}

type Form struct {
	Questions []models.ReviewQuestion `json:"questions"`
	IsActive  bool                    `json:"is_active"`
}

// Form returns the configured questions. Without a stored form it is empty and active.
func (s *Service) Form(ctx context.Context) (*Form, error) {
	f, err := s.reviews.GetForm(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return &Form{Questions: []models.ReviewQuestion{}, IsActive: true}, nil
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to get review form")
	}
	qs := []models.ReviewQuestion(f.Questions)
	if qs == nil {
		qs = []models.ReviewQuestion{}
	}
	return &Form{Questions: qs, IsActive: f.IsActive}, nil
}

// UpdateForm replaces the question list. New questions get an id; existing ids are kept.
func (s *Service) UpdateForm(ctx context.Context, questions []models.ReviewQuestion) (*Form, error) {
	if questions == nil {
		return nil, apperror.BadRequest("Questions must be an array")
	}
	normalized := make([]models.ReviewQuestion, 0, len(questions))
	for i, q := range questions {
		label := strings.TrimSpace(q.Label)
		if label == "" || q.Options == nil {
			return nil, apperror.Validation(fmt.Sprintf("question %d: label and options are required", i+1))
		}
		id := q.ID
		if id == "" {
			id = uuid.NewString()
		}
		normalized = append(normalized, models.ReviewQuestion{ID: id, Label: label, Options: q.Options})
	}

	form, err := s.reviews.GetForm(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		form = &models.ReviewForm{IsActive: true}
	case err != nil:
		return nil, apperror.Internal(err, "Failed to get review form")
	}
	form.Questions = datatypes.JSONSlice[models.ReviewQuestion](normalized)
	if err := s.reviews.SaveForm(ctx, form); err != nil {
		return nil, apperror.Internal(err, "Failed to update review form")
	}
	return &Form{Questions: normalized, IsActive: form.IsActive}, nil
}

type SubmitInput struct {
	CourseID     uint
	UserID       uint
	Rating       int
	Satisfaction bool
	Comment      string
	Answers      []models.ReviewAnswer
}

// Submit creates or replaces the learner's review and refreshes the course rating.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.CourseReview, error) {
	if in.CourseID == 0 || in.UserID == 0 {
		return nil, apperror.BadRequest("courseId and userId are required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperror.Validation("rating must be between 1 and 5")
	}
	if _, err := s.courses.GetByID(ctx, in.CourseID); err != nil {
		return nil, lookupErr(err, "Course not found")
	}
	if _, err := s.enrollments.Find(ctx, in.UserID, in.CourseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Forbidden("You must be enrolled to review this course")
		}
		return nil, apperror.Internal(err, "Failed to check enrollment")
	}

	form, err := s.Form(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkAnswers(form.Questions, in.Answers); err != nil {
		return nil, err
	}

	review, err := s.reviews.Find(ctx, in.CourseID, in.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		review = &models.CourseReview{CourseID: in.CourseID, UserID: in.UserID}
	case err != nil:
		return nil, apperror.Internal(err, "Failed to load review")
	}
	review.Rating = in.Rating
	review.Satisfaction = in.Satisfaction
	review.Comment = strings.TrimSpace(in.Comment)
	review.Answers = datatypes.JSONSlice[models.ReviewAnswer](in.Answers)
	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, apperror.Internal(err, "Failed to submit review")
	}

	if err := s.refreshRating(ctx, in.CourseID); err != nil {
		s.log.Error("course rating not refreshed", "course_id", in.CourseID, "error", err)
	}
	return review, nil
}

func checkAnswers(questions []models.ReviewQuestion, answers []models.ReviewAnswer) error {
	byID := make(map[string]string, len(answers))
	for _, a := range answers {
		byID[a.QuestionID] = a.Value
	}
	for _, q := range questions {
		v, ok := byID[q.ID]
		if !ok {
			return apperror.Validation("Missing answer for: " + q.Label)
		}
		valid := false
		for _, opt := range q.Options {
			if opt == v {
				valid = true
				break
			}
		}
		if !valid {
			return apperror.Validation("Invalid value for question: " + q.Label)
		}
	}
	return nil
}

func (s *Service) refreshRating(ctx context.Context, courseID uint) error {
	avg, count, err := s.reviews.RatingStats(ctx, courseID)
	if err != nil {
		return err
	}
	return s.courses.UpdateFields(ctx, courseID, map[string]interface{}{
		"rating_average": RoundRating(avg),
		"rating_count":   int(count),
	})
}

// RoundRating rounds to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// Mine returns the user's review of a course, or nil if there is none.
func (s *Service) Mine(ctx context.Context, courseID, userID uint) (*models.CourseReview, error) {
	r, err := s.reviews.Find(ctx, courseID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to get review")
	}
	return r, nil
}

type Reviewer struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type ReviewedCourse struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type LabeledAnswer struct {
	QuestionID    string `json:"question_id"`
	QuestionLabel string `json:"question_label"`
	Value         string `json:"value"`
}

type ReviewItem struct {
	ID           uint            `json:"id"`
	User         *Reviewer       `json:"user"`
	Course       *ReviewedCourse `json:"course"`
	Rating       int             `json:"rating"`
	Satisfaction bool            `json:"satisfaction"`
	Comment      string          `json:"comment"`
	CreatedAt    time.Time       `json:"createdAt"`
	Answers      []LabeledAnswer `json:"answers"`
}

type ReviewPage struct {
	Items []ReviewItem `json:"items"`
	Total int64        `json:"total"`
}

// List pages through all reviews, newest first. userID 0 means every user.
func (s *Service) List(ctx context.Context, userID uint, page repository.Page) (*ReviewPage, error) {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit <= 0 {
		page.Limit = 10
	}
	list, total, err := s.reviews.List(ctx, userID, page)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list reviews")
	}

	userIDs := make([]uint, 0, len(list))
	courseIDs := make([]uint, 0, len(list))
	for _, r := range list {
		userIDs = append(userIDs, r.UserID)
		courseIDs = append(courseIDs, r.CourseID)
	}
	users, err := s.users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load users")
	}
	courses, err := s.courses.GetByIDs(ctx, courseIDs)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load courses")
	}
	reviewers := make(map[uint]*Reviewer, len(users))
	for _, u := range users {
		reviewers[u.ID] = &Reviewer{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	}
	titles := make(map[uint]*ReviewedCourse, len(courses))
	for _, c := range courses {
		titles[c.ID] = &ReviewedCourse{ID: c.ID, Title: c.Title}
	}

	labels := map[string]string{}
	if form, err := s.Form(ctx); err == nil {
		for _, q := range form.Questions {
			labels[q.ID] = q.Label
		}
	}

	items := make([]ReviewItem, 0, len(list))
	for _, r := range list {
		answers := make([]LabeledAnswer, 0, len(r.Answers))
		for _, a := range r.Answers {
			label := labels[a.QuestionID]
			if label == "" {
				label = a.QuestionID
			}
			answers = append(answers, LabeledAnswer{QuestionID: a.QuestionID, QuestionLabel: label, Value: a.Value})
		}
		items = append(items, ReviewItem{
			ID:           r.ID,
			User:         reviewers[r.UserID],
			Course:       titles[r.CourseID],
			Rating:       r.Rating,
			Satisfaction: r.Satisfaction,
			Comment:      r.Comment,
			CreatedAt:    r.CreatedAt,
			Answers:      answers,
		})
	}
	return &ReviewPage{Items: items, Total: total}, nil
}

func lookupErr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(msg)
	}
	return apperror.Internal(err, msg)
}
