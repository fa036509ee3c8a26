// Package quiz manages section quizzes and grades submissions.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"learnhub/apperror"
	"learnhub/integrations/events"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"
)

type Service struct {
	quizzes  repository.QuizRepo
	sections repository.SectionRepo
	events   events.Publisher
	log      *logger.Logger
}

func NewService(quizzes repository.QuizRepo, sections repository.SectionRepo, publisher events.Publisher, baseLog *logger.Logger) *Service {
	return &Service{
		quizzes:  quizzes,
		sections: sections,
		events:   publisher,
		log:      baseLog.With("service", "QuizService"),
	}
}

type QuizInput struct {
	SectionID         uint
	Title             string
	PassingPercentage *int
}

type OptionInput struct {
	Content   string `json:"content"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionInput struct {
	QuizID  uint
	Content string
	Options []OptionInput
}

type Answer struct {
	QuestionID        uint   `json:"question_id"`
	SelectedOptionIDs []uint `json:"selected_option_ids"`
}

type Submission struct {
	QuizID    uint
	UserID    uint
	SectionID uint
	CourseID  uint
	Answers   []Answer
}

func (s *Service) CreateQuiz(ctx context.Context, in QuizInput) (*models.SectionQuiz, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.Validation("Quiz title is required")
	}
	passing := models.DefaultPassingPercentage
	if in.PassingPercentage != nil {
		passing = *in.PassingPercentage
	}
	if passing < 0 || passing > 100 {
		return nil, apperror.Validation("passing_percentage must be between 0 and 100")
	}

	section, err := s.sections.GetByID(ctx, in.SectionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Section not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load section")
	}
	count, err := s.quizzes.CountBySection(ctx, section.ID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to count quizzes")
	}

	q := &models.SectionQuiz{
		SectionID:         section.ID,
		CourseID:          section.CourseID,
		Title:             title,
		PassingPercentage: passing,
		Position:          int(count) + 1,
	}
	if err := s.quizzes.Create(ctx, q); err != nil {
		return nil, apperror.Internal(err, "Failed to create quiz")
	}
	return q, nil
}

func (s *Service) Quiz(ctx context.Context, id uint) (*models.SectionQuiz, error) {
	q, err := s.quizzes.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Quiz not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load quiz")
	}
	return q, nil
}

func (s *Service) QuizzesBySection(ctx context.Context, sectionID uint) ([]models.SectionQuiz, error) {
	list, err := s.quizzes.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list quizzes")
	}
	return list, nil
}

// DeleteQuiz removes the quiz together with its questions and every stored result.
func (s *Service) DeleteQuiz(ctx context.Context, id uint) error {
	err := s.quizzes.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Quiz not found")
	}
	if err != nil {
		return apperror.Internal(err, "Failed to delete quiz")
	}
	return nil
}

func (s *Service) CreateQuestion(ctx context.Context, in QuestionInput) (*models.QuizQuestion, error) {
	q, err := buildQuestion(in.Content, in.Options)
	if err != nil {
		return nil, err
	}
	if _, err := s.Quiz(ctx, in.QuizID); err != nil {
		return nil, err
	}
	count, err := s.quizzes.CountQuestions(ctx, in.QuizID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to count questions")
	}
	q.QuizID = in.QuizID
	q.Position = int(count)
	if err := s.quizzes.CreateQuestion(ctx, q); err != nil {
		return nil, apperror.Internal(err, "Failed to create question")
	}
	return q, nil
}

// UpdateQuestion rewrites the question text and replaces all of its options.
func (s *Service) UpdateQuestion(ctx context.Context, id uint, content string, options []OptionInput) (*models.QuizQuestion, error) {
	next, err := buildQuestion(content, options)
	if err != nil {
		return nil, err
	}
	current, err := s.question(ctx, id)
	if err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.QuizID = current.QuizID
	next.Position = current.Position
	next.CreatedAt = current.CreatedAt
	if err := s.quizzes.ReplaceQuestion(ctx, next); err != nil {
		return nil, apperror.Internal(err, "Failed to update question")
	}
	return next, nil
}

func (s *Service) DeleteQuestion(ctx context.Context, id uint) error {
	if _, err := s.question(ctx, id); err != nil {
		return err
	}
	if err := s.quizzes.DeleteQuestion(ctx, id); err != nil {
		return apperror.Internal(err, "Failed to delete question")
	}
	return nil
}

func (s *Service) Results(ctx context.Context, userID, sectionID uint) ([]models.SectionQuizResult, error) {
	list, err := s.quizzes.ListResults(ctx, userID, sectionID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to list quiz results")
	}
	return list, nil
}

// Submit grades the answers and overwrites the learner's previous result for the quiz.
func (s *Service) Submit(ctx context.Context, in Submission) (*models.SectionQuizResult, error) {
	if in.UserID == 0 {
		return nil, apperror.Validation("user_id is required")
	}
	quiz, err := s.Quiz(ctx, in.QuizID)
	if err != nil {
		return nil, err
	}
	if in.SectionID != 0 && in.SectionID != quiz.SectionID {
		return nil, apperror.Validation("Quiz does not belong to this section")
	}
	total := len(quiz.Questions)
	if total == 0 {
		return nil, apperror.Validation("quiz has no questions")
	}

	correct := Grade(quiz.Questions, in.Answers)
	percentage := int(math.Round(float64(correct) / float64(total) * 100))

	courseID := in.CourseID
	if courseID == 0 {
		courseID = quiz.CourseID
	}
	res := &models.SectionQuizResult{
		UserID:         in.UserID,
		SectionID:      quiz.SectionID,
		QuizID:         quiz.ID,
		CourseID:       courseID,
		CorrectCount:   correct,
		TotalQuestions: total,
		Percentage:     percentage,
		IsPassed:       percentage >= quiz.PassingPercentage,
	}
	if err := s.quizzes.UpsertResult(ctx, res); err != nil {
		return nil, apperror.Internal(err, "Failed to save quiz result")
	}

	e := events.New(events.QuizGraded, fmt.Sprintf("%d:%d", in.UserID, quiz.ID), res)
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("publish quiz result failed", "quiz_id", quiz.ID, "error", err)
	}
	return res, nil
}

// Grade counts questions whose selected option set equals the correct option set exactly.
// A question without an answer is wrong.
func Grade(questions []models.QuizQuestion, answers []Answer) int {
	byQuestion := make(map[uint][]uint, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a.SelectedOptionIDs
	}

	correct := 0
	for _, q := range questions {
		selected, ok := byQuestion[q.ID]
		if !ok {
			continue
		}
		if sameSet(correctOptions(q), selected) {
			correct++
		}
	}
	return correct
}

func correctOptions(q models.QuizQuestion) map[uint]struct{} {
	set := make(map[uint]struct{}, len(q.Options))
	for _, o := range q.Options {
		if o.IsCorrect {
			set[o.ID] = struct{}{}
		}
	}
	return set
}

func sameSet(want map[uint]struct{}, selected []uint) bool {
	got := make(map[uint]struct{}, len(selected))
	for _, id := range selected {
		got[id] = struct{}{}
	}
	if len(got) != len(want) {
		return false
	}
	for id := range got {
		if _, ok := want[id]; !ok {
			return false
		}
	}
	return true
}

func (s *Service) question(ctx context.Context, id uint) (*models.QuizQuestion, error) {
	q, err := s.quizzes.GetQuestion(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Question not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load question")
	}
	return q, nil
}

func buildQuestion(content string, options []OptionInput) (*models.QuizQuestion, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.Validation("Question content is required")
	}
	if len(options) < 2 {
		return nil, apperror.Validation("A question needs at least two options")
	}
	q := &models.QuizQuestion{Content: content, Options: make([]models.QuizOption, 0, len(options))}
	hasCorrect := false
	for _, o := range options {
		text := strings.TrimSpace(o.Content)
		if text == "" {
			return nil, apperror.Validation("Option content is required")
		}
		hasCorrect = hasCorrect || o.IsCorrect
		q.Options = append(q.Options, models.QuizOption{Content: text, IsCorrect: o.IsCorrect})
	}
	if !hasCorrect {
		return nil, apperror.Validation("A question needs at least one correct option")
	}
	return q, nil
}
