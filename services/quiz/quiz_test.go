package quiz

import (
	"context"
	"testing"

	"learnhub/apperror"
	"learnhub/integrations/events"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc       *Service
	repo      *memory.Quizzes
	section   *models.Section
	published *events.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sections := memory.NewSections()
	section := &models.Section{CourseID: 11, Title: "Basics"}
	require.NoError(t, sections.Create(context.Background(), section))
	f := &fixture{repo: memory.NewQuizzes(), section: section, published: &events.Recorder{}}
	f.svc = NewService(f.repo, sections, f.published, logger.Nop())
	return f
}

func (f *fixture) quiz(t *testing.T, passing int) *models.SectionQuiz {
	t.Helper()
	q, err := f.svc.CreateQuiz(context.Background(), QuizInput{SectionID: f.section.ID, Title: "Check", PassingPercentage: &passing})
	require.NoError(t, err)
	return q
}

func (f *fixture) question(t *testing.T, quizID uint, correct ...bool) *models.QuizQuestion {
	t.Helper()
	opts := make([]OptionInput, len(correct))
	for i, c := range correct {
		opts[i] = OptionInput{Content: "option", IsCorrect: c}
	}
	q, err := f.svc.CreateQuestion(context.Background(), QuestionInput{QuizID: quizID, Content: "Which?", Options: opts})
	require.NoError(t, err)
	return q
}

func optionIDs(q *models.QuizQuestion, idx ...int) []uint {
	out := make([]uint, 0, len(idx))
	for _, i := range idx {
		out = append(out, q.Options[i].ID)
	}
	return out
}

func TestCreateQuizDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.CreateQuiz(ctx, QuizInput{SectionID: f.section.ID, Title: "One"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPassingPercentage, first.PassingPercentage)
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, uint(11), first.CourseID)

	second, err := f.svc.CreateQuiz(ctx, QuizInput{SectionID: f.section.ID, Title: "Two"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Position)

	_, err = f.svc.CreateQuiz(ctx, QuizInput{SectionID: 404, Title: "Nope"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestGradeRequiresExactSet(t *testing.T) {
	f := newFixture(t)
	quiz := f.quiz(t, 80)
	multi := f.question(t, quiz.ID, true, false, true)

	tests := []struct {
		name     string
		selected []uint
		want     int
	}{
		{"exact", optionIDs(multi, 0, 2), 1},
		{"exact in other order", optionIDs(multi, 2, 0), 1},
		{"duplicates collapse", optionIDs(multi, 0, 2, 0), 1},
		{"missing one", optionIDs(multi, 0), 0},
		{"extra one", optionIDs(multi, 0, 1, 2), 0},
		{"wrong only", optionIDs(multi, 1), 0},
		{"empty", []uint{}, 0},
	}
	stored, err := f.svc.Quiz(context.Background(), quiz.ID)
	require.NoError(t, err)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(stored.Questions, []Answer{{QuestionID: multi.ID, SelectedOptionIDs: tt.selected}})
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, 0, Grade(stored.Questions, nil), "unanswered question is wrong")
}

func TestSubmitScoresAndOverwrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	quiz := f.quiz(t, 60)
	q1 := f.question(t, quiz.ID, true, false)
	q2 := f.question(t, quiz.ID, false, true)
	q3 := f.question(t, quiz.ID, true, true, false)

	res, err := f.svc.Submit(ctx, Submission{
		QuizID: quiz.ID, UserID: 5, SectionID: f.section.ID,
		Answers: []Answer{
			{QuestionID: q1.ID, SelectedOptionIDs: optionIDs(q1, 0)},
			{QuestionID: q2.ID, SelectedOptionIDs: optionIDs(q2, 0)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.CorrectCount)
	assert.Equal(t, 3, res.TotalQuestions)
	assert.Equal(t, 33, res.Percentage)
	assert.False(t, res.IsPassed)
	assert.Equal(t, uint(11), res.CourseID)
	firstID := res.ID

	res, err = f.svc.Submit(ctx, Submission{
		QuizID: quiz.ID, UserID: 5, SectionID: f.section.ID,
		Answers: []Answer{
			{QuestionID: q1.ID, SelectedOptionIDs: optionIDs(q1, 0)},
			{QuestionID: q2.ID, SelectedOptionIDs: optionIDs(q2, 1)},
			{QuestionID: q3.ID, SelectedOptionIDs: optionIDs(q3, 1)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.CorrectCount)
	assert.Equal(t, 67, res.Percentage)
	assert.True(t, res.IsPassed)
	assert.Equal(t, firstID, res.ID)

	results, err := f.svc.Results(ctx, 5, f.section.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 67, results[0].Percentage)
	assert.Equal(t, []string{events.QuizGraded, events.QuizGraded}, f.published.Types())
}

func TestSubmitEdgeCases(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	empty := f.quiz(t, 80)

	_, err := f.svc.Submit(ctx, Submission{QuizID: empty.ID, UserID: 1})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, "quiz has no questions", apperror.PublicMessage(err))

	_, err = f.svc.Submit(ctx, Submission{QuizID: 404, UserID: 1})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	f.question(t, empty.ID, true, false)
	_, err = f.svc.Submit(ctx, Submission{QuizID: empty.ID, UserID: 1, SectionID: 999})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestQuestionLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	quiz := f.quiz(t, 80)
	q := f.question(t, quiz.ID, true, false)

	updated, err := f.svc.UpdateQuestion(ctx, q.ID, "Rewritten", []OptionInput{
		{Content: "a"}, {Content: "b"}, {Content: "c", IsCorrect: true},
	})
	require.NoError(t, err)
	assert.Equal(t, q.ID, updated.ID)

	stored, err := f.svc.Quiz(ctx, quiz.ID)
	require.NoError(t, err)
	require.Len(t, stored.Questions, 1)
	assert.Equal(t, "Rewritten", stored.Questions[0].Content)
	require.Len(t, stored.Questions[0].Options, 3)
	assert.True(t, stored.Questions[0].Options[2].IsCorrect)

	_, err = f.svc.CreateQuestion(ctx, QuestionInput{QuizID: quiz.ID, Content: "No correct", Options: []OptionInput{{Content: "a"}, {Content: "b"}}})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	require.NoError(t, f.svc.DeleteQuestion(ctx, q.ID))
	assert.True(t, apperror.Is(f.svc.DeleteQuestion(ctx, q.ID), apperror.KindNotFound))

	require.NoError(t, f.svc.DeleteQuiz(ctx, quiz.ID))
	_, err = f.svc.Quiz(ctx, quiz.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
