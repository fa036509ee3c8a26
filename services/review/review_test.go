package review

import (
	"context"
	"testing"

	"learnhub/apperror"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"
	"learnhub/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc         *Service
	reviews     *memory.Reviews
	courses     *memory.Courses
	users       *memory.Users
	enrollments *memory.Enrollments
}

func newFixture() *fixture {
	f := &fixture{
		reviews:     memory.NewReviews(),
		courses:     memory.NewCourses(),
		users:       memory.NewUsers(),
		enrollments: memory.NewEnrollments(),
	}
	f.svc = NewService(f.reviews, f.courses, f.users, f.enrollments, logger.Nop())
	return f
}

func (f *fixture) enrolled(t *testing.T, name string) (*models.User, *models.Course) {
	t.Helper()
	ctx := context.Background()
	u := &models.User{Name: name, Email: name + "@example.com"}
	require.NoError(t, f.users.Create(ctx, u))
	c := &models.Course{Title: "Go basics"}
	require.NoError(t, f.courses.Create(ctx, c))
	require.NoError(t, f.enrollments.Create(ctx, &models.UserCourse{UserID: u.ID, CourseID: c.ID}))
	return u, c
}

func TestFormDefaultsAndUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	form, err := f.svc.Form(ctx)
	require.NoError(t, err)
	assert.True(t, form.IsActive)
	assert.Empty(t, form.Questions)

	form, err = f.svc.UpdateForm(ctx, []models.ReviewQuestion{
		{ID: "pace", Label: "Pace", Options: []string{"slow", "ok", "fast"}},
		{Label: " Would recommend ", Options: []string{"yes", "no"}},
	})
	require.NoError(t, err)
	require.Len(t, form.Questions, 2)
	assert.Equal(t, "pace", form.Questions[0].ID)
	assert.NotEmpty(t, form.Questions[1].ID)
	assert.Equal(t, "Would recommend", form.Questions[1].Label)

	generated := form.Questions[1].ID
	form, err = f.svc.UpdateForm(ctx, form.Questions)
	require.NoError(t, err)
	assert.Equal(t, generated, form.Questions[1].ID, "ids survive an edit")

	_, err = f.svc.UpdateForm(ctx, nil)
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
	_, err = f.svc.UpdateForm(ctx, []models.ReviewQuestion{{Label: "", Options: []string{"a"}}})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestSubmitUpsertsAndRefreshesRating(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u1, c := f.enrolled(t, "an")
	u2 := &models.User{Name: "binh"}
	require.NoError(t, f.users.Create(ctx, u2))
	require.NoError(t, f.enrollments.Create(ctx, &models.UserCourse{UserID: u2.ID, CourseID: c.ID}))

	first, err := f.svc.Submit(ctx, SubmitInput{CourseID: c.ID, UserID: u1.ID, Rating: 5, Comment: " great "})
	require.NoError(t, err)
	assert.Equal(t, "great", first.Comment)

	_, err = f.svc.Submit(ctx, SubmitInput{CourseID: c.ID, UserID: u2.ID, Rating: 4})
	require.NoError(t, err)

	again, err := f.svc.Submit(ctx, SubmitInput{CourseID: c.ID, UserID: u1.ID, Rating: 2})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "one review per user and course")

	course, err := f.courses.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, course.RatingAverage)
	assert.Equal(t, 2, course.RatingCount)

	mine, err := f.svc.Mine(ctx, c.ID, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, mine.Rating)

	none, err := f.svc.Mine(ctx, c.ID, 404)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSubmitRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u, c := f.enrolled(t, "an")
	outsider := &models.User{Name: "x"}
	require.NoError(t, f.users.Create(ctx, outsider))
	_, err := f.svc.UpdateForm(ctx, []models.ReviewQuestion{{ID: "q1", Label: "Pace", Options: []string{"slow", "fast"}}})
	require.NoError(t, err)

	answer := []models.ReviewAnswer{{QuestionID: "q1", Value: "fast"}}
	tests := []struct {
		name string
		in   SubmitInput
		kind apperror.Kind
	}{
		{"rating too low", SubmitInput{CourseID: c.ID, UserID: u.ID, Rating: 0, Answers: answer}, apperror.KindValidation},
		{"rating too high", SubmitInput{CourseID: c.ID, UserID: u.ID, Rating: 6, Answers: answer}, apperror.KindValidation},
		{"missing ids", SubmitInput{Rating: 3}, apperror.KindBadRequest},
		{"unknown course", SubmitInput{CourseID: 404, UserID: u.ID, Rating: 3, Answers: answer}, apperror.KindNotFound},
		{"not enrolled", SubmitInput{CourseID: c.ID, UserID: outsider.ID, Rating: 3, Answers: answer}, apperror.KindForbidden},
		{"missing answer", SubmitInput{CourseID: c.ID, UserID: u.ID, Rating: 3}, apperror.KindValidation},
		{"answer outside options", SubmitInput{CourseID: c.ID, UserID: u.ID, Rating: 3,
			Answers: []models.ReviewAnswer{{QuestionID: "q1", Value: "medium"}}}, apperror.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Submit(ctx, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}
}

func TestListLabelsAnswers(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u, c := f.enrolled(t, "an")
	_, err := f.svc.UpdateForm(ctx, []models.ReviewQuestion{{ID: "q1", Label: "Pace", Options: []string{"slow", "fast"}}})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, SubmitInput{CourseID: c.ID, UserID: u.ID, Rating: 4,
		Answers: []models.ReviewAnswer{{QuestionID: "q1", Value: "slow"}}})
	require.NoError(t, err)

	page, err := f.svc.List(ctx, 0, repository.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	item := page.Items[0]
	assert.Equal(t, "an", item.User.Name)
	assert.Equal(t, "Go basics", item.Course.Title)
	assert.Equal(t, []LabeledAnswer{{QuestionID: "q1", QuestionLabel: "Pace", Value: "slow"}}, item.Answers)

	page, err = f.svc.List(ctx, 404, repository.Page{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 4.3, RoundRating(13.0/3))
	assert.Equal(t, 4.5, RoundRating(4.45))
	assert.Equal(t, 0.0, RoundRating(0))
}
