package discussion

import (
	"context"
	"testing"

	"learnhub/apperror"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentFixture struct {
	svc     *CommentService
	lecture *models.Lecture
	learner *models.User
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()
	ctx := context.Background()
	lectures := memory.NewLectures()
	enrollments := memory.NewEnrollments()
	users := memory.NewUsers()

	lecture := &models.Lecture{CourseID: 3, SectionID: 1, Title: "Intro"}
	require.NoError(t, lectures.Create(ctx, lecture))
	learner := &models.User{Name: "Sam", Email: "sam@example.com"}
	require.NoError(t, users.Create(ctx, learner))
	require.NoError(t, enrollments.Create(ctx, &models.UserCourse{UserID: learner.ID, CourseID: 3}))

	return &commentFixture{
		svc:     NewCommentService(memory.NewComments(), lectures, enrollments, users, logger.Nop()),
		lecture: lecture,
		learner: learner,
	}
}

func TestCommentRequiresEnrollment(t *testing.T) {
	ctx := context.Background()
	f := newCommentFixture(t)

	_, err := f.svc.Add(ctx, CommentInput{LectureID: f.lecture.ID, UserID: 99, Content: "hi"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	_, err = f.svc.Add(ctx, CommentInput{LectureID: 404, UserID: f.learner.ID, Content: "hi"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	c, err := f.svc.Add(ctx, CommentInput{LectureID: f.lecture.ID, UserID: f.learner.ID, Content: "hi"})
	require.NoError(t, err)
	assert.Nil(t, c.ParentID)
}

func TestCommentLikes(t *testing.T) {
	ctx := context.Background()
	f := newCommentFixture(t)
	c, err := f.svc.Add(ctx, CommentInput{LectureID: f.lecture.ID, UserID: f.learner.ID, Content: "hi"})
	require.NoError(t, err)

	liked, err := f.svc.Like(ctx, c.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes.Len())

	_, err = f.svc.Like(ctx, c.ID, 7)
	require.Error(t, err)
	assert.Equal(t, "Already liked", apperror.PublicMessage(err))

	unliked, err := f.svc.Unlike(ctx, c.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Likes.Len())
	_, err = f.svc.Unlike(ctx, c.ID, 7)
	require.NoError(t, err)

	_, err = f.svc.Like(ctx, 404, 7)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCommentTreeOrdersByLikes(t *testing.T) {
	ctx := context.Background()
	f := newCommentFixture(t)
	add := func(content string, parent *uint) *models.Comment {
		c, err := f.svc.Add(ctx, CommentInput{LectureID: f.lecture.ID, UserID: f.learner.ID, Content: content, ParentID: parent})
		require.NoError(t, err)
		return c
	}

	quiet := add("quiet", nil)
	popular := add("popular", nil)
	add("reply-a", &quiet.ID)
	replyB := add("reply-b", &quiet.ID)

	for _, u := range []uint{1, 2} {
		_, err := f.svc.Like(ctx, popular.ID, u)
		require.NoError(t, err)
	}
	_, err := f.svc.Like(ctx, replyB.ID, 1)
	require.NoError(t, err)

	tree, err := f.svc.Tree(ctx, f.lecture.ID)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "popular", tree[0].Content)
	assert.Equal(t, 2, tree[0].LikeCount)
	assert.Equal(t, "quiet", tree[1].Content)
	require.Len(t, tree[1].Replies, 2)
	assert.Equal(t, "reply-b", tree[1].Replies[0].Content)
	assert.Equal(t, "reply-a", tree[1].Replies[1].Content)
	require.NotNil(t, tree[0].Author)
	assert.Equal(t, "Sam", tree[0].Author.Name)
}
