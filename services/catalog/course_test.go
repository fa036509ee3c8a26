package catalog

import (
	"context"
	"errors"
	"testing"

	"learnhub/apperror"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"
	"learnhub/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	docs    map[uint]string
	removed []uint
	fail    bool
	hits    []uint
}

func (f *fakeIndex) IndexCourse(_ context.Context, c *models.Course) error {
	if f.docs == nil {
		f.docs = map[uint]string{}
	}
	f.docs[c.ID] = c.Title
	return nil
}

func (f *fakeIndex) RemoveCourse(_ context.Context, id uint) error {
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeIndex) SearchCourses(_ context.Context, _ string, _ repository.Page) ([]uint, int64, error) {
	if f.fail {
		return nil, 0, errors.New("cluster unavailable")
	}
	return f.hits, int64(len(f.hits)), nil
}

type courseFixture struct {
	svc     *CourseService
	cats    *CategoryService
	users   *memory.Users
	courses *memory.Courses
	index   *fakeIndex
	root    *models.Category
	leaf    *models.Category
	teacher *models.User
}

func newCourseFixture(t *testing.T) *courseFixture {
	t.Helper()
	ctx := context.Background()
	catRepo := memory.NewCategories()
	users := memory.NewUsers()
	courses := memory.NewCourses()
	index := &fakeIndex{}

	f := &courseFixture{
		svc:     NewCourseService(courses, catRepo, users, index, logger.Nop()),
		cats:    NewCategoryService(catRepo, logger.Nop()),
		users:   users,
		courses: courses,
		index:   index,
	}
	var err error
	f.root, err = f.cats.Create(ctx, CreateCategoryInput{Name: "Development"})
	require.NoError(t, err)
	f.leaf, err = f.cats.Create(ctx, CreateCategoryInput{Name: "Golang", ParentID: uintp(f.root.ID)})
	require.NoError(t, err)

	f.teacher = &models.User{Name: "Ada", Email: "ada@example.com", Role: models.RoleTeacher}
	require.NoError(t, users.Create(ctx, f.teacher))
	return f
}

func TestCourseCreate(t *testing.T) {
	ctx := context.Background()
	f := newCourseFixture(t)

	course, err := f.svc.Create(ctx, CourseInput{Title: "Go in Practice", CategoryID: f.leaf.ID, TeacherID: f.teacher.ID})
	require.NoError(t, err)
	assert.Equal(t, "Ada", course.NameTeacher)
	assert.Equal(t, "Go in Practice", f.index.docs[course.ID])

	tests := []struct {
		name string
		in   CourseInput
		kind apperror.Kind
	}{
		{"non-leaf category", CourseInput{Title: "X", CategoryID: f.root.ID, TeacherID: f.teacher.ID}, apperror.KindValidation},
		{"missing category", CourseInput{Title: "X", CategoryID: 404, TeacherID: f.teacher.ID}, apperror.KindNotFound},
		{"missing teacher", CourseInput{Title: "X", CategoryID: f.leaf.ID, TeacherID: 404}, apperror.KindNotFound},
		{"blank title", CourseInput{Title: " ", CategoryID: f.leaf.ID, TeacherID: f.teacher.ID}, apperror.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.in)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}
}

func TestCourseUpdateRefreshesTeacherName(t *testing.T) {
	ctx := context.Background()
	f := newCourseFixture(t)

	course, err := f.svc.Create(ctx, CourseInput{Title: "Go", CategoryID: f.leaf.ID, TeacherID: f.teacher.ID})
	require.NoError(t, err)

	other := &models.User{Name: "Grace", Email: "grace@example.com", Role: models.RoleTeacher}
	require.NoError(t, f.users.Create(ctx, other))

	updated, err := f.svc.Update(ctx, course.ID, CourseUpdate{TeacherID: &other.ID})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.TeacherID)
	assert.Equal(t, "Grace", updated.NameTeacher)

	view, err := f.svc.Get(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", view.NameTeacher)
	require.NotNil(t, view.Category)
	assert.Equal(t, "Golang", view.Category.Name)
}

func TestCourseDeleteRemovesFromIndex(t *testing.T) {
	ctx := context.Background()
	f := newCourseFixture(t)

	course, err := f.svc.Create(ctx, CourseInput{Title: "Go", CategoryID: f.leaf.ID, TeacherID: f.teacher.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, course.ID))
	assert.Equal(t, []uint{course.ID}, f.index.removed)
	assert.True(t, apperror.Is(f.svc.Delete(ctx, course.ID), apperror.KindNotFound))
}

func TestCourseRelatedSharesRoot(t *testing.T) {
	ctx := context.Background()
	f := newCourseFixture(t)

	sibling, err := f.cats.Create(ctx, CreateCategoryInput{Name: "Rust", ParentID: uintp(f.root.ID)})
	require.NoError(t, err)
	otherRoot, err := f.cats.Create(ctx, CreateCategoryInput{Name: "Cooking"})
	require.NoError(t, err)

	base, _ := f.svc.Create(ctx, CourseInput{Title: "Go", CategoryID: f.leaf.ID, TeacherID: f.teacher.ID})
	rust, _ := f.svc.Create(ctx, CourseInput{Title: "Rust", CategoryID: sibling.ID, TeacherID: f.teacher.ID})
	_, _ = f.svc.Create(ctx, CourseInput{Title: "Pasta", CategoryID: otherRoot.ID, TeacherID: f.teacher.ID})

	related, err := f.svc.Related(ctx, base.ID)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, rust.ID, related[0].ID)
}

func TestCourseSearch(t *testing.T) {
	ctx := context.Background()
	f := newCourseFixture(t)

	a, _ := f.svc.Create(ctx, CourseInput{Title: "Concurrency in Go", CategoryID: f.leaf.ID, TeacherID: f.teacher.ID})
	b, _ := f.svc.Create(ctx, CourseInput{Title: "Testing Go", CategoryID: f.leaf.ID, TeacherID: f.teacher.ID})

	t.Run("index order is kept", func(t *testing.T) {
		f.index.hits = []uint{b.ID, a.ID, 999}
		page, err := f.svc.Search(ctx, "go", repository.Page{Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, page.Courses, 2)
		assert.Equal(t, b.ID, page.Courses[0].ID)
		assert.Equal(t, a.ID, page.Courses[1].ID)
	})

	t.Run("falls back to database", func(t *testing.T) {
		f.index.fail = true
		page, err := f.svc.Search(ctx, "concurrency", repository.Page{Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, page.Courses, 1)
		assert.Equal(t, a.ID, page.Courses[0].ID)
	})
}
